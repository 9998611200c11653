/*
DESCRIPTION
  decode.go provides decoding of single JPEG images into the frames used
  throughout the photobooth.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg provides JPEG stream lexing and frame decoding.
package jpeg

import (
	"bytes"
	"fmt"
	stdjpeg "image/jpeg"
	"time"

	"github.com/ausocean/booth/device"
)

// Decode decodes a single JPEG image into a Frame stamped with t. Images
// without huffman tables are decoded using the standard tables.
func Decode(b []byte, t time.Time) (*device.Frame, error) {
	img, err := stdjpeg.Decode(bytes.NewReader(InsertHuffman(b)))
	if err != nil {
		return nil, fmt.Errorf("could not decode jpeg: %w", err)
	}
	return device.NewFrame(img, t), nil
}
