/*
DESCRIPTION
  photo.go provides persistence of captured stills and composed layouts as
  timestamp named JPEG files.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package photo provides saving of photos to disk and preview thumbnails.
package photo

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ErrPathUnwritable is returned when a photo cannot be written to its
// destination.
var ErrPathUnwritable = errors.New("path unwritable")

// stamp is the timestamp layout used in file names. The fractional part is
// joined with an underscore, e.g. 20240102_150405_123.
const stamp = "20060102_150405.000"

// maxCollisions bounds the suffixes tried when a name is already taken.
const maxCollisions = 100

// Name returns the file name for a photo taken at t, e.g.
// photo_20240102_150405_123.jpg for prefix "photo".
func Name(prefix string, t time.Time) string {
	return prefix + "_" + strings.Replace(t.Format(stamp), ".", "_", 1) + ".jpg"
}

// Save writes img as a JPEG of the given quality into dir, creating dir if
// needed, with a name from Name. If the name is taken a numeric suffix is
// added. The path of the written file is returned.
func Save(dir, prefix string, img image.Image, quality int, t time.Time) (string, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("%w: could not create %s: %v", ErrPathUnwritable, dir, err)
	}

	name := Name(prefix, t)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	for i := 1; errors.Is(err, fs.ErrExist) && i < maxCollisions; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.jpg", strings.TrimSuffix(name, ".jpg"), i))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathUnwritable, err)
	}

	err = imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(quality))
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: could not encode %s: %v", ErrPathUnwritable, path, err)
	}
	err = f.Close()
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: could not close %s: %v", ErrPathUnwritable, path, err)
	}
	return path, nil
}

// Thumbnail returns img scaled down to fit within w by h, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func Thumbnail(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Linear)
}
