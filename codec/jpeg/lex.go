/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a lexer to extract separate JPEG images from a JPEG stream.
  This could either be a series of discrete JPEG images, or an MJPEG stream
  such as the live view output of a tethered camera.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bufio"
	"errors"
	"io"

	"github.com/ausocean/utils/logging"
)

// JPEG marker codes.
const (
	codeSOI = 0xd8 // Start of image.
	codeEOI = 0xd9 // End of image.
)

// maxFrame bounds the size of a single image so that a stream missing its
// end of image marker cannot grow a frame without limit.
const maxFrame = 32 << 20

// ErrFrameTooLarge is returned when an image exceeds the lexer's size limit.
var ErrFrameTooLarge = errors.New("jpeg: frame too large")

// Lexer splits a stream of concatenated JPEG images into individual images.
type Lexer struct {
	r   *bufio.Reader
	log logging.Logger
}

// NewLexer returns a Lexer reading from src.
func NewLexer(src io.Reader, l logging.Logger) *Lexer {
	return &Lexer{r: bufio.NewReaderSize(src, 64<<10), log: l}
}

// Next returns the next complete image, from its start of image marker up to
// and including the matching end of image marker. Images nested within an
// image, e.g. EXIF thumbnails, are kept as part of the enclosing image. Bytes
// between images are skipped. Next returns io.EOF if the stream ends cleanly
// between images and io.ErrUnexpectedEOF if it ends within one.
func (l *Lexer) Next() ([]byte, error) {
	skipped, err := l.sync()
	if skipped > 0 {
		l.log.Debug("skipped bytes before frame start", "n", skipped)
	}
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 2, 4<<10)
	buf[0], buf[1] = 0xff, codeSOI
	nImg := 1

	var last byte
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		buf = append(buf, b)
		if len(buf) > maxFrame {
			return nil, ErrFrameTooLarge
		}

		if last == 0xff && b == codeSOI {
			nImg++
		}

		if last == 0xff && b == codeEOI {
			nImg--
		}

		if nImg == 0 {
			return buf, nil
		}

		last = b
	}
}

// sync consumes bytes up to and including the next start of image marker,
// returning the number of bytes discarded before it.
func (l *Lexer) sync() (int, error) {
	var n int
	var last byte
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				return n, io.ErrUnexpectedEOF
			}
			return n, err
		}
		if last == 0xff && b == codeSOI {
			return n - 1, nil
		}
		last = b
		n++
	}
}
