/*
DESCRIPTION
  file.go provides an implementation of the Camera interface that replays an
  MJPEG file, for running the photobooth without camera hardware.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an implementation of Camera for MJPEG files.
package file

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/ausocean/booth/codec/jpeg"
	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

var errNoPath = errors.New("input path unset")

// Replay is an implementation of the Camera interface for a file containing
// concatenated JPEG images. Reading past the end of the file loops back to
// its start. Capture returns the next frame, as there is no higher
// resolution source.
type Replay struct {
	f     *os.File
	lexer *jpeg.Lexer
	path  string
	log   logging.Logger
	mu    sync.Mutex
	res   device.Resolution
}

// New returns a new Replay.
func New(l logging.Logger) *Replay { return &Replay{log: l} }

// NewWith returns a new Replay with required params provided i.e. the Set
// method does not need to be called.
func NewWith(l logging.Logger, path string) *Replay {
	return &Replay{log: l, path: path}
}

// Name returns the name of the device.
func (r *Replay) Name() string {
	return "File"
}

// Set takes the file path from the InputPath field of c.
func (r *Replay) Set(c config.Config) error {
	if c.InputPath == "" {
		return device.MultiError{errNoPath}
	}
	r.path = c.InputPath
	return nil
}

// Open opens the file and reads the first frame to determine its size.
func (r *Replay) Open(width, height int) (device.Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f != nil {
		return r.res, nil
	}
	if r.path == "" {
		return device.Resolution{}, fmt.Errorf("%w: %v", device.ErrNotFound, errNoPath)
	}

	var err error
	r.f, err = os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return device.Resolution{}, fmt.Errorf("%w: %s", device.ErrNotFound, r.path)
	}
	if err != nil {
		return device.Resolution{}, fmt.Errorf("could not open media file: %w", err)
	}
	r.lexer = jpeg.NewLexer(r.f, r.log)

	f, err := r.next()
	if err != nil {
		r.f.Close()
		r.f = nil
		return device.Resolution{}, err
	}
	r.res = f.Resolution()
	return r.res, nil
}

// ReadPreview returns the next frame of the file.
func (r *Replay) ReadPreview() (*device.Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil, device.ErrNotOpen
	}
	return r.next()
}

// Capture returns the next frame of the file.
func (r *Replay) Capture() (*device.Frame, error) {
	return r.ReadPreview()
}

// next lexes and decodes the next frame, seeking to the start of the file
// once at its end.
func (r *Replay) next() (*device.Frame, error) {
	b, err := r.lexer.Next()
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.log.Debug("looping input file")
		_, err = r.f.Seek(0, io.SeekStart)
		if err != nil {
			return nil, fmt.Errorf("%w: could not seek to start of file for input loop: %v", device.ErrStreamEnded, err)
		}
		r.lexer = jpeg.NewLexer(r.f, r.log)
		b, err = r.lexer.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrStreamEnded, err)
	}

	f, err := jpeg.Decode(b, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrCaptureFailed, err)
	}
	return f, nil
}

// Close closes the file. It is safe to call more than once.
func (r *Replay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	r.lexer = nil
	return err
}
