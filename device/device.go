/*
DESCRIPTION
  device.go provides Camera, an interface that describes a configurable
  camera that can be opened, from which preview frames and full resolution
  stills may be obtained.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for cameras
// from which live preview frames and full resolution stills can be obtained.
package device

import (
	"fmt"

	"github.com/ausocean/booth/config"
)

// Camera describes a configurable camera. All I/O methods block. A Camera is
// not safe for concurrent use; callers must ensure only one goroutine calls
// into it at a time.
type Camera interface {
	// Name returns the name of the Camera.
	Name() string

	// Set allows for configuration of the Camera using a Config struct. All,
	// some or none of the fields of the Config struct may be used for configuration
	// by an implementation. An implementation should specify what fields are
	// considered.
	Set(c config.Config) error

	// Open initialises the hardware, requesting a preview of the given size.
	// The resolution actually in use is returned.
	Open(width, height int) (Resolution, error)

	// ReadPreview returns one low resolution preview frame. It is safe to call
	// repeatedly in a tight loop. An error for which IsFatal returns true means
	// streaming has ended and the caller should stop reading.
	ReadPreview() (*Frame, error)

	// Capture returns a full resolution still. It is slow, taking hundreds of
	// milliseconds up to a few seconds.
	Capture() (*Frame, error)

	// Close releases the hardware. Close is idempotent and may be called on a
	// Camera that was never opened.
	Close() error
}

// PreviewChecker is implemented by cameras that have preconditions for live
// preview, e.g. a DSLR that cannot stream while configured for RAW output.
type PreviewChecker interface {
	CheckPreview() error
}

// Resolution is a frame size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

// MultiError implements the built in error interface. MultiError is used here
// to collect multi errors during validation of configuration parameters for
// Cameras.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}
