/*
DESCRIPTION
  source.go provides Source, which opens the configured camera on demand and
  delegates to a Handler for it, so that a missing or lost camera leaves the
  kiosk running without a preview rather than stopping it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package live

import (
	"errors"
	"fmt"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

// ErrNoCamera is returned by a Source while it has no open camera.
var ErrNoCamera = errors.New("no camera")

// Source owns the Handler for the configured camera. Until a camera opens,
// StartContinuous tries to open it and reports ErrNoCamera on failure. A
// handler whose preview stream has ended is replaced the same way.
//
// Source is not safe for concurrent use, apart from Latest.
type Source struct {
	log  logging.Logger
	cfg  config.Config
	h    *Handler
	shut bool

	open func(config.Config) (device.Camera, device.Resolution, error)
}

// NewSource returns a Source for the camera selected by c. No camera is
// opened until Open or StartContinuous is called.
func NewSource(c config.Config) *Source {
	return &Source{log: c.Logger, cfg: c, open: OpenCamera}
}

// Open opens the configured camera if none is open, or if the open camera's
// stream has ended.
func (s *Source) Open() error {
	if s.shut {
		return ErrShutDown
	}
	if s.h != nil && !s.h.Lost() {
		return nil
	}
	if s.h != nil {
		s.log.Warning(pkg+"camera lost, reopening", "camera", s.h.Name())
		s.h.ShutDown()
		s.h = nil
	}

	cam, res, err := s.open(s.cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCamera, err)
	}
	s.log.Info(pkg+"camera open", "camera", cam.Name(), "resolution", res)
	s.h = New(cam, s.cfg)
	return nil
}

// StartContinuous opens the camera if needed and starts preview reads.
func (s *Source) StartContinuous() error {
	err := s.Open()
	if err != nil {
		return err
	}
	return s.h.StartContinuous()
}

// StopContinuous stops preview reads. It does nothing without a camera.
func (s *Source) StopContinuous() {
	if s.h != nil {
		s.h.StopContinuous()
	}
}

// Latest returns the latest preview frame, or nil without a camera.
func (s *Source) Latest() *device.Frame {
	if s.h == nil {
		return nil
	}
	return s.h.Latest()
}

// TakePhoto captures a still. It returns ErrNoCamera without a camera.
func (s *Source) TakePhoto() (*device.Frame, error) {
	if s.h == nil {
		return nil, ErrNoCamera
	}
	return s.h.TakePhoto()
}

// Reconfigure closes the camera and opens it again with c. If that fails the
// previous config is restored and reopened, and the first error returned. If
// neither opens, the source keeps c and is left without a camera, to be
// opened by a later StartContinuous. An unchanged config with an open camera
// is left alone.
func (s *Source) Reconfigure(c config.Config) error {
	if s.shut {
		return ErrShutDown
	}
	if s.h != nil && !s.h.Lost() && c == s.cfg {
		s.log.Debug(pkg + "camera config unchanged")
		return nil
	}

	prev := s.cfg
	s.close()
	s.cfg = c
	err := s.Open()
	if err == nil {
		return nil
	}
	if prev == c {
		return err
	}

	s.log.Error(pkg+"could not open camera with new settings, restoring", "error", err)
	s.cfg = prev
	rerr := s.Open()
	if rerr != nil {
		s.log.Error(pkg+"could not reopen camera, will retry", "error", rerr)
		s.cfg = c
	}
	return err
}

// ShutDown shuts down the handler, if any. The source cannot be used again.
func (s *Source) ShutDown() {
	s.close()
	s.shut = true
}

func (s *Source) close() {
	if s.h != nil {
		s.h.ShutDown()
		s.h = nil
	}
}
