//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  v4l.go provides the V4L2 MJPEG backend for the webcam.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ausocean/booth/codec/jpeg"
	"github.com/ausocean/booth/device"
	"github.com/blackjack/webcam"
)

const formatMJPEG = webcam.PixelFormat(uint32('M') | uint32('J')<<8 | uint32('P')<<16 | uint32('G')<<24)

// Few buffers keep the frame we read close to the live scene.
const bufferCount = 2

type v4l struct {
	cam *webcam.Webcam
}

func newSource() source { return &v4l{} }

func (v *v4l) open(index uint, width, height int) (device.Resolution, error) {
	path := fmt.Sprintf("/dev/video%d", index)
	cam, err := webcam.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return device.Resolution{}, fmt.Errorf("%w: %s", device.ErrNotFound, path)
		}
		return device.Resolution{}, fmt.Errorf("%w: %s: %v", device.ErrDisconnected, path, err)
	}

	if _, ok := cam.GetSupportedFormats()[formatMJPEG]; !ok {
		cam.Close()
		return device.Resolution{}, fmt.Errorf("%w: %s does not support MJPEG", device.ErrUnsupportedFormat, path)
	}

	_, w, h, err := cam.SetImageFormat(formatMJPEG, uint32(width), uint32(height))
	if err != nil {
		cam.Close()
		return device.Resolution{}, fmt.Errorf("%w: %dx%d: %v", device.ErrUnsupportedFormat, width, height, err)
	}

	err = cam.SetBufferCount(bufferCount)
	if err != nil {
		cam.Close()
		return device.Resolution{}, fmt.Errorf("could not set buffer count: %w", err)
	}

	err = cam.StartStreaming()
	if err != nil {
		cam.Close()
		return device.Resolution{}, fmt.Errorf("%w: could not start streaming: %v", device.ErrDisconnected, err)
	}

	v.cam = cam
	return device.Resolution{Width: int(w), Height: int(h)}, nil
}

func (v *v4l) read(timeout time.Duration) (*device.Frame, error) {
	if v.cam == nil {
		return nil, device.ErrNotOpen
	}

	secs := uint32(timeout / time.Second)
	if secs == 0 {
		secs = 1
	}
	err := v.cam.WaitForFrame(secs)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		return nil, device.ErrTimeout
	default:
		return nil, fmt.Errorf("%w: %v", device.ErrStreamEnded, err)
	}

	buf, idx, err := v.cam.GetFrame()
	if err != nil {
		return nil, fmt.Errorf("%w: could not get frame: %v", device.ErrCaptureFailed, err)
	}
	b := make([]byte, len(buf))
	copy(b, buf)
	err = v.cam.ReleaseFrame(idx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not release frame: %v", device.ErrStreamEnded, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty frame", device.ErrCaptureFailed)
	}

	f, err := jpeg.Decode(b, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrCaptureFailed, err)
	}
	return f, nil
}

func (v *v4l) close() error {
	if v.cam == nil {
		return nil
	}
	cam := v.cam
	v.cam = nil
	cam.StopStreaming()
	return cam.Close()
}
