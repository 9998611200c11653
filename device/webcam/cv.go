//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv.go provides the OpenCV backend for the webcam.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"fmt"
	"time"

	"github.com/ausocean/booth/device"
	"gocv.io/x/gocv"
)

type cv struct {
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

func newSource() source { return &cv{} }

func (c *cv) open(index uint, width, height int) (device.Resolution, error) {
	vc, err := gocv.OpenVideoCapture(int(index))
	if err != nil {
		return device.Resolution{}, fmt.Errorf("%w: %v", device.ErrNotFound, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return device.Resolution{}, fmt.Errorf("%w: capture %d not opened", device.ErrNotFound, index)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	w := int(vc.Get(gocv.VideoCaptureFrameWidth))
	h := int(vc.Get(gocv.VideoCaptureFrameHeight))
	if w == 0 || h == 0 {
		vc.Close()
		return device.Resolution{}, fmt.Errorf("%w: %dx%d", device.ErrUnsupportedFormat, width, height)
	}

	c.vc = vc
	c.mat = gocv.NewMat()
	return device.Resolution{Width: w, Height: h}, nil
}

// read ignores timeout; OpenCV reads block until a frame or failure.
func (c *cv) read(timeout time.Duration) (*device.Frame, error) {
	if c.vc == nil {
		return nil, device.ErrNotOpen
	}
	if ok := c.vc.Read(&c.mat); !ok {
		return nil, fmt.Errorf("%w: capture read failed", device.ErrStreamEnded)
	}
	if c.mat.Empty() {
		return nil, fmt.Errorf("%w: empty frame", device.ErrCaptureFailed)
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrCaptureFailed, err)
	}
	return device.NewFrame(img, time.Now()), nil
}

func (c *cv) close() error {
	if c.vc == nil {
		return nil
	}
	c.mat.Close()
	err := c.vc.Close()
	c.vc = nil
	return err
}
