/*
DESCRIPTION
  webcam.go provides an implementation of the Camera interface for webcams.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package webcam provides an implementation of Camera for webcams.
//
// By default frames are read as MJPEG through V4L2. Building with the withcv
// tag reads frames through OpenCV instead.
package webcam

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
	"gonum.org/v1/gonum/stat"
)

// Used to indicate package in logging.
const pkg = "webcam: "

// Configuration defaults.
const (
	defaultWidth        = 640
	defaultHeight       = 480
	defaultWarmupFrames = 5
	defaultFrameTimeout = 5 * time.Second
)

// Exposure settling. Warm up continues past the configured frame count while
// mean luminance still changes by more than settleDelta, for at most
// maxWarmupFactor times the configured count.
const (
	settleDelta     = 0.02
	maxWarmupFactor = 3
	lumaStride      = 7
)

// Configuration field errors.
var (
	errBadWidth        = errors.New("width bad or unset, defaulting")
	errBadHeight       = errors.New("height bad or unset, defaulting")
	errBadWarmupFrames = errors.New("warmup frames bad or unset, defaulting")
	errBadFrameTimeout = errors.New("frame timeout bad or unset, defaulting")
)

// source is a backend able to produce decoded frames from a video device.
type source interface {
	open(index uint, width, height int) (device.Resolution, error)
	read(timeout time.Duration) (*device.Frame, error)
	close() error
}

// Webcam is an implementation of the Camera interface for a webcam. Full
// resolution capture reuses the live stream after discarding warm up frames.
type Webcam struct {
	log       logging.Logger
	cfg       config.Config
	newSource func() source
	src       source
	res       device.Resolution
}

// New returns a new Webcam.
func New(l logging.Logger) *Webcam {
	return &Webcam{log: l, newSource: newSource}
}

// Name returns the name of the device.
func (w *Webcam) Name() string {
	return "Webcam"
}

// Set will validate the relevant fields of the given Config struct and assign
// the struct to the Webcam's Config. If fields are not valid, an error is
// added to the MultiError and a default value is used. CameraIndex, Width,
// Height, WarmupFrames and FrameTimeout are considered.
func (w *Webcam) Set(c config.Config) error {
	var errs device.MultiError
	if c.Width == 0 {
		errs = append(errs, errBadWidth)
		c.Width = defaultWidth
	}

	if c.Height == 0 {
		errs = append(errs, errBadHeight)
		c.Height = defaultHeight
	}

	if c.WarmupFrames == 0 {
		errs = append(errs, errBadWarmupFrames)
		c.WarmupFrames = defaultWarmupFrames
	}

	if c.FrameTimeout < time.Second {
		errs = append(errs, errBadFrameTimeout)
		c.FrameTimeout = defaultFrameTimeout
	}
	w.cfg = c
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// Open opens the video device at the configured index requesting the given
// preview size. If the device rejects the size, the default size is tried.
func (w *Webcam) Open(width, height int) (device.Resolution, error) {
	if w.src != nil {
		return w.res, nil
	}

	src := w.newSource()
	res, err := src.open(w.cfg.CameraIndex, width, height)
	if errors.Is(err, device.ErrUnsupportedFormat) && (width != defaultWidth || height != defaultHeight) {
		w.log.Warning(pkg+"requested resolution rejected, using default", "requested", device.Resolution{Width: width, Height: height}, "error", err)
		res, err = src.open(w.cfg.CameraIndex, defaultWidth, defaultHeight)
	}
	if err != nil {
		return device.Resolution{}, fmt.Errorf("could not open webcam %d: %w", w.cfg.CameraIndex, err)
	}

	w.src = src
	w.res = res
	w.log.Info(pkg+"opened", "index", w.cfg.CameraIndex, "resolution", res)
	return res, nil
}

// ReadPreview reads a single frame from the live stream.
func (w *Webcam) ReadPreview() (*device.Frame, error) {
	if w.src == nil {
		return nil, device.ErrNotOpen
	}
	return w.src.read(w.cfg.FrameTimeout)
}

// Capture returns a still from the live stream. Frames are first discarded
// to let auto exposure settle after the pause in streaming.
func (w *Webcam) Capture() (*device.Frame, error) {
	if w.src == nil {
		return nil, device.ErrNotOpen
	}

	min := int(w.cfg.WarmupFrames)
	max := min * maxWarmupFactor

	var (
		last *device.Frame
		prev float64
		err  error
	)
	for i := 0; i < max; i++ {
		var f *device.Frame
		f, err = w.src.read(w.cfg.FrameTimeout)
		if err != nil {
			if device.IsFatal(err) {
				return nil, err
			}
			w.log.Debug(pkg+"warm up read failed", "error", err)
			continue
		}

		luma := meanLuma(f)
		settled := last != nil && math.Abs(luma-prev) <= settleDelta*math.Max(prev, 1)
		last, prev = f, luma
		if i+1 >= min && settled {
			w.log.Debug(pkg+"exposure settled", "frames", i+1, "luma", luma)
			return f, nil
		}
	}
	if last == nil {
		return nil, fmt.Errorf("%w: no frames during warm up: %v", device.ErrCaptureFailed, err)
	}
	w.log.Warning(pkg+"exposure did not settle, using last frame", "frames", max)
	return last, nil
}

// Close releases the video device. It is safe to call more than once.
func (w *Webcam) Close() error {
	if w.src == nil {
		return nil
	}
	err := w.src.close()
	w.src = nil
	if err != nil {
		return fmt.Errorf("could not close webcam: %w", err)
	}
	w.log.Info(pkg + "closed")
	return nil
}

// meanLuma returns the mean Rec. 601 luma of a sample of f's pixels.
func meanLuma(f *device.Frame) float64 {
	pix := f.Image.Pix
	samples := make([]float64, 0, len(pix)/(4*lumaStride)+1)
	for i := 0; i+2 < len(pix); i += 4 * lumaStride {
		samples = append(samples, 0.299*float64(pix[i])+0.587*float64(pix[i+1])+0.114*float64(pix[i+2]))
	}
	if len(samples) == 0 {
		return 0
	}
	return stat.Mean(samples, nil)
}
