/*
DESCRIPTION
  webcam_test.go tests the webcam Camera using a fake frame source.

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
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

// fakeSource replays a fixed sequence of frame brightnesses.
type fakeSource struct {
	reject  map[device.Resolution]bool
	opens   []device.Resolution
	levels  []uint8
	reads   int
	readErr error
	closed  int
}

func (s *fakeSource) open(index uint, w, h int) (device.Resolution, error) {
	r := device.Resolution{Width: w, Height: h}
	s.opens = append(s.opens, r)
	if s.reject[r] {
		return device.Resolution{}, fmt.Errorf("%w: %v", device.ErrUnsupportedFormat, r)
	}
	return r, nil
}

func (s *fakeSource) read(time.Duration) (*device.Frame, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	lvl := s.levels[len(s.levels)-1]
	if s.reads < len(s.levels) {
		lvl = s.levels[s.reads]
	}
	s.reads++
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	draw.Draw(img, img.Rect, &image.Uniform{color.RGBA{lvl, lvl, lvl, 255}}, image.Point{}, draw.Src)
	return device.NewFrame(img, time.Now()), nil
}

func (s *fakeSource) close() error { s.closed++; return nil }

func newTestWebcam(t *testing.T, src *fakeSource) *Webcam {
	w := New((*logging.TestLogger)(t))
	w.newSource = func() source { return src }
	err := w.Set(config.Config{Width: 640, Height: 480, WarmupFrames: 5, FrameTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error from Set: %v", err)
	}
	return w
}

func TestSetDefaults(t *testing.T) {
	w := New((*logging.TestLogger)(t))
	err := w.Set(config.Config{})
	var me device.MultiError
	if !errors.As(err, &me) {
		t.Fatalf("expected MultiError, got %v", err)
	}
	if len(me) != 4 {
		t.Errorf("unexpected number of errors: got %d, want 4", len(me))
	}
	if w.cfg.Width != defaultWidth || w.cfg.Height != defaultHeight || w.cfg.WarmupFrames != defaultWarmupFrames || w.cfg.FrameTimeout != defaultFrameTimeout {
		t.Errorf("defaults not applied: %+v", w.cfg)
	}
}

func TestOpenFallback(t *testing.T) {
	src := &fakeSource{reject: map[device.Resolution]bool{{Width: 1920, Height: 1080}: true}, levels: []uint8{100}}
	w := newTestWebcam(t, src)

	res, err := w.Open(1920, 1080)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (device.Resolution{Width: defaultWidth, Height: defaultHeight}); res != want {
		t.Errorf("unexpected resolution: got %v, want %v", res, want)
	}
	if len(src.opens) != 2 {
		t.Errorf("unexpected number of open attempts: got %d, want 2", len(src.opens))
	}

	// A second Open is a no-op.
	_, err = w.Open(1920, 1080)
	if err != nil || len(src.opens) != 2 {
		t.Errorf("expected repeated Open to be a no-op: err=%v opens=%d", err, len(src.opens))
	}
}

func TestCaptureSettles(t *testing.T) {
	tests := []struct {
		name      string
		levels    []uint8
		wantReads int
		wantLevel uint8
	}{
		{
			name:      "steady",
			levels:    []uint8{120},
			wantReads: 5,
			wantLevel: 120,
		},
		{
			name:      "brightening",
			levels:    []uint8{10, 40, 80, 110, 130, 140, 150, 150},
			wantReads: 8,
			wantLevel: 150,
		},
		{
			name:      "never settles",
			levels:    []uint8{0, 50, 100, 150, 200, 250, 0, 50, 100, 150, 200, 250, 0, 50, 100, 150},
			wantReads: 15,
			wantLevel: 100,
		},
	}

	for _, test := range tests {
		src := &fakeSource{levels: test.levels}
		w := newTestWebcam(t, src)
		_, err := w.Open(640, 480)
		if err != nil {
			t.Fatalf("could not open: %v", err)
		}

		f, err := w.Capture()
		if err != nil {
			t.Errorf("unexpected error for %q: %v", test.name, err)
			continue
		}
		if src.reads != test.wantReads {
			t.Errorf("unexpected reads for %q: got %d, want %d", test.name, src.reads, test.wantReads)
		}
		if got := f.Image.Pix[0]; got != test.wantLevel {
			t.Errorf("unexpected frame for %q: got level %d, want %d", test.name, got, test.wantLevel)
		}
	}
}

func TestCaptureFatal(t *testing.T) {
	src := &fakeSource{levels: []uint8{1}, readErr: device.ErrStreamEnded}
	w := newTestWebcam(t, src)
	_, err := w.Open(640, 480)
	if err != nil {
		t.Fatalf("could not open: %v", err)
	}
	_, err = w.Capture()
	if !errors.Is(err, device.ErrStreamEnded) {
		t.Errorf("unexpected error: got %v, want %v", err, device.ErrStreamEnded)
	}
	if src.reads != 0 {
		t.Errorf("expected capture to stop at fatal error")
	}
}

func TestCloseIdempotent(t *testing.T) {
	src := &fakeSource{levels: []uint8{1}}
	w := newTestWebcam(t, src)
	if err := w.Close(); err != nil {
		t.Errorf("unexpected error closing unopened webcam: %v", err)
	}
	_, err := w.Open(640, 480)
	if err != nil {
		t.Fatalf("could not open: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := w.Close(); err != nil {
			t.Errorf("unexpected error on close %d: %v", i, err)
		}
	}
	if src.closed != 1 {
		t.Errorf("unexpected closes of source: got %d, want 1", src.closed)
	}
	if _, err := w.ReadPreview(); !errors.Is(err, device.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after close, got %v", err)
	}
}
