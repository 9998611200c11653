/*
DESCRIPTION
  file_test.go tests the Replay Camera.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package file

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

// writeMJPEG writes frames of the given widths to a file, returning its path.
func writeMJPEG(t *testing.T, widths ...int) string {
	var buf bytes.Buffer
	for _, w := range widths {
		err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, 8)), &jpeg.Options{Quality: 80})
		if err != nil {
			t.Fatalf("could not encode frame: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "input.mjpeg")
	err := os.WriteFile(path, buf.Bytes(), 0o644)
	if err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	return path
}

func TestReplayLoops(t *testing.T) {
	path := writeMJPEG(t, 8, 16, 24)
	d := New((*logging.TestLogger)(t))
	err := d.Set(config.Config{InputPath: path})
	if err != nil {
		t.Fatalf("could not set device: %v", err)
	}

	res, err := d.Open(640, 480)
	if err != nil {
		t.Fatalf("could not open device: %v", err)
	}
	if res.Width != 8 || res.Height != 8 {
		t.Errorf("unexpected resolution: got %v", res)
	}

	// The first frame was consumed by Open.
	want := []int{16, 24, 8, 16, 24, 8}
	for i, w := range want {
		f, err := d.ReadPreview()
		if err != nil {
			t.Fatalf("unexpected error on read %d: %v", i, err)
		}
		if f.Width() != w {
			t.Errorf("unexpected frame width on read %d: got %d, want %d", i, f.Width(), w)
		}
	}

	for i := 0; i < 2; i++ {
		if err := d.Close(); err != nil {
			t.Errorf("unexpected error on close %d: %v", i, err)
		}
	}
	if _, err := d.Capture(); !errors.Is(err, device.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after close, got %v", err)
	}
}

func TestReplayMissing(t *testing.T) {
	d := NewWith((*logging.TestLogger)(t), filepath.Join(t.TempDir(), "missing.mjpeg"))
	_, err := d.Open(640, 480)
	if !errors.Is(err, device.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := d.Set(config.Config{}); err == nil {
		t.Error("expected error for unset input path")
	}
}
