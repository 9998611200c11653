package live

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

// failingCamera fails to open with err.
type failingCamera struct {
	fakeCamera
	err    error
	closed bool
}

func (c *failingCamera) Open(w, h int) (device.Resolution, error) { return device.Resolution{}, c.err }
func (c *failingCamera) Close() error                            { c.closed = true; return nil }

func TestOpenCamera(t *testing.T) {
	defer func(f func(uint8, config.Config) device.Camera) { newCamera = f }(newCamera)

	tests := []struct {
		name     string
		typ      uint8
		fallback bool
		dslrErr  error
		wantName string
		wantErr  error
	}{
		{
			name:     "dslr ok",
			typ:      config.CameraDSLR,
			wantName: "dslr",
		},
		{
			name:     "dslr falls back",
			typ:      config.CameraDSLR,
			fallback: true,
			dslrErr:  device.ErrNotFound,
			wantName: "webcam",
		},
		{
			name:    "dslr without fallback",
			typ:     config.CameraDSLR,
			dslrErr: device.ErrNotFound,
			wantErr: device.ErrNotFound,
		},
		{
			name:     "webcam",
			typ:      config.CameraWebcam,
			fallback: true,
			wantName: "webcam",
		},
	}

	for _, test := range tests {
		var made []uint8
		var dslr *failingCamera
		newCamera = func(typ uint8, c config.Config) device.Camera {
			made = append(made, typ)
			if typ == config.CameraDSLR {
				dslr = &failingCamera{err: test.dslrErr}
				if test.dslrErr == nil {
					return &namedCamera{name: "dslr"}
				}
				return dslr
			}
			return &namedCamera{name: "webcam"}
		}

		cam, res, err := OpenCamera(config.Config{
			Logger:         (*logging.TestLogger)(t),
			CameraType:     test.typ,
			CameraFallback: test.fallback,
			Width:          640,
			Height:         480,
		})
		if !errors.Is(err, test.wantErr) {
			t.Errorf("unexpected error for %q: got %v, want %v", test.name, err, test.wantErr)
			continue
		}
		if err != nil {
			if dslr == nil || !dslr.closed {
				t.Errorf("expected failed camera to be closed for %q", test.name)
			}
			continue
		}
		if cam.Name() != test.wantName {
			t.Errorf("unexpected camera for %q: got %s, want %s (made %v)", test.name, cam.Name(), test.wantName, made)
		}
		if res.Width != 640 || res.Height != 480 {
			t.Errorf("unexpected resolution for %q: %v", test.name, res)
		}
	}
}

// namedCamera is a fakeCamera with a configurable name.
type namedCamera struct {
	fakeCamera
	name string
}

func (c *namedCamera) Name() string { return c.name }

func TestOpenCameraSetError(t *testing.T) {
	defer func(f func(uint8, config.Config) device.Camera) { newCamera = f }(newCamera)

	errBad := errors.New("bad config")
	newCamera = func(uint8, config.Config) device.Camera { return &badSetCamera{err: errBad} }
	_, _, err := OpenCamera(config.Config{Logger: (*logging.TestLogger)(t), CameraType: config.CameraWebcam})
	if !errors.Is(err, errBad) {
		t.Errorf("expected set error, got %v", err)
	}

	newCamera = func(uint8, config.Config) device.Camera {
		return &badSetCamera{err: device.MultiError{fmt.Errorf("width unset")}}
	}
	_, _, err = OpenCamera(config.Config{Logger: (*logging.TestLogger)(t), CameraType: config.CameraWebcam})
	if err != nil {
		t.Errorf("expected MultiError to be logged only, got %v", err)
	}
}

type badSetCamera struct {
	fakeCamera
	err error
}

func (c *badSetCamera) Set(config.Config) error { return c.err }
