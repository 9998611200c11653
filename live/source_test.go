/*
DESCRIPTION
  source_test.go tests opening, reopening and reconfiguring cameras through
  a Source.

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
	"testing"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
)

// opener opens fake cameras for the configs whose CameraIndex is marked
// available.
type opener struct {
	available map[uint]bool
	opened    []uint
	cams      []*fakeCamera
	readErr   error
}

func (o *opener) open(c config.Config) (device.Camera, device.Resolution, error) {
	o.opened = append(o.opened, c.CameraIndex)
	if !o.available[c.CameraIndex] {
		return nil, device.Resolution{}, device.ErrNotFound
	}
	cam := &fakeCamera{readErr: o.readErr}
	o.cams = append(o.cams, cam)
	return cam, device.Resolution{Width: 4, Height: 3}, nil
}

func newTestSource(t *testing.T, o *opener, index uint) *Source {
	c := testConfig(t)
	c.CameraIndex = index
	s := NewSource(c)
	s.open = o.open
	return s
}

func TestSourceNoCamera(t *testing.T) {
	o := &opener{available: map[uint]bool{}}
	s := newTestSource(t, o, 0)
	defer s.ShutDown()

	err := s.StartContinuous()
	if !errors.Is(err, ErrNoCamera) {
		t.Fatalf("unexpected error without camera: got %v, want %v", err, ErrNoCamera)
	}
	s.StopContinuous()
	if s.Latest() != nil {
		t.Error("expected no frame without camera")
	}
	_, err = s.TakePhoto()
	if !errors.Is(err, ErrNoCamera) {
		t.Errorf("unexpected error from TakePhoto: got %v, want %v", err, ErrNoCamera)
	}

	// The camera is plugged in; the next start opens it.
	o.available[0] = true
	err = s.StartContinuous()
	if err != nil {
		t.Fatalf("could not start once camera available: %v", err)
	}
	waitFor(t, "first frame", func() bool { return s.Latest() != nil })
	if len(o.opened) != 2 {
		t.Errorf("unexpected opens: %v", o.opened)
	}

	// Starting again does not reopen.
	err = s.StartContinuous()
	if err != nil || len(o.opened) != 2 {
		t.Errorf("unexpected reopen: err %v, opens %v", err, o.opened)
	}
}

func TestSourceReopensLost(t *testing.T) {
	o := &opener{available: map[uint]bool{0: true}, readErr: device.ErrDisconnected}
	s := newTestSource(t, o, 0)
	defer s.ShutDown()

	err := s.StartContinuous()
	if err != nil {
		t.Fatalf("could not start: %v", err)
	}
	waitFor(t, "camera lost", func() bool { return s.h.Lost() })

	o.readErr = nil
	err = s.StartContinuous()
	if err != nil {
		t.Fatalf("could not restart: %v", err)
	}
	if len(o.cams) != 2 {
		t.Fatalf("expected camera to be reopened, opens %v", o.opened)
	}
	if o.cams[0].closes.Load() != 1 {
		t.Error("lost camera not closed")
	}
	waitFor(t, "frame from reopened camera", func() bool { return s.Latest() != nil })
}

func TestSourceReconfigure(t *testing.T) {
	tests := []struct {
		name      string
		available map[uint]bool
		to        uint
		wantErr   error
		wantIndex uint
		wantOpen  bool
		wantOpens []uint
	}{
		{
			name:      "new camera opens",
			available: map[uint]bool{0: true, 1: true},
			to:        1,
			wantIndex: 1,
			wantOpen:  true,
			wantOpens: []uint{0, 1},
		},
		{
			name:      "previous restored",
			available: map[uint]bool{0: true},
			to:        1,
			wantErr:   ErrNoCamera,
			wantIndex: 0,
			wantOpen:  true,
			wantOpens: []uint{0, 1, 0},
		},
		{
			name:      "unchanged",
			available: map[uint]bool{0: true},
			to:        0,
			wantIndex: 0,
			wantOpen:  true,
			wantOpens: []uint{0},
		},
	}

	for _, test := range tests {
		o := &opener{available: test.available}
		s := newTestSource(t, o, 0)
		err := s.Open()
		if err != nil {
			t.Fatalf("%s: could not open: %v", test.name, err)
		}

		c := s.cfg
		c.CameraIndex = test.to
		err = s.Reconfigure(c)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: unexpected error: got %v, want %v", test.name, err, test.wantErr)
		}
		if s.cfg.CameraIndex != test.wantIndex {
			t.Errorf("%s: unexpected config: got camera %d, want %d", test.name, s.cfg.CameraIndex, test.wantIndex)
		}
		if (s.h != nil) != test.wantOpen {
			t.Errorf("%s: unexpected open state: got %t, want %t", test.name, s.h != nil, test.wantOpen)
		}
		if len(o.opened) != len(test.wantOpens) {
			t.Errorf("%s: unexpected opens: got %v, want %v", test.name, o.opened, test.wantOpens)
		} else {
			for i := range o.opened {
				if o.opened[i] != test.wantOpens[i] {
					t.Errorf("%s: unexpected opens: got %v, want %v", test.name, o.opened, test.wantOpens)
					break
				}
			}
		}
		s.ShutDown()
	}
}

func TestSourceReconfigureNoCamera(t *testing.T) {
	o := &opener{available: map[uint]bool{0: true}}
	s := newTestSource(t, o, 0)
	defer s.ShutDown()
	err := s.Open()
	if err != nil {
		t.Fatalf("could not open: %v", err)
	}

	// The camera is unplugged while settings change.
	o.available[0] = false
	c := s.cfg
	c.CameraIndex = 1
	err = s.Reconfigure(c)
	if !errors.Is(err, ErrNoCamera) {
		t.Fatalf("unexpected error: got %v, want %v", err, ErrNoCamera)
	}
	if s.h != nil || s.cfg.CameraIndex != 1 {
		t.Fatalf("expected source without camera keeping new config, got camera %d", s.cfg.CameraIndex)
	}
	if o.cams[0].closes.Load() != 1 {
		t.Error("old camera not closed")
	}

	// The new camera turns up later.
	o.available[1] = true
	err = s.StartContinuous()
	if err != nil {
		t.Fatalf("could not start once camera available: %v", err)
	}
}

func TestSourceShutDown(t *testing.T) {
	o := &opener{available: map[uint]bool{0: true}}
	s := newTestSource(t, o, 0)
	err := s.StartContinuous()
	if err != nil {
		t.Fatalf("could not start: %v", err)
	}
	s.ShutDown()
	s.ShutDown()

	if o.cams[0].closes.Load() != 1 {
		t.Errorf("unexpected closes: %d", o.cams[0].closes.Load())
	}
	err = s.StartContinuous()
	if !errors.Is(err, ErrShutDown) {
		t.Errorf("unexpected error after shut down: got %v, want %v", err, ErrShutDown)
	}
	err = s.Reconfigure(s.cfg)
	if !errors.Is(err, ErrShutDown) {
		t.Errorf("unexpected error from reconfigure after shut down: got %v, want %v", err, ErrShutDown)
	}
}
