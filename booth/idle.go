/*
DESCRIPTION
  idle.go provides the idle screen, shown between sessions with the live
  preview and a prompt to start.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package booth

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ausocean/booth/live"
	"github.com/ausocean/booth/screen"
)

// messageTime is how long a message from an aborted session is shown.
const messageTime = 5 * time.Second

// cameraRetry is the interval between attempts to start a camera that could
// not be opened.
const cameraRetry = 5 * time.Second

type idle struct {
	k        *Kiosk
	message  string
	left     time.Duration
	clock    time.Duration // Drives the prompt's pulse.
	noCamera bool
	retry    time.Duration
}

func newIdle(k *Kiosk) *idle { return &idle{k: k} }

func (s *idle) OnEnter(ctx screen.Context) {
	s.k.Log.Info(pkg + "entering idle screen")
	s.k.Session.Reset()
	s.k.paint.release()
	s.message, s.left, s.clock = "", 0, 0
	if c, ok := ctx.(screen.MainContext); ok && c.Message != "" {
		s.showMessage(c.Message)
	}
	s.startPreview()
}

// startPreview starts the live preview. Without a camera, another attempt is
// made after cameraRetry.
func (s *idle) startPreview() {
	err := s.k.Camera.StartContinuous()
	s.noCamera = errors.Is(err, live.ErrNoCamera)
	s.retry = cameraRetry
	if err != nil {
		s.k.Log.Warning(pkg+"no live preview", "error", err)
	}
}

func (s *idle) showMessage(m string) {
	s.message, s.left = m, messageTime
}

func (s *idle) OnExit() {}

func (s *idle) HandleEvent(e screen.Event, sw screen.SwitchFunc) {
	switch e.Kind {
	case screen.Tap:
		w, _ := s.k.screenSize()
		if s.k.Settings != nil && settingsButton(w).contains(float64(e.X), float64(e.Y)) {
			sw(screen.Settings, screen.SettingsContext{})
			return
		}
		s.start(sw)
	case screen.Trigger:
		s.start(sw)
	case screen.Key:
		switch e.Key {
		case ebiten.KeySpace, ebiten.KeyEnter:
			s.start(sw)
		case ebiten.KeyS:
			if s.k.Settings != nil {
				sw(screen.Settings, screen.SettingsContext{})
			}
		}
	}
}

// start opens layout selection, unless there is no camera to take photos.
func (s *idle) start(sw screen.SwitchFunc) {
	if s.noCamera {
		s.showMessage(msgNoCamera)
		return
	}
	sw(screen.Select, screen.SelectContext{})
}

func (s *idle) Update(dt time.Duration, sw screen.SwitchFunc) {
	s.clock += dt
	if s.left > 0 {
		s.left -= dt
		if s.left <= 0 {
			s.message = ""
		}
	}
	if s.k.reload.Swap(false) && s.k.Reload != nil {
		s.k.Log.Info(pkg + "applying changed settings")
		s.k.Reload()
		s.startPreview()
		return
	}
	if s.noCamera {
		s.retry -= dt
		if s.retry <= 0 {
			s.startPreview()
		}
	}
}

func (s *idle) Draw(dst *ebiten.Image) {
	p := s.k.paint
	p.livePreview(dst, s.k.Camera.Latest())
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	f := w / refWidth

	if s.noCamera {
		p.text(dst, msgNoCamera, 40*f, w/2, h/2, 1, 1, white)
	}

	p.rect(dst, 0, h-160*f, w, 160*f, shade, 0.45)
	pulse := 0.75 + 0.25*sinPulse(s.clock)
	p.text(dst, "Touch to start", 64*f, w/2, h-80*f, 1, pulse, white)

	if s.k.Settings != nil {
		b := settingsButton(w)
		p.rect(dst, b.x, b.y, b.w, b.h, shade, 0.45)
		p.text(dst, "Settings", 24*f, b.x+b.w/2, b.y+b.h/2, 1, 1, white)
	}

	if s.message != "" {
		p.rect(dst, 0, 100*f, w, 90*f, accent, 0.9)
		p.text(dst, s.message, 32*f, w/2, 145*f, 1, 1, white)
	}
}

// settingsButton is the small button in the top right corner of the idle
// screen that opens the settings screen.
func settingsButton(screenW float64) rect {
	f := screenW / refWidth
	return rect{x: screenW - 160*f, y: 20 * f, w: 140 * f, h: 56 * f}
}
