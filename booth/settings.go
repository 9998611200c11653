/*
DESCRIPTION
  settings.go provides the settings screen, reached from the idle screen, on
  which the camera source is chosen and saved.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package booth

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/screen"
)

const msgSaveFailed = "Could not save settings."

// cameraSources are the camera types offered on the settings screen.
var cameraSources = []struct{ value, label string }{
	{"webcam", "Webcam"},
	{"dslr", "DSLR"},
}

type settingsScreen struct {
	k       *Kiosk
	sel     int
	idle    time.Duration
	message string
}

func newSettings(k *Kiosk) *settingsScreen { return &settingsScreen{k: k} }

func (s *settingsScreen) OnEnter(ctx screen.Context) {
	s.sel, s.idle, s.message = 0, 0, ""
	cur := s.k.Settings.Get(config.KeyCameraType, cameraSources[0].value)
	for i, src := range cameraSources {
		if src.value == cur {
			s.sel = i
		}
	}
	s.k.Log.Info(pkg+"entering settings", "camera", cur)
}

func (s *settingsScreen) OnExit() {}

func (s *settingsScreen) HandleEvent(e screen.Event, sw screen.SwitchFunc) {
	s.idle = 0
	switch e.Kind {
	case screen.Tap:
		w, _ := s.k.screenSize()
		opts, ok, back := settingsRects(w)
		x, y := float64(e.X), float64(e.Y)
		for i, r := range opts {
			if r.contains(x, y) {
				s.sel = i
				return
			}
		}
		switch {
		case ok.contains(x, y):
			s.apply(sw)
		case back.contains(x, y):
			sw(screen.Main, screen.MainContext{})
		}
	case screen.Key:
		n := len(cameraSources)
		switch e.Key {
		case ebiten.KeyArrowLeft, ebiten.KeyArrowUp:
			s.sel = (s.sel + n - 1) % n
		case ebiten.KeyArrowRight, ebiten.KeyArrowDown:
			s.sel = (s.sel + 1) % n
		case ebiten.KeyEnter:
			s.apply(sw)
		case ebiten.KeyEscape:
			sw(screen.Main, screen.MainContext{})
		}
	}
}

// apply saves the selected camera source and applies it before returning to
// the idle screen. If the settings cannot be saved the screen stays up.
func (s *settingsScreen) apply(sw screen.SwitchFunc) {
	v := cameraSources[s.sel].value
	s.k.Settings.Set(config.KeyCameraType, v)
	err := s.k.Settings.Save()
	if err != nil {
		s.k.Log.Error(pkg+"could not save settings", "error", err)
		s.message = msgSaveFailed
		return
	}
	s.k.Log.Info(pkg+"settings saved", "camera", v)
	if s.k.Reload != nil {
		s.k.Reload()
	}
	sw(screen.Main, screen.MainContext{})
}

// Update returns to the idle screen if left untouched.
func (s *settingsScreen) Update(dt time.Duration, sw screen.SwitchFunc) {
	s.idle += dt
	if s.k.Config.ResultTimeout > 0 && s.idle >= s.k.Config.ResultTimeout {
		s.k.Log.Info(pkg + "settings timed out")
		sw(screen.Main, screen.MainContext{})
	}
}

func (s *settingsScreen) Draw(dst *ebiten.Image) {
	p := s.k.paint
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	f := w / refWidth
	p.rect(dst, 0, 0, w, h, card, 1)
	p.text(dst, "Settings", 56*f, w/2, 90*f, 1, 1, caption)
	p.text(dst, "Camera source", 32*f, w/2, 190*f, 1, 1, caption)

	opts, ok, back := settingsRects(w)
	for i, r := range opts {
		if i == s.sel {
			p.rect(dst, r.x-6*f, r.y-6*f, r.w+12*f, r.h+12*f, accent, 1)
		}
		p.rect(dst, r.x, r.y, r.w, r.h, shade, 0.8)
		p.text(dst, cameraSources[i].label, 32*f, r.x+r.w/2, r.y+r.h/2, 1, 1, white)
	}
	p.rect(dst, ok.x, ok.y, ok.w, ok.h, green, 1)
	p.text(dst, "Save & Apply", 30*f, ok.x+ok.w/2, ok.y+ok.h/2, 1, 1, white)
	p.rect(dst, back.x, back.y, back.w, back.h, red, 1)
	p.text(dst, "Cancel", 30*f, back.x+back.w/2, back.y+back.h/2, 1, 1, white)

	if s.message != "" {
		p.text(dst, s.message, 28*f, w/2, ok.y+ok.h+60*f, 1, 1, red)
	}
}

// settingsRects lays out the camera source options in a centred row, with
// the save and cancel buttons below.
func settingsRects(screenW float64) (opts []rect, ok, back rect) {
	f := screenW / refWidth
	ow, oh, gap := 240*f, 90*f, 40*f
	n := float64(len(cameraSources))
	x := (screenW - (n*ow + (n-1)*gap)) / 2
	opts = make([]rect, len(cameraSources))
	for i := range opts {
		opts[i] = rect{x: x + float64(i)*(ow+gap), y: 240 * f, w: ow, h: oh}
	}

	bw, bh := 260*f, 80*f
	x = (screenW - (2*bw + gap)) / 2
	ok = rect{x: x, y: 420 * f, w: bw, h: bh}
	back = rect{x: x + bw + gap, y: 420 * f, w: bw, h: bh}
	return opts, ok, back
}
