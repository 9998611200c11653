/*
DESCRIPTION
  select.go provides the layout selection screen, from which a session is
  started.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package booth

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ausocean/booth/layout"
	"github.com/ausocean/booth/screen"
)

type selector struct {
	k       *Kiosk
	layouts []layout.Definition
	sel     int
	idle    time.Duration
}

func newSelect(k *Kiosk) *selector { return &selector{k: k} }

func (s *selector) OnEnter(ctx screen.Context) {
	s.layouts = s.k.Catalog.Layouts()
	s.sel, s.idle = 0, 0
	s.k.Log.Info(pkg+"entering layout selection", "layouts", len(s.layouts))
}

func (s *selector) OnExit() {}

func (s *selector) HandleEvent(e screen.Event, sw screen.SwitchFunc) {
	s.idle = 0
	if len(s.layouts) == 0 {
		sw(screen.Main, screen.MainContext{Message: msgComposeFailed})
		return
	}
	switch e.Kind {
	case screen.Trigger:
		s.confirm(sw)
	case screen.Tap:
		w, h := s.k.screenSize()
		for i, r := range cardRects(len(s.layouts), w, h) {
			if !r.contains(float64(e.X), float64(e.Y)) {
				continue
			}
			if i == s.sel {
				s.confirm(sw)
				return
			}
			s.sel = i
			return
		}
	case screen.Key:
		n := len(s.layouts)
		switch e.Key {
		case ebiten.KeyArrowLeft, ebiten.KeyArrowUp:
			s.sel = (s.sel + n - 1) % n
		case ebiten.KeyArrowRight, ebiten.KeyArrowDown:
			s.sel = (s.sel + 1) % n
		case ebiten.KeyEnter, ebiten.KeySpace:
			s.confirm(sw)
		case ebiten.KeyEscape:
			sw(screen.Main, screen.MainContext{})
		}
	}
}

// confirm starts a session for the selected layout.
func (s *selector) confirm(sw screen.SwitchFunc) {
	d := s.layouts[s.sel]
	err := s.k.Session.Start(d.ID, len(d.Slots))
	if err != nil {
		s.k.Log.Error(pkg+"could not start session", "layout", d.ID, "error", err)
		sw(screen.Main, screen.MainContext{Message: msgComposeFailed})
		return
	}
	sw(screen.Countdown, screen.ShotContext{PhotoIndex: s.k.Session.NextIndex(), TotalPhotos: s.k.Session.Total(), Mode: d.ID})
}

// Update returns to the idle screen if nothing is chosen in time.
func (s *selector) Update(dt time.Duration, sw screen.SwitchFunc) {
	s.idle += dt
	if s.k.Config.ResultTimeout > 0 && s.idle >= s.k.Config.ResultTimeout {
		s.k.Log.Info(pkg + "layout selection timed out")
		sw(screen.Main, screen.MainContext{})
	}
}

func (s *selector) Draw(dst *ebiten.Image) {
	p := s.k.paint
	p.livePreview(dst, s.k.Camera.Latest())
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	f := w / refWidth
	p.rect(dst, 0, 0, w, h, shade, 0.6)
	p.text(dst, "Choose your layout", 56*f, w/2, 90*f, 1, 1, white)

	for i, r := range cardRects(len(s.layouts), w, h) {
		d := s.layouts[i]
		if i == s.sel {
			p.rect(dst, r.x-8*f, r.y-8*f, r.w+16*f, r.h+16*f, accent, 1)
		}
		p.rect(dst, r.x, r.y, r.w, r.h, card, 1)

		// Thumbnail of the canvas with its slots.
		pad := r.w * 0.08
		bw, bh := r.w-2*pad, r.h*0.75-2*pad
		sc := math.Min(bw/float64(d.CanvasWidth), bh/float64(d.CanvasHeight))
		cw, ch := float64(d.CanvasWidth)*sc, float64(d.CanvasHeight)*sc
		cx, cy := r.x+(r.w-cw)/2, r.y+pad+(bh-ch)/2
		p.rect(dst, cx, cy, cw, ch, white, 1)
		for _, sl := range d.Slots {
			p.rect(dst, cx+float64(sl.X)*sc, cy+float64(sl.Y)*sc, float64(sl.Width)*sc, float64(sl.Height)*sc, shade, 0.35)
		}
		p.text(dst, d.Name, 28*f, r.x+r.w/2, r.y+r.h*0.87, 1, 1, caption)
	}
}

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// cardRects lays out n selection cards in a centred row.
func cardRects(n int, screenW, screenH float64) []rect {
	if n == 0 {
		return nil
	}
	f := screenW / refWidth
	gap, margin := 40*f, 60*f
	cw := math.Min(300*f, (screenW-2*margin-float64(n-1)*gap)/float64(n))
	ch := cw * 1.3
	x := (screenW - (float64(n)*cw + float64(n-1)*gap)) / 2
	y := (screenH-ch)/2 + 40*f
	rs := make([]rect, n)
	for i := range rs {
		rs[i] = rect{x: x + float64(i)*(cw+gap), y: y, w: cw, h: ch}
	}
	return rs
}
