/*
DESCRIPTION
  result.go provides the result screen, which shows the composed image of a
  finished session.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package booth

import (
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ausocean/booth/photo"
	"github.com/ausocean/booth/screen"
)

// Result screen actions.
const (
	actionEmail = iota
	actionQR
	actionHome
)

var actionLabels = [...]string{actionEmail: "Email", actionQR: "QR code", actionHome: "Done"}

type result struct {
	k       *Kiosk
	path    string
	img     image.Image
	elapsed time.Duration
}

func newResult(k *Kiosk) *result { return &result{k: k} }

func (s *result) OnEnter(ctx screen.Context) {
	s.path, s.img, s.elapsed = "", nil, 0
	c, ok := ctx.(screen.ResultContext)
	if !ok {
		s.k.Log.Error(pkg+"result entered without result context", "context", fmt.Sprintf("%T", ctx))
		return
	}
	s.path = c.ImagePath
	s.k.Log.Info(pkg+"showing result", "path", c.ImagePath)

	img, err := imaging.Open(c.ImagePath)
	if err != nil {
		s.k.Log.Error(pkg+"could not open composed image", "path", c.ImagePath, "error", err)
		return
	}
	w, h := s.k.screenSize()
	s.img = photo.Thumbnail(img, int(w), int(h))
}

func (s *result) OnExit() { s.img = nil }

// HandleEvent performs the tapped action. Anything other than a tap on the
// email or QR buttons returns to the idle screen.
func (s *result) HandleEvent(e screen.Event, sw screen.SwitchFunc) {
	if e.Kind == screen.Tap {
		w, h := s.k.screenSize()
		for i, r := range actionRects(w, h) {
			if !r.contains(float64(e.X), float64(e.Y)) {
				continue
			}
			switch i {
			case actionEmail:
				s.k.Log.Info(pkg+"email requested, not available", "path", s.path)
				s.elapsed = 0
				return
			case actionQR:
				s.k.Log.Info(pkg+"QR code requested, not available", "path", s.path)
				s.elapsed = 0
				return
			}
		}
	}
	sw(screen.Main, screen.MainContext{})
}

func (s *result) Update(dt time.Duration, sw screen.SwitchFunc) {
	s.elapsed += dt
	if s.k.Config.ResultTimeout > 0 && s.elapsed >= s.k.Config.ResultTimeout {
		s.k.Log.Info(pkg + "result timed out")
		sw(screen.Main, screen.MainContext{})
	}
}

func (s *result) Draw(dst *ebiten.Image) {
	p := s.k.paint
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	f := w / refWidth
	dst.Fill(shade)
	p.image(dst, s.img, w/2, h/2-50*f, w-120*f, h-220*f)
	for i, r := range actionRects(w, h) {
		p.rect(dst, r.x, r.y, r.w, r.h, accent, 1)
		p.text(dst, actionLabels[i], 30*f, r.x+r.w/2, r.y+r.h/2, 1, 1, white)
	}
}

// actionRects lays out the action buttons along the bottom of the screen.
func actionRects(screenW, screenH float64) []rect {
	f := screenW / refWidth
	bw, bh, gap := 220*f, 70*f, 40*f
	n := float64(len(actionLabels))
	x := (screenW - (n*bw + (n-1)*gap)) / 2
	y := screenH - bh - 40*f
	rs := make([]rect, len(actionLabels))
	for i := range rs {
		rs[i] = rect{x: x + float64(i)*(bw+gap), y: y, w: bw, h: bh}
	}
	return rs
}
