/*
DESCRIPTION
  countdown.go provides the countdown screen, run before each photo of a
  session.

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
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ausocean/booth/screen"
)

type countdown struct {
	k       *Kiosk
	ctx     screen.ShotContext
	elapsed time.Duration
}

func newCountdown(k *Kiosk) *countdown { return &countdown{k: k} }

func (s *countdown) OnEnter(ctx screen.Context) {
	c, ok := ctx.(screen.ShotContext)
	if !ok {
		s.k.Log.Error(pkg+"countdown entered without shot context", "context", fmt.Sprintf("%T", ctx))
		c = screen.ShotContext{PhotoIndex: 1, TotalPhotos: 1}
	}
	s.ctx = c
	s.elapsed = 0
	s.k.Log.Info(pkg+"starting countdown", "photo", c.PhotoIndex, "of", c.TotalPhotos, "layout", c.Mode, "retry", c.Retry)
}

func (s *countdown) OnExit() {}

// HandleEvent aborts the session on escape.
func (s *countdown) HandleEvent(e screen.Event, sw screen.SwitchFunc) {
	if e.Kind == screen.Key && e.Key == ebiten.KeyEscape {
		s.k.Log.Info(pkg + "session cancelled")
		sw(screen.Main, screen.MainContext{})
	}
}

func (s *countdown) Update(dt time.Duration, sw screen.SwitchFunc) {
	s.elapsed += dt
	if _, _, _, done := phaseAt(s.elapsed); done {
		sw(screen.Capture, s.ctx)
	}
}

func (s *countdown) Draw(dst *ebiten.Image) {
	p := s.k.paint
	p.livePreview(dst, s.k.Camera.Latest())
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	f := w / refWidth

	drawPolaroids(p, dst, s.ctx.Polaroids, w)

	if s.ctx.TotalPhotos > 1 {
		p.text(dst, fmt.Sprintf("Photo %d of %d", s.ctx.PhotoIndex, s.ctx.TotalPhotos), 36*f, w/2, 50*f, 1, 1, white)
	}

	i, alpha, scale, _ := phaseAt(s.elapsed)
	ph := phases[i]
	if ph.name == "flash-cue" {
		// Build towards the capture flash.
		p.rect(dst, 0, 0, w, h, white, 0.6*(1-alpha))
		return
	}
	p.text(dst, ph.text, 220*f, w/2+4*f, h/2+4*f, scale, alpha*0.5, black)
	p.text(dst, ph.text, 220*f, w/2, h/2, scale, alpha, white)
}

// drawPolaroids draws polaroids at rest on a screen w wide.
func drawPolaroids(p *painter, dst *ebiten.Image, ps []screen.Polaroid, w float64) {
	for _, pl := range ps {
		pw, ph, b := polaroidSize(aspectOf(pl), w)
		p.polaroid(dst, pl.Thumb, pose{x: pl.X, y: pl.Y, scale: pl.Scale, angle: pl.Angle}, pw, ph, b)
	}
}

// aspectOf returns the aspect ratio of a polaroid's photo.
func aspectOf(pl screen.Polaroid) float64 {
	if pl.Thumb == nil {
		return 4.0 / 3
	}
	b := pl.Thumb.Bounds()
	if b.Dy() == 0 {
		return 4.0 / 3
	}
	return float64(b.Dx()) / float64(b.Dy())
}
