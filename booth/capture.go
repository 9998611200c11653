/*
DESCRIPTION
  capture.go provides the capture screen, which takes a photo, flashes and
  drops the photo into the row of the session's photos.

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

	"github.com/ausocean/booth/device"
	"github.com/ausocean/booth/photo"
	"github.com/ausocean/booth/screen"
)

// Animation stages of the capture screen.
const (
	stageFlash = iota
	stageHold
	stageFall
	stageDone
)

type capture struct {
	k   *Kiosk
	ctx screen.ShotContext

	captured bool
	elapsed  time.Duration
	stage    int
	fallT    time.Duration

	still    *device.Frame // Preview frame at the moment of capture.
	polaroid *screen.Polaroid
	size     [3]float64 // Unscaled polaroid width, height and border.
	from, to pose
}

func newCapture(k *Kiosk) *capture { return &capture{k: k} }

func (s *capture) OnEnter(ctx screen.Context) {
	c, ok := ctx.(screen.ShotContext)
	if !ok {
		s.k.Log.Error(pkg+"capture entered without shot context", "context", fmt.Sprintf("%T", ctx))
		c = screen.ShotContext{PhotoIndex: 1, TotalPhotos: 1}
	}
	*s = capture{k: s.k, ctx: c}
}

func (s *capture) OnExit() {}

// HandleEvent aborts the session on escape.
func (s *capture) HandleEvent(e screen.Event, sw screen.SwitchFunc) {
	if e.Kind == screen.Key && e.Key == ebiten.KeyEscape {
		s.k.Log.Info(pkg + "session cancelled")
		sw(screen.Main, screen.MainContext{})
	}
}

func (s *capture) Update(dt time.Duration, sw screen.SwitchFunc) {
	if !s.captured {
		s.captured = true
		if !s.capture(sw) {
			return
		}
		// Animation time starts after the capture, however long it took.
		s.elapsed = 0
		return
	}

	s.elapsed += dt
	switch s.stage {
	case stageFlash:
		if s.elapsed >= flashTime {
			s.stage = stageHold
		}
	case stageHold:
		if s.elapsed >= holdUntil {
			s.stage = stageFall
			s.fallT = 0
			s.startFall()
		}
	case stageFall:
		s.fallT += dt
		t := float64(s.fallT) / float64(fallTime)
		w, _ := s.k.screenSize()
		s.place(fallAt(t, s.from, s.to, tossHeight*w/refWidth))
		if t >= 1 {
			s.place(s.to)
			s.stage = stageDone
			s.finish(sw)
		}
	}
}

// capture takes the high resolution photo, pausing the live preview while
// the camera is in use. It reports whether the screen should continue.
func (s *capture) capture(sw screen.SwitchFunc) bool {
	k := s.k
	s.still = k.Camera.Latest()

	k.Camera.StopContinuous()
	k.sleep(k.Config.SettleDelay)
	if k.Sound != nil {
		k.Sound.Play()
	}
	k.Log.Info(pkg+"taking photo", "photo", s.ctx.PhotoIndex, "of", s.ctx.TotalPhotos)
	f, err := k.Camera.TakePhoto()
	var path string
	if err == nil {
		path, err = photo.Save(k.Config.PhotoDir, "photo", f.Image, k.Config.JPEGQuality, k.now())
	}

	// Always resume the preview, whatever happened above.
	startErr := k.Camera.StartContinuous()
	if startErr != nil {
		k.Log.Warning(pkg+"could not resume live preview", "error", startErr)
	}

	if err != nil {
		s.fail(sw, err)
		return false
	}
	k.Log.Info(pkg+"photo saved", "path", path)

	w, h := k.screenSize()
	pw, ph, b := polaroidSize(float64(f.Width())/float64(f.Height()), w)
	s.size = [3]float64{pw, ph, b}
	s.polaroid = &screen.Polaroid{
		Path:  path,
		Thumb: photo.Thumbnail(f.Image, int(pw-2*b), int(ph-5*b)),
	}
	s.place(pose{x: w / 2, y: h / 2, scale: 1, angle: startTilt})
	return true
}

// fail retries the photo with a new countdown, or ends the session once the
// retries are used up.
func (s *capture) fail(sw screen.SwitchFunc, err error) {
	s.k.Log.Error(pkg+"capture failed", "photo", s.ctx.PhotoIndex, "retry", s.ctx.Retry, "error", err)
	if s.ctx.Retry < int(s.k.Config.CaptureRetries) {
		c := s.ctx
		c.Retry++
		sw(screen.Countdown, c)
		return
	}
	sw(screen.Main, screen.MainContext{Message: msgCaptureFailed})
}

func (s *capture) startFall() {
	w, h := s.k.screenSize()
	x, y, scale := restPosition(s.ctx.PhotoIndex, s.ctx.TotalPhotos, s.size[0], s.size[1], w, h)
	s.from = s.pose()
	s.to = pose{x: x, y: y, scale: scale, angle: s.k.tilt()}
}

// finish records the photo and moves on to the next photo or the result.
func (s *capture) finish(sw screen.SwitchFunc) {
	k := s.k
	err := k.Session.Add(s.polaroid.Path)
	if err != nil {
		k.Log.Error(pkg+"could not add photo to session", "error", err)
		sw(screen.Main, screen.MainContext{Message: msgComposeFailed})
		return
	}
	c := s.ctx.With(*s.polaroid)
	c.Retry = 0
	s.polaroid = nil

	if !k.Session.Complete() {
		c.PhotoIndex = k.Session.NextIndex()
		sw(screen.Countdown, c)
		return
	}

	out, err := k.Session.Finalize(k.Composer)
	if err != nil {
		k.Log.Error(pkg+"could not finalize session", "error", err)
		sw(screen.Main, screen.MainContext{Message: msgComposeFailed})
		return
	}
	sw(screen.Result, screen.ResultContext{ImagePath: out})
}

func (s *capture) place(ps pose) {
	s.polaroid.X, s.polaroid.Y, s.polaroid.Scale, s.polaroid.Angle = ps.x, ps.y, ps.scale, ps.angle
}

func (s *capture) pose() pose {
	return pose{x: s.polaroid.X, y: s.polaroid.Y, scale: s.polaroid.Scale, angle: s.polaroid.Angle}
}

func (s *capture) Draw(dst *ebiten.Image) {
	p := s.k.paint
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	a := flashAlpha(s.elapsed)

	// Hold the captured moment under the flash.
	if s.stage == stageFlash && s.still != nil {
		p.livePreview(dst, s.still)
	} else {
		p.livePreview(dst, s.k.Camera.Latest())
	}
	drawPolaroids(p, dst, s.ctx.Polaroids, w)
	if s.polaroid != nil {
		p.polaroid(dst, s.polaroid.Thumb, s.pose(), s.size[0], s.size[1], s.size[2])
	}
	if !s.captured {
		a = 1
	}
	if a > 0 {
		p.rect(dst, 0, 0, w, h, white, a)
	}
}
