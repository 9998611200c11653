/*
DESCRIPTION
  kiosk.go provides Kiosk, the set of collaborators shared by the booth's
  screens, and Register, which adds the screens to a screen.Manager.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package booth provides the screens of the photobooth kiosk: the idle
// screen, layout selection, the countdown and capture of each photo, and
// the result of a session.
package booth

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/booth/layout"
	"github.com/ausocean/booth/screen"
	"github.com/ausocean/booth/session"
)

// Used to indicate package in logging.
const pkg = "booth: "

// Messages shown on the idle screen.
const (
	msgCaptureFailed = "Sorry, the camera couldn't take your photo. Please try again."
	msgComposeFailed = "Sorry, something went wrong with your photos. Please try again."
	msgNoCamera      = "The camera isn't available right now."
)

// Camera is the live capture handler as used by the screens.
type Camera interface {
	StartContinuous() error
	StopContinuous()
	Latest() *device.Frame
	TakePhoto() (*device.Frame, error)
}

// Sound plays a short effect without blocking.
type Sound interface {
	Play()
}

// Kiosk holds what the screens share. It is built once at startup and owned
// by the render goroutine.
type Kiosk struct {
	Camera   Camera
	Session  *session.State
	Composer session.Composer
	Catalog  *layout.Catalog
	Sound    Sound // Optional shutter sound.
	Config   config.Config
	Log      logging.Logger

	// Settings, if set, is the store edited by the settings screen.
	Settings *config.Settings

	// Reload, if set, applies changed settings while no session is running.
	// It is called by the idle screen after RequestReload and by the
	// settings screen after saving.
	Reload func()

	reload atomic.Bool
	paint  *painter

	// Test hooks.
	sleep func(time.Duration)
	now   func() time.Time
	tilt  func() float64
}

// RequestReload asks for Reload to be called the next time the idle screen
// is updated. It is safe to call from any goroutine.
func (k *Kiosk) RequestReload() { k.reload.Store(true) }

// Register adds the booth's screens to m under their screen names.
func Register(m *screen.Manager, k *Kiosk) {
	if k.sleep == nil {
		k.sleep = time.Sleep
	}
	if k.now == nil {
		k.now = time.Now
	}
	if k.tilt == nil {
		k.tilt = func() float64 { return rand.Float64()*2*maxTilt - maxTilt }
	}
	k.paint = newPainter(k.Log)
	m.Add(screen.Main, newIdle(k))
	m.Add(screen.Select, newSelect(k))
	m.Add(screen.Countdown, newCountdown(k))
	m.Add(screen.Capture, newCapture(k))
	m.Add(screen.Result, newResult(k))
	if k.Settings != nil {
		m.Add(screen.Settings, newSettings(k))
	}
}

func (k *Kiosk) screenSize() (float64, float64) {
	return float64(k.Config.ScreenWidth), float64(k.Config.ScreenHeight)
}
