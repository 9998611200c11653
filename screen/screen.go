/*
DESCRIPTION
  screen.go defines the Screen interface implemented by each kiosk screen, the
  events delivered to screens and the context passed between them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package screen provides the kiosk's screen state machine. Screens request
// transitions by name through a SwitchFunc and never reference each other.
package screen

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screen names.
const (
	Main      = "main"
	Select    = "select"
	Countdown = "countdown"
	Capture   = "capture"
	Result    = "result"
	Settings  = "settings"
)

// SwitchFunc requests a transition to the named screen, which is entered
// with ctx.
type SwitchFunc func(name string, ctx Context)

// Screen is a single state of the kiosk UI. All methods are called from the
// render goroutine.
type Screen interface {
	HandleEvent(e Event, sw SwitchFunc)
	Update(dt time.Duration, sw SwitchFunc)
	Draw(dst *ebiten.Image)
	OnEnter(ctx Context)
	OnExit()
}

// EventKind is the kind of an Event.
type EventKind int

const (
	Tap     EventKind = iota + 1 // Touch or mouse press.
	Key                          // Keyboard press.
	Trigger                      // Physical trigger button.
)

// Event is a user input delivered to the current screen.
type Event struct {
	Kind EventKind
	X, Y int        // Position of a Tap.
	Key  ebiten.Key // Key pressed for a Key event.
}

// Context is the data handed to a screen as it is entered. Implementations
// are the concrete context types of this package.
type Context interface {
	isContext()
}

// MainContext enters the idle screen. Message, if set, is shown to the user
// for a short time, typically after an aborted session.
type MainContext struct {
	Message string
}

// SelectContext enters the layout selection screen.
type SelectContext struct{}

// SettingsContext enters the settings screen.
type SettingsContext struct{}

// ShotContext carries a session between the countdown and capture screens.
type ShotContext struct {
	PhotoIndex  int    // 1 based index of the photo being taken.
	TotalPhotos int    // Photos in the session.
	Mode        string // Layout id.

	// Polaroids are the photos already taken in this session, so they remain
	// on screen while later photos are taken.
	Polaroids []Polaroid

	// Retry counts failed attempts at the current photo.
	Retry int
}

// ResultContext enters the result screen with the composed image.
type ResultContext struct {
	ImagePath string
}

func (MainContext) isContext()     {}
func (SelectContext) isContext()   {}
func (SettingsContext) isContext() {}
func (ShotContext) isContext()     {}
func (ResultContext) isContext()   {}

// Polaroid is a captured photo as shown at rest in the row of shots.
type Polaroid struct {
	Path  string      // Saved full resolution photo.
	Thumb image.Image // Screen sized copy.
	X, Y  float64     // Centre on screen.
	Scale float64
	Angle float64 // Degrees.
}

// With returns a copy of c with p appended to its polaroids. The polaroid
// slice of c is not modified.
func (c ShotContext) With(p Polaroid) ShotContext {
	c.Polaroids = append(append([]Polaroid(nil), c.Polaroids...), p)
	return c
}
