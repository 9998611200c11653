/*
DESCRIPTION
  manager.go provides Manager, which owns the registered screens and routes
  events, updates and drawing to the current one.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package screen

import (
	"fmt"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/hajimehoshi/ebiten/v2"
)

// Used to indicate package in logging.
const pkg = "screen: "

type request struct {
	name string
	ctx  Context
}

// Manager is the screen state machine. It is not safe for concurrent use.
type Manager struct {
	log     logging.Logger
	screens map[string]Screen
	name    string
	current Screen

	// pending holds a transition requested by the current screen; it is
	// applied when the screen's call returns.
	pending *request
}

// NewManager returns an empty Manager.
func NewManager(l logging.Logger) *Manager {
	return &Manager{log: l, screens: make(map[string]Screen)}
}

// Add registers s under name, replacing any screen of that name.
func (m *Manager) Add(name string, s Screen) {
	m.screens[name] = s
}

// SetInitial enters the named screen with ctx.
func (m *Manager) SetInitial(name string, ctx Context) error {
	if _, ok := m.screens[name]; !ok {
		return fmt.Errorf("no screen named %q", name)
	}
	m.SwitchTo(name, ctx)
	return nil
}

// SwitchTo exits the current screen and enters the named screen with ctx.
// An unknown name is logged and ignored.
func (m *Manager) SwitchTo(name string, ctx Context) {
	next, ok := m.screens[name]
	if !ok {
		m.log.Error(pkg+"ignoring switch to unknown screen", "name", name, "current", m.name)
		return
	}
	if m.current != nil {
		m.current.OnExit()
	}
	m.log.Debug(pkg+"switching screen", "from", m.name, "to", name)
	m.name = name
	m.current = next
	next.OnEnter(ctx)
}

// request is the SwitchFunc given to screens.
func (m *Manager) request(name string, ctx Context) {
	m.pending = &request{name: name, ctx: ctx}
}

func (m *Manager) apply() {
	for m.pending != nil {
		r := m.pending
		m.pending = nil
		m.SwitchTo(r.name, r.ctx)
	}
}

// HandleEvent passes e to the current screen.
func (m *Manager) HandleEvent(e Event) {
	if m.current == nil {
		return
	}
	m.current.HandleEvent(e, m.request)
	m.apply()
}

// Update advances the current screen by dt.
func (m *Manager) Update(dt time.Duration) {
	if m.current == nil {
		return
	}
	m.current.Update(dt, m.request)
	m.apply()
}

// Draw draws the current screen to dst.
func (m *Manager) Draw(dst *ebiten.Image) {
	if m.current == nil {
		return
	}
	m.current.Draw(dst)
}

// Current returns the name of the current screen.
func (m *Manager) Current() string { return m.name }

// Exit exits the current screen, leaving the Manager with none.
func (m *Manager) Exit() {
	if m.current == nil {
		return
	}
	m.current.OnExit()
	m.current = nil
	m.name = ""
}
