/*
DESCRIPTION
  session.go provides State, the record of an in progress multi photo shoot.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package session tracks the photos of a single booth session and hands them
// to a composer once the session's layout is filled.
package session

import (
	"errors"
	"fmt"

	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "session: "

var (
	ErrNotActive    = errors.New("no active session")
	ErrComplete     = errors.New("session already complete")
	ErrIncomplete   = errors.New("session incomplete")
	ErrInvalidTotal = errors.New("invalid photo total")
)

// Composer composes the ordered photos of a session into a layout.
type Composer interface {
	Compose(layout string, paths []string) (string, error)
}

// State is an in progress session. It is owned by the UI goroutine and is
// not safe for concurrent use.
type State struct {
	log      logging.Logger
	active   bool
	layout   string
	total    int
	captured []string
	output   string
}

// New returns an inactive State.
func New(l logging.Logger) *State {
	return &State{log: l}
}

// Start begins a new session for layout with total photos, discarding any
// previous session.
func (s *State) Start(layout string, total int) error {
	if total <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}
	s.Reset()
	s.active = true
	s.layout = layout
	s.total = total
	s.log.Info(pkg+"session started", "layout", layout, "photos", total)
	return nil
}

// Add appends the path of a captured photo.
func (s *State) Add(path string) error {
	if !s.active {
		return ErrNotActive
	}
	if s.Complete() {
		return ErrComplete
	}
	s.captured = append(s.captured, path)
	s.log.Debug(pkg+"photo added", "index", len(s.captured), "of", s.total, "path", path)
	return nil
}

// Finalize composes the captured photos once the session is complete. A
// session is composed at most once; later calls return the first output.
func (s *State) Finalize(c Composer) (string, error) {
	switch {
	case !s.active:
		return "", ErrNotActive
	case !s.Complete():
		return "", fmt.Errorf("%w: %d of %d photos", ErrIncomplete, len(s.captured), s.total)
	case s.output != "":
		return s.output, nil
	}
	out, err := c.Compose(s.layout, s.Captured())
	if err != nil {
		return "", fmt.Errorf("could not compose session: %w", err)
	}
	s.output = out
	s.log.Info(pkg+"session finalized", "layout", s.layout, "output", out)
	return out, nil
}

// Reset clears the session.
func (s *State) Reset() {
	if s.active {
		s.log.Debug(pkg+"session reset", "layout", s.layout, "captured", len(s.captured))
	}
	*s = State{log: s.log}
}

// Captured returns a copy of the captured photo paths in capture order.
func (s *State) Captured() []string { return append([]string(nil), s.captured...) }

// Complete reports whether every photo of an active session has been taken.
func (s *State) Complete() bool { return s.active && len(s.captured) == s.total }

// NextIndex returns the 1 based index of the next photo to take.
func (s *State) NextIndex() int { return len(s.captured) + 1 }

func (s *State) Active() bool   { return s.active }
func (s *State) Layout() string { return s.layout }
func (s *State) Total() int     { return s.total }
