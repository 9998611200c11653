/*
DESCRIPTION
  sound.go provides Player, which plays a short clip such as a shutter sound
  without blocking the caller.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sound provides decoding and fire and forget playback of short
// sound effects.
package sound

import (
	"sync"
	"sync/atomic"

	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "sound: "

// output plays a clip to completion.
type output interface {
	play(c *Clip) error
}

// Player plays a single clip. A Player with no clip is silent.
type Player struct {
	log     logging.Logger
	clip    *Clip
	out     output
	playing atomic.Bool
	wg      sync.WaitGroup
}

// New returns a Player for the sound file at path using the first ALSA
// playback device. If path is empty or cannot be decoded the Player is
// silent; sound is never required for the booth to work.
func New(path string, l logging.Logger) *Player {
	p := &Player{log: l, out: &alsaOutput{log: l}}
	if path == "" {
		return p
	}
	c, err := Load(path)
	if err != nil {
		l.Warning(pkg+"could not load sound, continuing without it", "path", path, "error", err)
		return p
	}
	l.Debug(pkg+"loaded sound", "path", path, "rate", c.Rate, "channels", c.Channels, "frames", c.Frames())
	p.clip = c
	return p
}

// Play starts playing the clip in the background. A request made while the
// clip is already playing is dropped.
func (p *Player) Play() {
	if p == nil || p.clip == nil {
		return
	}
	if !p.playing.CompareAndSwap(false, true) {
		p.log.Debug(pkg + "already playing, dropping request")
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.playing.Store(false)
		err := p.out.play(p.clip)
		if err != nil {
			p.log.Warning(pkg+"could not play sound", "error", err)
		}
	}()
}

// Close waits for any playing clip to finish.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
