/*
DESCRIPTION
  game.go adapts the screen manager to ebiten's game loop, turning mouse,
  touch, keyboard and trigger button input into screen events.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ausocean/booth/screen"
)

type game struct {
	ctx      context.Context
	m        *screen.Manager
	triggers <-chan struct{}
	w, h     int
	log      logging.Logger

	ready    bool
	watchdog time.Duration // Zero when systemd is not watching.
	pinged   time.Time

	keys    []ebiten.Key
	touches []ebiten.TouchID
}

func newGame(ctx context.Context, m *screen.Manager, triggers <-chan struct{}, w, h int, l logging.Logger) *game {
	g := &game{ctx: ctx, m: m, triggers: triggers, w: w, h: h, log: l}
	wd, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		l.Warning(pkg+"could not check systemd watchdog", "error", err)
	}
	g.watchdog = wd
	return g
}

// Update runs one tick of the kiosk at ebiten's fixed tick rate.
func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	for _, e := range g.events() {
		g.m.HandleEvent(e)
	}
	g.m.Update(time.Second / time.Duration(ebiten.TPS()))
	g.notify()
	return nil
}

func (g *game) Draw(dst *ebiten.Image) { g.m.Draw(dst) }

// Layout keeps the logical screen at the configured size, so screens work
// in the same coordinates whatever the display.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) { return g.w, g.h }

// events collects the input of this tick.
func (g *game) events() []screen.Event {
	var es []screen.Event
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		es = append(es, screen.Event{Kind: screen.Tap, X: x, Y: y})
	}
	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		x, y := ebiten.TouchPosition(id)
		es = append(es, screen.Event{Kind: screen.Tap, X: x, Y: y})
	}
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		es = append(es, screen.Event{Kind: screen.Key, Key: k})
	}
drain:
	for {
		select {
		case <-g.triggers:
			es = append(es, screen.Event{Kind: screen.Trigger})
		default:
			break drain
		}
	}
	return es
}

// notify tells systemd the kiosk is ready after the first tick, and pings
// its watchdog while ticks keep coming.
func (g *game) notify() {
	if !g.ready {
		g.ready = true
		_, err := daemon.SdNotify(false, daemon.SdNotifyReady)
		if err != nil {
			g.log.Warning(pkg+"could not notify systemd", "error", err)
		}
		g.log.Info(pkg + "kiosk ready")
	}
	if g.watchdog == 0 || time.Since(g.pinged) < g.watchdog/2 {
		return
	}
	g.pinged = time.Now()
	daemon.SdNotify(false, daemon.SdNotifyWatchdog)
}
