//go:build pi

/*
DESCRIPTION
  pi.go provides the trigger button on a Raspberry Pi GPIO pin.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/rpi"
)

// Presses closer together than this are contact bounce.
const debounce = 300 * time.Millisecond

// initTrigger watches the active low button on pin, sending on ch for each
// press. Presses are dropped while one is still pending. The returned
// function releases the pin.
func initTrigger(pin uint, ch chan<- struct{}, l logging.Logger) (func(), error) {
	err := embd.InitGPIO()
	if err != nil {
		return nil, err
	}
	p, err := embd.NewDigitalPin(int(pin))
	if err != nil {
		embd.CloseGPIO()
		return nil, err
	}
	err = p.SetDirection(embd.In)
	if err == nil {
		err = p.ActiveLow(true)
	}
	if err != nil {
		p.Close()
		embd.CloseGPIO()
		return nil, err
	}

	var (
		mu   sync.Mutex
		last time.Time
	)
	err = p.Watch(embd.EdgeRising, func(embd.DigitalPin) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(last) < debounce {
			return
		}
		last = time.Now()
		select {
		case ch <- struct{}{}:
			l.Debug(pkg+"trigger pressed", "pin", pin)
		default:
		}
	})
	if err != nil {
		p.Close()
		embd.CloseGPIO()
		return nil, err
	}
	l.Info(pkg+"watching trigger button", "pin", pin)

	return func() {
		p.StopWatching()
		p.Close()
		embd.CloseGPIO()
	}, nil
}
