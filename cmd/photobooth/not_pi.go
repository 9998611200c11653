//go:build !pi

/*
DESCRIPTION
  not_pi.go lets photobooth build on non-RPi environments, without a trigger
  button.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"github.com/ausocean/utils/logging"
)

func initTrigger(pin uint, ch chan<- struct{}, l logging.Logger) (func(), error) {
	l.Info(pkg + "no trigger button on this platform, use the screen or keyboard")
	return nil, nil
}
