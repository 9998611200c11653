/*
DESCRIPTION
  photobooth runs the photobooth kiosk: a live camera preview on a touch
  screen from which guests start a session of timed photos that are composed
  into a printable layout.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package photobooth is the photobooth kiosk program.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/booth/booth"
	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/layout"
	"github.com/ausocean/booth/live"
	"github.com/ausocean/booth/screen"
	"github.com/ausocean/booth/session"
	"github.com/ausocean/booth/sound"
)

// Current software version.
const version = "v0.3.0"

// Logging configuration.
const (
	logPath      = "/var/log/photobooth/photobooth.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

// Misc constants.
const (
	pkg         = "photobooth: "
	windowTitle = "Photobooth"
)

func main() {
	var (
		showVersion  = flag.Bool("version", false, "show version")
		settingsPath = flag.String("settings", "settings.json", "path of the settings file")
		logFile      = flag.String("log", logPath, "path of the log file")
		windowed     = flag.Bool("windowed", false, "run in a window rather than full screen")
	)
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting photobooth", "version", version)

	settings := config.NewSettings(*settingsPath)
	err := settings.Load()
	if err != nil {
		log.Error(pkg+"could not load settings, using defaults", "path", *settingsPath, "error", err)
	}
	cfg := loadConfig(settings, log)

	// A camera that does not open is retried from the idle screen.
	a := &app{log: log, settings: settings, cfg: cfg, source: live.NewSource(cfg)}
	err = a.source.Open()
	if err != nil {
		log.Error(pkg+"could not open camera", "error", err)
	}

	catalog := layout.LoadOrDefault(cfg.LayoutPath, log)
	shutter := sound.New(cfg.ShutterSound, log)
	a.kiosk = &booth.Kiosk{
		Camera:   a.source,
		Session:  session.New(log),
		Composer: layout.NewComposer(catalog, cfg.ComposedDir, cfg.JPEGQuality, log),
		Catalog:  catalog,
		Sound:    shutter,
		Config:   cfg,
		Log:      log,
		Settings: settings,
		Reload:   a.reload,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		err := config.Watch(ctx, settings.Path(), log, a.kiosk.RequestReload)
		if err != nil {
			log.Warning(pkg+"not watching settings", "error", err)
		}
	}()

	triggers := make(chan struct{}, 1)
	closeTrigger, err := initTrigger(cfg.TriggerPin, triggers, log)
	if err != nil {
		log.Warning(pkg+"no trigger button", "pin", cfg.TriggerPin, "error", err)
	}

	m := screen.NewManager(log)
	booth.Register(m, a.kiosk)
	err = m.SetInitial(screen.Main, screen.MainContext{})
	if err != nil {
		log.Fatal(pkg+"could not enter idle screen", "error", err)
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(int(cfg.ScreenWidth), int(cfg.ScreenHeight))
	ebiten.SetFullscreen(!*windowed)
	ebiten.SetCursorMode(cursorMode(*windowed))

	g := newGame(ctx, m, triggers, int(cfg.ScreenWidth), int(cfg.ScreenHeight), log)
	err = ebiten.RunGame(g)
	if err != nil {
		log.Error(pkg+"game loop failed", "error", err)
	}

	log.Info("shutting down")
	daemon.SdNotify(false, daemon.SdNotifyStopping)
	m.Exit()
	if closeTrigger != nil {
		closeTrigger()
	}
	a.source.ShutDown()
	shutter.Close()
	log.Info("photobooth stopped")
}

func cursorMode(windowed bool) ebiten.CursorModeType {
	if windowed {
		return ebiten.CursorModeVisible
	}
	return ebiten.CursorModeHidden
}

// loadConfig builds a validated config from the settings.
func loadConfig(s *config.Settings, l logging.Logger) config.Config {
	c := config.Config{Logger: l}
	c.Update(s.Vars())
	err := c.Validate()
	if err != nil {
		l.Error(pkg+"invalid config", "error", err)
	}
	l.SetLevel(c.LogLevel)
	return c
}

// app holds what changes when settings are reloaded.
type app struct {
	log      logging.Logger
	settings *config.Settings
	cfg      config.Config
	source   *live.Source
	kiosk    *booth.Kiosk
}

// reload applies changed settings. It is called from the idle and settings
// screens, so no session is using the camera. A camera that cannot be opened
// leaves the kiosk without one until the idle screen's next attempt.
func (a *app) reload() {
	err := a.settings.Load()
	if err != nil {
		a.log.Error(pkg+"could not reload settings", "error", err)
		return
	}
	c := loadConfig(a.settings, a.log)
	if c.ScreenWidth != a.cfg.ScreenWidth || c.ScreenHeight != a.cfg.ScreenHeight {
		a.log.Warning(pkg + "screen size changes apply after restart")
		c.ScreenWidth, c.ScreenHeight = a.cfg.ScreenWidth, a.cfg.ScreenHeight
	}

	err = a.source.Reconfigure(c)
	if err != nil {
		a.log.Error(pkg+"could not apply camera settings", "error", err)
	}
	a.cfg = c
	a.kiosk.Config = c
}
