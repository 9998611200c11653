/*
DESCRIPTION
  config.go provides Config, the set of tunables for the photobooth kiosk:
  camera selection, capture timings, output locations and logging.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the photobooth.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
)

// Enums to define camera variants.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	CameraWebcam
	CameraDSLR
	CameraFile
)

// Config provides parameters relevant to a photobooth instance. Values are
// normally populated from the settings store using Update, followed by a call
// to Validate which defaults anything bad or unset.
type Config struct {
	// CameraType selects the camera variant.
	//
	// Valid values are defined by enums:
	// CameraWebcam:
	//		Read MJPEG from a V4L2 webcam selected by CameraIndex.
	// CameraDSLR:
	//		Drive a tethered DSLR with gphoto2.
	// CameraFile:
	//		Replay an MJPEG file. InputPath must be defined.
	CameraType uint8

	// CameraIndex is the index of the video device used by the webcam variant,
	// i.e. /dev/video<CameraIndex>.
	CameraIndex uint

	// CameraFallback, if true, causes a failed DSLR initialisation to fall back
	// to the webcam variant.
	CameraFallback bool

	// InputPath defines the MJPEG file replayed by the CameraFile variant.
	InputPath string

	Width  uint // Width is the requested live preview width.
	Height uint // Height is the requested live preview height.

	ScreenWidth  uint // Width of the kiosk window.
	ScreenHeight uint // Height of the kiosk window.

	// PullInterval is the sleep between preview reads while streaming.
	PullInterval time.Duration

	// IdleInterval is the sleep between checks of the pulling flag while the
	// live capture worker is paused.
	IdleInterval time.Duration

	// SettleDelay is the pause between stopping the preview stream and taking a
	// full resolution still.
	SettleDelay time.Duration

	// JoinTimeout bounds how long shutdown waits for the capture worker.
	JoinTimeout time.Duration

	FrameTimeout   time.Duration // Webcam wait for a single frame.
	CaptureTimeout time.Duration // DSLR full resolution capture timeout.

	// WarmupFrames is the minimum number of frames a webcam discards before
	// returning a still, letting auto exposure settle.
	WarmupFrames uint

	OpenRetries  uint          // Attempts made to open a busy DSLR.
	RetryBackoff time.Duration // Sleep between DSLR open attempts.

	// CaptureRetries is the number of times a failed photo is re-attempted
	// with a fresh countdown before the session is aborted.
	CaptureRetries uint

	PhotoDir     string // Directory for captured stills.
	ComposedDir  string // Directory for composed layouts.
	LayoutPath   string // Path of the layout catalog.
	ShutterSound string // Path of the WAV or FLAC shutter sound; empty is silent.

	// TriggerPin is the GPIO pin of the physical trigger button.
	TriggerPin uint

	// JPEGQuality is a value 1-100 inclusive, controlling compression of saved
	// stills and composed layouts.
	JPEGQuality int

	// ResultTimeout is the time the result screen waits for interaction before
	// returning to idle.
	ResultTimeout time.Duration

	// Logger holds an implementation of the Logger interface.
	// This must be set for the photobooth to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	Suppress bool // Holds logger suppression state.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
