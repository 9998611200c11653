/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
)

// Config map Keys. These match the keys of the settings store.
const (
	KeyCameraType     = "camera_type"
	KeyCameraIndex    = "camera_index"
	KeyCameraFallback = "camera_fallback"
	KeyCaptureRetries = "capture_retries"
	KeyCaptureTimeout = "capture_timeout"
	KeyComposedDir    = "composed_dir"
	KeyFrameTimeout   = "frame_timeout"
	KeyHeight         = "preview_height"
	KeyIdleInterval   = "idle_interval"
	KeyInputPath      = "input_path"
	KeyJoinTimeout    = "join_timeout"
	KeyJPEGQuality    = "jpeg_quality"
	KeyLayoutPath     = "layout_path"
	KeyLogging        = "logging"
	KeyOpenRetries    = "open_retries"
	KeyPhotoDir       = "photo_dir"
	KeyPullInterval   = "pull_interval"
	KeyResultTimeout  = "result_timeout"
	KeyRetryBackoff   = "retry_backoff"
	KeyScreenSize     = "screen_size"
	KeySettleDelay    = "settle_delay"
	KeyShutterSound   = "shutter_sound"
	KeySuppress       = "suppress"
	KeyTriggerPin     = "trigger_pin"
	KeyWarmupFrames   = "warmup_frames"
	KeyWidth          = "preview_width"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultCameraType   = CameraWebcam
	defaultVerbosity    = logging.Info
	defaultWidth        = 640
	defaultHeight       = 480
	defaultScreenWidth  = 1280
	defaultScreenHeight = 800

	// Live capture timings.
	defaultPullInterval = 5 * time.Millisecond
	defaultIdleInterval = 50 * time.Millisecond
	defaultSettleDelay  = 500 * time.Millisecond
	defaultJoinTimeout  = 2 * time.Second

	// Device defaults.
	defaultFrameTimeout   = 5 * time.Second
	defaultCaptureTimeout = 30 * time.Second
	defaultWarmupFrames   = 5
	defaultOpenRetries    = 5
	defaultRetryBackoff   = time.Second

	// Session defaults.
	defaultCaptureRetries = 1
	defaultPhotoDir       = "photos"
	defaultComposedDir    = "photos/composed"
	defaultLayoutPath     = "layouts.json"
	defaultTriggerPin     = 17
	defaultJPEGQuality    = 95
	defaultResultTimeout  = 30 * time.Second
)

// Variables describes the variables that can be used for photobooth control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyCameraType,
		Type: "enum:webcam,dslr,file",
		Update: func(c *Config, v string) {
			c.CameraType = parseEnum(
				KeyCameraType,
				v,
				map[string]uint8{
					"webcam": CameraWebcam,
					"dslr":   CameraDSLR,
					"file":   CameraFile,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.CameraType {
			case CameraWebcam, CameraDSLR, CameraFile:
			default:
				c.LogInvalidField(KeyCameraType, defaultCameraType)
				c.CameraType = defaultCameraType
			}
		},
	},
	{
		Name:   KeyCameraIndex,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.CameraIndex = parseUint(KeyCameraIndex, v, c) },
	},
	{
		Name:   KeyCameraFallback,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.CameraFallback = parseBool(KeyCameraFallback, v, c) },
	},
	{
		Name:   KeyCaptureRetries,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.CaptureRetries = parseUint(KeyCaptureRetries, v, c) },
		Validate: func(c *Config) {
			if c.CaptureRetries > 3 {
				c.LogInvalidField(KeyCaptureRetries, defaultCaptureRetries)
				c.CaptureRetries = defaultCaptureRetries
			}
		},
	},
	{
		Name:   KeyCaptureTimeout,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.CaptureTimeout = parseSeconds(KeyCaptureTimeout, v, c) },
		Validate: func(c *Config) {
			c.CaptureTimeout = atLeast(KeyCaptureTimeout, c.CaptureTimeout, time.Second, c, defaultCaptureTimeout)
		},
	},
	{
		Name:   KeyComposedDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.ComposedDir = v },
		Validate: func(c *Config) {
			if c.ComposedDir == "" {
				c.LogInvalidField(KeyComposedDir, defaultComposedDir)
				c.ComposedDir = defaultComposedDir
			}
		},
	},
	{
		Name:   KeyFrameTimeout,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FrameTimeout = parseSeconds(KeyFrameTimeout, v, c) },
		Validate: func(c *Config) {
			c.FrameTimeout = atLeast(KeyFrameTimeout, c.FrameTimeout, time.Second, c, defaultFrameTimeout)
		},
	},
	{
		Name:   KeyHeight,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Height = parseUint(KeyHeight, v, c) },
		Validate: func(c *Config) {
			c.Height = lessThanOrEqual(KeyHeight, c.Height, 0, c, defaultHeight)
		},
	},
	{
		Name:   KeyIdleInterval,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.IdleInterval = parseMillis(KeyIdleInterval, v, c) },
		Validate: func(c *Config) {
			c.IdleInterval = atLeast(KeyIdleInterval, c.IdleInterval, time.Millisecond, c, defaultIdleInterval)
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
		Validate: func(c *Config) {
			if c.CameraType == CameraFile && c.InputPath == "" {
				c.Logger.Warning("input_path unset for file camera, using webcam")
				c.CameraType = CameraWebcam
			}
		},
	},
	{
		Name:   KeyJoinTimeout,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.JoinTimeout = parseMillis(KeyJoinTimeout, v, c) },
		Validate: func(c *Config) {
			c.JoinTimeout = atLeast(KeyJoinTimeout, c.JoinTimeout, time.Millisecond, c, defaultJoinTimeout)
		},
	},
	{
		Name:   KeyJPEGQuality,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.JPEGQuality = parseInt(KeyJPEGQuality, v, c) },
		Validate: func(c *Config) {
			if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
				c.LogInvalidField(KeyJPEGQuality, defaultJPEGQuality)
				c.JPEGQuality = defaultJPEGQuality
			}
		},
	},
	{
		Name:   KeyLayoutPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LayoutPath = v },
		Validate: func(c *Config) {
			if c.LayoutPath == "" {
				c.LogInvalidField(KeyLayoutPath, defaultLayoutPath)
				c.LayoutPath = defaultLayoutPath
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyOpenRetries,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.OpenRetries = parseUint(KeyOpenRetries, v, c) },
		Validate: func(c *Config) {
			c.OpenRetries = lessThanOrEqual(KeyOpenRetries, c.OpenRetries, 0, c, defaultOpenRetries)
		},
	},
	{
		Name:   KeyPhotoDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PhotoDir = v },
		Validate: func(c *Config) {
			if c.PhotoDir == "" {
				c.LogInvalidField(KeyPhotoDir, defaultPhotoDir)
				c.PhotoDir = defaultPhotoDir
			}
		},
	},
	{
		Name:   KeyPullInterval,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.PullInterval = parseMillis(KeyPullInterval, v, c) },
		Validate: func(c *Config) {
			c.PullInterval = atLeast(KeyPullInterval, c.PullInterval, time.Millisecond, c, defaultPullInterval)
		},
	},
	{
		Name:   KeyResultTimeout,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.ResultTimeout = parseSeconds(KeyResultTimeout, v, c) },
		Validate: func(c *Config) {
			c.ResultTimeout = atLeast(KeyResultTimeout, c.ResultTimeout, time.Second, c, defaultResultTimeout)
		},
	},
	{
		Name:   KeyRetryBackoff,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.RetryBackoff = parseMillis(KeyRetryBackoff, v, c) },
		Validate: func(c *Config) {
			c.RetryBackoff = atLeast(KeyRetryBackoff, c.RetryBackoff, time.Millisecond, c, defaultRetryBackoff)
		},
	},
	{
		Name: KeyScreenSize,
		Type: typeString,
		Update: func(c *Config, v string) {
			w, h, err := ParseSize(v)
			if err != nil {
				c.Logger.Warning("invalid screen_size param", "value", v, "error", err)
				return
			}
			c.ScreenWidth, c.ScreenHeight = w, h
		},
		Validate: func(c *Config) {
			if c.ScreenWidth == 0 || c.ScreenHeight == 0 {
				c.LogInvalidField(KeyScreenSize, fmt.Sprintf("%dx%d", defaultScreenWidth, defaultScreenHeight))
				c.ScreenWidth, c.ScreenHeight = defaultScreenWidth, defaultScreenHeight
			}
		},
	},
	{
		Name:   KeySettleDelay,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SettleDelay = parseMillis(KeySettleDelay, v, c) },
		Validate: func(c *Config) {
			c.SettleDelay = atLeast(KeySettleDelay, c.SettleDelay, time.Millisecond, c, defaultSettleDelay)
		},
	},
	{
		Name:   KeyShutterSound,
		Type:   typeString,
		Update: func(c *Config, v string) { c.ShutterSound = v },
	},
	{
		Name:   KeySuppress,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Suppress = parseBool(KeySuppress, v, c) },
	},
	{
		Name:   KeyTriggerPin,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.TriggerPin = parseUint(KeyTriggerPin, v, c) },
		Validate: func(c *Config) {
			c.TriggerPin = lessThanOrEqual(KeyTriggerPin, c.TriggerPin, 0, c, defaultTriggerPin)
		},
	},
	{
		Name:   KeyWarmupFrames,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.WarmupFrames = parseUint(KeyWarmupFrames, v, c) },
		Validate: func(c *Config) {
			c.WarmupFrames = lessThanOrEqual(KeyWarmupFrames, c.WarmupFrames, 0, c, defaultWarmupFrames)
		},
	},
	{
		Name:   KeyWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Width = parseUint(KeyWidth, v, c) },
		Validate: func(c *Config) {
			c.Width = lessThanOrEqual(KeyWidth, c.Width, 0, c, defaultWidth)
		},
	},
}

// ParseSize parses a size of the form "<width>x<height>", e.g. "1280x800".
func ParseSize(s string) (w, h uint, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("size %q not of form WxH", s)
	}
	_w, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad width: %w", err)
	}
	_h, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad height: %w", err)
	}
	return uint(_w), uint(_h), nil
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseInt(n, v string, c *Config) int {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected integer for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

// parseMillis parses v as a whole number of milliseconds.
func parseMillis(n, v string, c *Config) time.Duration {
	return time.Duration(parseUint(n, v, c)) * time.Millisecond
}

// parseSeconds parses v as a whole number of seconds.
func parseSeconds(n, v string, c *Config) time.Duration {
	return time.Duration(parseUint(n, v, c)) * time.Second
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func atLeast(n string, v, min time.Duration, c *Config, def time.Duration) time.Duration {
	if v < min {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
