/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate and Update).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:         dl,
		LogLevel:       defaultVerbosity,
		CameraType:     defaultCameraType,
		Width:          defaultWidth,
		Height:         defaultHeight,
		ScreenWidth:    defaultScreenWidth,
		ScreenHeight:   defaultScreenHeight,
		PullInterval:   defaultPullInterval,
		IdleInterval:   defaultIdleInterval,
		SettleDelay:    defaultSettleDelay,
		JoinTimeout:    defaultJoinTimeout,
		FrameTimeout:   defaultFrameTimeout,
		CaptureTimeout: defaultCaptureTimeout,
		WarmupFrames:   defaultWarmupFrames,
		OpenRetries:    defaultOpenRetries,
		RetryBackoff:   defaultRetryBackoff,
		PhotoDir:       defaultPhotoDir,
		ComposedDir:    defaultComposedDir,
		LayoutPath:     defaultLayoutPath,
		TriggerPin:     defaultTriggerPin,
		JPEGQuality:    defaultJPEGQuality,
		ResultTimeout:  defaultResultTimeout,
	}

	got := Config{Logger: dl, LogLevel: defaultVerbosity}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"camera_type":     "dslr",
		"camera_index":    "2",
		"camera_fallback": "true",
		"capture_retries": "2",
		"capture_timeout": "10",
		"composed_dir":    "/out/composed",
		"frame_timeout":   "3",
		"idle_interval":   "20",
		"input_path":      "/var/lib/booth/demo.mjpeg",
		"join_timeout":    "1500",
		"jpeg_quality":    "80",
		"layout_path":     "/etc/booth/layouts.json",
		"logging":         "Error",
		"open_retries":    "3",
		"photo_dir":       "/out",
		"preview_height":  "720",
		"preview_width":   "1280",
		"pull_interval":   "10",
		"result_timeout":  "60",
		"retry_backoff":   "250",
		"screen_size":     "1920x1080",
		"settle_delay":    "300",
		"shutter_sound":   "/usr/share/booth/shutter.wav",
		"suppress":        "true",
		"trigger_pin":     "27",
		"warmup_frames":   "8",
	}

	dl := &dumbLogger{}
	want := Config{
		Logger:         dl,
		CameraType:     CameraDSLR,
		CameraIndex:    2,
		CameraFallback: true,
		CaptureRetries: 2,
		CaptureTimeout: 10 * time.Second,
		ComposedDir:    "/out/composed",
		FrameTimeout:   3 * time.Second,
		IdleInterval:   20 * time.Millisecond,
		InputPath:      "/var/lib/booth/demo.mjpeg",
		JoinTimeout:    1500 * time.Millisecond,
		JPEGQuality:    80,
		LayoutPath:     "/etc/booth/layouts.json",
		LogLevel:       logging.Error,
		OpenRetries:    3,
		PhotoDir:       "/out",
		Height:         720,
		Width:          1280,
		PullInterval:   10 * time.Millisecond,
		ResultTimeout:  time.Minute,
		RetryBackoff:   250 * time.Millisecond,
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		SettleDelay:    300 * time.Millisecond,
		ShutterSound:   "/usr/share/booth/shutter.wav",
		Suppress:       true,
		TriggerPin:     27,
		WarmupFrames:   8,
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    uint
		wantErr bool
	}{
		{in: "1280x800", w: 1280, h: 800},
		{in: " 1920X1080 ", w: 1920, h: 1080},
		{in: "1280", wantErr: true},
		{in: "ax800", wantErr: true},
		{in: "1280x", wantErr: true},
	}

	for i, test := range tests {
		w, h, err := ParseSize(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("did not get expected error for test %d: got %v", i, err)
			continue
		}
		if err != nil {
			continue
		}
		if w != test.w || h != test.h {
			t.Errorf("unexpected size for test %d: got %dx%d, want %dx%d", i, w, h, test.w, test.h)
		}
	}
}

func TestInvalidScreenSizeKeepsPrevious(t *testing.T) {
	c := Config{Logger: &dumbLogger{}, ScreenWidth: 800, ScreenHeight: 480}
	c.Update(map[string]string{KeyScreenSize: "big"})
	if c.ScreenWidth != 800 || c.ScreenHeight != 480 {
		t.Errorf("screen size changed on bad input: got %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
}
