/*
DESCRIPTION
  dslr.go provides an implementation of the Camera interface for a DSLR
  tethered over USB and driven by the gphoto2 command line tool.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dslr provides an implementation of Camera for tethered DSLRs.
//
// Live view is read as an MJPEG stream from a long running
// "gphoto2 --capture-movie --stdout" process. Stills are taken with
// "gphoto2 --capture-image-and-download --stdout" after the live view
// process has been stopped, as the camera permits only one client.
package dslr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/ausocean/booth/codec/jpeg"
	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "dslr: "

const gphoto2 = "gphoto2"

// Configuration defaults.
const (
	defaultOpenRetries    = 5
	defaultRetryBackoff   = time.Second
	defaultCaptureTimeout = 30 * time.Second
)

// Misc constants.
const (
	commandTimeout = 15 * time.Second
	previewWidth   = 640
	previewHeight  = 480
	targetRAM      = "0"

	// competing matches the desktop volume monitor which claims cameras as
	// soon as they are plugged in.
	competing = "gvfs.*gphoto2"
)

// Configuration field errors.
var (
	errBadOpenRetries    = errors.New("open retries bad or unset, defaulting")
	errBadRetryBackoff   = errors.New("retry backoff bad or unset, defaulting")
	errBadCaptureTimeout = errors.New("capture timeout bad or unset, defaulting")
)

// Output fragments reported by gphoto2 and libgphoto2.
var (
	busyMarkers = []string{
		"Could not claim the USB device",
		"-53",
	}
	missingMarkers = []string{
		"Unknown model",
		"-105",
		"No camera found",
		"-52", // Could not find the requested device on the USB port.
	}
)

// commander runs external programs.
type commander interface {
	// run runs the named program to completion.
	run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

	// stream starts the named program, returning its standard output. Closing
	// the returned ReadCloser kills the program.
	stream(name string, args ...string) (io.ReadCloser, error)
}

// DSLR is an implementation of the Camera interface for a tethered DSLR.
type DSLR struct {
	log   logging.Logger
	cfg   config.Config
	cmd   commander
	sleep func(time.Duration)

	open   bool
	raw    bool
	target string // Capture target in use before Open, restored on Close.
	res    device.Resolution

	live  io.ReadCloser
	lexer *jpeg.Lexer
}

// New returns a new DSLR.
func New(l logging.Logger) *DSLR {
	return &DSLR{log: l, cmd: execCommander{}, sleep: time.Sleep}
}

// Name returns the name of the device.
func (d *DSLR) Name() string {
	return "DSLR"
}

// Set will validate the relevant fields of the given Config struct and assign
// the struct to the DSLR's Config. If fields are not valid, an error is
// added to the MultiError and a default value is used. OpenRetries,
// RetryBackoff and CaptureTimeout are considered.
func (d *DSLR) Set(c config.Config) error {
	var errs device.MultiError
	if c.OpenRetries == 0 {
		errs = append(errs, errBadOpenRetries)
		c.OpenRetries = defaultOpenRetries
	}

	if c.RetryBackoff <= 0 {
		errs = append(errs, errBadRetryBackoff)
		c.RetryBackoff = defaultRetryBackoff
	}

	if c.CaptureTimeout <= 0 {
		errs = append(errs, errBadCaptureTimeout)
		c.CaptureTimeout = defaultCaptureTimeout
	}
	d.cfg = c
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// Open detects the camera and prepares it for tethered use. A camera held by
// another process is retried, killing competing processes between attempts.
// The requested size is ignored; live view size is fixed by the camera.
func (d *DSLR) Open(width, height int) (device.Resolution, error) {
	if d.open {
		return d.res, nil
	}

	for attempt := 1; ; attempt++ {
		err := d.detect()
		if err == nil {
			break
		}
		if !device.IsRetryable(err) || attempt >= int(d.cfg.OpenRetries) {
			return device.Resolution{}, fmt.Errorf("could not open camera after %d attempts: %w", attempt, err)
		}
		d.log.Warning(pkg+"camera busy, killing competing processes", "attempt", attempt, "error", err)
		d.recover()
		d.sleep(d.cfg.RetryBackoff * time.Duration(attempt))
	}

	d.configure()
	d.open = true
	d.res = device.Resolution{Width: previewWidth, Height: previewHeight}
	d.log.Info(pkg+"opened", "raw", d.raw, "target", d.target)
	return d.res, nil
}

// detect queries the camera summary, classifying any failure.
func (d *DSLR) detect() error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	stdout, stderr, err := d.cmd.run(ctx, gphoto2, "--summary")
	return classify(ctx, stdout, stderr, err)
}

// recover kills processes known to claim the camera. pkill exits non-zero
// when nothing matched, so failures are only logged.
func (d *DSLR) recover() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	_, _, err := d.cmd.run(ctx, "pkill", "-f", competing)
	if err != nil {
		d.log.Debug(pkg+"pkill matched nothing or failed", "error", err)
	}
}

// configure stores captures in camera RAM, disables auto power off and
// records whether the camera is set to RAW output. Failures are logged only.
func (d *DSLR) configure() {
	target, err := d.getConfig("capturetarget")
	if err != nil {
		d.log.Warning(pkg+"could not read capture target", "error", err)
	}
	d.target = target

	err = d.setConfig("capturetarget", targetRAM)
	if err != nil {
		d.log.Warning(pkg+"could not set capture target", "error", err)
	}

	err = d.setConfig("autopoweroff", "0")
	if err != nil {
		d.log.Warning(pkg+"could not disable auto power off", "error", err)
	}

	format, err := d.getConfig("imageformat")
	if err != nil {
		d.log.Warning(pkg+"could not read image format", "error", err)
	}
	d.raw = strings.Contains(strings.ToLower(format), "raw")
}

func (d *DSLR) getConfig(name string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	stdout, stderr, err := d.cmd.run(ctx, gphoto2, "--get-config", name)
	err = classify(ctx, stdout, stderr, err)
	if err != nil {
		return "", err
	}
	return current(string(stdout)), nil
}

func (d *DSLR) setConfig(name, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	stdout, stderr, err := d.cmd.run(ctx, gphoto2, "--set-config", name+"="+value)
	return classify(ctx, stdout, stderr, err)
}

// CheckPreview returns an error if the camera cannot provide live view.
func (d *DSLR) CheckPreview() error {
	if !d.open {
		return device.ErrNotOpen
	}
	if d.raw {
		return fmt.Errorf("%w: image format is RAW", device.ErrUnsupportedFormat)
	}
	return nil
}

// ReadPreview returns the next live view frame, starting live view if it is
// not running. If the live view process ends, ErrStreamEnded is returned and
// the next call restarts it.
func (d *DSLR) ReadPreview() (*device.Frame, error) {
	if !d.open {
		return nil, device.ErrNotOpen
	}
	if d.live == nil {
		err := d.startLive()
		if err != nil {
			return nil, err
		}
	}

	b, err := d.lexer.Next()
	if err != nil {
		d.stopLive()
		return nil, fmt.Errorf("%w: %v", device.ErrStreamEnded, err)
	}
	f, err := jpeg.Decode(b, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrCaptureFailed, err)
	}
	return f, nil
}

func (d *DSLR) startLive() error {
	out, err := d.cmd.stream(gphoto2, "--capture-movie", "--stdout")
	if err != nil {
		return fmt.Errorf("%w: could not start live view: %v", device.ErrDisconnected, err)
	}
	d.live = out
	d.lexer = jpeg.NewLexer(out, d.log)
	d.log.Debug(pkg + "live view started")
	return nil
}

func (d *DSLR) stopLive() {
	if d.live == nil {
		return
	}
	err := d.live.Close()
	if err != nil {
		d.log.Debug(pkg+"live view exited", "error", err)
	}
	d.live = nil
	d.lexer = nil
	d.log.Debug(pkg + "live view stopped")
}

// Capture stops live view and takes a full resolution still.
func (d *DSLR) Capture() (*device.Frame, error) {
	if !d.open {
		return nil, device.ErrNotOpen
	}
	d.stopLive()

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.CaptureTimeout)
	defer cancel()
	start := time.Now()
	stdout, stderr, err := d.cmd.run(ctx, gphoto2, "--capture-image-and-download", "--stdout")
	err = classify(ctx, stdout, stderr, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrCaptureFailed, err)
	}

	f, err := jpeg.Decode(stdout, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrCaptureFailed, err)
	}
	d.log.Info(pkg+"captured still", "resolution", f.Resolution(), "took", time.Since(start))
	return f, nil
}

// Close stops live view and restores the capture target. It is safe to call
// more than once.
func (d *DSLR) Close() error {
	if !d.open {
		return nil
	}
	d.stopLive()
	if d.target != "" {
		err := d.setConfig("capturetarget", d.target)
		if err != nil {
			d.log.Warning(pkg+"could not restore capture target", "error", err)
		}
	}
	d.open = false
	d.log.Info(pkg + "closed")
	return nil
}

// classify maps the outcome of a gphoto2 invocation to a device error.
func classify(ctx context.Context, stdout, stderr []byte, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", device.ErrNotFound, err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return device.ErrTimeout
	}

	msg := string(stderr) + string(stdout)
	switch {
	case containsAny(msg, busyMarkers):
		return fmt.Errorf("%w: %s", device.ErrBusy, firstLine(msg))
	case containsAny(msg, missingMarkers):
		return fmt.Errorf("%w: %s", device.ErrNotFound, firstLine(msg))
	}
	return fmt.Errorf("%w: %v: %s", device.ErrDisconnected, err, firstLine(msg))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// current returns the value of the "Current:" line of gphoto2 --get-config
// output.
func current(s string) string {
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "Current:") {
			return strings.TrimSpace(strings.TrimPrefix(l, "Current:"))
		}
	}
	return ""
}
