/*
DESCRIPTION
  handler.go provides Handler, which owns a camera and a background worker
  that keeps the most recent preview frame available to the render loop, and
  coordinates pausing the worker for full resolution capture.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package live provides live capture from a camera: a background worker
// publishing the latest preview frame, and blocking still capture.
package live

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "live: "

// Defaults used when the config leaves a timing unset.
const (
	defaultPullInterval = 5 * time.Millisecond
	defaultIdleInterval = 50 * time.Millisecond
	defaultJoinTimeout  = 2 * time.Second
)

// Handler errors.
var (
	// ErrStreaming is returned by TakePhoto if continuous capture has not been
	// stopped first.
	ErrStreaming = errors.New("take photo called while streaming")

	// ErrShutDown is returned by operations on a handler that has been shut down.
	ErrShutDown = errors.New("handler shut down")
)

// Handler owns a Camera and a worker goroutine that reads preview frames
// from it while pulling is enabled. The worker is the only caller of the
// camera while pulling; TakePhoto calls the camera only once the worker has
// been paused with StopContinuous.
//
// StartContinuous, StopContinuous, TakePhoto and ShutDown are intended to be
// called from a single goroutine. Latest is safe to call from any goroutine.
type Handler struct {
	cam device.Camera
	log logging.Logger

	pullInterval time.Duration
	idleInterval time.Duration
	joinTimeout  time.Duration

	// mu guards latest and is never held across camera I/O.
	mu     sync.Mutex
	latest *device.Frame

	// pulling enables preview reads by the worker. reading is set by the
	// worker before it checks pulling and cleared after any read completes,
	// so that a caller that has cleared pulling and then sees reading false
	// knows the worker will not touch the camera.
	pulling   atomic.Bool
	reading   atomic.Bool
	capturing atomic.Bool
	lost      atomic.Bool // Set once a preview read fails fatally.

	// reads counts preview reads issued by the worker.
	reads atomic.Int64

	runMu    sync.Mutex
	running  bool
	checked  bool
	shut     bool
	stop     chan struct{}
	done     chan struct{}
	shutOnce sync.Once
}

// New returns a Handler for cam, which must already be open. Timings are
// taken from c, with defaults for any that are unset.
func New(cam device.Camera, c config.Config) *Handler {
	h := &Handler{
		cam:          cam,
		log:          c.Logger,
		pullInterval: c.PullInterval,
		idleInterval: c.IdleInterval,
		joinTimeout:  c.JoinTimeout,
	}
	if h.pullInterval <= 0 {
		h.pullInterval = defaultPullInterval
	}
	if h.idleInterval <= 0 {
		h.idleInterval = defaultIdleInterval
	}
	if h.joinTimeout <= 0 {
		h.joinTimeout = defaultJoinTimeout
	}
	return h
}

// Name returns the name of the handler's camera.
func (h *Handler) Name() string { return h.cam.Name() }

// StartContinuous enables preview reads, starting the worker if it is not
// running. Calling it again has no further effect. Before the first start,
// cameras implementing device.PreviewChecker are checked and a failing check
// rejects the start.
func (h *Handler) StartContinuous() error {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	if h.shut {
		return ErrShutDown
	}

	if !h.checked {
		if pc, ok := h.cam.(device.PreviewChecker); ok {
			err := pc.CheckPreview()
			if err != nil {
				h.log.Warning(pkg+"live preview unavailable, not starting", "camera", h.cam.Name(), "error", err)
				return fmt.Errorf("preview check failed: %w", err)
			}
		}
		h.checked = true
	}

	if !h.running {
		h.stop = make(chan struct{})
		h.done = make(chan struct{})
		go h.run(h.stop, h.done)
		h.running = true
		h.log.Info(pkg+"worker started", "camera", h.cam.Name())
	}
	h.pulling.Store(true)
	return nil
}

// StopContinuous disables preview reads. The worker stays alive, idling,
// so that a later StartContinuous is cheap.
func (h *Handler) StopContinuous() {
	h.pulling.Store(false)
	h.log.Debug(pkg + "pulling stopped")
}

// Lost reports whether the camera's preview stream has ended fatally, in
// which case the handler should be shut down and the camera reopened.
func (h *Handler) Lost() bool { return h.lost.Load() }

// Latest returns the most recently published preview frame, or nil if none
// has arrived. It never waits on camera I/O.
func (h *Handler) Latest() *device.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

func (h *Handler) publish(f *device.Frame) {
	h.mu.Lock()
	h.latest = f
	h.mu.Unlock()
}

// TakePhoto blocks while the camera captures a full resolution still. It
// must only be called after StopContinuous and a settle delay; calling it
// while pulling is enabled returns ErrStreaming without touching the camera.
// If a preview read is still in flight, TakePhoto waits for it to finish for
// up to the join timeout before returning device.ErrBusy.
func (h *Handler) TakePhoto() (*device.Frame, error) {
	h.runMu.Lock()
	shut := h.shut
	h.runMu.Unlock()
	if shut {
		return nil, ErrShutDown
	}
	if h.pulling.Load() {
		h.log.Error(pkg + "take photo called without stopping continuous capture")
		return nil, ErrStreaming
	}

	h.capturing.Store(true)
	defer h.capturing.Store(false)

	deadline := time.Now().Add(h.joinTimeout)
	for h.reading.Load() {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: preview read still in flight", device.ErrBusy)
		}
		time.Sleep(time.Millisecond)
	}

	start := time.Now()
	f, err := h.cam.Capture()
	if err != nil {
		h.log.Error(pkg+"capture failed", "camera", h.cam.Name(), "error", err)
		return nil, err
	}
	h.log.Info(pkg+"photo taken", "resolution", f.Resolution(), "took", time.Since(start))
	return f, nil
}

// ShutDown stops the worker, waiting for it for at most the join timeout,
// then closes the camera. It is safe to call more than once.
func (h *Handler) ShutDown() {
	h.shutOnce.Do(func() {
		h.runMu.Lock()
		h.shut = true
		h.pulling.Store(false)
		running, stop, done := h.running, h.stop, h.done
		h.running = false
		h.runMu.Unlock()

		if running {
			close(stop)
			select {
			case <-done:
				h.log.Info(pkg + "worker stopped")
			case <-time.After(h.joinTimeout):
				h.log.Warning(pkg+"worker did not stop in time, proceeding", "timeout", h.joinTimeout)
			}
		}

		err := h.cam.Close()
		if err != nil {
			h.log.Error(pkg+"could not close camera", "error", err)
		}
	})
}

// run is the worker loop. It reads preview frames while pulling is enabled
// and otherwise idles, until stop is closed.
func (h *Handler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		h.reading.Store(true)
		if !h.pulling.Load() || h.capturing.Load() {
			h.reading.Store(false)
			if h.sleep(stop, h.idleInterval) {
				return
			}
			continue
		}

		h.reads.Add(1)
		f, err := h.cam.ReadPreview()
		h.reading.Store(false)
		switch {
		case err == nil:
			h.publish(f)
		case device.IsFatal(err):
			h.pulling.Store(false)
			h.lost.Store(true)
			h.log.Error(pkg+"preview stream ended, pulling disabled", "error", err)
		default:
			h.log.Debug(pkg+"preview read failed", "error", err)
		}

		if h.sleep(stop, h.pullInterval) {
			return
		}
	}
}

// sleep waits for d, returning true early if stop is closed.
func (h *Handler) sleep(stop <-chan struct{}, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-stop:
		return true
	case <-t.C:
		return false
	}
}
