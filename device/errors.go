package device

import "errors"

// Camera errors. Implementations wrap these so callers can match with errors.Is.
var (
	ErrNotFound          = errors.New("camera not found")
	ErrDisconnected      = errors.New("camera disconnected")
	ErrBusy              = errors.New("camera busy")
	ErrTimeout           = errors.New("camera timed out")
	ErrUnsupportedFormat = errors.New("unsupported camera format")
	ErrCaptureFailed     = errors.New("capture failed")
	ErrStreamEnded       = errors.New("preview stream ended")
	ErrNotOpen           = errors.New("camera not open")
)

// IsFatal reports whether err means the camera can no longer stream, as
// opposed to a failure that only affects a single read.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDisconnected) ||
		errors.Is(err, ErrStreamEnded) ||
		errors.Is(err, ErrNotOpen)
}

// IsRetryable reports whether err is a transient bus conflict worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}
