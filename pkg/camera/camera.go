// Package camera provides the frame source boundary for capture loops.
// A Source is a scoped resource: acquired on flow entry, released on every
// exit path including acquisition failure.
package camera

import (
	"errors"
	"time"
)

// Frame represents a single captured camera frame (encoded image bytes).
type Frame struct {
	Data      []byte
	Timestamp time.Time
}

// ErrUnavailable is returned when no camera device can be acquired: missing
// hardware or denied permission. Scanning must not start in this state.
var ErrUnavailable = errors.New("camera unavailable")

// ErrClosed is returned when reading from a source that was not opened or
// was already closed.
var ErrClosed = errors.New("camera source closed")

// ErrNoFrame is returned when the source could not produce a frame.
var ErrNoFrame = errors.New("failed to capture frame")

// Source delivers frames to a sampling loop.
type Source interface {
	Open() error
	ReadFrame() (Frame, error)
	Close() error
}
