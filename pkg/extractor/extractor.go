// Package extractor defines the descriptor extraction boundary. The rest of
// the system treats extraction as a black box: a frame goes in, a fixed-length
// descriptor or "no face" comes out.
package extractor

import (
	"errors"

	"github.com/facewallet/facewallet/pkg/descriptor"
)

// ErrNoFace is the transient per-frame condition of finding no usable face.
// It feeds failure counters and is never surfaced to the user per frame.
var ErrNoFace = errors.New("no face detected")

// ErrModelsNotLoaded is returned when Detect is called before LoadModels.
var ErrModelsNotLoaded = errors.New("extraction models not loaded")

// Extractor turns a camera frame into a face descriptor.
type Extractor interface {
	// LoadModels prepares the backend. Idempotent; may be slow; must
	// complete before the first Detect call.
	LoadModels() error

	// Detect returns the descriptor for the single usable face in the
	// frame, or ErrNoFace when the frame has no such face.
	Detect(frame []byte) (descriptor.Descriptor, error)

	// Close releases backend resources.
	Close() error
}
