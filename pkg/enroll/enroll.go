// Package enroll orchestrates face enrollment: repeated capture attempts at a
// fixed cadence until a stable descriptor is obtained, then handing that
// descriptor to the caller for encryption and persistence.
package enroll

import (
	"github.com/facewallet/facewallet/pkg/descriptor"
)

// State is the enrollment flow state.
type State int

const (
	// StateLoading covers model loading and camera acquisition.
	StateLoading State = iota
	// StateAwaitingFace means capture is live but no face has appeared yet.
	StateAwaitingFace
	// StateScanning means extractions are succeeding and progress is rising.
	StateScanning
	// StateComplete means the progress counter reached 100%.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAwaitingFace:
		return "awaitingFace"
	case StateScanning:
		return "scanning"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

const (
	// DefaultProgressStep is the per-good-frame increment: five good frames
	// complete a scan.
	DefaultProgressStep = 20
	// CompleteProgress is the target progress value.
	CompleteProgress = 100
)

// Flow is the enrollment state machine, advanced by discrete frame events so
// it can be tested without a camera. The descriptor kept is the one from the
// frame that completes the progress counter; earlier frames are discarded
// rather than averaged.
type Flow struct {
	state    State
	progress int
	step     int
	result   descriptor.Descriptor
}

// NewFlow creates a flow in the loading state.
func NewFlow(progressStep int) *Flow {
	if progressStep <= 0 {
		progressStep = DefaultProgressStep
	}
	return &Flow{state: StateLoading, step: progressStep}
}

// Begin marks models loaded and capture live.
func (f *Flow) Begin() {
	if f.state == StateLoading {
		f.state = StateAwaitingFace
	}
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Progress returns the current progress percentage.
func (f *Flow) Progress() int { return f.progress }

// Descriptor returns the completing frame's descriptor once complete.
func (f *Flow) Descriptor() descriptor.Descriptor { return f.result.Clone() }

// Observe consumes one frame's extraction result and returns the state after
// the event. Frames without a face leave progress unchanged; there is no
// penalty or decay, only the fixed per-frame polling.
func (f *Flow) Observe(d descriptor.Descriptor, err error) State {
	if f.state == StateComplete || f.state == StateLoading {
		return f.state
	}

	if err != nil || len(d) == 0 {
		return f.state
	}

	f.state = StateScanning
	f.progress += f.step
	if f.progress >= CompleteProgress {
		f.progress = CompleteProgress
		f.state = StateComplete
		f.result = d.Clone()
	}
	return f.state
}
