package enroll

import (
	"context"
	"fmt"
	"time"

	"github.com/facewallet/facewallet/pkg/camera"
	"github.com/facewallet/facewallet/pkg/descriptor"
	"github.com/facewallet/facewallet/pkg/extractor"
	"github.com/facewallet/facewallet/pkg/logging"
	"github.com/facewallet/facewallet/pkg/scheduler"
)

// DefaultInterval is the frame sampling cadence.
const DefaultInterval = 100 * time.Millisecond

// Capture drives an enrollment Flow against a live frame source.
type Capture struct {
	Source       camera.Source
	Extractor    extractor.Extractor
	Interval     time.Duration
	ProgressStep int
	Clock        scheduler.Clock

	// OnProgress, when set, is called after every observed frame.
	OnProgress func(state State, progress int)
}

// Run samples frames at the configured cadence until the flow completes or
// ctx is cancelled, and returns the completing frame's descriptor. A camera
// that cannot be acquired surfaces immediately as camera.ErrUnavailable; the
// flow never stalls silently. The camera is released on every exit path.
func (c *Capture) Run(ctx context.Context) (descriptor.Descriptor, error) {
	log := logging.Component("enroll")

	if err := c.Extractor.LoadModels(); err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	if err := c.Source.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", camera.ErrUnavailable, err)
	}
	defer func() { _ = c.Source.Close() }()

	flow := NewFlow(c.ProgressStep)
	flow.Begin()

	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	loop := &scheduler.Loop{Interval: interval, Clock: c.Clock}

	err := loop.Run(ctx, func(ctx context.Context) bool {
		frame, err := c.Source.ReadFrame()
		if err != nil {
			log.WithError(err).Debug("Frame capture failed")
			return true
		}

		d, derr := c.Extractor.Detect(frame.Data)
		state := flow.Observe(d, derr)
		if c.OnProgress != nil {
			c.OnProgress(state, flow.Progress())
		}
		return state != StateComplete
	})
	if err != nil {
		return nil, err
	}

	log.Info("Enrollment scan complete")
	return flow.Descriptor(), nil
}
