package signin

import (
	"context"
	"fmt"
	"time"

	"github.com/facewallet/facewallet/pkg/camera"
	"github.com/facewallet/facewallet/pkg/extractor"
	"github.com/facewallet/facewallet/pkg/logging"
	"github.com/facewallet/facewallet/pkg/scheduler"
)

const (
	// DefaultInterval is the frame sampling cadence.
	DefaultInterval = 100 * time.Millisecond
	// DefaultSettleDelay is the pause between a match and reporting it, so
	// the caller's UI can settle.
	DefaultSettleDelay = time.Second
)

// Result describes how one scan cycle ended.
type Result struct {
	State        State
	MatchedEmail string
	Distance     float64
}

// Runner binds a Session to the capture loop: one extraction in flight at a
// time, sampled at a fixed cadence, cancelled cooperatively.
type Runner struct {
	Loader      *Loader
	Source      camera.Source
	Extractor   extractor.Extractor
	Interval    time.Duration
	SettleDelay time.Duration
	Clock       scheduler.Clock

	// OnFrame, when set, is called after every observed frame.
	OnFrame func(state State, consecutiveFailures int)
}

func (r *Runner) clock() scheduler.Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return scheduler.RealClock{}
}

// Scan runs one idle→{success|failed} cycle on the session. The candidate
// set is loaded once at cycle start; the camera is acquired on entry and
// released on every exit path; cancellation is checked before each sampling
// step and before acting on a resolved extraction result, so a stale match
// is never applied after the caller has navigated away.
func (r *Runner) Scan(ctx context.Context, session *Session) (Result, error) {
	log := logging.Component("signin")

	if err := r.Extractor.LoadModels(); err != nil {
		return Result{}, fmt.Errorf("failed to load models: %w", err)
	}

	if err := r.Source.Open(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", camera.ErrUnavailable, err)
	}
	defer func() { _ = r.Source.Close() }()

	candidates, err := r.Loader.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := session.StartScan(candidates); err != nil {
		return Result{}, err
	}
	log.Debugf("Scan cycle started with %d candidate(s)", len(candidates))

	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	loop := &scheduler.Loop{Interval: interval, Clock: r.Clock}

	err = loop.Run(ctx, func(ctx context.Context) bool {
		frame, ferr := r.Source.ReadFrame()

		var state State
		if ferr != nil {
			state = session.Observe(nil, ferr)
		} else {
			d, derr := r.Extractor.Detect(frame.Data)
			if ctx.Err() != nil {
				// The extraction resolved after cancellation; its
				// result must not advance the session.
				return false
			}
			state = session.Observe(d, derr)
		}

		if r.OnFrame != nil {
			r.OnFrame(state, session.ConsecutiveFailures())
		}
		return state == StateScanning
	})
	if err != nil {
		session.Cancel()
		return Result{}, err
	}
	if ctx.Err() != nil {
		// The loop ended because an extraction resolved after
		// cancellation; the session never saw that result.
		session.Cancel()
		return Result{}, ctx.Err()
	}

	result := Result{
		State:        session.State(),
		MatchedEmail: session.MatchedRef(),
		Distance:     session.MatchedDistance(),
	}

	switch result.State {
	case StateSuccess:
		log.Infof("Face matched %s (distance %.4f)", result.MatchedEmail, result.Distance)
		settle := r.SettleDelay
		if settle <= 0 {
			settle = DefaultSettleDelay
		}
		select {
		case <-r.clock().After(settle):
		case <-ctx.Done():
			session.Cancel()
			return Result{}, ctx.Err()
		}
	case StateFailed:
		log.Infof("Face not recognized after %d consecutive failures (cycle %d)",
			session.ConsecutiveFailures(), session.RetryCount())
	}

	return result, nil
}
