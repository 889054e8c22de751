// Package scheduler provides the cooperative polling loop used by capture
// flows: a cancellable repeating task that invokes a step function at a fixed
// cadence. Steps never overlap; the next wait begins only after the previous
// step returns.
package scheduler

import (
	"context"
	"time"
)

// Clock abstracts time so loops are testable without real sleeps.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// RealClock is the wall-clock implementation of Clock.
type RealClock struct{}

// After waits for the duration to elapse.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Loop invokes a step function at a fixed cadence until cancelled or until
// the step reports completion.
type Loop struct {
	Interval time.Duration
	Clock    Clock
}

// NewLoop creates a loop with the given cadence and the real clock.
func NewLoop(interval time.Duration) *Loop {
	return &Loop{Interval: interval, Clock: RealClock{}}
}

// Run drives step until ctx is cancelled or step returns false. Cancellation
// is checked before every step, so a step never starts after the caller has
// navigated away. Returns ctx.Err() on cancellation and nil when the step
// ended the loop itself.
func (l *Loop) Run(ctx context.Context, step func(ctx context.Context) bool) error {
	clock := l.Clock
	if clock == nil {
		clock = RealClock{}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(l.Interval):
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !step(ctx) {
			return nil
		}
	}
}
