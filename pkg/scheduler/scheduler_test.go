package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock releases one tick per call to tick(), so tests control the loop
// cadence exactly.
type fakeClock struct {
	ch chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ch: make(chan time.Time)}
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	return c.ch
}

func (c *fakeClock) tick() {
	c.ch <- time.Now()
}

func TestLoop_Run_StepEndsLoop(t *testing.T) {
	clock := newFakeClock()
	loop := &Loop{Interval: time.Millisecond, Clock: clock}

	steps := 0
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(context.Background(), func(ctx context.Context) bool {
			steps++
			return steps < 3
		})
	}()

	clock.tick()
	clock.tick()
	clock.tick()

	if err := <-done; err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
	if steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
}

func TestLoop_Run_Cancellation(t *testing.T) {
	clock := newFakeClock()
	loop := &Loop{Interval: time.Millisecond, Clock: clock}

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- loop.Run(ctx, func(ctx context.Context) bool {
			return true
		})
	}()

	<-started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestLoop_Run_NoStepAfterCancel(t *testing.T) {
	clock := newFakeClock()
	loop := &Loop{Interval: time.Millisecond, Clock: clock}

	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx, func(ctx context.Context) bool {
			steps++
			cancel()
			return true
		})
	}()

	clock.tick()

	// The loop observed cancellation during the first step; no further step
	// may run even though ticks keep arriving.
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	if steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
}

func TestLoop_Run_StepsDoNotOverlap(t *testing.T) {
	clock := newFakeClock()
	loop := &Loop{Interval: time.Millisecond, Clock: clock}

	inStep := false
	steps := 0
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(context.Background(), func(ctx context.Context) bool {
			if inStep {
				t.Error("step re-entered while a step was running")
			}
			inStep = true
			steps++
			inStep = false
			return steps < 2
		})
	}()

	clock.tick()
	clock.tick()

	if err := <-done; err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
}

func TestNewLoop_UsesRealClock(t *testing.T) {
	loop := NewLoop(time.Millisecond)
	if loop.Clock == nil {
		t.Fatal("NewLoop left Clock nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ran := false
	err := loop.Run(ctx, func(ctx context.Context) bool {
		ran = true
		return false
	})
	if err != nil {
		t.Errorf("Run returned %v, want nil", err)
	}
	if !ran {
		t.Error("step never ran under the real clock")
	}
}
