// Package signin implements the biometric authentication state machine: a
// scan session that consumes per-frame extraction results, counts consecutive
// non-matches, and degrades to the password+OTP fallback after repeated
// failed cycles.
package signin

import (
	"errors"

	"github.com/facewallet/facewallet/pkg/descriptor"
	"github.com/facewallet/facewallet/pkg/match"
)

// State is the authentication session state.
type State int

const (
	// StateIdle means no scan is in progress.
	StateIdle State = iota
	// StateScanning means frames are being sampled and matched.
	StateScanning
	// StateSuccess means a candidate matched; the session is over.
	StateSuccess
	// StateFailed means the consecutive-failure ceiling was exceeded.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

const (
	// DefaultMaxFailures is the ceiling of consecutive empty/no-match
	// frames tolerated before a scan cycle fails, several seconds at the
	// sampling cadence.
	DefaultMaxFailures = 60
	// DefaultRetryLimit is the number of failed cycles before the session
	// redirects to the fallback path instead of offering another scan.
	DefaultRetryLimit = 2
)

// ErrNotIdle is returned when StartScan is called mid-scan or after success.
var ErrNotIdle = errors.New("scan already in progress or finished")

// Session owns the mutable state of one authentication attempt, bound to one
// login screen. It is advanced by discrete events from a single goroutine;
// no concurrent writer is permitted. Decrypted candidate material lives only
// inside the session and is discarded the moment a cycle ends.
type Session struct {
	engine      *match.Engine
	maxFailures int
	retryLimit  int

	state               State
	consecutiveFailures int
	retryCount          int
	candidates          []match.Candidate
	matchedRef          string
	matchedDistance     float64
}

// NewSession creates an idle session. Non-positive limits fall back to the
// defaults.
func NewSession(engine *match.Engine, maxFailures, retryLimit int) *Session {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	if retryLimit <= 0 {
		retryLimit = DefaultRetryLimit
	}
	return &Session{
		engine:      engine,
		maxFailures: maxFailures,
		retryLimit:  retryLimit,
		state:       StateIdle,
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// ConsecutiveFailures returns the in-cycle failure counter.
func (s *Session) ConsecutiveFailures() int { return s.consecutiveFailures }

// RetryCount returns how many cycles have ended in failure.
func (s *Session) RetryCount() int { return s.retryCount }

// MatchedRef returns the matched identity reference after success.
func (s *Session) MatchedRef() string { return s.matchedRef }

// MatchedDistance returns the winning match distance after success.
func (s *Session) MatchedDistance() float64 { return s.matchedDistance }

// StartScan enters scanning with the candidate set loaded for this cycle.
// The failure counter resets; the candidate set is fixed for the whole cycle
// so decryption cost is paid once, not per frame. Valid from idle and from
// failed (manual retry).
func (s *Session) StartScan(candidates []match.Candidate) error {
	if s.state == StateScanning || s.state == StateSuccess {
		return ErrNotIdle
	}
	s.candidates = candidates
	s.consecutiveFailures = 0
	s.matchedRef = ""
	s.matchedDistance = 0
	s.state = StateScanning
	return nil
}

// Observe consumes one frame's extraction result and returns the state after
// the event. A match ends the cycle in success. No face, no match, and frame
// errors all count toward the consecutive-failure ceiling; none of them is
// ever surfaced per frame, and none may terminate the loop except through
// the ceiling transition.
func (s *Session) Observe(live descriptor.Descriptor, err error) State {
	if s.state != StateScanning {
		return s.state
	}

	if err == nil && len(live) > 0 {
		if ref, dist, ok := s.engine.Match(live, s.candidates); ok {
			s.matchedRef = ref
			s.matchedDistance = dist
			s.state = StateSuccess
			s.discard()
			return s.state
		}
	}

	s.consecutiveFailures++
	if s.consecutiveFailures > s.maxFailures {
		s.state = StateFailed
		s.retryCount++
		s.discard()
	}
	return s.state
}

// Cancel ends the session from any state, discarding candidate material.
// Safe to call repeatedly.
func (s *Session) Cancel() {
	s.discard()
	if s.state == StateScanning {
		s.state = StateIdle
	}
}

// ShouldFallback reports whether the session has failed enough cycles to
// redirect to the password+OTP path instead of offering another scan.
func (s *Session) ShouldFallback() bool {
	return s.retryCount >= s.retryLimit
}

// discard zeroes and drops the decrypted candidate set.
func (s *Session) discard() {
	for i := range s.candidates {
		s.candidates[i].Descriptor = nil
	}
	s.candidates = nil
}
