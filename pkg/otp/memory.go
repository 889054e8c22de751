package otp

import (
	"context"
	"sync"
	"time"
)

type flowKey struct {
	purpose Purpose
	email   string
}

type memoryStore struct {
	mu         sync.Mutex
	challenges map[flowKey]Challenge
}

// NewMemoryStore builds the default in-process challenge store. Challenges do
// not survive a restart, matching the ephemeral session model.
func NewMemoryStore() Store {
	return &memoryStore{challenges: make(map[flowKey]Challenge)}
}

func (s *memoryStore) Put(_ context.Context, ch Challenge, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[flowKey{ch.Purpose, ch.Email}] = ch
	return nil
}

func (s *memoryStore) Get(_ context.Context, purpose Purpose, email string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[flowKey{purpose, email}]
	if !ok {
		return Challenge{}, ErrNoChallenge
	}
	return ch, nil
}

func (s *memoryStore) Delete(_ context.Context, purpose Purpose, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, flowKey{purpose, email})
	return nil
}
