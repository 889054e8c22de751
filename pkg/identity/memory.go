package identity

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu  sync.RWMutex
	ids map[string]Identity // keyed by id
}

// NewMemoryStore builds an in-memory identity store for tests.
func NewMemoryStore() Store {
	return &memoryStore{ids: make(map[string]Identity)}
}

func (s *memoryStore) Create(_ context.Context, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ids {
		if normalizeEmail(existing.Email) == normalizeEmail(id.Email) {
			return ErrExists
		}
	}
	s.ids[id.ID] = id
	return nil
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := normalizeEmail(email)
	for _, id := range s.ids {
		if normalizeEmail(id.Email) == want {
			return id, nil
		}
	}
	return Identity{}, ErrNotFound
}

func (s *memoryStore) FindByID(_ context.Context, id string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.ids[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) Update(_ context.Context, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id.ID]; !ok {
		return ErrNotFound
	}
	s.ids[id.ID] = id
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Identity, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, id)
	}
	return out, nil
}
