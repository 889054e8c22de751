package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/facewallet/facewallet/pkg/logging"
)

// FileStore keeps one JSON record per identity under dir. Suited to the
// single-installation demo; lookups scan the directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the identities directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create identities directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create persists a new identity, enforcing email uniqueness.
func (s *FileStore) Create(ctx context.Context, id Identity) error {
	if _, err := s.FindByEmail(ctx, id.Email); err == nil {
		return ErrExists
	}
	return s.write(id)
}

// FindByEmail scans the directory for the identity with the given email.
func (s *FileStore) FindByEmail(ctx context.Context, email string) (Identity, error) {
	want := normalizeEmail(email)

	all, err := s.List(ctx)
	if err != nil {
		return Identity{}, err
	}
	for _, id := range all {
		if normalizeEmail(id.Email) == want {
			return id, nil
		}
	}
	return Identity{}, ErrNotFound
}

// FindByID loads an identity record by its id.
func (s *FileStore) FindByID(_ context.Context, id string) (Identity, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, fmt.Errorf("failed to read identity: %w", err)
	}

	var rec Identity
	if err := json.Unmarshal(data, &rec); err != nil {
		return Identity{}, fmt.Errorf("failed to decode identity: %w", err)
	}
	return rec, nil
}

// Update rewrites an existing identity record.
func (s *FileStore) Update(ctx context.Context, id Identity) error {
	if _, err := s.FindByID(ctx, id.ID); err != nil {
		return err
	}
	return s.write(id)
}

// List returns all identity records. Unreadable files are logged and
// skipped rather than failing the listing.
func (s *FileStore) List(_ context.Context) ([]Identity, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	var out []Identity
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logging.Component("identity").WithError(err).Warnf("Skipping unreadable record %s", entry.Name())
			continue
		}
		var rec Identity
		if err := json.Unmarshal(data, &rec); err != nil {
			logging.Component("identity").WithError(err).Warnf("Skipping corrupt record %s", entry.Name())
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *FileStore) write(id Identity) error {
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := os.WriteFile(s.path(id.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write identity: %w", err)
	}
	return nil
}
