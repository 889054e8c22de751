// Package template provides encrypted storage for biometric templates.
// Descriptors are sealed with NaCl secretbox under a per-installation key and
// stored as base64(nonce‖ciphertext).
package template

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/facewallet/facewallet/pkg/descriptor"
	"github.com/facewallet/facewallet/pkg/logging"
)

const (
	// NonceSize is the size of the per-encryption random nonce.
	NonceSize = 24
	// KeySize is the size of the installation key.
	KeySize = 32
)

// ErrIntegrity is returned when a blob cannot be authenticated or decoded.
// Tampered, truncated, and corrupt blobs all surface as this error.
var ErrIntegrity = errors.New("template integrity check failed")

// Store encrypts and decrypts biometric templates under the installation key.
type Store struct {
	key [KeySize]byte
}

// Keystore loads or creates the per-installation symmetric key. The key is
// generated once, persisted with 0600 permissions, and never leaves the local
// installation.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore backed by the given file path.
func NewKeystore(path string) *Keystore {
	return &Keystore{path: path}
}

// Key returns the persisted installation key, generating and persisting a
// fresh random key on first use. Idempotent across calls and processes.
func (k *Keystore) Key() ([KeySize]byte, error) {
	var key [KeySize]byte

	data, err := os.ReadFile(k.path)
	if err == nil {
		if len(data) != KeySize {
			return key, fmt.Errorf("key file %s has unexpected length %d", k.path, len(data))
		}
		copy(key[:], data)
		return key, nil
	}
	if !os.IsNotExist(err) {
		return key, fmt.Errorf("failed to read key file: %w", err)
	}

	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return key, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(k.path), 0700); err != nil {
		return key, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(k.path, key[:], 0600); err != nil {
		return key, fmt.Errorf("failed to persist key: %w", err)
	}

	logging.Component("template").Debug("Generated new installation key")
	return key, nil
}

// NewStore creates a template store using the key from the keystore.
func NewStore(ks *Keystore) (*Store, error) {
	key, err := ks.Key()
	if err != nil {
		return nil, err
	}
	return &Store{key: key}, nil
}

// NewStoreWithKey creates a template store around an explicit key.
func NewStoreWithKey(key [KeySize]byte) *Store {
	return &Store{key: key}
}

// Encrypt serializes the descriptor, seals it with a fresh random nonce, and
// returns base64(nonce‖ciphertext). Every call draws a new nonce.
func (s *Store) Encrypt(d descriptor.Descriptor) (string, error) {
	plaintext, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to serialize descriptor: %w", err)
	}

	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt splits the blob at the fixed nonce length, authenticates and opens
// the ciphertext, and deserializes the descriptor. Any failure along the way
// is reported as ErrIntegrity.
func (s *Store) Decrypt(blob string) (descriptor.Descriptor, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, ErrIntegrity
	}
	if len(raw) < NonceSize {
		return nil, ErrIntegrity
	}

	var nonce [NonceSize]byte
	copy(nonce[:], raw[:NonceSize])

	plaintext, ok := secretbox.Open(nil, raw[NonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrIntegrity
	}

	var d descriptor.Descriptor
	if err := json.Unmarshal(plaintext, &d); err != nil {
		return nil, ErrIntegrity
	}
	return d, nil
}
