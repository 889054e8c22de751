package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no identity matches the lookup.
var ErrNotFound = errors.New("identity not found")

// ErrExists is returned when the email is already registered.
var ErrExists = errors.New("identity already registered")

// Store persists identity records. Email is unique across identities.
type Store interface {
	Create(ctx context.Context, id Identity) error
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	Update(ctx context.Context, id Identity) error
	List(ctx context.Context) ([]Identity, error)
}
