package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	ch := Challenge{
		Code:      "123456",
		Email:     "alice@example.com",
		Purpose:   PurposeLogin,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
	}
	if err := store.Put(ctx, ch, 5*time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, PurposeLogin, "alice@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Code != ch.Code || got.Email != ch.Email || got.Purpose != ch.Purpose {
		t.Errorf("Get = %+v, want %+v", got, ch)
	}

	if err := store.Delete(ctx, PurposeLogin, "alice@example.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, PurposeLogin, "alice@example.com"); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("expected ErrNoChallenge after delete, got %v", err)
	}
}

func TestRedisStore_MissingChallenge(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), PurposeLogin, "nobody@example.com")
	if !errors.Is(err, ErrNoChallenge) {
		t.Errorf("expected ErrNoChallenge, got %v", err)
	}
}

func TestRedisStore_TTLExpiresChallenge(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	ch := Challenge{
		Code:    "123456",
		Email:   "alice@example.com",
		Purpose: PurposeLogin,
	}
	if err := store.Put(ctx, ch, time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, PurposeLogin, "alice@example.com"); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("expected ErrNoChallenge after TTL, got %v", err)
	}
}

func TestRedisStore_FlowsKeyedSeparately(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	login := Challenge{Code: "111111", Email: "alice@example.com", Purpose: PurposeLogin}
	reset := Challenge{Code: "222222", Email: "alice@example.com", Purpose: PurposeReset}
	if err := store.Put(ctx, login, time.Minute); err != nil {
		t.Fatalf("Put login failed: %v", err)
	}
	if err := store.Put(ctx, reset, time.Minute); err != nil {
		t.Fatalf("Put reset failed: %v", err)
	}

	got, err := store.Get(ctx, PurposeReset, "alice@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Code != "222222" {
		t.Errorf("reset code = %s, want 222222", got.Code)
	}
}

func TestIssuer_WithRedisStore(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)
	issuer, _ := newTestIssuer(store)

	ch, err := issuer.Issue(ctx, PurposeLogin, "alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if err := issuer.Verify(ctx, PurposeLogin, "alice@example.com", ch.Code); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}
