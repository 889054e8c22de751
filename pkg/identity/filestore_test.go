package identity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestIdentity(t *testing.T, email string) Identity {
	t.Helper()
	id, err := New(Registration{
		FullName: "Test User",
		Email:    email,
		Phone:    "+10000000000",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return id
}

func TestNew_Registration(t *testing.T) {
	id := newTestIdentity(t, "alice@example.com")

	if id.ID == "" {
		t.Error("identity has no id")
	}
	if id.Balance != StartingBalance {
		t.Errorf("balance = %d, want %d", id.Balance, StartingBalance)
	}
	if id.PasswordHash == "correct horse" {
		t.Error("password stored in the clear")
	}
	if !id.CheckPassword("correct horse") {
		t.Error("CheckPassword rejects the registration password")
	}
	if id.CheckPassword("wrong") {
		t.Error("CheckPassword accepts a wrong password")
	}
}

func TestNew_ValidatesInput(t *testing.T) {
	tests := []struct {
		name string
		reg  Registration
	}{
		{
			name: "missing email",
			reg:  Registration{FullName: "A", Phone: "+1", Password: "long enough"},
		},
		{
			name: "malformed email",
			reg:  Registration{FullName: "A", Email: "not-an-email", Phone: "+1", Password: "long enough"},
		},
		{
			name: "short password",
			reg:  Registration{FullName: "A", Email: "a@example.com", Phone: "+1", Password: "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.reg); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestIdentity_SetPassword(t *testing.T) {
	id := newTestIdentity(t, "alice@example.com")

	if err := id.SetPassword("a new password"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if !id.CheckPassword("a new password") {
		t.Error("new password does not verify")
	}
	if id.CheckPassword("correct horse") {
		t.Error("old password still verifies")
	}
}

func TestFileStore_CreateAndFind(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	id := newTestIdentity(t, "alice@example.com")
	if err := store.Create(ctx, id); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byEmail, err := store.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if byEmail.ID != id.ID {
		t.Errorf("FindByEmail returned id %s, want %s", byEmail.ID, id.ID)
	}

	byID, err := store.FindByID(ctx, id.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Email != id.Email {
		t.Errorf("FindByID returned email %s, want %s", byID.Email, id.Email)
	}
}

func TestFileStore_EmailUniqueness(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, newTestIdentity(t, "alice@example.com")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Same email, different case and surrounding space.
	err = store.Create(ctx, newTestIdentity(t, "  Alice@Example.COM "))
	if !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestFileStore_FindMisses(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if _, err := store.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByEmail: expected ErrNotFound, got %v", err)
	}
	if _, err := store.FindByID(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID: expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_Update(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	id := newTestIdentity(t, "alice@example.com")
	if err := store.Create(ctx, id); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	id.Balance = 42
	if err := store.Update(ctx, id); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.FindByID(ctx, id.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Balance != 42 {
		t.Errorf("balance = %d after update, want 42", got.Balance)
	}
}

func TestFileStore_UpdateUnknown(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	err = store.Update(context.Background(), newTestIdentity(t, "ghost@example.com"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_ListSkipsCorruptRecords(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, newTestIdentity(t, "alice@example.com")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to plant corrupt record: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d records, want 1 (corrupt record skipped)", len(list))
	}
}

func TestMemoryStore_MirrorsFileStoreSemantics(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id := newTestIdentity(t, "alice@example.com")
	if err := store.Create(ctx, id); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, newTestIdentity(t, "ALICE@example.com")); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}

	id.Balance = 7
	if err := store.Update(ctx, id); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if got.Balance != 7 {
		t.Errorf("balance = %d, want 7", got.Balance)
	}
}
