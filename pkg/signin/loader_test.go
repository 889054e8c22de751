package signin

import (
	"context"
	"testing"

	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/template"
)

func testTemplateStore() *template.Store {
	var key [template.KeySize]byte
	for i := range key {
		key[i] = byte(i)
	}
	return template.NewStoreWithKey(key)
}

func addIdentity(t *testing.T, ids identity.Store, email string, face identity.FaceData) identity.Identity {
	t.Helper()
	id, err := identity.New(identity.Registration{
		FullName: "Test User",
		Email:    email,
		Phone:    "+10000000000",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("failed to build identity: %v", err)
	}
	id.FaceData = face
	if err := ids.Create(context.Background(), id); err != nil {
		t.Fatalf("failed to create identity: %v", err)
	}
	return id
}

func TestLoader_Load_EncryptedTemplates(t *testing.T) {
	ids := identity.NewMemoryStore()
	templates := testTemplateStore()

	want := testDescriptor(0.5)
	blob, err := templates.Encrypt(want)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	addIdentity(t, ids, "alice@example.com", identity.EncryptedTemplate(blob))

	candidates, err := NewLoader(ids, templates).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Ref != "alice@example.com" {
		t.Errorf("ref = %s, want alice@example.com", candidates[0].Ref)
	}
	if !candidates[0].Descriptor.Equal(want) {
		t.Error("descriptor does not round-trip through the loader")
	}
}

func TestLoader_Load_SkipsUnenrolled(t *testing.T) {
	ids := identity.NewMemoryStore()
	templates := testTemplateStore()

	addIdentity(t, ids, "noface@example.com", identity.FaceData{})

	candidates, err := NewLoader(ids, templates).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestLoader_Load_CorruptTemplateExcludedNotFatal(t *testing.T) {
	ids := identity.NewMemoryStore()
	templates := testTemplateStore()

	blob, err := templates.Encrypt(testDescriptor(0.5))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	addIdentity(t, ids, "good@example.com", identity.EncryptedTemplate(blob))
	addIdentity(t, ids, "corrupt@example.com", identity.EncryptedTemplate("dGFtcGVyZWQ="))

	candidates, err := NewLoader(ids, templates).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The corrupt identity is excluded from this pass; the good one survives.
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Ref != "good@example.com" {
		t.Errorf("ref = %s, want good@example.com", candidates[0].Ref)
	}
}

func TestLoader_Load_LegacyTemplateUsableAndMigrated(t *testing.T) {
	ids := identity.NewMemoryStore()
	templates := testTemplateStore()

	raw := testDescriptor(0.3)
	legacy := addIdentity(t, ids, "legacy@example.com", identity.LegacyTemplate(raw))

	candidates, err := NewLoader(ids, templates).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Usable in this very pass.
	if len(candidates) != 1 || !candidates[0].Descriptor.Equal(raw) {
		t.Fatal("legacy template was not usable for matching")
	}

	// And re-encrypted in storage, so the raw form is gone.
	migrated, err := ids.FindByID(context.Background(), legacy.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if migrated.FaceData.Kind() != identity.TemplateEncrypted {
		t.Fatalf("template kind = %v after migration, want encrypted", migrated.FaceData.Kind())
	}
	decrypted, err := templates.Decrypt(migrated.FaceData.Blob())
	if err != nil {
		t.Fatalf("migrated template does not decrypt: %v", err)
	}
	if !decrypted.Equal(raw) {
		t.Error("migrated template lost the original vector")
	}
}
