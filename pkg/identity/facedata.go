package identity

import (
	"encoding/json"
	"fmt"

	"github.com/facewallet/facewallet/pkg/descriptor"
)

// TemplateKind tags the storage form of an identity's biometric template.
type TemplateKind int

const (
	// TemplateNone means the identity has no enrolled face.
	TemplateNone TemplateKind = iota
	// TemplateEncrypted is the current form: base64(nonce‖ciphertext).
	TemplateEncrypted
	// TemplateLegacy is the historical form: a raw numeric vector persisted
	// before encryption-at-rest existed. Readable, migrated on first use.
	TemplateLegacy
)

// FaceData is the tagged variant at the storage boundary. On the wire it is
// either null, a base64 string (encrypted), or a number array (legacy).
type FaceData struct {
	kind      TemplateKind
	encrypted string
	legacy    descriptor.Descriptor
}

// EncryptedTemplate wraps an encrypted blob as face data.
func EncryptedTemplate(blob string) FaceData {
	return FaceData{kind: TemplateEncrypted, encrypted: blob}
}

// LegacyTemplate wraps a raw descriptor as legacy face data.
func LegacyTemplate(d descriptor.Descriptor) FaceData {
	return FaceData{kind: TemplateLegacy, legacy: d.Clone()}
}

// Kind reports which form this face data holds.
func (f FaceData) Kind() TemplateKind { return f.kind }

// Blob returns the encrypted blob; empty unless Kind is TemplateEncrypted.
func (f FaceData) Blob() string { return f.encrypted }

// Legacy returns the raw vector; nil unless Kind is TemplateLegacy.
func (f FaceData) Legacy() descriptor.Descriptor { return f.legacy.Clone() }

// MarshalJSON writes null, a string, or a number array depending on kind.
func (f FaceData) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case TemplateEncrypted:
		return json.Marshal(f.encrypted)
	case TemplateLegacy:
		return json.Marshal([]float32(f.legacy))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts either historical wire form.
func (f *FaceData) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FaceData{}
		return nil
	}

	var blob string
	if err := json.Unmarshal(data, &blob); err == nil {
		*f = EncryptedTemplate(blob)
		return nil
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err == nil {
		*f = LegacyTemplate(vec)
		return nil
	}

	return fmt.Errorf("faceData is neither a blob nor a vector")
}
