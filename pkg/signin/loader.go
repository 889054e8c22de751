package signin

import (
	"context"
	"fmt"

	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/logging"
	"github.com/facewallet/facewallet/pkg/match"
	"github.com/facewallet/facewallet/pkg/template"
)

// Loader assembles the candidate set for one scan session from the identity
// and template stores. Decryption happens once per session, never per frame.
type Loader struct {
	ids       identity.Store
	templates *template.Store
}

// NewLoader wires the candidate loader.
func NewLoader(ids identity.Store, templates *template.Store) *Loader {
	return &Loader{ids: ids, templates: templates}
}

// Load returns (email, descriptor) candidates for every identity with a
// usable template. An identity whose template fails decryption is logged and
// excluded from this pass; it is never treated as an infinite-distance match
// and never fatal to the pass. Legacy raw-vector templates are usable as-is and
// are migrated on read: re-encrypted and persisted so the raw form disappears
// from storage.
func (l *Loader) Load(ctx context.Context) ([]match.Candidate, error) {
	all, err := l.ids.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	log := logging.Component("signin")
	var candidates []match.Candidate

	for _, id := range all {
		switch id.FaceData.Kind() {
		case identity.TemplateNone:
			continue

		case identity.TemplateEncrypted:
			d, err := l.templates.Decrypt(id.FaceData.Blob())
			if err != nil {
				log.WithError(err).Warnf("Excluding %s from this pass: unusable template", id.Email)
				continue
			}
			candidates = append(candidates, match.Candidate{Ref: id.Email, Descriptor: d})

		case identity.TemplateLegacy:
			d := id.FaceData.Legacy()
			l.migrate(ctx, id, d)
			candidates = append(candidates, match.Candidate{Ref: id.Email, Descriptor: d})
		}
	}

	return candidates, nil
}

// migrate re-encrypts a legacy raw template and persists the encrypted form.
// Migration failure is logged but does not block matching with the decoded
// legacy vector.
func (l *Loader) migrate(ctx context.Context, id identity.Identity, d []float32) {
	log := logging.Component("signin")

	blob, err := l.templates.Encrypt(d)
	if err != nil {
		log.WithError(err).Warnf("Failed to re-encrypt legacy template for %s", id.Email)
		return
	}
	id.FaceData = identity.EncryptedTemplate(blob)
	if err := l.ids.Update(ctx, id); err != nil {
		log.WithError(err).Warnf("Failed to persist migrated template for %s", id.Email)
		return
	}
	log.Infof("Migrated legacy template for %s", id.Email)
}
