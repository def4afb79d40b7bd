package validate

import (
	"github.com/google/uuid"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// SecureContentRules enforces the structural constraints of the keystore:
// unique consumer IDs, consumer indices in range, and well-formed UUIDs.
func SecureContentRules(m *model.Model) error {
	sc := m.SecureContent
	if sc == nil {
		return nil
	}

	if sc.KeystoreUUID != "" {
		if _, err := uuid.Parse(sc.KeystoreUUID); err != nil {
			return mferr.Newf(mferr.CodeKeystoreFormat,
				"keystore has invalid UUID %q", sc.KeystoreUUID)
		}
	}

	seen := make(map[string]bool, len(sc.Consumers))
	for _, c := range sc.Consumers {
		if c.ConsumerID == "" {
			return mferr.New(mferr.CodeSecureContent, "keystore consumer has empty consumerid")
		}
		if seen[c.ConsumerID] {
			return mferr.Newf(mferr.CodeSecureContent,
				"keystore has duplicate consumerid %q", c.ConsumerID)
		}
		seen[c.ConsumerID] = true
	}

	for gi, g := range sc.Groups {
		if g.KeyUUID != "" {
			if _, err := uuid.Parse(g.KeyUUID); err != nil {
				return mferr.Newf(mferr.CodeKeystoreFormat,
					"resource data group %d has invalid key UUID %q", gi, g.KeyUUID)
			}
		}
		if len(g.AccessRights) == 0 {
			return mferr.Newf(mferr.CodeSecureContent,
				"resource data group %d has no access rights", gi)
		}
		for _, ar := range g.AccessRights {
			if ar.ConsumerIndex < 0 || ar.ConsumerIndex >= len(sc.Consumers) {
				return mferr.Newf(mferr.CodeConsumerIndex,
					"resource data group %d: consumer index %d out of range (%d consumers)",
					gi, ar.ConsumerIndex, len(sc.Consumers))
			}
		}
		if len(g.ResourceData) == 0 {
			return mferr.Newf(mferr.CodeSecureContent,
				"resource data group %d protects no parts", gi)
		}
		for _, rd := range g.ResourceData {
			if rd.Path == "" {
				return mferr.Newf(mferr.CodeSecureContent,
					"resource data group %d lists an empty part path", gi)
			}
		}
	}
	return nil
}
