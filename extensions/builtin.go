package extensions

import (
	"github.com/google/uuid"

	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/validate"
)

// MaterialHandler serves the materials and textures extension.
type MaterialHandler struct{ BaseHandler }

// Extension implements Handler.
func (MaterialHandler) Extension() model.Extension { return model.ExtMaterial }

// Namespace implements Handler.
func (MaterialHandler) Namespace() string { return model.NSMaterial }

// Name implements Handler.
func (MaterialHandler) Name() string { return "material" }

// Validate implements Handler.
func (MaterialHandler) Validate(m *model.Model) error { return validate.MaterialRules(m) }

// IsUsed implements Handler.
func (MaterialHandler) IsUsed(m *model.Model) bool {
	r := &m.Resources
	return len(r.ColorGroups) > 0 || len(r.Texture2Ds) > 0 || len(r.Texture2DGroups) > 0 ||
		len(r.CompositeMaterials) > 0 || len(r.MultiProperties) > 0
}

// ProductionHandler serves the production extension. Its PostParse fills in
// UUIDs that the document was allowed to omit (extension declared but not
// required), keeping re-serialized packages self-consistent.
type ProductionHandler struct{ BaseHandler }

// Extension implements Handler.
func (ProductionHandler) Extension() model.Extension { return model.ExtProduction }

// Namespace implements Handler.
func (ProductionHandler) Namespace() string { return model.NSProduction }

// Name implements Handler.
func (ProductionHandler) Name() string { return "production" }

// Validate implements Handler.
func (ProductionHandler) Validate(m *model.Model) error { return validate.ProductionRules(m) }

// IsUsed implements Handler.
func (ProductionHandler) IsUsed(m *model.Model) bool {
	if m.Build.UUID != "" {
		return true
	}
	for _, item := range m.Build.Items {
		if item.UUID != "" || item.Path != "" {
			return true
		}
	}
	for _, o := range m.Resources.Objects {
		if o.UUID != "" {
			return true
		}
		for _, c := range o.Components {
			if c.UUID != "" || c.Path != "" {
				return true
			}
		}
	}
	return false
}

// PreWrite implements Handler: a model that uses production data is written
// with every UUID present.
func (h ProductionHandler) PreWrite(m *model.Model) error {
	if !h.IsUsed(m) && !m.RequiresExtension(model.ExtProduction) {
		return nil
	}
	if m.Build.UUID == "" {
		m.Build.UUID = uuid.NewString()
	}
	for i := range m.Build.Items {
		if m.Build.Items[i].UUID == "" {
			m.Build.Items[i].UUID = uuid.NewString()
		}
	}
	for _, o := range m.Resources.Objects {
		if o.UUID == "" {
			o.UUID = uuid.NewString()
		}
	}
	return nil
}

// BeamLatticeHandler serves the beam lattice extension.
type BeamLatticeHandler struct{ BaseHandler }

// Extension implements Handler.
func (BeamLatticeHandler) Extension() model.Extension { return model.ExtBeamLattice }

// Namespace implements Handler.
func (BeamLatticeHandler) Namespace() string { return model.NSBeamLattice }

// Name implements Handler.
func (BeamLatticeHandler) Name() string { return "beamlattice" }

// Validate implements Handler.
func (BeamLatticeHandler) Validate(m *model.Model) error { return validate.BeamLatticeRules(m) }

// IsUsed implements Handler.
func (BeamLatticeHandler) IsUsed(m *model.Model) bool {
	for _, o := range m.Resources.Objects {
		if o.Mesh != nil && o.Mesh.BeamLattice != nil {
			return true
		}
	}
	return false
}

// SliceHandler serves the slice extension.
type SliceHandler struct{ BaseHandler }

// Extension implements Handler.
func (SliceHandler) Extension() model.Extension { return model.ExtSlice }

// Namespace implements Handler.
func (SliceHandler) Namespace() string { return model.NSSlice }

// Name implements Handler.
func (SliceHandler) Name() string { return "slice" }

// Validate implements Handler.
func (SliceHandler) Validate(m *model.Model) error { return validate.SliceRules(m) }

// IsUsed implements Handler.
func (SliceHandler) IsUsed(m *model.Model) bool {
	return len(m.Resources.SliceStacks) > 0
}

// BooleanOperationsHandler serves the boolean operations extension.
type BooleanOperationsHandler struct{ BaseHandler }

// Extension implements Handler.
func (BooleanOperationsHandler) Extension() model.Extension { return model.ExtBooleanOperations }

// Namespace implements Handler.
func (BooleanOperationsHandler) Namespace() string { return model.NSBooleanOperations }

// Name implements Handler.
func (BooleanOperationsHandler) Name() string { return "booleanoperations" }

// Validate implements Handler.
func (BooleanOperationsHandler) Validate(m *model.Model) error { return validate.BooleanRules(m) }

// IsUsed implements Handler.
func (BooleanOperationsHandler) IsUsed(m *model.Model) bool {
	for _, o := range m.Resources.Objects {
		if o.BooleanShape != nil {
			return true
		}
	}
	return false
}

// DisplacementHandler serves the displacement extension.
type DisplacementHandler struct{ BaseHandler }

// Extension implements Handler.
func (DisplacementHandler) Extension() model.Extension { return model.ExtDisplacement }

// Namespace implements Handler.
func (DisplacementHandler) Namespace() string { return model.NSDisplacement }

// Name implements Handler.
func (DisplacementHandler) Name() string { return "displacement" }

// Validate implements Handler.
func (DisplacementHandler) Validate(m *model.Model) error { return validate.DisplacementRules(m) }

// IsUsed implements Handler.
func (DisplacementHandler) IsUsed(m *model.Model) bool {
	r := &m.Resources
	if len(r.Displacement2Ds) > 0 || len(r.NormVectorGroups) > 0 || len(r.Disp2DCoordGroups) > 0 {
		return true
	}
	for _, o := range r.Objects {
		if o.DisplacementMesh != nil {
			return true
		}
	}
	return false
}

// SecureContentHandler serves the secure content extension.
type SecureContentHandler struct{ BaseHandler }

// Extension implements Handler.
func (SecureContentHandler) Extension() model.Extension { return model.ExtSecureContent }

// Namespace implements Handler.
func (SecureContentHandler) Namespace() string { return model.NSSecureContent }

// Name implements Handler.
func (SecureContentHandler) Name() string { return "securecontent" }

// Validate implements Handler.
func (SecureContentHandler) Validate(m *model.Model) error { return validate.SecureContentRules(m) }

// IsUsed implements Handler.
func (SecureContentHandler) IsUsed(m *model.Model) bool {
	return m.SecureContent != nil
}

// VolumetricHandler serves the volumetric extension. It is not part of the
// default registry.
type VolumetricHandler struct{ BaseHandler }

// Extension implements Handler.
func (VolumetricHandler) Extension() model.Extension { return model.ExtVolumetric }

// Namespace implements Handler.
func (VolumetricHandler) Namespace() string { return model.NSVolumetric }

// Name implements Handler.
func (VolumetricHandler) Name() string { return "volumetric" }

// Validate implements Handler.
func (VolumetricHandler) Validate(m *model.Model) error { return validate.VolumetricRules(m) }

// IsUsed implements Handler.
func (VolumetricHandler) IsUsed(m *model.Model) bool {
	return len(m.Resources.Image3Ds) > 0 || len(m.Resources.VolumetricPropGroup) > 0
}
