package validate

import (
	"math"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// BeamLatticeRules enforces the beam lattice extension's semantic
// constraints.
func BeamLatticeRules(m *model.Model) error {
	for _, o := range m.Resources.Objects {
		if o.Mesh == nil || o.Mesh.BeamLattice == nil {
			continue
		}
		bl := o.Mesh.BeamLattice

		if o.Type != model.ObjectTypeModel && o.Type != model.ObjectTypeSolidSupport {
			return mferr.Newf(mferr.CodeInvalidModel,
				"object %d: beam lattice not allowed on type %s", o.ID, o.Type).
				WithResource(o.ID)
		}
		if !positiveFinite(bl.DefaultRadius) {
			return mferr.Newf(mferr.CodeInvalidModel,
				"object %d: beam lattice radius %g must be finite and positive",
				o.ID, bl.DefaultRadius).WithResource(o.ID)
		}
		if !positiveFinite(bl.MinLength) {
			return mferr.Newf(mferr.CodeInvalidModel,
				"object %d: beam lattice minlength %g must be finite and positive",
				o.ID, bl.MinLength).WithResource(o.ID)
		}
		if bl.ClipMode != model.ClipNone && !bl.HasClipping {
			return mferr.Newf(mferr.CodeInvalidModel,
				"object %d: beam lattice clipping mode %s without clippingmesh",
				o.ID, bl.ClipMode).WithResource(o.ID)
		}
		if bl.HasClipping {
			if err := meshObjectRef(m, o.ID, bl.ClippingMesh, "clippingmesh"); err != nil {
				return err
			}
		}
		if bl.HasRepMesh {
			if err := meshObjectRef(m, o.ID, bl.RepMesh, "representationmesh"); err != nil {
				return err
			}
		}

		for i, b := range bl.Beams {
			if b.HasR2 && !b.HasR1 {
				return mferr.Newf(mferr.CodeInvalidModel,
					"object %d beam %d specifies r2 without r1", o.ID, i).WithResource(o.ID)
			}
			if b.HasR1 && !positiveFinite(b.R1) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"object %d beam %d: r1 %g must be finite and positive", o.ID, i, b.R1).
					WithResource(o.ID)
			}
			if b.HasR2 && !positiveFinite(b.R2) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"object %d beam %d: r2 %g must be finite and positive", o.ID, i, b.R2).
					WithResource(o.ID)
			}
			if b.V1 == b.V2 {
				return mferr.Newf(mferr.CodeInvalidModel,
					"object %d beam %d connects vertex %d to itself", o.ID, i, b.V1).
					WithResource(o.ID)
			}
		}

		beams := uint32(len(bl.Beams))
		for _, set := range bl.BeamSets {
			for _, ref := range set.Refs {
				if ref >= beams {
					return mferr.Newf(mferr.CodeInvalidModel,
						"object %d beamset %q: beam index %d out of bounds (%d beams)",
						o.ID, set.Name, ref, beams).WithResource(o.ID)
				}
			}
		}
	}
	return nil
}

// meshObjectRef requires id to resolve to a mesh-backed object.
func meshObjectRef(m *model.Model, fromID, id uint32, what string) error {
	target, ok := m.Resources.FindObject(id)
	if !ok {
		return mferr.Newf(mferr.CodeDanglingRef,
			"object %d %s references undeclared object %d", fromID, what, id).
			WithResource(fromID).WithRef(id)
	}
	if target.Mesh == nil {
		return mferr.Newf(mferr.CodeInvalidModel,
			"object %d %s references object %d which has no mesh", fromID, what, id).
			WithResource(fromID).WithRef(id)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
