package validate

import (
	"math"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// DisplacementRules enforces the displacement extension's semantic
// constraints.
func DisplacementRules(m *model.Model) error {
	r := &m.Resources

	for _, g := range r.NormVectorGroups {
		for i, v := range g.Vectors {
			if v.X == 0 && v.Y == 0 && v.Z == 0 {
				return mferr.Newf(mferr.CodeInvalidModel,
					"normvectorgroup %d vector %d is the zero vector", g.ID, i).
					WithResource(g.ID)
			}
		}
	}

	for _, g := range r.Disp2DCoordGroups {
		if _, ok := r.FindDisplacement2D(g.DispID); !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"disp2dcoords %d references id %d which is not a displacement map",
				g.ID, g.DispID).WithResource(g.ID).WithRef(g.DispID)
		}
		norms, ok := r.FindNormVectorGroup(g.NID)
		if !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"disp2dcoords %d references id %d which is not a normvectorgroup",
				g.ID, g.NID).WithResource(g.ID).WithRef(g.NID)
		}
		for i, c := range g.Coords {
			if int(c.NIndex) >= len(norms.Vectors) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"disp2dcoords %d coord %d: normal index %d out of bounds (group %d has %d vectors)",
					g.ID, i, c.NIndex, g.NID, len(norms.Vectors)).WithResource(g.ID)
			}
			if math.IsNaN(c.Magnitude) || math.IsInf(c.Magnitude, 0) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"disp2dcoords %d coord %d: magnitude is not finite", g.ID, i).
					WithResource(g.ID)
			}
		}
	}

	for _, o := range r.Objects {
		dm := o.DisplacementMesh
		if dm == nil {
			continue
		}
		for i, t := range dm.Mesh.Triangles {
			if !t.HasDID {
				continue
			}
			coords, ok := r.FindDisp2DCoords(t.DID)
			if !ok {
				return mferr.Newf(mferr.CodeDanglingRef,
					"object %d triangle %d: did %d is not a disp2dcoords group",
					o.ID, i, t.DID).WithResource(o.ID).WithRef(t.DID)
			}
			n := uint32(len(coords.Coords))
			for _, d := range [3]uint32{t.D1, t.D2, t.D3} {
				if d >= n {
					return mferr.Newf(mferr.CodeInvalidModel,
						"object %d triangle %d: displacement index %d out of bounds (group %d has %d coords)",
						o.ID, i, d, t.DID, n).WithResource(o.ID)
				}
			}
		}
	}
	return nil
}
