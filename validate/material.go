package validate

import (
	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// MaterialRules enforces the material extension's semantic constraints.
func MaterialRules(m *model.Model) error {
	r := &m.Resources

	for _, g := range r.BaseMaterialGroups {
		if len(g.Materials) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"basematerials %d is empty", g.ID).WithResource(g.ID)
		}
	}
	for _, g := range r.ColorGroups {
		if len(g.Colors) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"colorgroup %d is empty", g.ID).WithResource(g.ID)
		}
	}

	for _, g := range r.Texture2DGroups {
		if _, ok := r.FindTexture2D(g.TextureID); !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"texture2dgroup %d references id %d which is not a texture2d",
				g.ID, g.TextureID).WithResource(g.ID).WithRef(g.TextureID)
		}
	}

	for _, g := range r.CompositeMaterials {
		base, ok := r.FindBaseMaterialGroup(g.MaterialID)
		if !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"compositematerials %d references id %d which is not a basematerials group",
				g.ID, g.MaterialID).WithResource(g.ID).WithRef(g.MaterialID)
		}
		for _, idx := range g.Indices {
			if int(idx) >= len(base.Materials) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"compositematerials %d: material index %d out of bounds (group %d has %d entries)",
					g.ID, idx, g.MaterialID, len(base.Materials)).WithResource(g.ID)
			}
		}
		for _, c := range g.Composites {
			if len(c.Values) != len(g.Indices) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"compositematerials %d: composite has %d values for %d material indices",
					g.ID, len(c.Values), len(g.Indices)).WithResource(g.ID)
			}
		}
	}

	return multiPropertiesRules(m)
}

// multiPropertiesRules checks the layering constraints of multiproperties
// groups: at most one color group, a base-material group only at layer 0,
// and no nesting of multiproperties inside multiproperties.
func multiPropertiesRules(m *model.Model) error {
	r := &m.Resources
	for _, g := range r.MultiProperties {
		if len(g.PIDs) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"multiproperties %d has no pids", g.ID).WithResource(g.ID)
		}
		colorGroups := 0
		for layer, pid := range g.PIDs {
			if _, ok := r.FindMultiProperties(pid); ok {
				return mferr.Newf(mferr.CodeInvalidModel,
					"multiproperties %d layers another multiproperties group %d",
					g.ID, pid).WithResource(g.ID).WithRef(pid)
			}
			if _, ok := r.FindColorGroup(pid); ok {
				colorGroups++
				if colorGroups > 1 {
					return mferr.Newf(mferr.CodeInvalidModel,
						"multiproperties %d lists more than one colorgroup", g.ID).
						WithResource(g.ID)
				}
			}
			if _, ok := r.FindBaseMaterialGroup(pid); ok && layer != 0 {
				return mferr.Newf(mferr.CodeInvalidModel,
					"multiproperties %d: basematerials group %d must occupy layer 0, not %d",
					g.ID, pid, layer).WithResource(g.ID).WithRef(pid)
			}
		}
		for mi, multi := range g.Multis {
			if len(multi.PIndices) > len(g.PIDs) {
				return mferr.Newf(mferr.CodeInvalidModel,
					"multiproperties %d: multi %d has %d indices for %d layers",
					g.ID, mi, len(multi.PIndices), len(g.PIDs)).WithResource(g.ID)
			}
			for layer, pi := range multi.PIndices {
				size, ok := r.PropertyGroupLen(g.PIDs[layer])
				if ok && int(pi) >= size {
					return mferr.Newf(mferr.CodeInvalidModel,
						"multiproperties %d: index %d out of bounds for layer group %d",
						g.ID, pi, g.PIDs[layer]).WithResource(g.ID)
				}
			}
		}
	}
	return nil
}
