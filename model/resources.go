package model

// Resources holds every ID-addressable entity of a model, one ordered
// collection per resource kind. IDs are unique across all kinds
// simultaneously; AddX methods do not enforce that, the validator does.
type Resources struct {
	Objects             []*Object
	BaseMaterialGroups  []*BaseMaterialGroup
	ColorGroups         []*ColorGroup
	Texture2Ds          []*Texture2D
	Texture2DGroups     []*Texture2DGroup
	CompositeMaterials  []*CompositeMaterials
	MultiProperties     []*MultiProperties
	SliceStacks         []*SliceStack
	Displacement2Ds     []*Displacement2D
	NormVectorGroups    []*NormVectorGroup
	Disp2DCoordGroups   []*Disp2DCoords
	Image3Ds            []*Image3D
	VolumetricPropGroup []*VolumetricPropertyGroup

	nextOrder int
}

// NextOrder hands out the next parse-order sequence number. Every resource
// takes one at first sight in document order.
func (r *Resources) NextOrder() int {
	n := r.nextOrder
	r.nextOrder++
	return n
}

// Count returns the total number of resources of all kinds.
func (r *Resources) Count() int {
	return len(r.Objects) + len(r.BaseMaterialGroups) + len(r.ColorGroups) +
		len(r.Texture2Ds) + len(r.Texture2DGroups) + len(r.CompositeMaterials) +
		len(r.MultiProperties) + len(r.SliceStacks) + len(r.Displacement2Ds) +
		len(r.NormVectorGroups) + len(r.Disp2DCoordGroups) + len(r.Image3Ds) +
		len(r.VolumetricPropGroup)
}

// Each visits every resource as (id, parseOrder, kind). Iteration order is
// by kind, then document order within a kind.
func (r *Resources) Each(fn func(id uint32, order int, kind string)) {
	for _, o := range r.Objects {
		fn(o.ID, o.ParseOrder, "object")
	}
	for _, g := range r.BaseMaterialGroups {
		fn(g.ID, g.ParseOrder, "basematerials")
	}
	for _, g := range r.ColorGroups {
		fn(g.ID, g.ParseOrder, "colorgroup")
	}
	for _, t := range r.Texture2Ds {
		fn(t.ID, t.ParseOrder, "texture2d")
	}
	for _, g := range r.Texture2DGroups {
		fn(g.ID, g.ParseOrder, "texture2dgroup")
	}
	for _, g := range r.CompositeMaterials {
		fn(g.ID, g.ParseOrder, "compositematerials")
	}
	for _, g := range r.MultiProperties {
		fn(g.ID, g.ParseOrder, "multiproperties")
	}
	for _, s := range r.SliceStacks {
		fn(s.ID, s.ParseOrder, "slicestack")
	}
	for _, d := range r.Displacement2Ds {
		fn(d.ID, d.ParseOrder, "displacement2d")
	}
	for _, g := range r.NormVectorGroups {
		fn(g.ID, g.ParseOrder, "normvectorgroup")
	}
	for _, g := range r.Disp2DCoordGroups {
		fn(g.ID, g.ParseOrder, "disp2dcoords")
	}
	for _, i := range r.Image3Ds {
		fn(i.ID, i.ParseOrder, "image3d")
	}
	for _, g := range r.VolumetricPropGroup {
		fn(g.ID, g.ParseOrder, "volumetricpropertygroup")
	}
}

// IDTaken reports whether any resource of any kind already uses id.
func (r *Resources) IDTaken(id uint32) bool {
	_, ok := r.OrderOf(id)
	return ok
}

// OrderOf returns the parse order of the resource with the given ID,
// searching every kind.
func (r *Resources) OrderOf(id uint32) (int, bool) {
	order := -1
	found := false
	r.Each(func(rid uint32, o int, _ string) {
		if rid == id && !found {
			order = o
			found = true
		}
	})
	return order, found
}

// KindOf returns the resource kind name for an ID, or "" when unknown.
func (r *Resources) KindOf(id uint32) string {
	kind := ""
	r.Each(func(rid uint32, _ int, k string) {
		if rid == id && kind == "" {
			kind = k
		}
	})
	return kind
}

// FindObject returns the object with the given ID.
func (r *Resources) FindObject(id uint32) (*Object, bool) {
	for _, o := range r.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// FindBaseMaterialGroup returns the base-material group with the given ID.
func (r *Resources) FindBaseMaterialGroup(id uint32) (*BaseMaterialGroup, bool) {
	for _, g := range r.BaseMaterialGroups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// FindColorGroup returns the color group with the given ID.
func (r *Resources) FindColorGroup(id uint32) (*ColorGroup, bool) {
	for _, g := range r.ColorGroups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// FindTexture2D returns the texture resource with the given ID.
func (r *Resources) FindTexture2D(id uint32) (*Texture2D, bool) {
	for _, t := range r.Texture2Ds {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// FindTexture2DGroup returns the texture coordinate group with the given ID.
func (r *Resources) FindTexture2DGroup(id uint32) (*Texture2DGroup, bool) {
	for _, g := range r.Texture2DGroups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// FindMultiProperties returns the multiproperties group with the given ID.
func (r *Resources) FindMultiProperties(id uint32) (*MultiProperties, bool) {
	for _, g := range r.MultiProperties {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// FindSliceStack returns the slice stack with the given ID.
func (r *Resources) FindSliceStack(id uint32) (*SliceStack, bool) {
	for _, s := range r.SliceStacks {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// FindDisplacement2D returns the displacement map with the given ID.
func (r *Resources) FindDisplacement2D(id uint32) (*Displacement2D, bool) {
	for _, d := range r.Displacement2Ds {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// FindNormVectorGroup returns the normal vector group with the given ID.
func (r *Resources) FindNormVectorGroup(id uint32) (*NormVectorGroup, bool) {
	for _, g := range r.NormVectorGroups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// FindDisp2DCoords returns the displacement coordinate group with the given ID.
func (r *Resources) FindDisp2DCoords(id uint32) (*Disp2DCoords, bool) {
	for _, g := range r.Disp2DCoordGroups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// FindImage3D returns the volumetric image stack with the given ID.
func (r *Resources) FindImage3D(id uint32) (*Image3D, bool) {
	for _, i := range r.Image3Ds {
		if i.ID == id {
			return i, true
		}
	}
	return nil, false
}

// PropertyGroupLen returns the number of entries in the property group with
// the given ID, for triangle property index bounds checks. The second return
// is false when the ID is not a property group.
func (r *Resources) PropertyGroupLen(id uint32) (int, bool) {
	if g, ok := r.FindBaseMaterialGroup(id); ok {
		return len(g.Materials), true
	}
	if g, ok := r.FindColorGroup(id); ok {
		return len(g.Colors), true
	}
	if g, ok := r.FindTexture2DGroup(id); ok {
		return len(g.Coords), true
	}
	if g, ok := r.FindMultiProperties(id); ok {
		return len(g.Multis), true
	}
	for _, g := range r.CompositeMaterials {
		if g.ID == id {
			return len(g.Composites), true
		}
	}
	return 0, false
}
