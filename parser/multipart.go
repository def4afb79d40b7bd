package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
	"github.com/printforge/mf3/opc"
)

// assemble resolves references into other model parts: slice stack
// references and production path references on components, boolean shapes,
// and build items. Referenced parts are parsed once, their resources spliced
// into the root model with colliding IDs remapped to fresh ones.
func (p *Parser) assemble(m *model.Model) error {
	a := &assembler{p: p, m: m, subs: make(map[string]*subPart)}
	if err := a.resolveSliceRefs(); err != nil {
		return err
	}
	return a.resolvePathRefs()
}

// subPart is one referenced model part; remap is filled when its resources
// are spliced into the root model.
type subPart struct {
	m     *model.Model
	remap map[uint32]uint32
}

type assembler struct {
	p    *Parser
	m    *model.Model
	subs map[string]*subPart

	// nextID hands out fresh resource IDs for collision remapping; zero
	// until the first collision.
	nextID uint32
}

// loadSub parses a referenced model part, one hop deep at most.
func (a *assembler) loadSub(path string) (*subPart, error) {
	norm := normalizePart(path)
	if a.p.openParts[norm] {
		return nil, mferr.Newf(mferr.CodePartCycle,
			"model part %s is referenced while being parsed", path).WithPath(path)
	}
	if sub, ok := a.subs[norm]; ok {
		return sub, nil
	}

	if err := a.p.pkg.ValidateContentType(path, opc.ContentTypeModel); err != nil {
		return nil, err
	}
	data, err := a.p.loadPart(path, a.m.SecureContent)
	if err != nil {
		return nil, err
	}

	sm := model.NewModel()
	sm.Path = path
	a.p.openParts[norm] = true
	err = a.p.parseModelPart(data, sm, false)
	delete(a.p.openParts, norm)
	if err != nil {
		return nil, err
	}
	if ref := firstNestedRef(sm); ref != "" {
		return nil, mferr.Newf(mferr.CodeNestedPartRef,
			"model part %s references a further part %s; references must resolve in one hop",
			path, ref).WithPath(path)
	}

	a.p.log.Debug("referenced part parsed",
		zap.String("path", path), zap.Int("resources", sm.Resources.Count()))
	sub := &subPart{m: sm}
	a.subs[norm] = sub
	return sub, nil
}

// firstNestedRef returns the first path reference a non-root part carries,
// or "" when it has none.
func firstNestedRef(m *model.Model) string {
	for _, o := range m.Resources.Objects {
		for _, c := range o.Components {
			if c.Path != "" {
				return c.Path
			}
		}
		if bs := o.BooleanShape; bs != nil {
			if bs.Path != "" {
				return bs.Path
			}
			for _, op := range bs.Operands {
				if op.Path != "" {
					return op.Path
				}
			}
		}
	}
	for _, st := range m.Resources.SliceStacks {
		for _, ref := range st.Refs {
			return ref.Path
		}
	}
	for _, item := range m.Build.Items {
		if item.Path != "" {
			return item.Path
		}
	}
	return ""
}

// resolveSliceRefs splices externally stored slices into their stacks. Slice
// parts must live under /2D/.
func (a *assembler) resolveSliceRefs() error {
	for _, st := range a.m.Resources.SliceStacks {
		// Resolution splices slices into the stack, which would mask an
		// invalid document that mixes inline slices with references.
		if len(st.Slices) > 0 && len(st.Refs) > 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"slicestack %d mixes slice and sliceref children", st.ID).WithResource(st.ID)
		}
		for i := range st.Refs {
			ref := &st.Refs[i]
			if ref.Resolved {
				continue
			}
			if !strings.HasPrefix(ref.Path, "/2D/") {
				return mferr.Newf(mferr.CodeBadPartPath,
					"slicestack %d references slice part %s outside /2D/", st.ID, ref.Path).
					WithResource(st.ID).WithPath(ref.Path)
			}
			sub, err := a.loadSub(ref.Path)
			if err != nil {
				return err
			}
			target, ok := sub.m.Resources.FindSliceStack(ref.SliceStackID)
			if !ok {
				return mferr.Newf(mferr.CodeDanglingRef,
					"slicestack %d references undeclared slicestack %d in %s",
					st.ID, ref.SliceStackID, ref.Path).
					WithResource(st.ID).WithRef(ref.SliceStackID).WithPath(ref.Path)
			}
			st.Slices = append(st.Slices, target.Slices...)
			ref.Resolved = true
		}
	}
	return nil
}

// resolvePathRefs splices referenced parts' resources into the root model and
// rewrites the referencing IDs through the collision remap.
func (a *assembler) resolvePathRefs() error {
	// Splicing appends to the object list; only the objects present before
	// assembly can carry path references.
	objects := a.m.Resources.Objects
	for _, o := range objects {
		for i := range o.Components {
			c := &o.Components[i]
			if c.Path == "" {
				continue
			}
			id, err := a.spliceRef(o.ID, c.Path, c.ObjectID)
			if err != nil {
				return err
			}
			c.ObjectID = id
		}
		if bs := o.BooleanShape; bs != nil {
			if bs.Path != "" {
				id, err := a.spliceRef(o.ID, bs.Path, bs.ObjectID)
				if err != nil {
					return err
				}
				bs.ObjectID = id
				bs.Path = ""
			}
			for i := range bs.Operands {
				op := &bs.Operands[i]
				if op.Path == "" {
					continue
				}
				id, err := a.spliceRef(o.ID, op.Path, op.ObjectID)
				if err != nil {
					return err
				}
				op.ObjectID = id
				op.Path = ""
			}
		}
	}
	for i := range a.m.Build.Items {
		item := &a.m.Build.Items[i]
		if item.Path == "" {
			continue
		}
		sub, err := a.loadSub(item.Path)
		if err != nil {
			return err
		}
		a.splice(sub)
		id, ok := sub.remap[item.ObjectID]
		if !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"build item references undeclared object %d in %s", item.ObjectID, item.Path).
				WithRef(item.ObjectID).WithPath(item.Path)
		}
		item.ObjectID = id
		item.ResolvedPath = true
	}
	return nil
}

// spliceRef loads and splices one referenced part and resolves refID through
// its remap.
func (a *assembler) spliceRef(fromID uint32, path string, refID uint32) (uint32, error) {
	sub, err := a.loadSub(path)
	if err != nil {
		return 0, err
	}
	a.splice(sub)
	id, ok := sub.remap[refID]
	if !ok {
		return 0, mferr.Newf(mferr.CodeDanglingRef,
			"object %d references undeclared object %d in %s", fromID, refID, path).
			WithResource(fromID).WithRef(refID).WithPath(path)
	}
	return id, nil
}

// splice moves a referenced part's resources into the root model, assigning
// fresh IDs where the part's IDs collide with IDs already present. Relative
// parse order within the part is preserved.
func (a *assembler) splice(sub *subPart) {
	if sub.remap != nil {
		return
	}
	remap := make(map[uint32]uint32)
	assign := func(id uint32) uint32 {
		if !a.m.Resources.IDTaken(id) {
			if _, dup := remapValueTaken(remap, id); !dup {
				remap[id] = id
				return id
			}
		}
		fresh := a.freshID(remap)
		remap[id] = fresh
		return fresh
	}
	sub.m.Resources.Each(func(id uint32, _ int, _ string) {
		assign(id)
	})

	// Splice in sub parse order so relative declaration order survives.
	type entry struct {
		order int
		add   func()
	}
	var entries []entry
	r := &a.m.Resources
	sr := &sub.m.Resources
	for _, o := range sr.Objects {
		o := o
		entries = append(entries, entry{o.ParseOrder, func() {
			remapObject(o, remap)
			o.ParseOrder = r.NextOrder()
			r.Objects = append(r.Objects, o)
		}})
	}
	for _, g := range sr.BaseMaterialGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			g.ParseOrder = r.NextOrder()
			r.BaseMaterialGroups = append(r.BaseMaterialGroups, g)
		}})
	}
	for _, g := range sr.ColorGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			g.ParseOrder = r.NextOrder()
			r.ColorGroups = append(r.ColorGroups, g)
		}})
	}
	for _, t := range sr.Texture2Ds {
		t := t
		entries = append(entries, entry{t.ParseOrder, func() {
			t.ID = remap[t.ID]
			t.ParseOrder = r.NextOrder()
			r.Texture2Ds = append(r.Texture2Ds, t)
		}})
	}
	for _, g := range sr.Texture2DGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			g.TextureID = mapID(remap, g.TextureID)
			g.ParseOrder = r.NextOrder()
			r.Texture2DGroups = append(r.Texture2DGroups, g)
		}})
	}
	for _, g := range sr.CompositeMaterials {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			g.MaterialID = mapID(remap, g.MaterialID)
			g.ParseOrder = r.NextOrder()
			r.CompositeMaterials = append(r.CompositeMaterials, g)
		}})
	}
	for _, g := range sr.MultiProperties {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			for i := range g.PIDs {
				g.PIDs[i] = mapID(remap, g.PIDs[i])
			}
			g.ParseOrder = r.NextOrder()
			r.MultiProperties = append(r.MultiProperties, g)
		}})
	}
	for _, s := range sr.SliceStacks {
		s := s
		entries = append(entries, entry{s.ParseOrder, func() {
			s.ID = remap[s.ID]
			s.ParseOrder = r.NextOrder()
			r.SliceStacks = append(r.SliceStacks, s)
		}})
	}
	for _, d := range sr.Displacement2Ds {
		d := d
		entries = append(entries, entry{d.ParseOrder, func() {
			d.ID = remap[d.ID]
			d.ParseOrder = r.NextOrder()
			r.Displacement2Ds = append(r.Displacement2Ds, d)
		}})
	}
	for _, g := range sr.NormVectorGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			g.ParseOrder = r.NextOrder()
			r.NormVectorGroups = append(r.NormVectorGroups, g)
		}})
	}
	for _, g := range sr.Disp2DCoordGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			g.DispID = mapID(remap, g.DispID)
			g.NID = mapID(remap, g.NID)
			g.ParseOrder = r.NextOrder()
			r.Disp2DCoordGroups = append(r.Disp2DCoordGroups, g)
		}})
	}
	for _, img := range sr.Image3Ds {
		img := img
		entries = append(entries, entry{img.ParseOrder, func() {
			img.ID = remap[img.ID]
			img.ParseOrder = r.NextOrder()
			r.Image3Ds = append(r.Image3Ds, img)
		}})
	}
	for _, g := range sr.VolumetricPropGroup {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() {
			g.ID = remap[g.ID]
			for i := range g.Channels {
				g.Channels[i].Image3DID = mapID(remap, g.Channels[i].Image3DID)
			}
			g.ParseOrder = r.NextOrder()
			r.VolumetricPropGroup = append(r.VolumetricPropGroup, g)
		}})
	}

	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].order < entries[j-1].order; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	for _, e := range entries {
		e.add()
	}
	sub.remap = remap
}

// remapObject rewrites an object's local references through the splice remap.
func remapObject(o *model.Object, remap map[uint32]uint32) {
	o.ID = remap[o.ID]
	if o.HasPID {
		o.PID = mapID(remap, o.PID)
	}
	if o.SliceStackID != 0 {
		o.SliceStackID = mapID(remap, o.SliceStackID)
	}
	for i := range o.Components {
		o.Components[i].ObjectID = mapID(remap, o.Components[i].ObjectID)
	}
	if bs := o.BooleanShape; bs != nil {
		bs.ObjectID = mapID(remap, bs.ObjectID)
		for i := range bs.Operands {
			bs.Operands[i].ObjectID = mapID(remap, bs.Operands[i].ObjectID)
		}
	}
	if o.Mesh != nil {
		remapMesh(o.Mesh, remap)
	}
	if o.DisplacementMesh != nil {
		remapMesh(&o.DisplacementMesh.Mesh, remap)
	}
}

func remapMesh(mesh *model.Mesh, remap map[uint32]uint32) {
	for i := range mesh.Triangles {
		t := &mesh.Triangles[i]
		if t.HasPID {
			t.PID = mapID(remap, t.PID)
		}
		if t.HasDID {
			t.DID = mapID(remap, t.DID)
		}
	}
	if bl := mesh.BeamLattice; bl != nil {
		if bl.HasClipping {
			bl.ClippingMesh = mapID(remap, bl.ClippingMesh)
		}
		if bl.HasRepMesh {
			bl.RepMesh = mapID(remap, bl.RepMesh)
		}
	}
}

// mapID resolves id through the remap; IDs the part never declared pass
// through unchanged for the validator to report.
func mapID(remap map[uint32]uint32, id uint32) uint32 {
	if mapped, ok := remap[id]; ok {
		return mapped
	}
	return id
}

// remapValueTaken reports whether some already-assigned remap target equals id.
func remapValueTaken(remap map[uint32]uint32, id uint32) (uint32, bool) {
	for from, to := range remap {
		if to == id {
			return from, true
		}
	}
	return 0, false
}

// freshID returns the lowest unused resource ID above every ID in the root
// model and the remap built so far.
func (a *assembler) freshID(remap map[uint32]uint32) uint32 {
	if a.nextID == 0 {
		max := uint32(0)
		a.m.Resources.Each(func(id uint32, _ int, _ string) {
			if id > max {
				max = id
			}
		})
		a.nextID = max + 1
	}
	for {
		id := a.nextID
		a.nextID++
		if a.m.Resources.IDTaken(id) {
			continue
		}
		if _, dup := remapValueTaken(remap, id); dup {
			continue
		}
		return id
	}
}
