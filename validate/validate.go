package validate

import (
	"fmt"
	"strings"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// PartSet answers part-existence queries; satisfied by *opc.Package.
type PartSet interface {
	HasPart(path string) bool
}

// UniqueIDs verifies that no two resources of any kind share an ID.
func UniqueIDs(m *model.Model) error {
	seen := make(map[uint32]string, m.Resources.Count())
	var firstErr error
	m.Resources.Each(func(id uint32, _ int, kind string) {
		if firstErr != nil {
			return
		}
		if prev, ok := seen[id]; ok {
			firstErr = mferr.Newf(mferr.CodeDuplicateID,
				"duplicate resource id %d (%s and %s)", id, prev, kind).WithResource(id)
			return
		}
		seen[id] = kind
	})
	return firstErr
}

// forwardRef checks one cross-resource reference against the
// no-forward-reference rule: the referenced ID must have been declared no
// later than the referencing resource.
func forwardRef(m *model.Model, fromID uint32, fromOrder int, toID uint32) error {
	toOrder, ok := m.Resources.OrderOf(toID)
	if !ok {
		return mferr.Newf(mferr.CodeDanglingRef,
			"resource %d references undeclared id %d", fromID, toID).
			WithResource(fromID).WithRef(toID)
	}
	if toOrder > fromOrder {
		return mferr.Newf(mferr.CodeForwardRef,
			"resource %d forward-references id %d", fromID, toID).
			WithResource(fromID).WithRef(toID)
	}
	return nil
}

// ForwardRefs enforces the no-forward-reference rule for every
// cross-resource ID the model carries.
func ForwardRefs(m *model.Model) error {
	r := &m.Resources
	for _, o := range r.Objects {
		if o.HasPID {
			if err := forwardRef(m, o.ID, o.ParseOrder, o.PID); err != nil {
				return err
			}
		}
		if o.SliceStackID != 0 {
			if err := forwardRef(m, o.ID, o.ParseOrder, o.SliceStackID); err != nil {
				return err
			}
		}
		if o.Mesh != nil {
			for _, t := range o.Mesh.Triangles {
				if t.HasPID {
					if err := forwardRef(m, o.ID, o.ParseOrder, t.PID); err != nil {
						return err
					}
				}
				if t.HasDID {
					if err := forwardRef(m, o.ID, o.ParseOrder, t.DID); err != nil {
						return err
					}
				}
			}
			if bl := o.Mesh.BeamLattice; bl != nil {
				if bl.HasClipping {
					if err := forwardRef(m, o.ID, o.ParseOrder, bl.ClippingMesh); err != nil {
						return err
					}
				}
				if bl.HasRepMesh {
					if err := forwardRef(m, o.ID, o.ParseOrder, bl.RepMesh); err != nil {
						return err
					}
				}
			}
		}
		if dm := o.DisplacementMesh; dm != nil {
			for _, t := range dm.Mesh.Triangles {
				if t.HasDID {
					if err := forwardRef(m, o.ID, o.ParseOrder, t.DID); err != nil {
						return err
					}
				}
			}
		}
		if bs := o.BooleanShape; bs != nil && bs.Path == "" {
			if err := forwardRef(m, o.ID, o.ParseOrder, bs.ObjectID); err != nil {
				return err
			}
			for _, op := range bs.Operands {
				if op.Path != "" {
					continue
				}
				if err := forwardRef(m, o.ID, o.ParseOrder, op.ObjectID); err != nil {
					return err
				}
			}
		}
	}
	for _, g := range r.Texture2DGroups {
		if err := forwardRef(m, g.ID, g.ParseOrder, g.TextureID); err != nil {
			return err
		}
	}
	for _, g := range r.CompositeMaterials {
		if err := forwardRef(m, g.ID, g.ParseOrder, g.MaterialID); err != nil {
			return err
		}
	}
	for _, g := range r.MultiProperties {
		for _, pid := range g.PIDs {
			if err := forwardRef(m, g.ID, g.ParseOrder, pid); err != nil {
				return err
			}
		}
	}
	for _, g := range r.Disp2DCoordGroups {
		if err := forwardRef(m, g.ID, g.ParseOrder, g.DispID); err != nil {
			return err
		}
		if err := forwardRef(m, g.ID, g.ParseOrder, g.NID); err != nil {
			return err
		}
	}
	for _, g := range r.VolumetricPropGroup {
		for _, ch := range g.Channels {
			if err := forwardRef(m, g.ID, g.ParseOrder, ch.Image3DID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ComponentGraph verifies that every component reference resolves to a
// declared object and that the object graph induced by component references
// is acyclic. Cycles are reported with the full path, rendered with an
// arrow between each node.
func ComponentGraph(m *model.Model) error {
	done := make(map[uint32]bool)
	onPath := make(map[uint32]bool)
	var path []uint32

	var walk func(o *model.Object) error
	walk = func(o *model.Object) error {
		if done[o.ID] {
			return nil
		}
		onPath[o.ID] = true
		path = append(path, o.ID)
		defer func() {
			delete(onPath, o.ID)
			path = path[:len(path)-1]
		}()

		for _, c := range o.Components {
			if c.Path != "" && !componentResolved(m, c) {
				// Reference into another part; resolved by multi-part
				// assembly before validation runs.
				continue
			}
			target, ok := m.Resources.FindObject(c.ObjectID)
			if !ok {
				return mferr.Newf(mferr.CodeDanglingRef,
					"object %d references undeclared object %d", o.ID, c.ObjectID).
					WithResource(o.ID).WithRef(c.ObjectID)
			}
			if onPath[c.ObjectID] {
				return mferr.Newf(mferr.CodeCircularRef,
					"circular component reference: %s", renderCycle(path, c.ObjectID)).
					WithResource(o.ID).WithRef(c.ObjectID)
			}
			if err := walk(target); err != nil {
				return err
			}
		}
		done[o.ID] = true
		return nil
	}

	for _, o := range m.Resources.Objects {
		if len(o.Components) == 0 {
			continue
		}
		if err := walk(o); err != nil {
			return err
		}
	}
	return nil
}

// componentResolved reports whether a path-bearing component already points
// at an object spliced into this model.
func componentResolved(m *model.Model, c model.Component) bool {
	_, ok := m.Resources.FindObject(c.ObjectID)
	return ok
}

// renderCycle renders the cycle path from its first occurrence of repeat.
func renderCycle(path []uint32, repeat uint32) string {
	start := 0
	for i, id := range path {
		if id == repeat {
			start = i
			break
		}
	}
	var b strings.Builder
	for _, id := range path[start:] {
		fmt.Fprintf(&b, "%d→", id)
	}
	fmt.Fprintf(&b, "%d", repeat)
	return b.String()
}

// Core runs the core-specification semantic checks: object content, mesh
// index bounds, property index bounds, and build item references.
func Core(m *model.Model) error {
	for _, o := range m.Resources.Objects {
		if err := checkObject(m, o); err != nil {
			return err
		}
	}
	return checkBuild(m)
}

func checkObject(m *model.Model, o *model.Object) error {
	if o.Mesh != nil {
		if err := checkMesh(m, o, o.Mesh); err != nil {
			return err
		}
	}
	if o.DisplacementMesh != nil {
		if err := checkMesh(m, o, &o.DisplacementMesh.Mesh); err != nil {
			return err
		}
	}
	if o.HasPID {
		if _, ok := m.Resources.PropertyGroupLen(o.PID); !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"object %d references undeclared property group %d", o.ID, o.PID).
				WithResource(o.ID).WithRef(o.PID)
		}
	}
	return nil
}

func checkMesh(m *model.Model, o *model.Object, mesh *model.Mesh) error {
	n := uint32(len(mesh.Vertices))
	for i, t := range mesh.Triangles {
		for _, v := range [3]uint32{t.V1, t.V2, t.V3} {
			if v >= n {
				return mferr.Newf(mferr.CodeInvalidModel,
					"object %d triangle %d: vertex index %d out of bounds (mesh has %d vertices)",
					o.ID, i, v, n).WithResource(o.ID)
			}
		}
		if t.V1 == t.V2 || t.V2 == t.V3 || t.V1 == t.V3 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"object %d triangle %d: degenerate vertex indices %d %d %d",
				o.ID, i, t.V1, t.V2, t.V3).WithResource(o.ID)
		}
		if t.HasPID {
			size, ok := m.Resources.PropertyGroupLen(t.PID)
			if !ok {
				return mferr.Newf(mferr.CodeDanglingRef,
					"object %d triangle %d references undeclared property group %d",
					o.ID, i, t.PID).WithResource(o.ID).WithRef(t.PID)
			}
			for _, p := range [3]uint32{t.P1, t.P2, t.P3} {
				if int(p) >= size {
					return mferr.Newf(mferr.CodeInvalidModel,
						"object %d triangle %d: property index %d out of bounds (group %d has %d entries)",
						o.ID, i, p, t.PID, size).WithResource(o.ID)
				}
			}
		}
	}
	if bl := mesh.BeamLattice; bl != nil {
		for i, b := range bl.Beams {
			if b.V1 >= n || b.V2 >= n {
				return mferr.Newf(mferr.CodeInvalidModel,
					"object %d beam %d: vertex index out of bounds (mesh has %d vertices)",
					o.ID, i, n).WithResource(o.ID)
			}
		}
	}
	return nil
}

func checkBuild(m *model.Model) error {
	for i, item := range m.Build.Items {
		if item.Path != "" && !item.ResolvedPath {
			continue
		}
		o, ok := m.Resources.FindObject(item.ObjectID)
		if !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"build item %d references undeclared object %d", i, item.ObjectID).
				WithRef(item.ObjectID)
		}
		if o.Type == model.ObjectTypeOther {
			return mferr.Newf(mferr.CodeInvalidModel,
				"build item %d references object %d of type other", i, item.ObjectID).
				WithRef(item.ObjectID)
		}
	}
	return nil
}

// PartRefs verifies that every file-referencing resource points at a part
// present in the package. Parts the keystore lists as encrypted are skipped;
// their bytes are not expected in clear form.
func PartRefs(m *model.Model, parts PartSet) error {
	check := func(id uint32, path string) error {
		if path == "" {
			return nil
		}
		if m.SecureContent != nil && m.SecureContent.IsEncrypted(path) {
			return nil
		}
		if !parts.HasPart(path) {
			return mferr.Newf(mferr.CodeMissingFile,
				"resource %d references missing part %s", id, path).
				WithResource(id).WithPath(path)
		}
		return nil
	}

	for _, t := range m.Resources.Texture2Ds {
		if err := check(t.ID, t.Path); err != nil {
			return err
		}
	}
	for _, d := range m.Resources.Displacement2Ds {
		if err := check(d.ID, d.Path); err != nil {
			return err
		}
	}
	for _, i := range m.Resources.Image3Ds {
		for _, sheet := range i.Sheets {
			if err := check(i.ID, sheet); err != nil {
				return err
			}
		}
	}
	return nil
}
