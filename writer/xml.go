package writer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/printforge/mf3/extensions"
	"github.com/printforge/mf3/model"
)

const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

var textEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;")

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fmtU(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

// modelEncoder renders one model part. Attribute order is fixed per element
// and resources are emitted in parse order, so encoding is deterministic.
type modelEncoder struct {
	m   *model.Model
	reg *extensions.Registry
	b   strings.Builder

	used          map[model.Extension]bool
	customPrefix  map[string]string
	customOrdered []string
}

func newModelEncoder(m *model.Model, reg *extensions.Registry) *modelEncoder {
	return &modelEncoder{m: m, reg: reg}
}

func (e *modelEncoder) encode() ([]byte, error) {
	e.collectNamespaces()

	e.b.WriteString(xmlHeader)
	e.b.WriteString(`<model unit="` + e.m.Unit.String() + `"`)
	if e.m.Language != "" {
		e.attr("xml:lang", e.m.Language)
	}
	e.attr("xmlns", model.NSCore)
	for ext := model.ExtMaterial; ext <= model.ExtVolumetric; ext++ {
		if e.used[ext] {
			e.attr("xmlns:"+ext.Prefix(), ext.Namespace())
		}
	}
	for _, ns := range e.customOrdered {
		e.attr("xmlns:"+e.customPrefix[ns], ns)
	}
	if req := e.requiredList(); req != "" {
		e.attr("requiredextensions", req)
	}
	e.b.WriteString(">\n")

	for _, md := range e.m.Metadata {
		e.writeMetadata(1, md)
	}
	e.writeResources()
	e.writeBuild()

	e.b.WriteString("</model>\n")
	return []byte(e.b.String()), nil
}

// collectNamespaces decides which extension namespaces the document
// declares: every extension whose data appears in the model, every
// registered handler reporting use, and everything required.
func (e *modelEncoder) collectNamespaces() {
	e.used = make(map[model.Extension]bool)
	r := &e.m.Resources

	if len(r.ColorGroups) > 0 || len(r.Texture2Ds) > 0 || len(r.Texture2DGroups) > 0 ||
		len(r.CompositeMaterials) > 0 || len(r.MultiProperties) > 0 {
		e.used[model.ExtMaterial] = true
	}
	if len(r.SliceStacks) > 0 {
		e.used[model.ExtSlice] = true
	}
	if len(r.Displacement2Ds) > 0 || len(r.NormVectorGroups) > 0 || len(r.Disp2DCoordGroups) > 0 {
		e.used[model.ExtDisplacement] = true
	}
	if len(r.Image3Ds) > 0 || len(r.VolumetricPropGroup) > 0 {
		e.used[model.ExtVolumetric] = true
	}
	if e.m.Build.UUID != "" {
		e.used[model.ExtProduction] = true
	}
	for _, item := range e.m.Build.Items {
		if item.UUID != "" || (item.Path != "" && !item.ResolvedPath) {
			e.used[model.ExtProduction] = true
		}
	}
	for _, o := range r.Objects {
		if o.UUID != "" {
			e.used[model.ExtProduction] = true
		}
		if o.SliceStackID != 0 {
			e.used[model.ExtSlice] = true
		}
		if o.BooleanShape != nil {
			e.used[model.ExtBooleanOperations] = true
		}
		if o.DisplacementMesh != nil {
			e.used[model.ExtDisplacement] = true
		}
		for _, c := range o.Components {
			if c.UUID != "" || c.Path != "" {
				e.used[model.ExtProduction] = true
			}
		}
		if o.Mesh != nil {
			if o.Mesh.BeamLattice != nil {
				e.used[model.ExtBeamLattice] = true
			}
			for _, t := range o.Mesh.Triangles {
				if t.HasDID {
					e.used[model.ExtDisplacement] = true
				}
			}
		}
	}

	for _, ext := range e.reg.UsedExtensions(e.m) {
		e.used[ext] = true
	}
	for _, ext := range e.m.RequiredExtensions {
		e.used[ext] = true
	}
	// Secure content lives in the keystore part, not the model document.
	delete(e.used, model.ExtSecureContent)
	delete(e.used, model.ExtCore)

	e.customPrefix = make(map[string]string)
	for i, ns := range e.m.RequiredCustom {
		if _, ok := e.customPrefix[ns]; ok {
			continue
		}
		e.customPrefix[ns] = "c" + strconv.Itoa(i+1)
		e.customOrdered = append(e.customOrdered, ns)
	}
}

func (e *modelEncoder) requiredList() string {
	var parts []string
	for _, ext := range e.m.RequiredExtensions {
		parts = append(parts, ext.Prefix())
	}
	for _, ns := range e.m.RequiredCustom {
		parts = append(parts, e.customPrefix[ns])
	}
	return strings.Join(parts, " ")
}

func (e *modelEncoder) attr(name, value string) {
	e.b.WriteString(" " + name + `="` + attrEscaper.Replace(value) + `"`)
}

func (e *modelEncoder) open(depth int, name string) {
	e.b.WriteString(strings.Repeat(" ", depth) + "<" + name)
}

func (e *modelEncoder) closeEmpty() {
	e.b.WriteString("/>\n")
}

func (e *modelEncoder) closeOpen() {
	e.b.WriteString(">\n")
}

func (e *modelEncoder) end(depth int, name string) {
	e.b.WriteString(strings.Repeat(" ", depth) + "</" + name + ">\n")
}

func (e *modelEncoder) writeMetadata(depth int, md model.Metadata) {
	e.open(depth, "metadata")
	e.attr("name", md.Name)
	if md.Type != "" {
		e.attr("type", md.Type)
	}
	if md.Preserve {
		e.attr("preserve", "1")
	}
	e.b.WriteString(">" + textEscaper.Replace(md.Value) + "</metadata>\n")
}

func (e *modelEncoder) writeMetadataGroup(depth int, mds []model.Metadata) {
	if len(mds) == 0 {
		return
	}
	e.open(depth, "metadatagroup")
	e.closeOpen()
	for _, md := range mds {
		e.writeMetadata(depth+1, md)
	}
	e.end(depth, "metadatagroup")
}

// writeResources emits every resource in parse order, regardless of kind.
func (e *modelEncoder) writeResources() {
	r := &e.m.Resources
	type entry struct {
		order int
		write func()
	}
	var entries []entry
	for _, o := range r.Objects {
		o := o
		entries = append(entries, entry{o.ParseOrder, func() { e.writeObject(o) }})
	}
	for _, g := range r.BaseMaterialGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeBaseMaterials(g) }})
	}
	for _, g := range r.ColorGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeColorGroup(g) }})
	}
	for _, t := range r.Texture2Ds {
		t := t
		entries = append(entries, entry{t.ParseOrder, func() { e.writeTexture2D(t) }})
	}
	for _, g := range r.Texture2DGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeTexture2DGroup(g) }})
	}
	for _, g := range r.CompositeMaterials {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeCompositeMaterials(g) }})
	}
	for _, g := range r.MultiProperties {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeMultiProperties(g) }})
	}
	for _, s := range r.SliceStacks {
		s := s
		entries = append(entries, entry{s.ParseOrder, func() { e.writeSliceStack(s) }})
	}
	for _, d := range r.Displacement2Ds {
		d := d
		entries = append(entries, entry{d.ParseOrder, func() { e.writeDisplacement2D(d) }})
	}
	for _, g := range r.NormVectorGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeNormVectorGroup(g) }})
	}
	for _, g := range r.Disp2DCoordGroups {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeDisp2DCoords(g) }})
	}
	for _, img := range r.Image3Ds {
		img := img
		entries = append(entries, entry{img.ParseOrder, func() { e.writeImage3D(img) }})
	}
	for _, g := range r.VolumetricPropGroup {
		g := g
		entries = append(entries, entry{g.ParseOrder, func() { e.writeVolumetricPropertyGroup(g) }})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	e.open(1, "resources")
	e.closeOpen()
	for _, en := range entries {
		en.write()
	}
	e.end(1, "resources")
}

func (e *modelEncoder) writeObject(o *model.Object) {
	e.open(2, "object")
	e.attr("id", fmtU(o.ID))
	if o.Type != model.ObjectTypeModel {
		e.attr("type", o.Type.String())
	}
	if o.Name != "" {
		e.attr("name", o.Name)
	}
	if o.PartNumber != "" {
		e.attr("partnumber", o.PartNumber)
	}
	if o.Thumbnail != "" {
		e.attr("thumbnail", o.Thumbnail)
	}
	if o.HasPID {
		e.attr("pid", fmtU(o.PID))
		e.attr("pindex", fmtU(o.PIndex))
	}
	if o.UUID != "" {
		e.attr(e.pfx(model.ExtProduction)+":UUID", o.UUID)
	}
	if o.SliceStackID != 0 {
		e.attr(e.pfx(model.ExtSlice)+":slicestackid", fmtU(o.SliceStackID))
		if o.SliceResolution != model.ResolutionFull {
			e.attr(e.pfx(model.ExtSlice)+":meshresolution", o.SliceResolution.String())
		}
	}
	e.closeOpen()

	e.writeMetadataGroup(3, o.Metadata)
	switch {
	case o.Mesh != nil:
		e.writeMesh(3, o.Mesh)
	case len(o.Components) > 0:
		e.writeComponents(3, o.Components)
	case o.BooleanShape != nil:
		e.writeBooleanShape(3, o.BooleanShape)
	case o.DisplacementMesh != nil:
		e.writeDisplacementMesh(3, o.DisplacementMesh)
	}
	e.end(2, "object")
}

func (e *modelEncoder) writeMesh(depth int, mesh *model.Mesh) {
	e.open(depth, "mesh")
	e.closeOpen()
	e.open(depth+1, "vertices")
	e.closeOpen()
	for _, v := range mesh.Vertices {
		e.open(depth+2, "vertex")
		e.attr("x", fmtF(v.X))
		e.attr("y", fmtF(v.Y))
		e.attr("z", fmtF(v.Z))
		e.closeEmpty()
	}
	e.end(depth+1, "vertices")
	e.open(depth+1, "triangles")
	e.closeOpen()
	for _, t := range mesh.Triangles {
		e.writeTriangle(depth+2, t)
	}
	e.end(depth+1, "triangles")
	if mesh.BeamLattice != nil {
		e.writeBeamLattice(depth+1, mesh.BeamLattice)
	}
	e.end(depth, "mesh")
}

func (e *modelEncoder) writeTriangle(depth int, t model.Triangle) {
	e.open(depth, "triangle")
	e.attr("v1", fmtU(t.V1))
	e.attr("v2", fmtU(t.V2))
	e.attr("v3", fmtU(t.V3))
	if t.HasPID {
		e.attr("pid", fmtU(t.PID))
	}
	if t.HasP1 {
		e.attr("p1", fmtU(t.P1))
	}
	if t.HasP23 {
		e.attr("p2", fmtU(t.P2))
		e.attr("p3", fmtU(t.P3))
	}
	if t.HasDID {
		d := e.pfx(model.ExtDisplacement)
		e.attr(d+":did", fmtU(t.DID))
		e.attr(d+":d1", fmtU(t.D1))
		e.attr(d+":d2", fmtU(t.D2))
		e.attr(d+":d3", fmtU(t.D3))
	}
	e.closeEmpty()
}

func (e *modelEncoder) writeComponents(depth int, comps []model.Component) {
	e.open(depth, "components")
	e.closeOpen()
	p := e.pfx(model.ExtProduction)
	for _, c := range comps {
		e.open(depth+1, "component")
		e.attr("objectid", fmtU(c.ObjectID))
		if c.Transform != nil {
			e.attr("transform", c.Transform.String())
		}
		if c.Path != "" {
			e.attr(p+":path", c.Path)
		}
		if c.UUID != "" {
			e.attr(p+":UUID", c.UUID)
		}
		e.closeEmpty()
	}
	e.end(depth, "components")
}

func (e *modelEncoder) writeBooleanShape(depth int, bs *model.BooleanShape) {
	bo := e.pfx(model.ExtBooleanOperations)
	e.open(depth, bo+":booleanshape")
	e.attr("objectid", fmtU(bs.ObjectID))
	if bs.Path != "" {
		e.attr("path", bs.Path)
	}
	if bs.Transform != nil {
		e.attr("transform", bs.Transform.String())
	}
	e.attr("operation", bs.Operation.String())
	e.closeOpen()
	for _, op := range bs.Operands {
		e.open(depth+1, bo+":boolean")
		e.attr("objectid", fmtU(op.ObjectID))
		if op.Path != "" {
			e.attr("path", op.Path)
		}
		if op.Transform != nil {
			e.attr("transform", op.Transform.String())
		}
		e.closeEmpty()
	}
	e.end(depth, bo+":booleanshape")
}

func (e *modelEncoder) writeDisplacementMesh(depth int, dm *model.DisplacementMesh) {
	d := e.pfx(model.ExtDisplacement)
	e.open(depth, d+":displacementmesh")
	e.closeOpen()
	e.open(depth+1, d+":vertices")
	e.closeOpen()
	for _, v := range dm.Mesh.Vertices {
		e.open(depth+2, d+":vertex")
		e.attr("x", fmtF(v.X))
		e.attr("y", fmtF(v.Y))
		e.attr("z", fmtF(v.Z))
		e.closeEmpty()
	}
	e.end(depth+1, d+":vertices")
	e.open(depth+1, d+":triangles")
	e.closeOpen()
	for _, t := range dm.Mesh.Triangles {
		e.writeDisplacementTriangle(depth+2, t)
	}
	e.end(depth+1, d+":triangles")
	e.end(depth, d+":displacementmesh")
}

func (e *modelEncoder) writeDisplacementTriangle(depth int, t model.Triangle) {
	d := e.pfx(model.ExtDisplacement)
	e.open(depth, d+":triangle")
	e.attr("v1", fmtU(t.V1))
	e.attr("v2", fmtU(t.V2))
	e.attr("v3", fmtU(t.V3))
	if t.HasPID {
		e.attr("pid", fmtU(t.PID))
	}
	if t.HasP1 {
		e.attr("p1", fmtU(t.P1))
	}
	if t.HasP23 {
		e.attr("p2", fmtU(t.P2))
		e.attr("p3", fmtU(t.P3))
	}
	if t.HasDID {
		e.attr(d+":did", fmtU(t.DID))
		e.attr(d+":d1", fmtU(t.D1))
		e.attr(d+":d2", fmtU(t.D2))
		e.attr(d+":d3", fmtU(t.D3))
	}
	e.closeEmpty()
}

func (e *modelEncoder) writeBeamLattice(depth int, bl *model.BeamLattice) {
	b := e.pfx(model.ExtBeamLattice)
	e.open(depth, b+":beamlattice")
	e.attr("minlength", fmtF(bl.MinLength))
	e.attr("radius", fmtF(bl.DefaultRadius))
	if bl.DefaultCap != model.CapSphere {
		e.attr("cap", bl.DefaultCap.String())
	}
	if bl.ClipMode != model.ClipNone {
		e.attr("clippingmode", bl.ClipMode.String())
	}
	if bl.HasClipping {
		e.attr("clippingmesh", fmtU(bl.ClippingMesh))
	}
	if bl.HasRepMesh {
		e.attr("representationmesh", fmtU(bl.RepMesh))
	}
	e.closeOpen()
	e.open(depth+1, b+":beams")
	e.closeOpen()
	for _, beam := range bl.Beams {
		e.open(depth+2, b+":beam")
		e.attr("v1", fmtU(beam.V1))
		e.attr("v2", fmtU(beam.V2))
		if beam.HasR1 {
			e.attr("r1", fmtF(beam.R1))
		}
		if beam.HasR2 {
			e.attr("r2", fmtF(beam.R2))
		}
		if beam.Cap1 != bl.DefaultCap {
			e.attr("cap1", beam.Cap1.String())
		}
		if beam.Cap2 != bl.DefaultCap {
			e.attr("cap2", beam.Cap2.String())
		}
		e.closeEmpty()
	}
	e.end(depth+1, b+":beams")
	if len(bl.BeamSets) > 0 {
		e.open(depth+1, b+":beamsets")
		e.closeOpen()
		for _, set := range bl.BeamSets {
			e.open(depth+2, b+":beamset")
			if set.Name != "" {
				e.attr("name", set.Name)
			}
			if set.Identifier != "" {
				e.attr("identifier", set.Identifier)
			}
			e.closeOpen()
			for _, idx := range set.Refs {
				e.open(depth+3, b+":ref")
				e.attr("index", fmtU(idx))
				e.closeEmpty()
			}
			e.end(depth+2, b+":beamset")
		}
		e.end(depth+1, b+":beamsets")
	}
	e.end(depth, b+":beamlattice")
}

func (e *modelEncoder) writeBaseMaterials(g *model.BaseMaterialGroup) {
	e.open(2, "basematerials")
	e.attr("id", fmtU(g.ID))
	e.closeOpen()
	for _, mat := range g.Materials {
		e.open(3, "base")
		e.attr("name", mat.Name)
		e.attr("displaycolor", mat.Color.String())
		e.closeEmpty()
	}
	e.end(2, "basematerials")
}

func (e *modelEncoder) writeColorGroup(g *model.ColorGroup) {
	m := e.pfx(model.ExtMaterial)
	e.open(2, m+":colorgroup")
	e.attr("id", fmtU(g.ID))
	e.closeOpen()
	for _, c := range g.Colors {
		e.open(3, m+":color")
		e.attr("color", c.String())
		e.closeEmpty()
	}
	e.end(2, m+":colorgroup")
}

func (e *modelEncoder) writeTexture2D(t *model.Texture2D) {
	m := e.pfx(model.ExtMaterial)
	e.open(2, m+":texture2d")
	e.attr("id", fmtU(t.ID))
	e.attr("path", t.Path)
	e.attr("contenttype", t.ContentType)
	if t.TileStyleU != 0 {
		e.attr("tilestyleu", t.TileStyleU.String())
	}
	if t.TileStyleV != 0 {
		e.attr("tilestylev", t.TileStyleV.String())
	}
	if t.Filter != model.FilterAuto {
		e.attr("filter", t.Filter.String())
	}
	e.closeEmpty()
}

func (e *modelEncoder) writeTexture2DGroup(g *model.Texture2DGroup) {
	m := e.pfx(model.ExtMaterial)
	e.open(2, m+":texture2dgroup")
	e.attr("id", fmtU(g.ID))
	e.attr("texid", fmtU(g.TextureID))
	e.closeOpen()
	for _, uv := range g.Coords {
		e.open(3, m+":tex2coord")
		e.attr("u", fmtF(uv.U))
		e.attr("v", fmtF(uv.V))
		e.closeEmpty()
	}
	e.end(2, m+":texture2dgroup")
}

func (e *modelEncoder) writeCompositeMaterials(g *model.CompositeMaterials) {
	m := e.pfx(model.ExtMaterial)
	e.open(2, m+":compositematerials")
	e.attr("id", fmtU(g.ID))
	e.attr("matid", fmtU(g.MaterialID))
	e.attr("matindices", joinU(g.Indices))
	e.closeOpen()
	for _, comp := range g.Composites {
		e.open(3, m+":composite")
		e.attr("values", joinF(comp.Values))
		e.closeEmpty()
	}
	e.end(2, m+":compositematerials")
}

func (e *modelEncoder) writeMultiProperties(g *model.MultiProperties) {
	m := e.pfx(model.ExtMaterial)
	e.open(2, m+":multiproperties")
	e.attr("id", fmtU(g.ID))
	e.attr("pids", joinU(g.PIDs))
	if len(g.BlendMethods) > 0 {
		methods := make([]string, len(g.BlendMethods))
		for i, b := range g.BlendMethods {
			methods[i] = b.String()
		}
		e.attr("blendmethods", strings.Join(methods, " "))
	}
	e.closeOpen()
	for _, multi := range g.Multis {
		e.open(3, m+":multi")
		e.attr("pindices", joinU(multi.PIndices))
		e.closeEmpty()
	}
	e.end(2, m+":multiproperties")
}

func (e *modelEncoder) writeSliceStack(st *model.SliceStack) {
	s := e.pfx(model.ExtSlice)
	e.open(2, s+":slicestack")
	e.attr("id", fmtU(st.ID))
	e.attr("zbottom", fmtF(st.BottomZ))
	e.closeOpen()
	unresolved := false
	for _, ref := range st.Refs {
		if !ref.Resolved {
			unresolved = true
			e.open(3, s+":sliceref")
			e.attr("slicestackid", fmtU(ref.SliceStackID))
			e.attr("slicepath", ref.Path)
			e.closeEmpty()
		}
	}
	// Resolved references were spliced into Slices; emitting both would
	// produce an invalid mixed stack.
	if !unresolved {
		for _, sl := range st.Slices {
			e.writeSlice(3, sl)
		}
	}
	e.end(2, s+":slicestack")
}

func (e *modelEncoder) writeSlice(depth int, sl model.Slice) {
	s := e.pfx(model.ExtSlice)
	e.open(depth, s+":slice")
	e.attr("ztop", fmtF(sl.TopZ))
	e.closeOpen()
	if len(sl.Vertices) > 0 {
		e.open(depth+1, s+":vertices")
		e.closeOpen()
		for _, v := range sl.Vertices {
			e.open(depth+2, s+":vertex")
			e.attr("x", fmtF(v.X))
			e.attr("y", fmtF(v.Y))
			e.closeEmpty()
		}
		e.end(depth+1, s+":vertices")
	}
	for _, poly := range sl.Polygons {
		e.open(depth+1, s+":polygon")
		e.attr("startv", fmtU(poly.StartV))
		e.closeOpen()
		for _, seg := range poly.Segments {
			e.open(depth+2, s+":segment")
			e.attr("v2", fmtU(seg.V2))
			if seg.HasPID {
				e.attr("pid", fmtU(seg.PID))
				e.attr("p1", fmtU(seg.P1))
				e.attr("p2", fmtU(seg.P2))
			}
			e.closeEmpty()
		}
		e.end(depth+1, s+":polygon")
	}
	e.end(depth, s+":slice")
}

func (e *modelEncoder) writeDisplacement2D(d2 *model.Displacement2D) {
	d := e.pfx(model.ExtDisplacement)
	e.open(2, d+":displacement2d")
	e.attr("id", fmtU(d2.ID))
	e.attr("path", d2.Path)
	e.attr("contenttype", d2.ContentType)
	if d2.Channel != model.ChannelR {
		e.attr("channel", d2.Channel.String())
	}
	if d2.TileStyleU != 0 {
		e.attr("tilestyleu", d2.TileStyleU.String())
	}
	if d2.TileStyleV != 0 {
		e.attr("tilestylev", d2.TileStyleV.String())
	}
	if d2.Filter != model.FilterAuto {
		e.attr("filter", d2.Filter.String())
	}
	e.closeEmpty()
}

func (e *modelEncoder) writeNormVectorGroup(g *model.NormVectorGroup) {
	d := e.pfx(model.ExtDisplacement)
	e.open(2, d+":normvectorgroup")
	e.attr("id", fmtU(g.ID))
	e.closeOpen()
	for _, v := range g.Vectors {
		e.open(3, d+":normvector")
		e.attr("x", fmtF(v.X))
		e.attr("y", fmtF(v.Y))
		e.attr("z", fmtF(v.Z))
		e.closeEmpty()
	}
	e.end(2, d+":normvectorgroup")
}

func (e *modelEncoder) writeDisp2DCoords(g *model.Disp2DCoords) {
	d := e.pfx(model.ExtDisplacement)
	e.open(2, d+":disp2dcoords")
	e.attr("id", fmtU(g.ID))
	e.attr("dispid", fmtU(g.DispID))
	e.attr("nid", fmtU(g.NID))
	e.closeOpen()
	for _, c := range g.Coords {
		e.open(3, d+":disp2dcoord")
		e.attr("u", fmtF(c.U))
		e.attr("v", fmtF(c.V))
		e.attr("magnitude", fmtF(c.Magnitude))
		e.attr("nindex", fmtU(c.NIndex))
		e.closeEmpty()
	}
	e.end(2, d+":disp2dcoords")
}

func (e *modelEncoder) writeImage3D(img *model.Image3D) {
	v := e.pfx(model.ExtVolumetric)
	e.open(2, v+":image3d")
	e.attr("id", fmtU(img.ID))
	if img.Name != "" {
		e.attr("name", img.Name)
	}
	e.attr("sizex", fmtU(img.SizeX))
	e.attr("sizey", fmtU(img.SizeY))
	e.attr("sheetcount", fmtU(img.SheetCount))
	e.closeOpen()
	for _, sheet := range img.Sheets {
		e.open(3, v+":imagesheet")
		e.attr("path", sheet)
		e.closeEmpty()
	}
	e.end(2, v+":image3d")
}

func (e *modelEncoder) writeVolumetricPropertyGroup(g *model.VolumetricPropertyGroup) {
	v := e.pfx(model.ExtVolumetric)
	e.open(2, v+":volumetricpropertygroup")
	e.attr("id", fmtU(g.ID))
	if g.Transform != nil {
		e.attr("transform", g.Transform.String())
	}
	e.closeOpen()
	for _, ch := range g.Channels {
		e.open(3, v+":property")
		e.attr("name", ch.Name)
		e.attr("image3did", fmtU(ch.Image3DID))
		if ch.Channel != "" {
			e.attr("channel", ch.Channel)
		}
		e.closeEmpty()
	}
	e.end(2, v+":volumetricpropertygroup")
}

func (e *modelEncoder) writeBuild() {
	e.open(1, "build")
	p := e.pfx(model.ExtProduction)
	if e.m.Build.UUID != "" {
		e.attr(p+":UUID", e.m.Build.UUID)
	}
	e.closeOpen()
	for _, item := range e.m.Build.Items {
		e.open(2, "item")
		e.attr("objectid", fmtU(item.ObjectID))
		if item.Transform != nil {
			e.attr("transform", item.Transform.String())
		}
		if item.PartNumber != "" {
			e.attr("partnumber", item.PartNumber)
		}
		if item.UUID != "" {
			e.attr(p+":UUID", item.UUID)
		}
		if item.Path != "" && !item.ResolvedPath {
			e.attr(p+":path", item.Path)
		}
		if len(item.Metadata) > 0 {
			e.closeOpen()
			e.writeMetadataGroup(3, item.Metadata)
			e.end(2, "item")
		} else {
			e.closeEmpty()
		}
	}
	e.end(1, "build")
}

func (e *modelEncoder) pfx(ext model.Extension) string {
	return ext.Prefix()
}

func joinU(vals []uint32) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmtU(v)
	}
	return strings.Join(parts, " ")
}

func joinF(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmtF(v)
	}
	return strings.Join(parts, " ")
}
