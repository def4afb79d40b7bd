package parser

import (
	"encoding/xml"
	"strings"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// parseModel decodes the root <model> element and its children.
func (d *docParser) parseModel(se xml.StartElement) error {
	var requiredExts string
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "xmlns" && a.Name.Local != "":
			d.prefixes[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			// Default namespace declaration.
		case a.Name.Space == "" && a.Name.Local == "unit":
			u, ok := model.ParseUnit(a.Value)
			if !ok {
				return badLiteral("model", "unit", a.Value)
			}
			d.m.Unit = u
		case a.Name.Space == xmlNamespace && a.Name.Local == "lang":
			d.m.Language = a.Value
		case a.Name.Space == "" && a.Name.Local == "requiredextensions":
			requiredExts = a.Value
		default:
			if err := d.strangeAttr("model", a); err != nil {
				return err
			}
		}
	}

	if err := d.resolveRequiredExtensions(requiredExts); err != nil {
		return err
	}

	// Child order is fixed: metadata*, resources, build.
	const (
		stageMetadata = iota
		stageResources
		stageBuild
	)
	stage := stageMetadata
	sawResources, sawBuild := false, false

	err := d.children("model", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore {
			return d.foreign(child)
		}
		switch child.Name.Local {
		case "metadata":
			if stage != stageMetadata {
				return mferr.New(mferr.CodeBadElement,
					"<metadata> must precede <resources>").WithElement("metadata")
			}
			md, err := d.parseMetadata(child)
			if err != nil {
				return err
			}
			d.m.AddMetadata(md)
			return nil
		case "resources":
			if sawResources {
				return mferr.New(mferr.CodeBadElement,
					"<model> has more than one <resources>").WithElement("resources")
			}
			sawResources = true
			stage = stageResources
			return d.parseResources(child)
		case "build":
			if !sawResources {
				return mferr.New(mferr.CodeBadElement,
					"<build> must follow <resources>").WithElement("build")
			}
			if sawBuild {
				return mferr.New(mferr.CodeBadElement,
					"<model> has more than one <build>").WithElement("build")
			}
			sawBuild = true
			stage = stageBuild
			return d.parseBuild(child)
		default:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> in <model>", child.Name.Local).
				WithElement(child.Name.Local)
		}
	})
	if err != nil {
		return err
	}

	if !sawResources || !sawBuild {
		return mferr.New(mferr.CodeBadElement,
			"<model> must contain <resources> and <build>").WithElement("model")
	}
	return nil
}

// resolveRequiredExtensions checks every requiredextensions entry against
// the caller's configuration. Entries are namespace prefixes or full URIs.
func (d *docParser) resolveRequiredExtensions(list string) error {
	for _, entry := range strings.Fields(list) {
		uri, ok := d.prefixes[entry]
		if !ok {
			uri = entry
		}
		if ext, ok := model.ExtensionByNamespace(uri); ok {
			if !d.p.cfg.Enabled(ext) {
				return mferr.Newf(mferr.CodeUnsupportedExtension,
					"document requires unsupported extension %q", entry)
			}
			d.m.RequiredExtensions = append(d.m.RequiredExtensions, ext)
			continue
		}
		if _, ok := d.p.cfg.customFor(uri); ok {
			d.m.RequiredCustom = append(d.m.RequiredCustom, uri)
			continue
		}
		return mferr.Newf(mferr.CodeUnsupportedExtension,
			"document requires unknown extension %q", entry)
	}
	return nil
}

// parseMetadata decodes one <metadata> element.
func (d *docParser) parseMetadata(se xml.StartElement) (model.Metadata, error) {
	var md model.Metadata
	sawName := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "name":
			md.Name = a.Value
			sawName = true
		case a.Name.Space == "" && a.Name.Local == "type":
			md.Type = a.Value
		case a.Name.Space == "" && a.Name.Local == "preserve":
			v, err := parseBool("metadata", "preserve", a.Value)
			if err != nil {
				return md, err
			}
			md.Preserve = v
		default:
			if err := d.strangeAttr("metadata", a); err != nil {
				return md, err
			}
		}
	}
	if !sawName {
		return md, missingAttr("metadata", "name")
	}
	value, err := d.readText("metadata")
	if err != nil {
		return md, err
	}
	md.Value = value
	return md, nil
}

// parseResources decodes the <resources> element, dispatching each resource
// to its extension's decoder. Document order inside <resources> defines
// parse order.
func (d *docParser) parseResources(se xml.StartElement) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("resources", a); err != nil {
			return err
		}
	}
	return d.children("resources", func(child xml.StartElement) error {
		ns := child.Name.Space
		switch {
		case ns == model.NSCore:
			switch child.Name.Local {
			case "object":
				return d.parseObject(child)
			case "basematerials":
				return d.parseBaseMaterials(child)
			default:
				return mferr.Newf(mferr.CodeBadElement,
					"unexpected element <%s> in <resources>", child.Name.Local).
					WithElement(child.Name.Local)
			}
		case ns == model.NSMaterial && d.extEnabled(ns):
			return d.parseMaterialResource(child)
		case ns == model.NSSlice && d.extEnabled(ns):
			return d.parseSliceResource(child)
		case ns == model.NSDisplacement && d.extEnabled(ns):
			return d.parseDisplacementResource(child)
		case ns == model.NSVolumetric && d.extEnabled(ns):
			return d.parseVolumetricResource(child)
		default:
			return d.foreign(child)
		}
	})
}

// parseObject decodes an <object> resource. Exactly one of mesh,
// components, boolean shape, or displacement mesh must be present.
func (d *docParser) parseObject(se xml.StartElement) error {
	o := &model.Object{Type: model.ObjectTypeModel}
	sawID := false
	var sawPIndex bool

	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("object", "id", a.Value)
			if err != nil {
				return err
			}
			o.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "type":
			t, ok := model.ParseObjectType(a.Value)
			if !ok {
				return badLiteral("object", "type", a.Value)
			}
			o.Type = t
		case a.Name.Space == "" && a.Name.Local == "name":
			o.Name = a.Value
		case a.Name.Space == "" && a.Name.Local == "partnumber":
			o.PartNumber = a.Value
		case a.Name.Space == "" && a.Name.Local == "thumbnail":
			o.Thumbnail = a.Value
		case a.Name.Space == "" && a.Name.Local == "pid":
			pid, err := parseUint32("object", "pid", a.Value)
			if err != nil {
				return err
			}
			o.PID = pid
			o.HasPID = true
		case a.Name.Space == "" && a.Name.Local == "pindex":
			pi, err := parseUint32("object", "pindex", a.Value)
			if err != nil {
				return err
			}
			o.PIndex = pi
			sawPIndex = true
		case a.Name.Space == model.NSProduction && a.Name.Local == "UUID" && d.extEnabled(a.Name.Space):
			o.UUID = a.Value
		case a.Name.Space == model.NSSlice && a.Name.Local == "slicestackid" && d.extEnabled(a.Name.Space):
			id, err := parseUint32("object", "slicestackid", a.Value)
			if err != nil {
				return err
			}
			o.SliceStackID = id
		case a.Name.Space == model.NSSlice && a.Name.Local == "meshresolution" && d.extEnabled(a.Name.Space):
			res, ok := model.ParseSliceResolution(a.Value)
			if !ok {
				return badLiteral("object", "meshresolution", a.Value)
			}
			o.SliceResolution = res
		default:
			if err := d.strangeAttr("object", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("object", "id")
	}
	if sawPIndex && !o.HasPID {
		return mferr.New(mferr.CodeUnknownAttr,
			"<object> specifies pindex without pid").WithElement("object").WithAttr("pindex")
	}

	err := d.children("object", func(child xml.StartElement) error {
		ns := child.Name.Space
		switch {
		case ns == model.NSCore && child.Name.Local == "mesh":
			if err := d.oneShape(o, "mesh"); err != nil {
				return err
			}
			mesh, err := d.parseMesh(child, o)
			if err != nil {
				return err
			}
			o.Mesh = mesh
			return nil
		case ns == model.NSCore && child.Name.Local == "components":
			if err := d.oneShape(o, "components"); err != nil {
				return err
			}
			return d.parseComponents(child, o)
		case ns == model.NSCore && child.Name.Local == "metadatagroup":
			return d.parseMetadataGroup(child, &o.Metadata)
		case ns == model.NSBooleanOperations && child.Name.Local == "booleanshape" && d.extEnabled(ns):
			if err := d.oneShape(o, "booleanshape"); err != nil {
				return err
			}
			return d.parseBooleanShape(child, o)
		case ns == model.NSDisplacement && child.Name.Local == "displacementmesh" && d.extEnabled(ns):
			if err := d.oneShape(o, "displacementmesh"); err != nil {
				return err
			}
			return d.parseDisplacementMesh(child, o)
		case ns == model.NSCore:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> in <object>", child.Name.Local).
				WithElement(child.Name.Local)
		default:
			return d.foreign(child)
		}
	})
	if err != nil {
		return err
	}

	if o.Mesh == nil && len(o.Components) == 0 && o.BooleanShape == nil && o.DisplacementMesh == nil {
		return mferr.Newf(mferr.CodeObjectEmpty,
			"object %d has no mesh, components, boolean shape, or displacement mesh", o.ID).
			WithResource(o.ID).WithElement("object")
	}

	o.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.Objects = append(d.m.Resources.Objects, o)
	return nil
}

// oneShape rejects a second shape-defining child on an object.
func (d *docParser) oneShape(o *model.Object, incoming string) error {
	if o.Mesh != nil || len(o.Components) > 0 || o.BooleanShape != nil || o.DisplacementMesh != nil {
		return mferr.Newf(mferr.CodeObjectContent,
			"object %d has more than one shape element (<%s> after another)", o.ID, incoming).
			WithResource(o.ID).WithElement(incoming)
	}
	return nil
}

// parseMetadataGroup decodes a <metadatagroup> into dst.
func (d *docParser) parseMetadataGroup(se xml.StartElement, dst *[]model.Metadata) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("metadatagroup", a); err != nil {
			return err
		}
	}
	return d.children("metadatagroup", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore || child.Name.Local != "metadata" {
			return d.foreign(child)
		}
		md, err := d.parseMetadata(child)
		if err != nil {
			return err
		}
		*dst = append(*dst, md)
		return nil
	})
}

// parseMesh decodes a <mesh>: vertices, triangles, optional beam lattice.
func (d *docParser) parseMesh(se xml.StartElement, o *model.Object) (*model.Mesh, error) {
	for _, a := range se.Attr {
		if err := d.strangeAttr("mesh", a); err != nil {
			return nil, err
		}
	}
	mesh := &model.Mesh{}
	err := d.children("mesh", func(child xml.StartElement) error {
		ns := child.Name.Space
		switch {
		case ns == model.NSCore && child.Name.Local == "vertices":
			return d.parseVertices(child, mesh)
		case ns == model.NSCore && child.Name.Local == "triangles":
			return d.parseTriangles(child, mesh)
		case ns == model.NSBeamLattice && child.Name.Local == "beamlattice" && d.extEnabled(ns):
			return d.parseBeamLattice(child, o, mesh)
		case ns == model.NSCore:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> in <mesh>", child.Name.Local).
				WithElement(child.Name.Local)
		default:
			return d.foreign(child)
		}
	})
	if err != nil {
		return nil, err
	}
	return mesh, nil
}

// parseVertices decodes the <vertices> list.
func (d *docParser) parseVertices(se xml.StartElement, mesh *model.Mesh) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("vertices", a); err != nil {
			return err
		}
	}
	return d.children("vertices", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore || child.Name.Local != "vertex" {
			return d.foreign(child)
		}
		v, err := d.parseVertex(child)
		if err != nil {
			return err
		}
		mesh.Vertices = append(mesh.Vertices, v)
		return d.skip()
	})
}

// parseVertex decodes one <vertex>; x, y, z are required and finite.
func (d *docParser) parseVertex(se xml.StartElement) (model.Vertex, error) {
	var v model.Vertex
	var sawX, sawY, sawZ bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "x":
			f, err := parseFloat("vertex", "x", a.Value)
			if err != nil {
				return v, err
			}
			v.X, sawX = f, true
		case a.Name.Space == "" && a.Name.Local == "y":
			f, err := parseFloat("vertex", "y", a.Value)
			if err != nil {
				return v, err
			}
			v.Y, sawY = f, true
		case a.Name.Space == "" && a.Name.Local == "z":
			f, err := parseFloat("vertex", "z", a.Value)
			if err != nil {
				return v, err
			}
			v.Z, sawZ = f, true
		default:
			if err := d.strangeAttr("vertex", a); err != nil {
				return v, err
			}
		}
	}
	if !sawX {
		return v, missingAttr("vertex", "x")
	}
	if !sawY {
		return v, missingAttr("vertex", "y")
	}
	if !sawZ {
		return v, missingAttr("vertex", "z")
	}
	return v, nil
}

// parseTriangles decodes the <triangles> list.
func (d *docParser) parseTriangles(se xml.StartElement, mesh *model.Mesh) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("triangles", a); err != nil {
			return err
		}
	}
	return d.children("triangles", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore || child.Name.Local != "triangle" {
			return d.foreign(child)
		}
		t, err := d.parseTriangle(child)
		if err != nil {
			return err
		}
		mesh.Triangles = append(mesh.Triangles, t)
		return d.skip()
	})
}

// parseTriangle decodes one <triangle>. Property indices obey p2-requires-p1
// and p3-requires-p2; displacement indices require did and come as a full
// triple.
func (d *docParser) parseTriangle(se xml.StartElement) (model.Triangle, error) {
	var t model.Triangle
	var sawV1, sawV2, sawV3 bool
	var sawP1, sawP2, sawP3 bool
	var sawD1, sawD2, sawD3 bool

	for _, a := range se.Attr {
		dispAttr := a.Name.Space == model.NSDisplacement && d.extEnabled(a.Name.Space)
		switch {
		case a.Name.Space == "" && a.Name.Local == "v1":
			v, err := parseUint32("triangle", "v1", a.Value)
			if err != nil {
				return t, err
			}
			t.V1, sawV1 = v, true
		case a.Name.Space == "" && a.Name.Local == "v2":
			v, err := parseUint32("triangle", "v2", a.Value)
			if err != nil {
				return t, err
			}
			t.V2, sawV2 = v, true
		case a.Name.Space == "" && a.Name.Local == "v3":
			v, err := parseUint32("triangle", "v3", a.Value)
			if err != nil {
				return t, err
			}
			t.V3, sawV3 = v, true
		case a.Name.Space == "" && a.Name.Local == "pid":
			v, err := parseUint32("triangle", "pid", a.Value)
			if err != nil {
				return t, err
			}
			t.PID, t.HasPID = v, true
		case a.Name.Space == "" && a.Name.Local == "p1":
			v, err := parseUint32("triangle", "p1", a.Value)
			if err != nil {
				return t, err
			}
			t.P1, sawP1 = v, true
		case a.Name.Space == "" && a.Name.Local == "p2":
			v, err := parseUint32("triangle", "p2", a.Value)
			if err != nil {
				return t, err
			}
			t.P2, sawP2 = v, true
		case a.Name.Space == "" && a.Name.Local == "p3":
			v, err := parseUint32("triangle", "p3", a.Value)
			if err != nil {
				return t, err
			}
			t.P3, sawP3 = v, true
		case dispAttr && a.Name.Local == "did":
			v, err := parseUint32("triangle", "did", a.Value)
			if err != nil {
				return t, err
			}
			t.DID, t.HasDID = v, true
		case dispAttr && a.Name.Local == "d1":
			v, err := parseUint32("triangle", "d1", a.Value)
			if err != nil {
				return t, err
			}
			t.D1, sawD1 = v, true
		case dispAttr && a.Name.Local == "d2":
			v, err := parseUint32("triangle", "d2", a.Value)
			if err != nil {
				return t, err
			}
			t.D2, sawD2 = v, true
		case dispAttr && a.Name.Local == "d3":
			v, err := parseUint32("triangle", "d3", a.Value)
			if err != nil {
				return t, err
			}
			t.D3, sawD3 = v, true
		default:
			if err := d.strangeAttr("triangle", a); err != nil {
				return t, err
			}
		}
	}
	if !sawV1 {
		return t, missingAttr("triangle", "v1")
	}
	if !sawV2 {
		return t, missingAttr("triangle", "v2")
	}
	if !sawV3 {
		return t, missingAttr("triangle", "v3")
	}
	if sawP2 && !sawP1 {
		return t, mferr.New(mferr.CodeUnknownAttr,
			"<triangle> specifies p2 without p1").WithElement("triangle").WithAttr("p2")
	}
	if sawP3 && !sawP2 {
		return t, mferr.New(mferr.CodeUnknownAttr,
			"<triangle> specifies p3 without p2").WithElement("triangle").WithAttr("p3")
	}
	t.HasP1 = sawP1
	t.HasP23 = sawP2
	if sawP1 && !sawP2 {
		t.P2 = t.P1
	}
	if sawP1 && !sawP3 {
		t.P3 = t.P1
	}
	if (sawD1 || sawD2 || sawD3) && !t.HasDID {
		return t, mferr.New(mferr.CodeUnknownAttr,
			"<triangle> specifies displacement indices without did").
			WithElement("triangle").WithAttr("d1")
	}
	if t.HasDID && (!sawD1 || !sawD2 || !sawD3) {
		return t, mferr.New(mferr.CodeMissingAttr,
			"<triangle> with did must specify d1, d2 and d3").
			WithElement("triangle").WithAttr("did")
	}
	return t, nil
}

// parseComponents decodes the <components> list into o.
func (d *docParser) parseComponents(se xml.StartElement, o *model.Object) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("components", a); err != nil {
			return err
		}
	}
	return d.children("components", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore || child.Name.Local != "component" {
			return d.foreign(child)
		}
		c, err := d.parseComponent(child)
		if err != nil {
			return err
		}
		o.Components = append(o.Components, c)
		return d.skip()
	})
}

// parseComponent decodes one <component>.
func (d *docParser) parseComponent(se xml.StartElement) (model.Component, error) {
	var c model.Component
	sawObjectID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "objectid":
			id, err := parseUint32("component", "objectid", a.Value)
			if err != nil {
				return c, err
			}
			c.ObjectID = id
			sawObjectID = true
		case a.Name.Space == "" && a.Name.Local == "transform":
			t, ok := model.ParseTransform(a.Value)
			if !ok {
				return c, badLiteral("component", "transform", a.Value)
			}
			c.Transform = &t
		case a.Name.Space == model.NSProduction && a.Name.Local == "path" && d.extEnabled(a.Name.Space):
			c.Path = a.Value
		case a.Name.Space == model.NSProduction && a.Name.Local == "UUID" && d.extEnabled(a.Name.Space):
			c.UUID = a.Value
		default:
			if err := d.strangeAttr("component", a); err != nil {
				return c, err
			}
		}
	}
	if !sawObjectID {
		return c, missingAttr("component", "objectid")
	}
	return c, nil
}

// parseBuild decodes the <build> element.
func (d *docParser) parseBuild(se xml.StartElement) error {
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == model.NSProduction && a.Name.Local == "UUID" && d.extEnabled(a.Name.Space):
			d.m.Build.UUID = a.Value
		default:
			if err := d.strangeAttr("build", a); err != nil {
				return err
			}
		}
	}
	return d.children("build", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore || child.Name.Local != "item" {
			return d.foreign(child)
		}
		return d.parseItem(child)
	})
}

// parseItem decodes one build <item>.
func (d *docParser) parseItem(se xml.StartElement) error {
	var item model.Item
	sawObjectID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "objectid":
			id, err := parseUint32("item", "objectid", a.Value)
			if err != nil {
				return err
			}
			item.ObjectID = id
			sawObjectID = true
		case a.Name.Space == "" && a.Name.Local == "transform":
			t, ok := model.ParseTransform(a.Value)
			if !ok {
				return badLiteral("item", "transform", a.Value)
			}
			item.Transform = &t
		case a.Name.Space == "" && a.Name.Local == "partnumber":
			item.PartNumber = a.Value
		case a.Name.Space == model.NSProduction && a.Name.Local == "UUID" && d.extEnabled(a.Name.Space):
			item.UUID = a.Value
		case a.Name.Space == model.NSProduction && a.Name.Local == "path" && d.extEnabled(a.Name.Space):
			item.Path = a.Value
		default:
			if err := d.strangeAttr("item", a); err != nil {
				return err
			}
		}
	}
	if !sawObjectID {
		return missingAttr("item", "objectid")
	}

	err := d.children("item", func(child xml.StartElement) error {
		if child.Name.Space == model.NSCore && child.Name.Local == "metadatagroup" {
			return d.parseMetadataGroup(child, &item.Metadata)
		}
		return d.foreign(child)
	})
	if err != nil {
		return err
	}

	d.m.Build.Items = append(d.m.Build.Items, item)
	return nil
}
