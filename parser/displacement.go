package parser

import (
	"encoding/xml"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// parseDisplacementResource dispatches one displacement-namespace resource
// element.
func (d *docParser) parseDisplacementResource(se xml.StartElement) error {
	switch se.Name.Local {
	case "displacement2d":
		return d.parseDisplacement2D(se)
	case "normvectorgroup":
		return d.parseNormVectorGroup(se)
	case "disp2dcoords":
		return d.parseDisp2DCoords(se)
	default:
		return mferr.Newf(mferr.CodeBadElement,
			"unexpected displacement element <%s> in <resources>", se.Name.Local).
			WithElement(se.Name.Local)
	}
}

// parseDisplacement2D decodes a <d:displacement2d> map resource.
func (d *docParser) parseDisplacement2D(se xml.StartElement) error {
	disp := &model.Displacement2D{}
	var sawID, sawPath, sawType bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("displacement2d", "id", a.Value)
			if err != nil {
				return err
			}
			disp.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "path":
			disp.Path = a.Value
			sawPath = true
		case a.Name.Space == "" && a.Name.Local == "contenttype":
			if a.Value != "image/png" && a.Value != "image/jpeg" {
				return badLiteral("displacement2d", "contenttype", a.Value)
			}
			disp.ContentType = a.Value
			sawType = true
		case a.Name.Space == "" && a.Name.Local == "channel":
			c, ok := model.ParseDisplacementChannel(a.Value)
			if !ok {
				return badLiteral("displacement2d", "channel", a.Value)
			}
			disp.Channel = c
		case a.Name.Space == "" && a.Name.Local == "tilestyleu":
			s, ok := model.ParseTileStyle(a.Value)
			if !ok {
				return badLiteral("displacement2d", "tilestyleu", a.Value)
			}
			disp.TileStyleU = s
		case a.Name.Space == "" && a.Name.Local == "tilestylev":
			s, ok := model.ParseTileStyle(a.Value)
			if !ok {
				return badLiteral("displacement2d", "tilestylev", a.Value)
			}
			disp.TileStyleV = s
		case a.Name.Space == "" && a.Name.Local == "filter":
			f, ok := model.ParseTextureFilter(a.Value)
			if !ok {
				return badLiteral("displacement2d", "filter", a.Value)
			}
			disp.Filter = f
		default:
			if err := d.strangeAttr("displacement2d", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("displacement2d", "id")
	}
	if !sawPath {
		return missingAttr("displacement2d", "path")
	}
	if !sawType {
		return missingAttr("displacement2d", "contenttype")
	}
	if err := d.skip(); err != nil {
		return err
	}

	disp.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.Displacement2Ds = append(d.m.Resources.Displacement2Ds, disp)
	return nil
}

// parseNormVectorGroup decodes a <d:normvectorgroup>.
func (d *docParser) parseNormVectorGroup(se xml.StartElement) error {
	g := &model.NormVectorGroup{}
	sawID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("normvectorgroup", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		default:
			if err := d.strangeAttr("normvectorgroup", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("normvectorgroup", "id")
	}

	err := d.children("normvectorgroup", func(child xml.StartElement) error {
		if child.Name.Space != model.NSDisplacement || child.Name.Local != "normvector" {
			return d.foreign(child)
		}
		var v model.Vec3
		var sawX, sawY, sawZ bool
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "x":
				f, err := parseFloat("normvector", "x", a.Value)
				if err != nil {
					return err
				}
				v.X, sawX = f, true
			case a.Name.Space == "" && a.Name.Local == "y":
				f, err := parseFloat("normvector", "y", a.Value)
				if err != nil {
					return err
				}
				v.Y, sawY = f, true
			case a.Name.Space == "" && a.Name.Local == "z":
				f, err := parseFloat("normvector", "z", a.Value)
				if err != nil {
					return err
				}
				v.Z, sawZ = f, true
			default:
				if err := d.strangeAttr("normvector", a); err != nil {
					return err
				}
			}
		}
		if !sawX {
			return missingAttr("normvector", "x")
		}
		if !sawY {
			return missingAttr("normvector", "y")
		}
		if !sawZ {
			return missingAttr("normvector", "z")
		}
		g.Vectors = append(g.Vectors, v)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.NormVectorGroups = append(d.m.Resources.NormVectorGroups, g)
	return nil
}

// parseDisp2DCoords decodes a <d:disp2dcoords> coordinate group.
func (d *docParser) parseDisp2DCoords(se xml.StartElement) error {
	g := &model.Disp2DCoords{}
	var sawID, sawDispID, sawNID bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("disp2dcoords", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "dispid":
			id, err := parseUint32("disp2dcoords", "dispid", a.Value)
			if err != nil {
				return err
			}
			g.DispID = id
			sawDispID = true
		case a.Name.Space == "" && a.Name.Local == "nid":
			id, err := parseUint32("disp2dcoords", "nid", a.Value)
			if err != nil {
				return err
			}
			g.NID = id
			sawNID = true
		default:
			if err := d.strangeAttr("disp2dcoords", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("disp2dcoords", "id")
	}
	if !sawDispID {
		return missingAttr("disp2dcoords", "dispid")
	}
	if !sawNID {
		return missingAttr("disp2dcoords", "nid")
	}

	err := d.children("disp2dcoords", func(child xml.StartElement) error {
		if child.Name.Space != model.NSDisplacement || child.Name.Local != "disp2dcoord" {
			return d.foreign(child)
		}
		var c model.DispCoord
		var sawU, sawV, sawN bool
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "u":
				f, err := parseFloat("disp2dcoord", "u", a.Value)
				if err != nil {
					return err
				}
				c.U, sawU = f, true
			case a.Name.Space == "" && a.Name.Local == "v":
				f, err := parseFloat("disp2dcoord", "v", a.Value)
				if err != nil {
					return err
				}
				c.V, sawV = f, true
			case a.Name.Space == "" && a.Name.Local == "magnitude":
				f, err := parseFloat("disp2dcoord", "magnitude", a.Value)
				if err != nil {
					return err
				}
				c.Magnitude = f
			case a.Name.Space == "" && a.Name.Local == "nindex":
				n, err := parseUint32("disp2dcoord", "nindex", a.Value)
				if err != nil {
					return err
				}
				c.NIndex, sawN = n, true
			default:
				if err := d.strangeAttr("disp2dcoord", a); err != nil {
					return err
				}
			}
		}
		if !sawU {
			return missingAttr("disp2dcoord", "u")
		}
		if !sawV {
			return missingAttr("disp2dcoord", "v")
		}
		if !sawN {
			return missingAttr("disp2dcoord", "nindex")
		}
		g.Coords = append(g.Coords, c)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.Disp2DCoordGroups = append(d.m.Resources.Disp2DCoordGroups, g)
	return nil
}

// parseDisplacementMesh decodes a <d:displacementmesh> object body. The
// children mirror the core mesh grammar but live in the displacement
// namespace.
func (d *docParser) parseDisplacementMesh(se xml.StartElement, o *model.Object) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("displacementmesh", a); err != nil {
			return err
		}
	}
	dm := &model.DisplacementMesh{}
	err := d.children("displacementmesh", func(child xml.StartElement) error {
		if child.Name.Space != model.NSDisplacement {
			return d.foreign(child)
		}
		switch child.Name.Local {
		case "vertices":
			return d.children("vertices", func(v xml.StartElement) error {
				if v.Name.Space != model.NSDisplacement || v.Name.Local != "vertex" {
					return d.foreign(v)
				}
				vert, err := d.parseVertex(v)
				if err != nil {
					return err
				}
				dm.Mesh.Vertices = append(dm.Mesh.Vertices, vert)
				return d.skip()
			})
		case "triangles":
			return d.children("triangles", func(t xml.StartElement) error {
				if t.Name.Space != model.NSDisplacement || t.Name.Local != "triangle" {
					return d.foreign(t)
				}
				tri, err := d.parseTriangle(t)
				if err != nil {
					return err
				}
				dm.Mesh.Triangles = append(dm.Mesh.Triangles, tri)
				return d.skip()
			})
		default:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> inside <displacementmesh>", child.Name.Local).
				WithElement(child.Name.Local)
		}
	})
	if err != nil {
		return err
	}

	o.DisplacementMesh = dm
	return nil
}
