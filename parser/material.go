package parser

import (
	"encoding/xml"
	"strings"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// parseBaseMaterials decodes a <basematerials> group. The element itself is
// core; color groups and friends live in the material namespace.
func (d *docParser) parseBaseMaterials(se xml.StartElement) error {
	g := &model.BaseMaterialGroup{}
	sawID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("basematerials", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		default:
			if err := d.strangeAttr("basematerials", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("basematerials", "id")
	}

	err := d.children("basematerials", func(child xml.StartElement) error {
		if child.Name.Space != model.NSCore || child.Name.Local != "base" {
			return d.foreign(child)
		}
		var mat model.BaseMaterial
		sawName, sawColor := false, false
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "name":
				mat.Name = a.Value
				sawName = true
			case a.Name.Space == "" && a.Name.Local == "displaycolor":
				c, ok := model.ParseColor(a.Value)
				if !ok {
					return badLiteral("base", "displaycolor", a.Value)
				}
				mat.Color = c
				sawColor = true
			default:
				if err := d.strangeAttr("base", a); err != nil {
					return err
				}
			}
		}
		if !sawName {
			return missingAttr("base", "name")
		}
		if !sawColor {
			return missingAttr("base", "displaycolor")
		}
		g.Materials = append(g.Materials, mat)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.BaseMaterialGroups = append(d.m.Resources.BaseMaterialGroups, g)
	return nil
}

// parseMaterialResource dispatches one material-namespace resource element.
func (d *docParser) parseMaterialResource(se xml.StartElement) error {
	switch se.Name.Local {
	case "colorgroup":
		return d.parseColorGroup(se)
	case "texture2d":
		return d.parseTexture2D(se)
	case "texture2dgroup":
		return d.parseTexture2DGroup(se)
	case "compositematerials":
		return d.parseCompositeMaterials(se)
	case "multiproperties":
		return d.parseMultiProperties(se)
	default:
		return mferr.Newf(mferr.CodeBadElement,
			"unexpected material element <%s> in <resources>", se.Name.Local).
			WithElement(se.Name.Local)
	}
}

// parseColorGroup decodes an <m:colorgroup>.
func (d *docParser) parseColorGroup(se xml.StartElement) error {
	g := &model.ColorGroup{}
	sawID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("colorgroup", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		default:
			if err := d.strangeAttr("colorgroup", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("colorgroup", "id")
	}

	err := d.children("colorgroup", func(child xml.StartElement) error {
		if child.Name.Space != model.NSMaterial || child.Name.Local != "color" {
			return d.foreign(child)
		}
		sawColor := false
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "color":
				c, ok := model.ParseColor(a.Value)
				if !ok {
					return badLiteral("color", "color", a.Value)
				}
				g.Colors = append(g.Colors, c)
				sawColor = true
			default:
				if err := d.strangeAttr("color", a); err != nil {
					return err
				}
			}
		}
		if !sawColor {
			return missingAttr("color", "color")
		}
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.ColorGroups = append(d.m.Resources.ColorGroups, g)
	return nil
}

// parseTexture2D decodes an <m:texture2d>.
func (d *docParser) parseTexture2D(se xml.StartElement) error {
	t := &model.Texture2D{}
	var sawID, sawPath, sawType bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("texture2d", "id", a.Value)
			if err != nil {
				return err
			}
			t.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "path":
			t.Path = a.Value
			sawPath = true
		case a.Name.Space == "" && a.Name.Local == "contenttype":
			if a.Value != "image/png" && a.Value != "image/jpeg" {
				return badLiteral("texture2d", "contenttype", a.Value)
			}
			t.ContentType = a.Value
			sawType = true
		case a.Name.Space == "" && a.Name.Local == "tilestyleu":
			s, ok := model.ParseTileStyle(a.Value)
			if !ok {
				return badLiteral("texture2d", "tilestyleu", a.Value)
			}
			t.TileStyleU = s
		case a.Name.Space == "" && a.Name.Local == "tilestylev":
			s, ok := model.ParseTileStyle(a.Value)
			if !ok {
				return badLiteral("texture2d", "tilestylev", a.Value)
			}
			t.TileStyleV = s
		case a.Name.Space == "" && a.Name.Local == "filter":
			f, ok := model.ParseTextureFilter(a.Value)
			if !ok {
				return badLiteral("texture2d", "filter", a.Value)
			}
			t.Filter = f
		default:
			if err := d.strangeAttr("texture2d", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("texture2d", "id")
	}
	if !sawPath {
		return missingAttr("texture2d", "path")
	}
	if !sawType {
		return missingAttr("texture2d", "contenttype")
	}
	if err := d.skip(); err != nil {
		return err
	}

	t.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.Texture2Ds = append(d.m.Resources.Texture2Ds, t)
	return nil
}

// parseTexture2DGroup decodes an <m:texture2dgroup> and its <m:tex2coord>
// children.
func (d *docParser) parseTexture2DGroup(se xml.StartElement) error {
	g := &model.Texture2DGroup{}
	var sawID, sawTexID bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("texture2dgroup", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "texid":
			id, err := parseUint32("texture2dgroup", "texid", a.Value)
			if err != nil {
				return err
			}
			g.TextureID = id
			sawTexID = true
		default:
			if err := d.strangeAttr("texture2dgroup", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("texture2dgroup", "id")
	}
	if !sawTexID {
		return missingAttr("texture2dgroup", "texid")
	}

	err := d.children("texture2dgroup", func(child xml.StartElement) error {
		if child.Name.Space != model.NSMaterial || child.Name.Local != "tex2coord" {
			return d.foreign(child)
		}
		var uv model.UV
		var sawU, sawV bool
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "u":
				f, err := parseFloat("tex2coord", "u", a.Value)
				if err != nil {
					return err
				}
				uv.U, sawU = f, true
			case a.Name.Space == "" && a.Name.Local == "v":
				f, err := parseFloat("tex2coord", "v", a.Value)
				if err != nil {
					return err
				}
				uv.V, sawV = f, true
			default:
				if err := d.strangeAttr("tex2coord", a); err != nil {
					return err
				}
			}
		}
		if !sawU {
			return missingAttr("tex2coord", "u")
		}
		if !sawV {
			return missingAttr("tex2coord", "v")
		}
		g.Coords = append(g.Coords, uv)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.Texture2DGroups = append(d.m.Resources.Texture2DGroups, g)
	return nil
}

// parseCompositeMaterials decodes an <m:compositematerials> and its
// <m:composite> children.
func (d *docParser) parseCompositeMaterials(se xml.StartElement) error {
	g := &model.CompositeMaterials{}
	var sawID, sawMatID, sawIndices bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("compositematerials", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "matid":
			id, err := parseUint32("compositematerials", "matid", a.Value)
			if err != nil {
				return err
			}
			g.MaterialID = id
			sawMatID = true
		case a.Name.Space == "" && a.Name.Local == "matindices":
			for _, f := range strings.Fields(a.Value) {
				idx, err := parseUint32("compositematerials", "matindices", f)
				if err != nil {
					return err
				}
				g.Indices = append(g.Indices, idx)
			}
			sawIndices = true
		default:
			if err := d.strangeAttr("compositematerials", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("compositematerials", "id")
	}
	if !sawMatID {
		return missingAttr("compositematerials", "matid")
	}
	if !sawIndices {
		return missingAttr("compositematerials", "matindices")
	}

	err := d.children("compositematerials", func(child xml.StartElement) error {
		if child.Name.Space != model.NSMaterial || child.Name.Local != "composite" {
			return d.foreign(child)
		}
		var comp model.Composite
		sawValues := false
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "values":
				for _, f := range strings.Fields(a.Value) {
					v, err := parseFloat("composite", "values", f)
					if err != nil {
						return err
					}
					comp.Values = append(comp.Values, v)
				}
				sawValues = true
			default:
				if err := d.strangeAttr("composite", a); err != nil {
					return err
				}
			}
		}
		if !sawValues {
			return missingAttr("composite", "values")
		}
		g.Composites = append(g.Composites, comp)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.CompositeMaterials = append(d.m.Resources.CompositeMaterials, g)
	return nil
}

// parseMultiProperties decodes an <m:multiproperties> and its <m:multi>
// children.
func (d *docParser) parseMultiProperties(se xml.StartElement) error {
	g := &model.MultiProperties{}
	var sawID, sawPIDs bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("multiproperties", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "pids":
			for _, f := range strings.Fields(a.Value) {
				pid, err := parseUint32("multiproperties", "pids", f)
				if err != nil {
					return err
				}
				g.PIDs = append(g.PIDs, pid)
			}
			sawPIDs = true
		case a.Name.Space == "" && a.Name.Local == "blendmethods":
			for _, f := range strings.Fields(a.Value) {
				b, ok := model.ParseBlendMethod(f)
				if !ok {
					return badLiteral("multiproperties", "blendmethods", f)
				}
				g.BlendMethods = append(g.BlendMethods, b)
			}
		default:
			if err := d.strangeAttr("multiproperties", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("multiproperties", "id")
	}
	if !sawPIDs {
		return missingAttr("multiproperties", "pids")
	}

	err := d.children("multiproperties", func(child xml.StartElement) error {
		if child.Name.Space != model.NSMaterial || child.Name.Local != "multi" {
			return d.foreign(child)
		}
		var multi model.Multi
		sawIndices := false
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "pindices":
				for _, f := range strings.Fields(a.Value) {
					pi, err := parseUint32("multi", "pindices", f)
					if err != nil {
						return err
					}
					multi.PIndices = append(multi.PIndices, pi)
				}
				sawIndices = true
			default:
				if err := d.strangeAttr("multi", a); err != nil {
					return err
				}
			}
		}
		if !sawIndices {
			return missingAttr("multi", "pindices")
		}
		g.Multis = append(g.Multis, multi)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.MultiProperties = append(d.m.Resources.MultiProperties, g)
	return nil
}
