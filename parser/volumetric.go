package parser

import (
	"encoding/xml"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// parseVolumetricResource dispatches one volumetric-namespace resource
// element.
func (d *docParser) parseVolumetricResource(se xml.StartElement) error {
	switch se.Name.Local {
	case "image3d":
		return d.parseImage3D(se)
	case "volumetricpropertygroup":
		return d.parseVolumetricPropertyGroup(se)
	default:
		return mferr.Newf(mferr.CodeBadElement,
			"unexpected volumetric element <%s> in <resources>", se.Name.Local).
			WithElement(se.Name.Local)
	}
}

// parseImage3D decodes a <v:image3d> stacked-image resource.
func (d *docParser) parseImage3D(se xml.StartElement) error {
	img := &model.Image3D{}
	var sawID, sawSizeX, sawSizeY, sawCount bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("image3d", "id", a.Value)
			if err != nil {
				return err
			}
			img.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "name":
			img.Name = a.Value
		case a.Name.Space == "" && a.Name.Local == "sizex":
			v, err := parseUint32("image3d", "sizex", a.Value)
			if err != nil {
				return err
			}
			img.SizeX, sawSizeX = v, true
		case a.Name.Space == "" && a.Name.Local == "sizey":
			v, err := parseUint32("image3d", "sizey", a.Value)
			if err != nil {
				return err
			}
			img.SizeY, sawSizeY = v, true
		case a.Name.Space == "" && a.Name.Local == "sheetcount":
			v, err := parseUint32("image3d", "sheetcount", a.Value)
			if err != nil {
				return err
			}
			img.SheetCount, sawCount = v, true
		default:
			if err := d.strangeAttr("image3d", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("image3d", "id")
	}
	if !sawSizeX {
		return missingAttr("image3d", "sizex")
	}
	if !sawSizeY {
		return missingAttr("image3d", "sizey")
	}
	if !sawCount {
		return missingAttr("image3d", "sheetcount")
	}

	err := d.children("image3d", func(child xml.StartElement) error {
		if child.Name.Space != model.NSVolumetric || child.Name.Local != "imagesheet" {
			return d.foreign(child)
		}
		sawPath := false
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "path":
				img.Sheets = append(img.Sheets, a.Value)
				sawPath = true
			default:
				if err := d.strangeAttr("imagesheet", a); err != nil {
					return err
				}
			}
		}
		if !sawPath {
			return missingAttr("imagesheet", "path")
		}
		return d.skip()
	})
	if err != nil {
		return err
	}

	img.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.Image3Ds = append(d.m.Resources.Image3Ds, img)
	return nil
}

// parseVolumetricPropertyGroup decodes a <v:volumetricpropertygroup>.
func (d *docParser) parseVolumetricPropertyGroup(se xml.StartElement) error {
	g := &model.VolumetricPropertyGroup{}
	sawID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("volumetricpropertygroup", "id", a.Value)
			if err != nil {
				return err
			}
			g.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "transform":
			t, ok := model.ParseTransform(a.Value)
			if !ok {
				return badLiteral("volumetricpropertygroup", "transform", a.Value)
			}
			g.Transform = &t
		default:
			if err := d.strangeAttr("volumetricpropertygroup", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("volumetricpropertygroup", "id")
	}

	err := d.children("volumetricpropertygroup", func(child xml.StartElement) error {
		if child.Name.Space != model.NSVolumetric || child.Name.Local != "property" {
			return d.foreign(child)
		}
		var ch model.VolumetricChannel
		var sawName, sawImage bool
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "name":
				ch.Name = a.Value
				sawName = true
			case a.Name.Space == "" && a.Name.Local == "image3did":
				id, err := parseUint32("property", "image3did", a.Value)
				if err != nil {
					return err
				}
				ch.Image3DID = id
				sawImage = true
			case a.Name.Space == "" && a.Name.Local == "channel":
				ch.Channel = a.Value
			default:
				if err := d.strangeAttr("property", a); err != nil {
					return err
				}
			}
		}
		if !sawName {
			return missingAttr("property", "name")
		}
		if !sawImage {
			return missingAttr("property", "image3did")
		}
		g.Channels = append(g.Channels, ch)
		return d.skip()
	})
	if err != nil {
		return err
	}

	g.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.VolumetricPropGroup = append(d.m.Resources.VolumetricPropGroup, g)
	return nil
}
