package parser

import (
	"encoding/xml"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// parseBeamLattice decodes a <b:beamlattice> inside a mesh.
func (d *docParser) parseBeamLattice(se xml.StartElement, o *model.Object, mesh *model.Mesh) error {
	if mesh.BeamLattice != nil {
		return mferr.Newf(mferr.CodeBadElement,
			"object %d mesh has more than one <beamlattice>", o.ID).
			WithResource(o.ID).WithElement("beamlattice")
	}
	bl := &model.BeamLattice{}
	var sawMinLength, sawRadius bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "minlength":
			f, err := parseFloat("beamlattice", "minlength", a.Value)
			if err != nil {
				return err
			}
			bl.MinLength = f
			sawMinLength = true
		case a.Name.Space == "" && a.Name.Local == "radius":
			f, err := parseFloat("beamlattice", "radius", a.Value)
			if err != nil {
				return err
			}
			bl.DefaultRadius = f
			sawRadius = true
		case a.Name.Space == "" && a.Name.Local == "cap":
			c, ok := model.ParseCapMode(a.Value)
			if !ok {
				return badLiteral("beamlattice", "cap", a.Value)
			}
			bl.DefaultCap = c
		case a.Name.Space == "" && a.Name.Local == "clippingmode":
			c, ok := model.ParseClipMode(a.Value)
			if !ok {
				return badLiteral("beamlattice", "clippingmode", a.Value)
			}
			bl.ClipMode = c
		case a.Name.Space == "" && a.Name.Local == "clippingmesh":
			id, err := parseUint32("beamlattice", "clippingmesh", a.Value)
			if err != nil {
				return err
			}
			bl.ClippingMesh = id
			bl.HasClipping = true
		case a.Name.Space == "" && a.Name.Local == "representationmesh":
			id, err := parseUint32("beamlattice", "representationmesh", a.Value)
			if err != nil {
				return err
			}
			bl.RepMesh = id
			bl.HasRepMesh = true
		default:
			if err := d.strangeAttr("beamlattice", a); err != nil {
				return err
			}
		}
	}
	if !sawMinLength {
		return missingAttr("beamlattice", "minlength")
	}
	if !sawRadius {
		return missingAttr("beamlattice", "radius")
	}

	err := d.children("beamlattice", func(child xml.StartElement) error {
		if child.Name.Space != model.NSBeamLattice {
			return d.foreign(child)
		}
		switch child.Name.Local {
		case "beams":
			return d.parseBeams(child, bl)
		case "beamsets":
			return d.parseBeamSets(child, bl)
		default:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> inside <beamlattice>", child.Name.Local).
				WithElement(child.Name.Local)
		}
	})
	if err != nil {
		return err
	}

	mesh.BeamLattice = bl
	return nil
}

func (d *docParser) parseBeams(se xml.StartElement, bl *model.BeamLattice) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("beams", a); err != nil {
			return err
		}
	}
	return d.children("beams", func(child xml.StartElement) error {
		if child.Name.Space != model.NSBeamLattice || child.Name.Local != "beam" {
			return d.foreign(child)
		}
		b, err := d.parseBeam(child, bl)
		if err != nil {
			return err
		}
		bl.Beams = append(bl.Beams, b)
		return d.skip()
	})
}

// parseBeam decodes one <beam>. r2 is only legal alongside r1; caps default
// to the lattice default.
func (d *docParser) parseBeam(se xml.StartElement, bl *model.BeamLattice) (model.Beam, error) {
	b := model.Beam{Cap1: bl.DefaultCap, Cap2: bl.DefaultCap}
	var sawV1, sawV2 bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "v1":
			v, err := parseUint32("beam", "v1", a.Value)
			if err != nil {
				return b, err
			}
			b.V1, sawV1 = v, true
		case a.Name.Space == "" && a.Name.Local == "v2":
			v, err := parseUint32("beam", "v2", a.Value)
			if err != nil {
				return b, err
			}
			b.V2, sawV2 = v, true
		case a.Name.Space == "" && a.Name.Local == "r1":
			f, err := parseFloat("beam", "r1", a.Value)
			if err != nil {
				return b, err
			}
			b.R1, b.HasR1 = f, true
		case a.Name.Space == "" && a.Name.Local == "r2":
			f, err := parseFloat("beam", "r2", a.Value)
			if err != nil {
				return b, err
			}
			b.R2, b.HasR2 = f, true
		case a.Name.Space == "" && a.Name.Local == "cap1":
			c, ok := model.ParseCapMode(a.Value)
			if !ok {
				return b, badLiteral("beam", "cap1", a.Value)
			}
			b.Cap1 = c
		case a.Name.Space == "" && a.Name.Local == "cap2":
			c, ok := model.ParseCapMode(a.Value)
			if !ok {
				return b, badLiteral("beam", "cap2", a.Value)
			}
			b.Cap2 = c
		default:
			if err := d.strangeAttr("beam", a); err != nil {
				return b, err
			}
		}
	}
	if !sawV1 {
		return b, missingAttr("beam", "v1")
	}
	if !sawV2 {
		return b, missingAttr("beam", "v2")
	}
	return b, nil
}

func (d *docParser) parseBeamSets(se xml.StartElement, bl *model.BeamLattice) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("beamsets", a); err != nil {
			return err
		}
	}
	return d.children("beamsets", func(child xml.StartElement) error {
		if child.Name.Space != model.NSBeamLattice || child.Name.Local != "beamset" {
			return d.foreign(child)
		}
		var set model.BeamSet
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "name":
				set.Name = a.Value
			case a.Name.Space == "" && a.Name.Local == "identifier":
				set.Identifier = a.Value
			default:
				if err := d.strangeAttr("beamset", a); err != nil {
					return err
				}
			}
		}
		err := d.children("beamset", func(ref xml.StartElement) error {
			if ref.Name.Space != model.NSBeamLattice || ref.Name.Local != "ref" {
				return d.foreign(ref)
			}
			sawIndex := false
			for _, a := range ref.Attr {
				switch {
				case a.Name.Space == "" && a.Name.Local == "index":
					idx, err := parseUint32("ref", "index", a.Value)
					if err != nil {
						return err
					}
					set.Refs = append(set.Refs, idx)
					sawIndex = true
				default:
					if err := d.strangeAttr("ref", a); err != nil {
						return err
					}
				}
			}
			if !sawIndex {
				return missingAttr("ref", "index")
			}
			return d.skip()
		})
		if err != nil {
			return err
		}
		bl.BeamSets = append(bl.BeamSets, set)
		return nil
	})
}
