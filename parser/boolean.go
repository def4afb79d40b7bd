package parser

import (
	"encoding/xml"

	"github.com/printforge/mf3/model"
)

// parseBooleanShape decodes a <bo:booleanshape> object body.
func (d *docParser) parseBooleanShape(se xml.StartElement, o *model.Object) error {
	bs := &model.BooleanShape{}
	sawObjectID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "objectid":
			id, err := parseUint32("booleanshape", "objectid", a.Value)
			if err != nil {
				return err
			}
			bs.ObjectID = id
			sawObjectID = true
		case a.Name.Space == "" && a.Name.Local == "path":
			bs.Path = a.Value
		case a.Name.Space == "" && a.Name.Local == "transform":
			t, ok := model.ParseTransform(a.Value)
			if !ok {
				return badLiteral("booleanshape", "transform", a.Value)
			}
			bs.Transform = &t
		case a.Name.Space == "" && a.Name.Local == "operation":
			op, ok := model.ParseBooleanOperation(a.Value)
			if !ok {
				return badLiteral("booleanshape", "operation", a.Value)
			}
			bs.Operation = op
		default:
			if err := d.strangeAttr("booleanshape", a); err != nil {
				return err
			}
		}
	}
	if !sawObjectID {
		return missingAttr("booleanshape", "objectid")
	}

	err := d.children("booleanshape", func(child xml.StartElement) error {
		if child.Name.Space != model.NSBooleanOperations || child.Name.Local != "boolean" {
			return d.foreign(child)
		}
		var op model.BooleanOperand
		sawOpID := false
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "objectid":
				id, err := parseUint32("boolean", "objectid", a.Value)
				if err != nil {
					return err
				}
				op.ObjectID = id
				sawOpID = true
			case a.Name.Space == "" && a.Name.Local == "path":
				op.Path = a.Value
			case a.Name.Space == "" && a.Name.Local == "transform":
				t, ok := model.ParseTransform(a.Value)
				if !ok {
					return badLiteral("boolean", "transform", a.Value)
				}
				op.Transform = &t
			default:
				if err := d.strangeAttr("boolean", a); err != nil {
					return err
				}
			}
		}
		if !sawOpID {
			return missingAttr("boolean", "objectid")
		}
		bs.Operands = append(bs.Operands, op)
		return d.skip()
	})
	if err != nil {
		return err
	}

	o.BooleanShape = bs
	return nil
}
