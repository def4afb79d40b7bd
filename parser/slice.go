package parser

import (
	"encoding/xml"

	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// parseSliceResource dispatches one slice-namespace resource element.
func (d *docParser) parseSliceResource(se xml.StartElement) error {
	if se.Name.Local != "slicestack" {
		return mferr.Newf(mferr.CodeBadElement,
			"unexpected slice element <%s> in <resources>", se.Name.Local).
			WithElement(se.Name.Local)
	}
	return d.parseSliceStack(se)
}

// parseSliceStack decodes an <s:slicestack> with its slices or external
// references.
func (d *docParser) parseSliceStack(se xml.StartElement) error {
	st := &model.SliceStack{}
	sawID := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "id":
			id, err := parseUint32("slicestack", "id", a.Value)
			if err != nil {
				return err
			}
			st.ID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "zbottom":
			z, err := parseFloat("slicestack", "zbottom", a.Value)
			if err != nil {
				return err
			}
			st.BottomZ = z
		default:
			if err := d.strangeAttr("slicestack", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("slicestack", "id")
	}

	err := d.children("slicestack", func(child xml.StartElement) error {
		if child.Name.Space != model.NSSlice {
			return d.foreign(child)
		}
		switch child.Name.Local {
		case "slice":
			return d.parseSlice(child, st)
		case "sliceref":
			return d.parseSliceRef(child, st)
		default:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> inside <slicestack>", child.Name.Local).
				WithElement(child.Name.Local)
		}
	})
	if err != nil {
		return err
	}

	st.ParseOrder = d.m.Resources.NextOrder()
	d.m.Resources.SliceStacks = append(d.m.Resources.SliceStacks, st)
	return nil
}

func (d *docParser) parseSlice(se xml.StartElement, st *model.SliceStack) error {
	var sl model.Slice
	sawTop := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "ztop":
			z, err := parseFloat("slice", "ztop", a.Value)
			if err != nil {
				return err
			}
			sl.TopZ = z
			sawTop = true
		default:
			if err := d.strangeAttr("slice", a); err != nil {
				return err
			}
		}
	}
	if !sawTop {
		return missingAttr("slice", "ztop")
	}

	err := d.children("slice", func(child xml.StartElement) error {
		if child.Name.Space != model.NSSlice {
			return d.foreign(child)
		}
		switch child.Name.Local {
		case "vertices":
			return d.parseSliceVertices(child, &sl)
		case "polygon":
			return d.parseSlicePolygon(child, &sl)
		default:
			return mferr.Newf(mferr.CodeBadElement,
				"unexpected element <%s> inside <slice>", child.Name.Local).
				WithElement(child.Name.Local)
		}
	})
	if err != nil {
		return err
	}

	st.Slices = append(st.Slices, sl)
	return nil
}

func (d *docParser) parseSliceVertices(se xml.StartElement, sl *model.Slice) error {
	for _, a := range se.Attr {
		if err := d.strangeAttr("vertices", a); err != nil {
			return err
		}
	}
	return d.children("vertices", func(child xml.StartElement) error {
		if child.Name.Space != model.NSSlice || child.Name.Local != "vertex" {
			return d.foreign(child)
		}
		var pt model.Point2D
		var sawX, sawY bool
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "x":
				f, err := parseFloat("vertex", "x", a.Value)
				if err != nil {
					return err
				}
				pt.X, sawX = f, true
			case a.Name.Space == "" && a.Name.Local == "y":
				f, err := parseFloat("vertex", "y", a.Value)
				if err != nil {
					return err
				}
				pt.Y, sawY = f, true
			default:
				if err := d.strangeAttr("vertex", a); err != nil {
					return err
				}
			}
		}
		if !sawX {
			return missingAttr("vertex", "x")
		}
		if !sawY {
			return missingAttr("vertex", "y")
		}
		sl.Vertices = append(sl.Vertices, pt)
		return d.skip()
	})
}

func (d *docParser) parseSlicePolygon(se xml.StartElement, sl *model.Slice) error {
	var poly model.Polygon
	sawStart := false
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "startv":
			v, err := parseUint32("polygon", "startv", a.Value)
			if err != nil {
				return err
			}
			poly.StartV = v
			sawStart = true
		default:
			if err := d.strangeAttr("polygon", a); err != nil {
				return err
			}
		}
	}
	if !sawStart {
		return missingAttr("polygon", "startv")
	}

	err := d.children("polygon", func(child xml.StartElement) error {
		if child.Name.Space != model.NSSlice || child.Name.Local != "segment" {
			return d.foreign(child)
		}
		var seg model.Segment
		var sawV2, sawPID, sawP1, sawP2 bool
		for _, a := range child.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "v2":
				v, err := parseUint32("segment", "v2", a.Value)
				if err != nil {
					return err
				}
				seg.V2, sawV2 = v, true
			case a.Name.Space == "" && a.Name.Local == "pid":
				v, err := parseUint32("segment", "pid", a.Value)
				if err != nil {
					return err
				}
				seg.PID, sawPID = v, true
			case a.Name.Space == "" && a.Name.Local == "p1":
				v, err := parseUint32("segment", "p1", a.Value)
				if err != nil {
					return err
				}
				seg.P1, sawP1 = v, true
			case a.Name.Space == "" && a.Name.Local == "p2":
				v, err := parseUint32("segment", "p2", a.Value)
				if err != nil {
					return err
				}
				seg.P2, sawP2 = v, true
			default:
				if err := d.strangeAttr("segment", a); err != nil {
					return err
				}
			}
		}
		if !sawV2 {
			return missingAttr("segment", "v2")
		}
		if (sawP1 || sawP2) && !sawPID {
			return mferr.New(mferr.CodeMissingAttr,
				"<segment> property indices require a pid").
				WithElement("segment").WithAttr("pid")
		}
		seg.HasPID = sawPID
		if sawP1 && !sawP2 {
			seg.P2 = seg.P1
		}
		poly.Segments = append(poly.Segments, seg)
		return d.skip()
	})
	if err != nil {
		return err
	}

	sl.Polygons = append(sl.Polygons, poly)
	return nil
}

func (d *docParser) parseSliceRef(se xml.StartElement, st *model.SliceStack) error {
	var ref model.SliceRef
	var sawID, sawPath bool
	for _, a := range se.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "slicestackid":
			id, err := parseUint32("sliceref", "slicestackid", a.Value)
			if err != nil {
				return err
			}
			ref.SliceStackID = id
			sawID = true
		case a.Name.Space == "" && a.Name.Local == "slicepath":
			ref.Path = a.Value
			sawPath = true
		default:
			if err := d.strangeAttr("sliceref", a); err != nil {
				return err
			}
		}
	}
	if !sawID {
		return missingAttr("sliceref", "slicestackid")
	}
	if !sawPath {
		return missingAttr("sliceref", "slicepath")
	}
	if err := d.skip(); err != nil {
		return err
	}

	st.Refs = append(st.Refs, ref)
	return nil
}
