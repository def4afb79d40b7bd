package validate

import (
	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// SliceRules enforces the slice extension's semantic constraints: no mixing
// of inline slices and references, strictly increasing slice heights above
// the stack bottom, and closed polygon contours.
func SliceRules(m *model.Model) error {
	for _, s := range m.Resources.SliceStacks {
		// Resolved references have already been spliced into Slices; only a
		// still-unresolved reference next to inline slices is a mix.
		unresolved := 0
		for _, ref := range s.Refs {
			if !ref.Resolved {
				unresolved++
			}
		}
		if len(s.Slices) > 0 && unresolved > 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"slicestack %d mixes slice and sliceref children", s.ID).WithResource(s.ID)
		}
		prev := s.BottomZ
		for i, slice := range s.Slices {
			if slice.TopZ < s.BottomZ {
				return mferr.Newf(mferr.CodeSliceOrder,
					"slicestack %d slice %d: ztop %g below zbottom %g",
					s.ID, i, slice.TopZ, s.BottomZ).WithResource(s.ID)
			}
			if i > 0 && slice.TopZ <= prev {
				return mferr.Newf(mferr.CodeSliceOrder,
					"slicestack %d slice %d: ztop %g not above previous %g",
					s.ID, i, slice.TopZ, prev).WithResource(s.ID)
			}
			prev = slice.TopZ
			if err := slicePolygons(s, i, slice); err != nil {
				return err
			}
		}
	}

	for _, o := range m.Resources.Objects {
		if o.SliceStackID == 0 {
			continue
		}
		if _, ok := m.Resources.FindSliceStack(o.SliceStackID); !ok {
			return mferr.Newf(mferr.CodeDanglingRef,
				"object %d references id %d which is not a slicestack",
				o.ID, o.SliceStackID).WithResource(o.ID).WithRef(o.SliceStackID)
		}
	}
	return nil
}

// slicePolygons checks vertex bounds and that each polygon's segment chain
// returns to its start vertex.
func slicePolygons(s *model.SliceStack, idx int, slice model.Slice) error {
	n := uint32(len(slice.Vertices))
	for pi, poly := range slice.Polygons {
		if poly.StartV >= n {
			return mferr.Newf(mferr.CodeInvalidModel,
				"slicestack %d slice %d polygon %d: startv %d out of bounds",
				s.ID, idx, pi, poly.StartV).WithResource(s.ID)
		}
		if len(poly.Segments) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"slicestack %d slice %d polygon %d has no segments",
				s.ID, idx, pi).WithResource(s.ID)
		}
		for si, seg := range poly.Segments {
			if seg.V2 >= n {
				return mferr.Newf(mferr.CodeInvalidModel,
					"slicestack %d slice %d polygon %d segment %d: v2 %d out of bounds",
					s.ID, idx, pi, si, seg.V2).WithResource(s.ID)
			}
		}
		if last := poly.Segments[len(poly.Segments)-1]; last.V2 != poly.StartV {
			return mferr.Newf(mferr.CodeInvalidModel,
				"slicestack %d slice %d polygon %d does not close: ends at %d, started at %d",
				s.ID, idx, pi, last.V2, poly.StartV).WithResource(s.ID)
		}
	}
	return nil
}
