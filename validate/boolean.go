package validate

import (
	"github.com/printforge/mf3/mferr"
	"github.com/printforge/mf3/model"
)

// BooleanRules enforces the boolean operations extension's semantic
// constraints.
func BooleanRules(m *model.Model) error {
	for _, o := range m.Resources.Objects {
		bs := o.BooleanShape
		if bs == nil {
			continue
		}
		if len(bs.Operands) == 0 {
			return mferr.Newf(mferr.CodeInvalidModel,
				"object %d boolean shape has no operands", o.ID).WithResource(o.ID)
		}
		if bs.Path == "" {
			if err := booleanOperandRef(m, o.ID, bs.ObjectID); err != nil {
				return err
			}
		}
		for _, op := range bs.Operands {
			if op.Path != "" {
				continue
			}
			if err := booleanOperandRef(m, o.ID, op.ObjectID); err != nil {
				return err
			}
		}
	}
	return nil
}

// booleanOperandRef requires a boolean operand to resolve to an object that
// itself carries solid geometry: a mesh, components, or another boolean
// shape. Self-reference is a degenerate one-node cycle.
func booleanOperandRef(m *model.Model, fromID, id uint32) error {
	if id == fromID {
		return mferr.Newf(mferr.CodeCircularRef,
			"circular component reference: %d→%d", fromID, id).
			WithResource(fromID).WithRef(id)
	}
	target, ok := m.Resources.FindObject(id)
	if !ok {
		return mferr.Newf(mferr.CodeDanglingRef,
			"object %d boolean shape references undeclared object %d", fromID, id).
			WithResource(fromID).WithRef(id)
	}
	if target.Mesh == nil && len(target.Components) == 0 && target.BooleanShape == nil {
		return mferr.Newf(mferr.CodeInvalidModel,
			"object %d boolean shape references object %d which has no solid geometry",
			fromID, id).WithResource(fromID).WithRef(id)
	}
	return nil
}
