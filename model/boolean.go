package model

// BooleanOperation combines operand shapes with a base shape.
type BooleanOperation int

// Operations defined by the boolean operations extension.
const (
	BoolUnion BooleanOperation = iota
	BoolDifference
	BoolIntersection
)

var booleanOperationNames = map[BooleanOperation]string{
	BoolUnion:        "union",
	BoolDifference:   "difference",
	BoolIntersection: "intersection",
}

// String implements fmt.Stringer.
func (b BooleanOperation) String() string { return booleanOperationNames[b] }

// ParseBooleanOperation resolves an operation attribute value.
func ParseBooleanOperation(s string) (BooleanOperation, bool) {
	for b, name := range booleanOperationNames {
		if name == s {
			return b, true
		}
	}
	return 0, false
}

// BooleanOperand is one shape applied to the base of a boolean shape.
type BooleanOperand struct {
	ObjectID  uint32
	Path      string
	Transform *Transform
}

// BooleanShape is an object defined by boolean composition of other objects.
type BooleanShape struct {
	ObjectID  uint32 // base shape
	Path      string
	Transform *Transform
	Operation BooleanOperation
	Operands  []BooleanOperand
}
