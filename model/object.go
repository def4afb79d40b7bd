package model

// ObjectType is the role an object plays in the build.
type ObjectType int

// Object types defined by the core specification.
const (
	ObjectTypeModel ObjectType = iota
	ObjectTypeSupport
	ObjectTypeSolidSupport
	ObjectTypeSurface
	ObjectTypeOther
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeModel:        "model",
	ObjectTypeSupport:      "support",
	ObjectTypeSolidSupport: "solidsupport",
	ObjectTypeSurface:      "surface",
	ObjectTypeOther:        "other",
}

// String implements fmt.Stringer.
func (t ObjectType) String() string {
	return objectTypeNames[t]
}

// ParseObjectType resolves a type attribute value.
func ParseObjectType(s string) (ObjectType, bool) {
	for t, name := range objectTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Component is a placement of another object inside a component assembly.
type Component struct {
	ObjectID  uint32
	Transform *Transform
	Path      string // production extension; reference into another part
	UUID      string // production extension
}

// Object is an ID-addressable shape: exactly one of Mesh, Components,
// BooleanShape, or DisplacementMesh is set.
type Object struct {
	ID         uint32
	Type       ObjectType
	Name       string
	PartNumber string
	Thumbnail  string

	// Default property for triangles that carry none of their own.
	PID    uint32
	PIndex uint32
	HasPID bool

	Mesh             *Mesh
	Components       []Component
	BooleanShape     *BooleanShape
	DisplacementMesh *DisplacementMesh

	UUID     string // production extension
	Metadata []Metadata

	// Slice extension.
	SliceStackID    uint32
	SliceResolution SliceResolution

	ParseOrder int
}

// HasComponents reports whether the object is a component assembly.
func (o *Object) HasComponents() bool {
	return len(o.Components) > 0
}
