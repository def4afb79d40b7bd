package model

// SliceResolution selects which geometry a consumer should slice.
type SliceResolution int

// Slice resolutions defined by the slice extension.
const (
	ResolutionFull SliceResolution = iota
	ResolutionLow
)

var sliceResolutionNames = map[SliceResolution]string{
	ResolutionFull: "fullres",
	ResolutionLow:  "lowres",
}

// String implements fmt.Stringer.
func (r SliceResolution) String() string { return sliceResolutionNames[r] }

// ParseSliceResolution resolves a meshresolution attribute value.
func ParseSliceResolution(s string) (SliceResolution, bool) {
	for r, name := range sliceResolutionNames {
		if name == s {
			return r, true
		}
	}
	return 0, false
}

// Point2D is a slice vertex.
type Point2D struct {
	X, Y float64
}

// Segment is one edge of a slice polygon, ending at vertex V2.
type Segment struct {
	V2     uint32
	PID    uint32
	P1, P2 uint32
	HasPID bool
}

// Polygon is a closed contour of one slice: it starts at StartV and each
// segment continues from the previous one's endpoint. A valid polygon's last
// segment returns to StartV.
type Polygon struct {
	StartV   uint32
	Segments []Segment
}

// Slice is one Z layer of a slice stack.
type Slice struct {
	TopZ     float64
	Vertices []Point2D
	Polygons []Polygon
}

// SliceRef points at a slice stack stored in another package part.
type SliceRef struct {
	SliceStackID uint32
	Path         string
	Resolved     bool
}

// SliceStack is the slice extension's slicestack resource. A stack holds
// either inline slices or external references, never both.
type SliceStack struct {
	ID         uint32
	BottomZ    float64
	Slices     []Slice
	Refs       []SliceRef
	ParseOrder int
}
