package model

// CapMode is the end-cap geometry of a beam.
type CapMode int

// Cap modes defined by the beam lattice extension.
const (
	CapSphere CapMode = iota
	CapHemisphere
	CapButt
)

var capModeNames = map[CapMode]string{
	CapSphere:     "sphere",
	CapHemisphere: "hemisphere",
	CapButt:       "butt",
}

// String implements fmt.Stringer.
func (c CapMode) String() string { return capModeNames[c] }

// ParseCapMode resolves a cap attribute value.
func ParseCapMode(s string) (CapMode, bool) {
	for c, name := range capModeNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// ClipMode is how a lattice is clipped against a mesh.
type ClipMode int

// Clip modes defined by the beam lattice extension.
const (
	ClipNone ClipMode = iota
	ClipInside
	ClipOutside
)

var clipModeNames = map[ClipMode]string{
	ClipNone:    "none",
	ClipInside:  "inside",
	ClipOutside: "outside",
}

// String implements fmt.Stringer.
func (c ClipMode) String() string { return clipModeNames[c] }

// ParseClipMode resolves a clippingmode attribute value.
func ParseClipMode(s string) (ClipMode, bool) {
	for c, name := range clipModeNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// Beam connects two mesh vertices. R1/R2 override the lattice default
// radius; R2 is only legal when R1 is present.
type Beam struct {
	V1, V2 uint32
	R1, R2 float64
	HasR1  bool
	HasR2  bool
	Cap1   CapMode
	Cap2   CapMode
}

// BeamSet is a named selection of beams by index.
type BeamSet struct {
	Name       string
	Identifier string
	Refs       []uint32
}

// BeamLattice is the beam lattice extension's per-mesh beam structure.
type BeamLattice struct {
	MinLength     float64
	DefaultRadius float64
	DefaultCap    CapMode
	ClipMode      ClipMode
	ClippingMesh  uint32
	HasClipping   bool
	RepMesh       uint32
	HasRepMesh    bool
	Beams         []Beam
	BeamSets      []BeamSet
}
