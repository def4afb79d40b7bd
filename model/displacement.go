package model

// DisplacementChannel selects which image channel drives displacement.
type DisplacementChannel int

// Channels defined by the displacement extension.
const (
	ChannelR DisplacementChannel = iota
	ChannelG
	ChannelB
	ChannelA
)

var displacementChannelNames = map[DisplacementChannel]string{
	ChannelR: "R",
	ChannelG: "G",
	ChannelB: "B",
	ChannelA: "A",
}

// String implements fmt.Stringer.
func (c DisplacementChannel) String() string { return displacementChannelNames[c] }

// ParseDisplacementChannel resolves a channel attribute value.
func ParseDisplacementChannel(s string) (DisplacementChannel, bool) {
	for c, name := range displacementChannelNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// Displacement2D binds a displacement map image part to a resource ID.
type Displacement2D struct {
	ID          uint32
	Path        string
	ContentType string
	Channel     DisplacementChannel
	TileStyleU  TileStyle
	TileStyleV  TileStyle
	Filter      TextureFilter
	ParseOrder  int
}

// Vec3 is a direction vector.
type Vec3 struct {
	X, Y, Z float64
}

// NormVectorGroup is the displacement extension's normal vector resource.
type NormVectorGroup struct {
	ID         uint32
	Vectors    []Vec3
	ParseOrder int
}

// DispCoord is one displacement coordinate: a texture position plus a
// magnitude and normal index.
type DispCoord struct {
	U, V      float64
	Magnitude float64
	NIndex    uint32
}

// Disp2DCoords is the displacement extension's coordinate group. DispID
// names the displacement map, NID the normal vector group its coordinates
// index into.
type Disp2DCoords struct {
	ID         uint32
	DispID     uint32
	NID        uint32
	Coords     []DispCoord
	ParseOrder int
}
