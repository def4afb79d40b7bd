package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an sRGB color with alpha.
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses a #RRGGBB or #RRGGBBAA color attribute value.
func ParseColor(s string) (Color, bool) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, false
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, false
	}
	c := Color{A: 0xff}
	if len(hex) == 8 {
		c.A = uint8(v & 0xff)
		v >>= 8
	}
	c.B = uint8(v & 0xff)
	c.G = uint8(v >> 8 & 0xff)
	c.R = uint8(v >> 16 & 0xff)
	return c, true
}

// String formats the color as #RRGGBBAA, or #RRGGBB when fully opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// BaseMaterial is one material in a base-material group.
type BaseMaterial struct {
	Name  string
	Color Color
}

// BaseMaterialGroup is the core basematerials resource.
type BaseMaterialGroup struct {
	ID         uint32
	Materials  []BaseMaterial
	ParseOrder int
}

// ColorGroup is the material extension's colorgroup resource.
type ColorGroup struct {
	ID         uint32
	Colors     []Color
	ParseOrder int
}

// TileStyle is a texture tiling mode.
type TileStyle int

// Tile styles defined by the material extension.
const (
	TileWrap TileStyle = iota
	TileMirror
	TileClamp
	TileNone
)

var tileStyleNames = map[TileStyle]string{
	TileWrap:   "wrap",
	TileMirror: "mirror",
	TileClamp:  "clamp",
	TileNone:   "none",
}

// String implements fmt.Stringer.
func (t TileStyle) String() string { return tileStyleNames[t] }

// ParseTileStyle resolves a tilestyle attribute value.
func ParseTileStyle(s string) (TileStyle, bool) {
	for t, name := range tileStyleNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// TextureFilter is a texture sampling filter.
type TextureFilter int

// Texture filters defined by the material extension.
const (
	FilterAuto TextureFilter = iota
	FilterLinear
	FilterNearest
)

var textureFilterNames = map[TextureFilter]string{
	FilterAuto:    "auto",
	FilterLinear:  "linear",
	FilterNearest: "nearest",
}

// String implements fmt.Stringer.
func (f TextureFilter) String() string { return textureFilterNames[f] }

// ParseTextureFilter resolves a filter attribute value.
func ParseTextureFilter(s string) (TextureFilter, bool) {
	for f, name := range textureFilterNames {
		if name == s {
			return f, true
		}
	}
	return 0, false
}

// Texture2D binds a texture image part to a resource ID.
type Texture2D struct {
	ID          uint32
	Path        string
	ContentType string
	TileStyleU  TileStyle
	TileStyleV  TileStyle
	Filter      TextureFilter
	ParseOrder  int
}

// UV is a texture coordinate.
type UV struct {
	U, V float64
}

// Texture2DGroup is the material extension's texture2dgroup resource.
type Texture2DGroup struct {
	ID         uint32
	TextureID  uint32
	Coords     []UV
	ParseOrder int
}

// Composite is one mixing entry of a compositematerials resource.
type Composite struct {
	Values []float64
}

// CompositeMaterials mixes materials of one base-material group.
type CompositeMaterials struct {
	ID         uint32
	MaterialID uint32
	Indices    []uint32
	Composites []Composite
	ParseOrder int
}

// BlendMethod is how two property layers combine.
type BlendMethod int

// Blend methods defined by the material extension.
const (
	BlendMix BlendMethod = iota
	BlendMultiply
)

var blendMethodNames = map[BlendMethod]string{
	BlendMix:      "mix",
	BlendMultiply: "multiply",
}

// String implements fmt.Stringer.
func (b BlendMethod) String() string { return blendMethodNames[b] }

// ParseBlendMethod resolves a blendmethod list entry.
func ParseBlendMethod(s string) (BlendMethod, bool) {
	for b, name := range blendMethodNames {
		if name == s {
			return b, true
		}
	}
	return 0, false
}

// Multi is one row of a multiproperties resource: one index per layered
// property group.
type Multi struct {
	PIndices []uint32
}

// MultiProperties layers several property groups.
type MultiProperties struct {
	ID           uint32
	PIDs         []uint32
	BlendMethods []BlendMethod
	Multis       []Multi
	ParseOrder   int
}
