package model

import (
	"golang.org/x/text/language"
)

// Unit is the unit of length for all coordinates in a model.
type Unit int

// Supported units. The 3MF default is millimeter.
const (
	UnitMillimeter Unit = iota
	UnitMicron
	UnitCentimeter
	UnitInch
	UnitFoot
	UnitMeter
)

var unitNames = map[Unit]string{
	UnitMicron:     "micron",
	UnitMillimeter: "millimeter",
	UnitCentimeter: "centimeter",
	UnitInch:       "inch",
	UnitFoot:       "foot",
	UnitMeter:      "meter",
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return unitNames[u]
}

// ParseUnit resolves a unit attribute value.
func ParseUnit(s string) (Unit, bool) {
	for u, name := range unitNames {
		if name == s {
			return u, true
		}
	}
	return 0, false
}

// Metadata is a single name/value metadata entry. Names may repeat; order is
// preserved.
type Metadata struct {
	Name     string
	Value    string
	Type     string
	Preserve bool
}

// Item is one entry in the build instruction list.
type Item struct {
	ObjectID     uint32
	Transform    *Transform
	PartNumber   string
	UUID         string // production extension
	Path         string // production extension; reference into another part
	Metadata     []Metadata
	ResolvedPath bool // set once a Path reference has been spliced in
}

// Build is the ordered list of build items.
type Build struct {
	UUID  string // production extension
	Items []Item
}

// Model is a fully parsed 3MF model part.
type Model struct {
	Unit     Unit
	Language string
	Path     string // package part this model was read from
	Metadata []Metadata

	Resources Resources
	Build     Build

	Thumbnail string // package thumbnail part, when present

	// RequiredExtensions lists the built-in extensions the document declares
	// mandatory via requiredextensions.
	RequiredExtensions []Extension

	// RequiredCustom lists caller-registered custom namespaces the document
	// declares mandatory.
	RequiredCustom []string

	SecureContent *SecureContentInfo
}

// NewModel returns an empty model with default unit.
func NewModel() *Model {
	return &Model{Unit: UnitMillimeter}
}

// LanguageTag parses the model's xml:lang value. The second return is false
// when no language is set or the tag does not parse; a malformed tag is kept
// verbatim in Language and never causes a rejection.
func (m *Model) LanguageTag() (language.Tag, bool) {
	if m.Language == "" {
		return language.Und, false
	}
	tag, err := language.Parse(m.Language)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// RequiresExtension reports whether the document declared ext mandatory.
func (m *Model) RequiresExtension(ext Extension) bool {
	for _, e := range m.RequiredExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// AddMetadata appends a metadata entry, preserving order and duplicates.
func (m *Model) AddMetadata(md Metadata) {
	m.Metadata = append(m.Metadata, md)
}
