package model

// Extension identifies one of the built-in 3MF extension specifications.
type Extension int

// Built-in extensions. ExtCore is the base specification itself.
const (
	ExtCore Extension = iota
	ExtMaterial
	ExtProduction
	ExtBeamLattice
	ExtSlice
	ExtSecureContent
	ExtBooleanOperations
	ExtDisplacement
	ExtVolumetric
)

// Namespace URIs for the built-in extensions.
const (
	NSCore              = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	NSMaterial          = "http://schemas.microsoft.com/3dmanufacturing/material/2015/02"
	NSProduction        = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"
	NSBeamLattice       = "http://schemas.microsoft.com/3dmanufacturing/beamlattice/2017/02"
	NSSlice             = "http://schemas.microsoft.com/3dmanufacturing/slice/2015/07"
	NSSecureContent     = "http://schemas.microsoft.com/3dmanufacturing/securecontent/2019/04"
	NSBooleanOperations = "http://schemas.3mf.io/3dmanufacturing/booleanoperations/2023/07"
	NSDisplacement      = "http://schemas.3mf.io/3dmanufacturing/displacement/2023/10"
	NSVolumetric        = "http://schemas.3mf.io/3dmanufacturing/volumetric/2022/01"
)

var extensionNamespaces = map[Extension]string{
	ExtCore:              NSCore,
	ExtMaterial:          NSMaterial,
	ExtProduction:        NSProduction,
	ExtBeamLattice:       NSBeamLattice,
	ExtSlice:             NSSlice,
	ExtSecureContent:     NSSecureContent,
	ExtBooleanOperations: NSBooleanOperations,
	ExtDisplacement:      NSDisplacement,
	ExtVolumetric:        NSVolumetric,
}

var extensionNames = map[Extension]string{
	ExtCore:              "core",
	ExtMaterial:          "material",
	ExtProduction:        "production",
	ExtBeamLattice:       "beamlattice",
	ExtSlice:             "slice",
	ExtSecureContent:     "securecontent",
	ExtBooleanOperations: "booleanoperations",
	ExtDisplacement:      "displacement",
	ExtVolumetric:        "volumetric",
}

// Conventional namespace prefixes used when writing documents.
var extensionPrefixes = map[Extension]string{
	ExtMaterial:          "m",
	ExtProduction:        "p",
	ExtBeamLattice:       "b",
	ExtSlice:             "s",
	ExtSecureContent:     "sc",
	ExtBooleanOperations: "bo",
	ExtDisplacement:      "d",
	ExtVolumetric:        "v",
}

// Namespace returns the extension's namespace URI.
func (e Extension) Namespace() string {
	return extensionNamespaces[e]
}

// Name returns the extension's short human-readable name.
func (e Extension) Name() string {
	return extensionNames[e]
}

// Prefix returns the conventional namespace prefix used when serializing.
func (e Extension) Prefix() string {
	return extensionPrefixes[e]
}

// String implements fmt.Stringer.
func (e Extension) String() string {
	return e.Name()
}

// ExtensionByNamespace resolves a namespace URI to a built-in extension.
func ExtensionByNamespace(ns string) (Extension, bool) {
	for ext, uri := range extensionNamespaces {
		if uri == ns {
			return ext, true
		}
	}
	return 0, false
}
