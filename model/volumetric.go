package model

// Image3D is the volumetric extension's stacked-image resource. Each sheet
// path names an image part in the package.
type Image3D struct {
	ID         uint32
	Name       string
	SizeX      uint32
	SizeY      uint32
	SheetCount uint32
	Sheets     []string
	ParseOrder int
}

// VolumetricChannel maps one property name onto an Image3D channel.
type VolumetricChannel struct {
	Name      string
	Image3DID uint32
	Channel   string
}

// VolumetricPropertyGroup is the volumetric extension's property resource,
// binding named scalar fields to image stacks.
type VolumetricPropertyGroup struct {
	ID         uint32
	Transform  *Transform
	Channels   []VolumetricChannel
	ParseOrder int
}
