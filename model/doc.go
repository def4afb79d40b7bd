// Package model provides the in-memory representation of a 3MF document.
//
// All parsing ultimately produces these types, making them the primary API
// for consuming a package's content.
//
// # Structure
//
// The [Model] type represents one model part: unit, language, metadata, a
// [Resources] container, and a [Build]. Resources are ID-addressable
// entities; every ID is unique across all resource kinds simultaneously, so
// an [Object] and a [ColorGroup] may never share an ID.
//
// # Resource kinds
//
//   - [Object] - mesh, component assembly, boolean shape, or displacement mesh
//   - [BaseMaterialGroup], [ColorGroup], [Texture2D], [Texture2DGroup],
//     [CompositeMaterials], [MultiProperties] - material extension
//   - [SliceStack] - slice extension
//   - [Displacement2D], [NormVectorGroup], [Disp2DCoords] - displacement
//     extension
//   - [Image3D], [VolumetricPropertyGroup] - volumetric extension
//
// # Parse order
//
// Every resource records the position at which it was first seen in document
// order. Cross-resource references must point backwards: a resource may only
// reference IDs whose parse order is not greater than its own. The validator
// uses [Resources.OrderOf] to enforce this.
//
// # Geometry
//
//   - [Vertex], [Triangle], [Mesh] - triangle geometry
//   - [Transform] - row-major 4x3 affine transform
package model
