package model

// Vertex is a point in model space.
type Vertex struct {
	X, Y, Z float64
}

// Triangle references three vertices by index, with optional property
// overrides. P2/P3 are only meaningful when HasP23 is set, and PID only when
// HasPID is set.
type Triangle struct {
	V1, V2, V3 uint32

	PID        uint32
	P1, P2, P3 uint32
	HasPID     bool
	HasP1      bool
	HasP23     bool

	// Displacement extension.
	DID        uint32
	D1, D2, D3 uint32
	HasDID     bool
}

// Mesh is triangle geometry: an ordered vertex list and an ordered triangle
// list, plus an optional beam lattice. A mesh may legally hold vertices that
// no triangle references; beam lattice endpoints rely on that.
type Mesh struct {
	Vertices    []Vertex
	Triangles   []Triangle
	BeamLattice *BeamLattice
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// DisplacementMesh is mesh geometry whose triangles carry displacement
// coordinates, introduced by the displacement extension.
type DisplacementMesh struct {
	Mesh Mesh
}
