package gosubdiv

import "github.com/go-gl/mathgl/mgl64"

// Mesh is an indexed triangle mesh. A vertex is identified by its position in
// Vertices and each face lists three vertex indices in winding order.
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    [][]int

	// pointIndex welds coincident points while a loader builds the mesh.
	pointIndex map[mgl64.Vec3]int
}

func NewMesh() *Mesh {
	return &Mesh{
		Vertices: make([]mgl64.Vec3, 0, 100),
		Faces:    make([][]int, 0, 100),
	}
}

// NewMeshFromData builds a mesh that owns copies of vertices and faces.
func NewMeshFromData(vertices []mgl64.Vec3, faces [][]int) *Mesh {
	m := &Mesh{
		Vertices: make([]mgl64.Vec3, len(vertices)),
		Faces:    make([][]int, len(faces)),
	}
	copy(m.Vertices, vertices)
	for i, f := range faces {
		m.Faces[i] = make([]int, len(f))
		copy(m.Faces[i], f)
	}
	return m
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// AddVertex appends p unconditionally and returns its index.
func (m *Mesh) AddVertex(p mgl64.Vec3) int {
	m.Vertices = append(m.Vertices, p)
	return len(m.Vertices) - 1
}

// AddPoint returns the index of a vertex at exactly p, adding one if none
// exists yet. Only vertices added through AddPoint are considered.
func (m *Mesh) AddPoint(p mgl64.Vec3) int {
	if m.pointIndex == nil {
		m.pointIndex = make(map[mgl64.Vec3]int)
	}

	if index, found := m.pointIndex[p]; found {
		return index
	}

	index := m.AddVertex(p)
	m.pointIndex[p] = index
	return index
}

// AddFace appends a triangle. The indices are not checked here; Validate or
// Subdivide reports bad ones.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, []int{a, b, c})
}

// AddPolygon fan-triangulates a polygon around its first corner. Polygons with
// fewer than three corners are kept as-is so validation can reject them.
func (m *Mesh) AddPolygon(indices []int) {
	if len(indices) <= 3 {
		f := make([]int, len(indices))
		copy(f, indices)
		m.Faces = append(m.Faces, f)
		return
	}
	for i := 1; i < len(indices)-1; i++ {
		m.AddFace(indices[0], indices[i], indices[i+1])
	}
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	c := NewMeshFromData(m.Vertices, m.Faces)
	if m.pointIndex != nil {
		c.pointIndex = make(map[mgl64.Vec3]int, len(m.pointIndex))
		for key, value := range m.pointIndex {
			c.pointIndex[key] = value
		}
	}
	return c
}

// Validate checks that every face is a triangle whose indices fall inside
// Vertices. It returns the first problem found as a *MeshError.
func (m *Mesh) Validate() error {
	_, err := m.countEdges("mesh.validate")
	return err
}

// EdgeCount returns the number of distinct undirected edges in the face set.
func (m *Mesh) EdgeCount() (int, error) {
	return m.countEdges("mesh.edge_count")
}

func (m *Mesh) countEdges(op string) (int, error) {
	if err := checkFaces(op, m); err != nil {
		return 0, err
	}

	edges := make(map[uint64]struct{}, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			edges[edgeKey(f[i], f[(i+1)%3])] = struct{}{}
		}
	}
	return len(edges), nil
}

// Bounds returns the corners of the axis-aligned bounding box. An empty mesh
// has zero bounds.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}

	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, p := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < lo[i] {
				lo[i] = p[i]
			} else if p[i] > hi[i] {
				hi[i] = p[i]
			}
		}
	}
	return lo, hi
}

// Extents returns the size of the bounding box along each axis.
func (m *Mesh) Extents() mgl64.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}
