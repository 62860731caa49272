package gosubdiv

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// edgeKey packs an undirected edge into one map key, smaller index in the
// high half so (a, b) and (b, a) collide.
func edgeKey(a, b int) uint64 {
	if b < a {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(uint32(b))
}

// Midpoint returns the componentwise mean of a and b.
func Midpoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Mul(0.5)
}

// Subdivide splits every triangle of m into four by inserting a vertex at the
// midpoint of each edge. Original vertices keep their indices; midpoints are
// appended in the order their edges are first met while scanning faces, and
// an edge shared by several faces gets a single midpoint.
//
// The returned mesh shares no storage with m. A face that is not a triangle or
// that references a missing vertex makes Subdivide fail before any output is
// built.
func Subdivide(m *Mesh) (*Mesh, error) {
	if err := checkFaces("subdivide", m); err != nil {
		return nil, err
	}

	faceCount := len(m.Faces)

	// A closed manifold has 3F/2 edges; open meshes grow past this with append.
	vertices := make([]mgl64.Vec3, len(m.Vertices), len(m.Vertices)+(3*faceCount+1)/2)
	copy(vertices, m.Vertices)

	arena := make([]int, 12*faceCount)
	faces := make([][]int, 4*faceCount)
	for i := range faces {
		faces[i] = arena[3*i : 3*i+3 : 3*i+3]
	}

	midpoints := make(map[uint64]int, (3*faceCount+1)/2)
	midpoint := func(a, b int) int {
		key := edgeKey(a, b)
		if index, found := midpoints[key]; found {
			return index
		}
		index := len(vertices)
		vertices = append(vertices, Midpoint(m.Vertices[a], m.Vertices[b]))
		midpoints[key] = index
		return index
	}

	for fi, f := range m.Faces {
		v0, v1, v2 := f[0], f[1], f[2]

		m01 := midpoint(v0, v1)
		m12 := midpoint(v1, v2)
		m20 := midpoint(v2, v0)

		out := faces[4*fi : 4*fi+4]
		out[0][0], out[0][1], out[0][2] = v0, m01, m20
		out[1][0], out[1][1], out[1][2] = v1, m12, m01
		out[2][0], out[2][1], out[2][2] = v2, m20, m12
		out[3][0], out[3][1], out[3][2] = m01, m12, m20
	}

	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

// checkFaces is the allocation-free part of Validate.
func checkFaces(op string, m *Mesh) error {
	n := len(m.Vertices)
	if uint64(n) > math.MaxUint32 {
		return &MeshError{Op: op, Kind: KindTooManyVertices, Face: -1, Index: -1}
	}
	for fi, f := range m.Faces {
		if len(f) != 3 {
			return &MeshError{Op: op, Kind: KindNotTriangle, Face: fi, Index: -1}
		}
		for _, v := range f {
			if v < 0 || v >= n {
				return &MeshError{Op: op, Kind: KindIndexOutOfRange, Face: fi, Index: v}
			}
		}
	}
	return nil
}
