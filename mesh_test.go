package gosubdiv

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec3) bool {
	return almostEqual(a[0], b[0]) && almostEqual(a[1], b[1]) && almostEqual(a[2], b[2])
}

func singleTriangle() *Mesh {
	return NewMeshFromData(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][]int{{0, 1, 2}},
	)
}

// tetrahedron is closed and consistently wound outwards.
func tetrahedron() *Mesh {
	return NewMeshFromData(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	)
}

// quad is two triangles sharing the edge 1-2.
func quad() *Mesh {
	return NewMeshFromData(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		[][]int{{0, 1, 2}, {2, 1, 3}},
	)
}

func TestNewMeshFromDataCopies(t *testing.T) {
	vertices := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	faces := [][]int{{0, 1, 2}}
	m := NewMeshFromData(vertices, faces)

	vertices[0] = mgl64.Vec3{9, 9, 9}
	faces[0][0] = 2

	if m.Vertices[0] != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("vertex changed through caller slice: %v", m.Vertices[0])
	}
	if m.Faces[0][0] != 0 {
		t.Errorf("face changed through caller slice: %v", m.Faces[0])
	}
}

func TestAddPointWeldsCoincidentPoints(t *testing.T) {
	m := NewMesh()
	a := m.AddPoint(mgl64.Vec3{1, 2, 3})
	b := m.AddPoint(mgl64.Vec3{4, 5, 6})
	c := m.AddPoint(mgl64.Vec3{1, 2, 3})

	if a != c {
		t.Errorf("expected coincident points to share index, got %d and %d", a, c)
	}
	if a == b {
		t.Errorf("distinct points share index %d", a)
	}
	if m.VertexCount() != 2 {
		t.Errorf("expected 2 vertices, got %d", m.VertexCount())
	}

	// AddVertex bypasses welding.
	if d := m.AddVertex(mgl64.Vec3{1, 2, 3}); d != 2 {
		t.Errorf("AddVertex() = %d, want 2", d)
	}
}

func TestAddPolygonFanTriangulates(t *testing.T) {
	m := NewMesh()
	m.AddPolygon([]int{0, 1, 2, 3, 4})

	want := [][]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	if len(m.Faces) != len(want) {
		t.Fatalf("expected %d faces, got %d", len(want), len(m.Faces))
	}
	for i := range want {
		for j := range want[i] {
			if m.Faces[i][j] != want[i][j] {
				t.Errorf("face %d = %v, want %v", i, m.Faces[i], want[i])
				break
			}
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	m := quad()
	c := m.Copy()
	c.Vertices[0][0] = 42
	c.Faces[0][0] = 3

	if m.Vertices[0][0] != 0 || m.Faces[0][0] != 0 {
		t.Errorf("copy shares storage with original")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		faces [][]int
		want  error
		face  int
		index int
	}{
		{name: "valid", faces: [][]int{{0, 1, 2}}},
		{name: "no faces", faces: [][]int{}},
		{name: "degenerate is valid", faces: [][]int{{0, 0, 1}}},
		{name: "index too large", faces: [][]int{{0, 1, 2}, {0, 1, 3}}, want: ErrIndexOutOfRange, face: 1, index: 3},
		{name: "negative index", faces: [][]int{{-1, 1, 2}}, want: ErrIndexOutOfRange, face: 0, index: -1},
		{name: "quad face", faces: [][]int{{0, 1, 2, 0}}, want: ErrNotTriangle, face: 0, index: -1},
		{name: "edge face", faces: [][]int{{0, 1, 2}, {0, 1}}, want: ErrNotTriangle, face: 1, index: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMeshFromData([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, tc.faces)
			err := m.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var merr *MeshError
			if !errors.As(err, &merr) {
				t.Fatalf("expected *MeshError, got %T", err)
			}
			if merr.Face != tc.face || merr.Index != tc.index {
				t.Errorf("error points at face=%d index=%d, want face=%d index=%d", merr.Face, merr.Index, tc.face, tc.index)
			}
		})
	}
}

func TestEdgeCount(t *testing.T) {
	testCases := []struct {
		name string
		mesh *Mesh
		want int
	}{
		{"single triangle", singleTriangle(), 3},
		{"quad", quad(), 5},
		{"tetrahedron", tetrahedron(), 6},
		{"empty", NewMesh(), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.mesh.EdgeCount()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("EdgeCount() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBoundsAndExtents(t *testing.T) {
	m := NewMeshFromData([]mgl64.Vec3{{1, -2, 3}, {-1, 4, 0}, {0, 0, 5}}, nil)
	lo, hi := m.Bounds()
	if lo != (mgl64.Vec3{-1, -2, 0}) || hi != (mgl64.Vec3{1, 4, 5}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
	if ext := m.Extents(); ext != (mgl64.Vec3{2, 6, 5}) {
		t.Errorf("Extents() = %v", ext)
	}

	lo, hi = NewMesh().Bounds()
	if lo != (mgl64.Vec3{}) || hi != (mgl64.Vec3{}) {
		t.Errorf("empty Bounds() = %v, %v", lo, hi)
	}
}

func TestMeshErrorMessage(t *testing.T) {
	err := &MeshError{Op: "subdivide", Kind: KindIndexOutOfRange, Face: 2, Index: 7}
	want := "subdivide: index_out_of_range (face=2 index=7)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	perr := parseError("obj.read", 12, "bad vertex %q", "v 1 x")
	if !errors.Is(perr, ErrParse) {
		t.Errorf("parse error does not match ErrParse")
	}
	if perr.Line != 12 {
		t.Errorf("Line = %d, want 12", perr.Line)
	}
}
