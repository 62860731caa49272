package gosubdiv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"obj", FormatOBJ, true},
		{".PLY", FormatPLY, true},
		{"Stl", FormatSTL, true},
		{".dxf", FormatDXF, true},
		{"off", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, err := ParseFormat(c.input)
		if c.ok {
			if err != nil || got != c.want {
				t.Errorf("ParseFormat(%q) = %q, %v, want %q", c.input, got, err, c.want)
			}
			continue
		}
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", c.input, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath(filepath.Join("meshes", "bunny.OBJ")); err != nil || f != FormatOBJ {
		t.Errorf("FormatFromPath() = %q, %v", f, err)
	}
	if _, err := FormatFromPath("bunny"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	cases := []struct {
		prefix    string
		triangles int
		format    Format
		want      string
	}{
		{"out/bunny", 4, FormatOBJ, "out/bunny_4.obj"},
		{"mesh", 1024, FormatPLY, "mesh_1024.ply"},
		{"m", 16, FormatSTL, "m_16.stl"},
	}
	for _, c := range cases {
		if got := OutputName(c.prefix, c.triangles, c.format); got != c.want {
			t.Errorf("OutputName(%q, %d, %q) = %q, want %q", c.prefix, c.triangles, c.format, got, c.want)
		}
	}
}

func TestReadWriteUnknownFormat(t *testing.T) {
	if _, err := Read(strings.NewReader(""), Format("OBJ")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Read() error = %v", err)
	}
	if err := Write(&strings.Builder{}, quad(), Format("off")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Write() error = %v", err)
	}
}

func TestSaveAndLoadFileEveryFormat(t *testing.T) {
	dir := t.TempDir()
	m, err := Subdivide(tetrahedron())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, f := range formats {
		t.Run(string(f), func(t *testing.T) {
			path := OutputName(filepath.Join(dir, "tetra"), m.FaceCount(), f)
			if err := SaveFile(path, m); err != nil {
				t.Fatalf("SaveFile() error: %v", err)
			}
			back, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if back.FaceCount() != m.FaceCount() {
				t.Errorf("expected %d faces, got %d", m.FaceCount(), back.FaceCount())
			}
			if back.VertexCount() != m.VertexCount() {
				t.Errorf("expected %d vertices, got %d", m.VertexCount(), back.VertexCount())
			}
			if err := back.Validate(); err != nil {
				t.Errorf("loaded mesh is invalid: %v", err)
			}
		})
	}
}

func TestSaveFileAsIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.txt")
	if err := SaveFileAs(path, quad(), FormatOBJ); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Generated by gosubdiv") {
		t.Errorf("expected OBJ content, got %q", string(data))
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.obj")
	if err := os.WriteFile(bad, []byte("v 1 2\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := LoadFile(bad)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("expected path in error, got %v", err)
	}

	if err := SaveFile(filepath.Join(dir, "no-such-dir", "out.obj"), quad()); err == nil {
		t.Errorf("expected error writing into a missing directory")
	}
}
