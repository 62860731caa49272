package gosubdiv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ReadOBJ reads the vertex positions and faces of a Wavefront OBJ stream.
// Texture coordinates, normals, groups and materials are ignored. Polygons are
// fan-triangulated and negative (relative) indices are resolved.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := NewMesh()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 2 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, parseError("obj.read", lineNo, "vertex needs 3 coordinates, got %d", len(fields)-1)
			}
			var p mgl64.Vec3
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, parseError("obj.read", lineNo, "could not parse coordinate %q: %w", fields[i+1], err)
				}
				p[i] = c
			}
			m.AddVertex(p)
		case "f":
			if len(fields) < 4 {
				return nil, parseError("obj.read", lineNo, "face needs at least 3 corners, got %d", len(fields)-1)
			}
			indices := make([]int, len(fields)-1)
			for i, corner := range fields[1:] {
				idx, err := parseOBJIndex(corner, len(m.Vertices))
				if err != nil {
					return nil, parseError("obj.read", lineNo, "%w", err)
				}
				indices[i] = idx
			}
			m.AddPolygon(indices)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from OBJ source: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseOBJIndex converts a face corner such as "7", "7/2" or "-1//3" into a
// zero-based vertex index.
func parseOBJIndex(corner string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(corner, '/'); slash >= 0 {
		corner = corner[:slash]
	}
	idx, err := strconv.Atoi(corner)
	if err != nil {
		return 0, fmt.Errorf("could not parse face index %q: %w", corner, err)
	}
	switch {
	case idx > 0:
		return idx - 1, nil
	case idx < 0:
		return vertexCount + idx, nil
	}
	return 0, fmt.Errorf("face index 0 found, OBJ indices start at 1")
}

// WriteOBJ writes m as a Wavefront OBJ. Coordinates are written with the
// shortest representation that reads back to the same float64.
func WriteOBJ(w io.Writer, m *Mesh) error {
	writer := bufio.NewWriter(w)

	_, _ = fmt.Fprintf(writer, "# Generated by gosubdiv: %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	for _, v := range m.Vertices {
		_, _ = fmt.Fprintf(writer, "v %s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}
	for _, f := range m.Faces {
		_, _ = writer.WriteString("f")
		for _, idx := range f {
			_, _ = fmt.Fprintf(writer, " %d", idx+1)
		}
		_, _ = writer.WriteString("\n")
	}

	return writer.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
