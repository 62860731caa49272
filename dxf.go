package gosubdiv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ReadDXF reads the 3DFACE entities of a DXF file. A 3DFACE whose fourth
// corner is missing or repeats the third is a triangle; otherwise it is split
// into two.
// Corners at the same position are welded. Every other entity is ignored.
func ReadDXF(r io.Reader) (*Mesh, error) {
	m := NewMesh()
	scanner := bufio.NewScanner(r)

	var corners [4]mgl64.Vec3
	var seen [4]bool
	inFace := false

	finishFace := func() {
		if !inFace {
			return
		}
		inFace = false

		indices := make([]int, 0, 4)
		for i, p := range corners {
			if i == 3 && (!seen[3] || p == corners[2]) {
				break
			}
			indices = append(indices, m.AddPoint(p))
		}
		m.AddPolygon(indices)
	}

	lineNo := 0
	for {
		// DXF is a sequence of group code / value line pairs.
		if !scanner.Scan() {
			break
		}
		lineNo++
		codeText := strings.TrimSpace(scanner.Text())
		if !scanner.Scan() {
			return nil, parseError("dxf.read", lineNo, "group code %q has no value", codeText)
		}
		lineNo++
		value := strings.TrimSpace(scanner.Text())

		code, err := strconv.Atoi(codeText)
		if err != nil {
			return nil, parseError("dxf.read", lineNo-1, "could not parse group code %q: %w", codeText, err)
		}

		if code == 0 {
			finishFace()
			if value == "3DFACE" {
				inFace = true
				corners = [4]mgl64.Vec3{}
				seen = [4]bool{}
			}
			continue
		}
		if !inFace {
			continue
		}

		// 10-13 are X of corners 1-4, 20-23 Y, 30-33 Z.
		axis, corner := code/10-1, code%10
		if code < 10 || code > 33 || axis > 2 || corner > 3 {
			continue
		}
		c, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, parseError("dxf.read", lineNo, "could not parse coordinate %q: %w", value, err)
		}
		corners[corner][axis] = c
		seen[corner] = true
	}
	finishFace()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from DXF source: %w", err)
	}
	return m, nil
}

// WriteDXF writes every face of m as a 3DFACE entity on layer 0. Triangles
// repeat their third corner as the fourth, as DXF requires.
func WriteDXF(w io.Writer, m *Mesh) error {
	if err := checkFaces("dxf.write", m); err != nil {
		return err
	}

	writer := bufio.NewWriter(w)

	writePair := func(code int, value string) {
		_, _ = fmt.Fprintf(writer, "%d\n%s\n", code, value)
	}

	writePair(0, "SECTION")
	writePair(2, "HEADER")
	writePair(0, "ENDSEC")

	writePair(0, "SECTION")
	writePair(2, "ENTITIES")

	for _, f := range m.Faces {
		writePair(0, "3DFACE")
		writePair(8, "0")

		points := [4]mgl64.Vec3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]], m.Vertices[f[2]]}
		for i, p := range points {
			writePair(10+i, formatFloat(p[0]))
			writePair(20+i, formatFloat(p[1]))
			writePair(30+i, formatFloat(p[2]))
		}
	}

	writePair(0, "ENDSEC")
	writePair(0, "EOF")

	return writer.Flush()
}
