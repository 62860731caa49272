package gosubdiv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 4*3*4 + 2 // normal, three corners, attribute byte count
)

// ReadSTL reads a binary or ascii STL. STL stores a triangle soup, so corners
// at exactly the same position are welded into one vertex.
func ReadSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading from STL source: %w", err)
	}

	if isBinarySTL(data) {
		return readBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return readASCIISTL(data)
	}
	return nil, parseError("stl.read", 0, "neither a binary nor an ascii STL (%d bytes)", len(data))
}

// isBinarySTL trusts the triangle count in the header only when it matches
// the data length, since ascii files also start with "solid" and binary
// headers often do too.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == uint64(stlHeaderSize+4)+uint64(n)*stlTriangleSize
}

func readBinarySTL(data []byte) (*Mesh, error) {
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	m := NewMesh()

	body := data[stlHeaderSize+4:]
	for i := 0; i < n; i++ {
		tri := body[i*stlTriangleSize : (i+1)*stlTriangleSize]
		var corners [3]int
		for v := range corners {
			var p mgl64.Vec3
			for c := range p {
				const start = 3 * 4 // skip normal
				p[c] = float64(math.Float32frombits(binary.LittleEndian.Uint32(tri[start+12*v+4*c:])))
			}
			corners[v] = m.AddPoint(p)
		}
		m.AddFace(corners[0], corners[1], corners[2])
	}
	return m, nil
}

func readASCIISTL(data []byte) (*Mesh, error) {
	m := NewMesh()
	scanner := bufio.NewScanner(bytes.NewReader(data))

	var corners []int
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "outer":
			corners = corners[:0]
		case "vertex":
			if len(fields) != 4 {
				return nil, parseError("stl.read", lineNo, "vertex needs 3 coordinates, got %d", len(fields)-1)
			}
			var p mgl64.Vec3
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, parseError("stl.read", lineNo, "could not parse coordinate %q: %w", fields[i+1], err)
				}
				p[i] = c
			}
			corners = append(corners, m.AddPoint(p))
		case "endloop":
			if len(corners) < 3 {
				return nil, parseError("stl.read", lineNo, "facet has %d corners", len(corners))
			}
			m.AddPolygon(corners)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from STL source: %w", err)
	}
	return m, nil
}

// facetNormal returns the unit normal implied by the winding of a, b, c, or
// zero for a degenerate triangle.
func facetNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(b))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

// WriteSTL writes m as a binary STL. STL stores float32 coordinates, so
// positions lose precision on the way out.
func WriteSTL(w io.Writer, m *Mesh) error {
	if err := checkFaces("stl.write", m); err != nil {
		return err
	}
	if uint64(len(m.Faces)) > math.MaxUint32 {
		return fmt.Errorf("STL cannot hold %d triangles", len(m.Faces))
	}

	writer := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], fmt.Sprintf("gosubdiv binary STL, %d triangles", len(m.Faces)))
	_, _ = writer.Write(header[:])

	var buf [stlTriangleSize]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(m.Faces)))
	_, _ = writer.Write(buf[:4])

	put := func(off int, v mgl64.Vec3) {
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(buf[off+4*c:], math.Float32bits(float32(v[c])))
		}
	}
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		put(0, facetNormal(a, b, c))
		put(12, a)
		put(24, b)
		put(36, c)
		buf[48], buf[49] = 0, 0
		if _, err := writer.Write(buf[:]); err != nil {
			return err
		}
	}

	return writer.Flush()
}
