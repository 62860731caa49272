package gosubdiv

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type plyProperty struct {
	name      string
	typ       string // scalar type, or item type for lists
	countType string // list length type, empty for scalars
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

var plyTypeSizes = map[string]int{
	"char": 1, "int8": 1,
	"uchar": 1, "uint8": 1,
	"short": 2, "int16": 2,
	"ushort": 2, "uint16": 2,
	"int": 4, "int32": 4,
	"uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// ReadPLY reads the vertex positions and faces of a PLY stream in ascii,
// binary_little_endian or binary_big_endian format. Other vertex and face
// properties (colours, normals) and other elements are read and dropped.
func ReadPLY(r io.Reader) (*Mesh, error) {
	br := bufio.NewReader(r)

	format, elements, err := readPLYHeader(br)
	if err != nil {
		return nil, err
	}

	var src plySource
	switch format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		src = &plyASCIISource{scanner: scanner}
	case "binary_little_endian":
		src = &plyBinarySource{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		src = &plyBinarySource{r: br, order: binary.BigEndian}
	default:
		return nil, &MeshError{
			Op:    "ply.read",
			Kind:  KindUnsupported,
			Face:  -1,
			Index: -1,
			Err:   fmt.Errorf("unsupported PLY format %q", format),
		}
	}

	m := NewMesh()
	for _, el := range elements {
		for row := 0; row < el.count; row++ {
			var p mgl64.Vec3
			var corners []int

			for _, prop := range el.props {
				if prop.countType == "" {
					v, err := src.next(prop.typ)
					if err != nil {
						return nil, plyReadError(el, row, prop, err)
					}
					if el.name == "vertex" {
						switch prop.name {
						case "x":
							p[0] = v
						case "y":
							p[1] = v
						case "z":
							p[2] = v
						}
					}
					continue
				}

				n, err := src.next(prop.countType)
				if err != nil {
					return nil, plyReadError(el, row, prop, err)
				}
				if n < 0 || n != math.Trunc(n) {
					return nil, plyReadError(el, row, prop, fmt.Errorf("bad list length %v", n))
				}
				// The length comes from the file, so corners grow as they are
				// read and a bogus length runs into the end of input instead.
				isCorners := el.name == "face" && (prop.name == "vertex_indices" || prop.name == "vertex_index")
				for i := 0; i < int(n); i++ {
					v, err := src.next(prop.typ)
					if err != nil {
						return nil, plyReadError(el, row, prop, err)
					}
					if !isCorners {
						continue
					}
					if v != math.Trunc(v) {
						return nil, plyReadError(el, row, prop, fmt.Errorf("vertex index %v is not an integer", v))
					}
					corners = append(corners, int(v))
				}
			}

			switch el.name {
			case "vertex":
				m.AddVertex(p)
			case "face":
				m.AddPolygon(corners)
			}
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func plyReadError(el plyElement, row int, prop plyProperty, err error) error {
	return parseError("ply.read", 0, "%s %d property %s: %w", el.name, row, prop.name, err)
}

func readPLYHeader(br *bufio.Reader) (string, []plyElement, error) {
	var format string
	var elements []plyElement

	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return "", nil, parseError("ply.header", lineNo, "unexpected end of file before end_header")
			}
			return "", nil, fmt.Errorf("error reading from PLY source: %w", err)
		}
		lineNo++

		parts := strings.Fields(line)
		if lineNo == 1 {
			if len(parts) != 1 || parts[0] != "ply" {
				return "", nil, parseError("ply.header", lineNo, "missing ply magic")
			}
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 2 {
				return "", nil, parseError("ply.header", lineNo, "format line needs a type")
			}
			format = parts[1]
		case "element":
			if len(parts) != 3 {
				return "", nil, parseError("ply.header", lineNo, "bad element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return "", nil, parseError("ply.header", lineNo, "bad element count %q", parts[2])
			}
			elements = append(elements, plyElement{name: parts[1], count: count})
		case "property":
			if len(elements) == 0 {
				return "", nil, parseError("ply.header", lineNo, "property before any element")
			}
			prop, err := parsePLYProperty(parts)
			if err != nil {
				return "", nil, parseError("ply.header", lineNo, "%w", err)
			}
			el := &elements[len(elements)-1]
			el.props = append(el.props, prop)
		case "end_header":
			if format == "" {
				return "", nil, parseError("ply.header", lineNo, "missing format line")
			}
			return format, elements, nil
		}
	}
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 5 && parts[1] == "list" {
		prop := plyProperty{countType: parts[2], typ: parts[3], name: parts[4]}
		if _, ok := plyTypeSizes[prop.countType]; !ok {
			return prop, fmt.Errorf("unknown list count type %q", prop.countType)
		}
		if _, ok := plyTypeSizes[prop.typ]; !ok {
			return prop, fmt.Errorf("unknown list item type %q", prop.typ)
		}
		return prop, nil
	}
	if len(parts) != 3 {
		return plyProperty{}, fmt.Errorf("bad property line %q", strings.Join(parts, " "))
	}
	prop := plyProperty{typ: parts[1], name: parts[2]}
	if _, ok := plyTypeSizes[prop.typ]; !ok {
		return prop, fmt.Errorf("unknown property type %q", prop.typ)
	}
	return prop, nil
}

// plySource yields successive property values of a PLY body as float64, which
// holds every PLY scalar type exactly.
type plySource interface {
	next(typ string) (float64, error)
}

type plyASCIISource struct {
	scanner *bufio.Scanner
}

func (s *plyASCIISource) next(string) (float64, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(s.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse value %q: %w", s.scanner.Text(), err)
	}
	return v, nil
}

type plyBinarySource struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (s *plyBinarySource) next(typ string) (float64, error) {
	size := plyTypeSizes[typ]
	b := s.buf[:size]
	if _, err := io.ReadFull(s.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}

	switch typ {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(s.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(s.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(s.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(s.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(s.order.Uint32(b))), nil
	case "double", "float64":
		return math.Float64frombits(s.order.Uint64(b)), nil
	}
	return 0, fmt.Errorf("unknown PLY type %q", typ)
}

// WritePLY writes m as an ascii PLY with double precision coordinates.
func WritePLY(w io.Writer, m *Mesh) error {
	writer := bufio.NewWriter(w)

	_, _ = fmt.Fprintln(writer, "ply")
	_, _ = fmt.Fprintln(writer, "format ascii 1.0")
	_, _ = fmt.Fprintln(writer, "comment Generated by gosubdiv")
	_, _ = fmt.Fprintf(writer, "element vertex %d\n", len(m.Vertices))
	_, _ = fmt.Fprintln(writer, "property double x")
	_, _ = fmt.Fprintln(writer, "property double y")
	_, _ = fmt.Fprintln(writer, "property double z")
	_, _ = fmt.Fprintf(writer, "element face %d\n", len(m.Faces))
	_, _ = fmt.Fprintln(writer, "property list uchar int vertex_indices")
	_, _ = fmt.Fprintln(writer, "end_header")

	for _, v := range m.Vertices {
		_, _ = fmt.Fprintf(writer, "%s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}

	for _, f := range m.Faces {
		_, _ = fmt.Fprintf(writer, "%d", len(f))
		for _, idx := range f {
			_, _ = fmt.Fprintf(writer, " %d", idx)
		}
		_, _ = fmt.Fprintln(writer)
	}

	return writer.Flush()
}
