package gosubdiv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names a mesh interchange format by its usual file extension.
type Format string

const (
	FormatOBJ Format = "obj"
	FormatPLY Format = "ply"
	FormatSTL Format = "stl"
	FormatDXF Format = "dxf"
)

var formats = []Format{FormatOBJ, FormatPLY, FormatSTL, FormatDXF}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", unsupportedFormat("format.parse", Format(name))
}

func unsupportedFormat(op string, f Format) *MeshError {
	return &MeshError{
		Op:    op,
		Kind:  KindUnsupported,
		Face:  -1,
		Index: -1,
		Err:   fmt.Errorf("unknown format %q", string(f)),
	}
}

// FormatFromPath picks the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", &MeshError{
			Op:    "format.detect",
			Kind:  KindUnsupported,
			Face:  -1,
			Index: -1,
			Err:   fmt.Errorf("no file extension in %s", path),
		}
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// OutputName builds the file name for the mesh written after a round. The
// triangle count keeps every round in its own file.
func OutputName(prefix string, triangles int, f Format) string {
	return fmt.Sprintf("%s_%d%s", prefix, triangles, f.Extension())
}

// Read decodes a mesh in format f.
func Read(r io.Reader, f Format) (*Mesh, error) {
	switch f {
	case FormatOBJ:
		return ReadOBJ(r)
	case FormatPLY:
		return ReadPLY(r)
	case FormatSTL:
		return ReadSTL(r)
	case FormatDXF:
		return ReadDXF(r)
	}
	return nil, unsupportedFormat("format.read", f)
}

// Write encodes m in format f.
func Write(w io.Writer, m *Mesh, f Format) error {
	switch f {
	case FormatOBJ:
		return WriteOBJ(w, m)
	case FormatPLY:
		return WritePLY(w, m)
	case FormatSTL:
		return WriteSTL(w, m)
	case FormatDXF:
		return WriteDXF(w, m)
	}
	return unsupportedFormat("format.write", f)
}

// LoadFile reads the mesh stored at fileName, choosing the decoder from the
// file extension.
func LoadFile(fileName string) (*Mesh, error) {
	f, err := FormatFromPath(fileName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open mesh file %s: %w", fileName, err)
	}
	defer file.Close()

	m, err := Read(bufio.NewReader(file), f)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s file %s: %w", strings.ToUpper(string(f)), fileName, err)
	}
	return m, nil
}

// SaveFile writes m to fileName, choosing the encoder from the file extension.
func SaveFile(fileName string, m *Mesh) error {
	f, err := FormatFromPath(fileName)
	if err != nil {
		return err
	}
	return SaveFileAs(fileName, m, f)
}

// SaveFileAs writes m to fileName in format f regardless of the extension.
func SaveFileAs(fileName string, m *Mesh, f Format) (err error) {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create %s file %s: %w", strings.ToUpper(string(f)), fileName, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close %s: %w", fileName, cerr)
		}
	}()

	writer := bufio.NewWriter(file)
	if err := Write(writer, m, f); err != nil {
		return fmt.Errorf("error writing %s: %w", fileName, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("error writing %s: %w", fileName, err)
	}
	return nil
}
