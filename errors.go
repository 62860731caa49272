package gosubdiv

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrIndexOutOfRange   = errors.New("vertex index out of range")
	ErrNotTriangle       = errors.New("face is not a triangle")
	ErrTooManyVertices   = errors.New("too many vertices for edge key")
	ErrParse             = errors.New("malformed mesh data")
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindIndexOutOfRange ErrorKind = "index_out_of_range"
	KindNotTriangle     ErrorKind = "not_triangle"
	KindTooManyVertices ErrorKind = "too_many_vertices"
	KindParse           ErrorKind = "parse"
	KindUnsupported     ErrorKind = "unsupported"
)

// MeshError describes a structural problem found in a mesh or in the data it
// was read from. Face and Index are -1 when they do not apply.
type MeshError struct {
	Op    string
	Kind  ErrorKind
	Face  int
	Index int
	Line  int // source line for parse errors, 0 if unknown
	Err   error
}

func (e *MeshError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Face >= 0 {
		base += fmt.Sprintf(" (face=%d", e.Face)
		if e.Index >= 0 {
			base += fmt.Sprintf(" index=%d", e.Index)
		}
		base += ")"
	}
	if e.Line > 0 {
		base += fmt.Sprintf(" (line=%d)", e.Line)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *MeshError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches a MeshError against the sentinel for its kind, so callers can
// write errors.Is(err, ErrIndexOutOfRange) without knowing the wrapped cause.
func (e *MeshError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindIndexOutOfRange:
		return target == ErrIndexOutOfRange
	case KindNotTriangle:
		return target == ErrNotTriangle
	case KindTooManyVertices:
		return target == ErrTooManyVertices
	case KindParse:
		return target == ErrParse
	case KindUnsupported:
		return target == ErrUnsupportedFormat
	}
	return false
}

func parseError(op string, line int, format string, args ...any) *MeshError {
	return &MeshError{
		Op:    op,
		Kind:  KindParse,
		Face:  -1,
		Index: -1,
		Line:  line,
		Err:   fmt.Errorf(format, args...),
	}
}
