package parser

import (
	"errors"
	"fmt"
)

// ErrSchema matches every *Error via errors.Is
var ErrSchema = errors.New("schema error")

// ErrorKind classifies schema errors
type ErrorKind int

const (
	KindField     ErrorKind = iota // Field line did not parse into type + name
	KindNested                     // Declaration opened while another is open
	KindDuplicate                  // Record or field declared twice
	KindMarker                     // Missing, duplicated or misplaced region marker
)

func (k ErrorKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindNested:
		return "nested"
	case KindDuplicate:
		return "duplicate"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Error is a fatal problem in the template's schema or markers
type Error struct {
	Line int // 1-based; 0 when the error concerns the whole file
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrSchema }

func errorf(line int, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Line: line, Kind: kind, Err: fmt.Errorf(format, args...)}
}
