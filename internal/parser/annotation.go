package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Markers holds the sentinel lines that delimit autogenerate regions.
// Each marker must sit on its own line; surrounding whitespace is ignored.
type Markers struct {
	Dispatch     string // Opens the dispatch (switch cases) region
	Constructors string // Opens the constructors region
	End          string // Closes the open region
}

// DefaultMarkers returns the markers used by the sfs journal template
func DefaultMarkers() Markers {
	return Markers{
		Dispatch:     "/* Autogenerate: cases */",
		Constructors: "/* Autogenerate: functions */",
		End:          "/* End autogenerate */",
	}
}

// Validate checks that markers are non-empty and distinct
func (m Markers) Validate() error {
	d := strings.TrimSpace(m.Dispatch)
	c := strings.TrimSpace(m.Constructors)
	e := strings.TrimSpace(m.End)

	if d == "" || c == "" || e == "" {
		return fmt.Errorf("markers must not be empty")
	}
	if d == c || d == e || c == e {
		return fmt.Errorf("markers must be distinct")
	}
	return nil
}

// lineKind classifies a template line
type lineKind int

const (
	lineOther lineKind = iota
	lineHeader
	lineClose
	lineBlank
	lineField
	lineBeginDispatch
	lineBeginConstructors
	lineEnd
)

func (k lineKind) String() string {
	switch k {
	case lineHeader:
		return "header"
	case lineClose:
		return "close"
	case lineBlank:
		return "blank"
	case lineField:
		return "field"
	case lineBeginDispatch:
		return "begin-dispatch"
	case lineBeginConstructors:
		return "begin-constructors"
	case lineEnd:
		return "end"
	default:
		return "other"
	}
}

// struct block_alloc_args {
var headerRe = regexp.MustCompile(`^struct\s+([A-Za-z_][A-Za-z0-9_]*)_args\s*\{`)

// classify returns the line's kind and, for headers, the record name.
// line must not carry its terminator.
func (m Markers) classify(line string) (lineKind, string) {
	if matches := headerRe.FindStringSubmatch(line); matches != nil {
		return lineHeader, matches[1]
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return lineBlank, ""
	case trimmed == strings.TrimSpace(m.Dispatch):
		return lineBeginDispatch, ""
	case trimmed == strings.TrimSpace(m.Constructors):
		return lineBeginConstructors, ""
	case trimmed == strings.TrimSpace(m.End):
		return lineEnd, ""
	case strings.HasPrefix(trimmed, "};"):
		return lineClose, ""
	case line[0] == ' ' || line[0] == '\t':
		return lineField, ""
	}
	return lineOther, ""
}

// CleanComment removes trailing comments from a declaration line
// "int offset; /* bytes */" → "int offset;"
// "int offset; // bytes"    → "int offset;"
func CleanComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}

	for {
		start := strings.Index(line, "/*")
		if start < 0 {
			break
		}
		end := strings.Index(line[start+2:], "*/")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + " " + line[start+2+end+2:]
	}

	return strings.TrimSpace(line)
}
