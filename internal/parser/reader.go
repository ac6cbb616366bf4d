package parser

import (
	"fmt"
	"strings"
)

// Region identifies an autogenerate region
type Region int

const (
	RegionNone         Region = iota
	RegionDispatch            // switch cases computing size and description
	RegionConstructors        // one allocating constructor per record
)

func (r Region) String() string {
	switch r {
	case RegionDispatch:
		return "dispatch"
	case RegionConstructors:
		return "constructors"
	default:
		return "none"
	}
}

// Segment is either verbatim template text or a gap to be filled
type Segment struct {
	Text string // Verbatim text, terminators included
	Gap  Region // RegionNone for verbatim segments
}

// Document is a parsed template: the schema plus the file with its
// autogenerate regions emptied
type Document struct {
	Schema   *Schema
	Segments []Segment
}

type state int

const (
	stateIdle       state = iota
	stateCollecting       // inside a record declaration
	stateSuppressed       // inside an autogenerate region
)

type reader struct {
	markers  Markers
	state    state
	line     int
	schema   *Schema
	segments []Segment
	verbatim strings.Builder

	record     *Record
	fieldNames map[string]bool
	open       Region
	opened     map[Region]int // region → line of its begin marker
}

// Parse runs the template through the reader state machine. It returns the
// schema and the verbatim segments surrounding the two autogenerate regions.
// Any schema error aborts the parse; no partial document is returned.
func Parse(content string, markers Markers) (*Document, error) {
	if err := markers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid markers: %w", err)
	}

	rd := &reader{
		markers: markers,
		schema:  NewSchema(),
		opened:  make(map[Region]int),
	}

	for _, raw := range splitLines(content) {
		rd.line++
		if err := rd.step(raw); err != nil {
			return nil, err
		}
	}

	return rd.finish()
}

// splitLines splits content keeping each line's terminator
func splitLines(content string) []string {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (rd *reader) step(raw string) error {
	kind, name := rd.markers.classify(strings.TrimRight(raw, "\r\n"))

	switch rd.state {
	case stateCollecting:
		return rd.collecting(raw, kind, name)
	case stateSuppressed:
		return rd.suppressed(raw, kind)
	default:
		return rd.idle(raw, kind, name)
	}
}

func (rd *reader) idle(raw string, kind lineKind, name string) error {
	switch kind {
	case lineHeader:
		record := &Record{Name: name, Line: rd.line}
		if err := rd.schema.Add(record); err != nil {
			return errorf(rd.line, KindDuplicate, "%v", err)
		}
		rd.record = record
		rd.fieldNames = make(map[string]bool)
		rd.state = stateCollecting
		rd.verbatim.WriteString(raw)

	case lineBeginDispatch:
		return rd.openRegion(raw, RegionDispatch)

	case lineBeginConstructors:
		return rd.openRegion(raw, RegionConstructors)

	case lineEnd:
		return errorf(rd.line, KindMarker, "end marker outside an autogenerate region")

	default:
		rd.verbatim.WriteString(raw)
	}
	return nil
}

func (rd *reader) collecting(raw string, kind lineKind, name string) error {
	switch kind {
	case lineHeader:
		return errorf(rd.line, KindNested, "record %q opened while %q is still open", name, rd.record.Name)

	case lineBlank, lineClose:
		rd.record = nil
		rd.fieldNames = nil
		rd.state = stateIdle

	case lineField:
		field, err := ParseField(raw)
		if err != nil {
			return &Error{Line: rd.line, Kind: KindField, Err: err}
		}
		if rd.fieldNames[field.Name] {
			return errorf(rd.line, KindDuplicate, "field %q declared twice in record %q", field.Name, rd.record.Name)
		}
		rd.fieldNames[field.Name] = true
		rd.record.Fields = append(rd.record.Fields, field)

	case lineBeginDispatch, lineBeginConstructors, lineEnd:
		return errorf(rd.line, KindMarker, "region marker inside record %q", rd.record.Name)
	}

	rd.verbatim.WriteString(raw)
	return nil
}

func (rd *reader) suppressed(raw string, kind lineKind) error {
	switch kind {
	case lineEnd:
		rd.verbatim.WriteString(raw)
		rd.open = RegionNone
		rd.state = stateIdle

	case lineBeginDispatch, lineBeginConstructors:
		return errorf(rd.line, KindMarker, "region marker inside the %s region", rd.open)
	}

	// Previously generated text is dropped
	return nil
}

func (rd *reader) openRegion(raw string, region Region) error {
	if first, ok := rd.opened[region]; ok {
		return errorf(rd.line, KindMarker, "%s marker repeated (first on line %d)", region, first)
	}
	rd.opened[region] = rd.line

	// Generated text always starts on its own line
	rd.verbatim.WriteString(raw)
	if !strings.HasSuffix(raw, "\n") {
		rd.verbatim.WriteString("\n")
	}

	rd.flush()
	rd.segments = append(rd.segments, Segment{Gap: region})
	rd.open = region
	rd.state = stateSuppressed
	return nil
}

func (rd *reader) flush() {
	if rd.verbatim.Len() == 0 {
		return
	}
	rd.segments = append(rd.segments, Segment{Text: rd.verbatim.String()})
	rd.verbatim.Reset()
}

func (rd *reader) finish() (*Document, error) {
	rd.flush()

	for _, region := range []Region{RegionDispatch, RegionConstructors} {
		if _, ok := rd.opened[region]; !ok {
			return nil, errorf(0, KindMarker, "missing %s marker", region)
		}
	}

	return &Document{
		Schema:   rd.schema,
		Segments: rd.segments,
	}, nil
}
