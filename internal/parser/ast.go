package parser

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Record represents a parsed `struct <name>_args` declaration
type Record struct {
	Name   string
	Fields []Field
	Line   int // 1-based line of the declaration header
}

// Field represents one member of a record declaration
type Field struct {
	Type string // Declared type, pointer markers attached ("void *")
	Name string
}

// IsPointer reports whether the declared type carries a pointer marker
func (f Field) IsPointer() bool {
	return strings.Contains(f.Type, "*")
}

// IsTag reports whether the field is the record's tag field
func (f Field) IsTag(tagField string) bool {
	return f.Name == tagField
}

// Decl renders the field as a C declaration: "int offset", "void *buffer"
func (f Field) Decl() string {
	if strings.HasSuffix(f.Type, "*") {
		return f.Type + f.Name
	}
	return f.Type + " " + f.Name
}

// Schema maps record names to records, keeping declaration order
type Schema struct {
	order   []string
	records map[string]*Record
}

func NewSchema() *Schema {
	return &Schema{records: make(map[string]*Record)}
}

// Add registers a record. Names must be unique.
func (s *Schema) Add(r *Record) error {
	if _, ok := s.records[r.Name]; ok {
		return fmt.Errorf("record %q declared twice", r.Name)
	}
	s.order = append(s.order, r.Name)
	s.records[r.Name] = r
	return nil
}

// Lookup returns the record with the given name
func (s *Schema) Lookup(name string) (*Record, bool) {
	r, ok := s.records[name]
	return r, ok
}

// Records returns records in declaration order
func (s *Schema) Records() []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.records[name])
	}
	return out
}

// Len returns the number of records
func (s *Schema) Len() int {
	return len(s.order)
}

// ParseFile reads a template from disk
func ParseFile(filename string, markers Markers) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	return Read(f, markers)
}

// Read parses a template from r
func Read(r io.Reader, markers Markers) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Parse(string(data), markers)
}
