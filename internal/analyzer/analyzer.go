package analyzer

import (
	"fmt"

	"github.com/alexhholmes/jentrygen/internal/parser"
)

// Slot is one field placed in the record's memory layout
type Slot struct {
	Field   parser.Field
	Offset  int // Byte offset of the field
	Size    int
	Align   int
	Padding int // Bytes inserted before the field to satisfy alignment
}

// RecordLayout contains the analyzed memory layout of a record
type RecordLayout struct {
	Name     string
	Size     int // Total size including trailing padding
	Align    int
	Trailing int // Padding after the last field
	Slots    []Slot
	Errors   []string // Validation errors
}

// Analyze computes the natural C layout of a record for the registry's target
func Analyze(record *parser.Record, registry *TypeRegistry) (*RecordLayout, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}

	l := &RecordLayout{
		Name:  record.Name,
		Align: 1,
	}

	offset := 0
	for _, field := range record.Fields {
		size, align, err := registry.SizeOf(field.Type)
		if err != nil {
			l.Errors = append(l.Errors, fmt.Sprintf("%s: %v", field.Name, err))
			continue
		}

		padding := alignUp(offset, align) - offset
		offset += padding

		l.Slots = append(l.Slots, Slot{
			Field:   field,
			Offset:  offset,
			Size:    size,
			Align:   align,
			Padding: padding,
		})

		offset += size
		if align > l.Align {
			l.Align = align
		}
	}

	if len(l.Errors) > 0 {
		return l, fmt.Errorf("record %s has %d errors", record.Name, len(l.Errors))
	}

	l.Size = alignUp(offset, l.Align)
	l.Trailing = l.Size - offset

	return l, nil
}

// AnalyzeSchema analyzes every record in declaration order, stopping at the
// first record that cannot be laid out
func AnalyzeSchema(schema *parser.Schema, registry *TypeRegistry) ([]*RecordLayout, error) {
	var layouts []*RecordLayout
	for _, record := range schema.Records() {
		l, err := Analyze(record, registry)
		if err != nil {
			return layouts, fmt.Errorf("analyze %s: %w", record.Name, err)
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// IsValid returns true if layout has no errors
func (l *RecordLayout) IsValid() bool {
	return len(l.Errors) == 0
}

// PaddingBytes returns the total padding inside the record
func (l *RecordLayout) PaddingBytes() int {
	total := l.Trailing
	for _, s := range l.Slots {
		total += s.Padding
	}
	return total
}
