package analyzer

import (
	"strings"
	"testing"

	"github.com/alexhholmes/jentrygen/internal/parser"
)

func mipsRegistry(t *testing.T) *TypeRegistry {
	t.Helper()
	target, err := LookupTarget("mips32")
	if err != nil {
		t.Fatal(err)
	}
	reg := NewTypeRegistry(target)
	reg.RegisterAliases(DefaultTypedefs)
	return reg
}

func TestAnalyzeWrite(t *testing.T) {
	// struct write_args {
	//     int code;
	//     int offset;
	//     int length;
	//     void *buffer;
	// };
	record := &parser.Record{
		Name: "write",
		Fields: []parser.Field{
			{Type: "int", Name: "code"},
			{Type: "int", Name: "offset"},
			{Type: "int", Name: "length"},
			{Type: "void *", Name: "buffer"},
		},
	}

	l, err := Analyze(record, mipsRegistry(t))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if l.Size != 16 {
		t.Errorf("Size = %d, want 16", l.Size)
	}
	if l.Align != 4 {
		t.Errorf("Align = %d, want 4", l.Align)
	}

	wantOffsets := []int{0, 4, 8, 12}
	for i, slot := range l.Slots {
		if slot.Offset != wantOffsets[i] {
			t.Errorf("Slots[%d].Offset = %d, want %d", i, slot.Offset, wantOffsets[i])
		}
	}
	if l.PaddingBytes() != 0 {
		t.Errorf("PaddingBytes() = %d, want 0", l.PaddingBytes())
	}
}

func TestAnalyzePadding(t *testing.T) {
	tests := []struct {
		name        string
		fields      []parser.Field
		wantSize    int
		wantOffsets []int
		wantPadding int
	}{
		{
			name: "short then int",
			fields: []parser.Field{
				{Type: "unsigned", Name: "code"},
				{Type: "uint16_t", Name: "old_linkcount"},
				{Type: "uint32_t", Name: "disk_addr"},
			},
			wantSize:    12,
			wantOffsets: []int{0, 4, 8},
			wantPadding: 2,
		},
		{
			name: "trailing padding",
			fields: []parser.Field{
				{Type: "unsigned", Name: "code"},
				{Type: "uint32_t", Name: "new_checksum"},
				{Type: "bool", Name: "new_alloc"},
			},
			wantSize:    12,
			wantOffsets: []int{0, 4, 8},
			wantPadding: 3,
		},
		{
			name: "eight byte alignment",
			fields: []parser.Field{
				{Type: "unsigned", Name: "code"},
				{Type: "sfs_lsn_t", Name: "lsn"},
			},
			wantSize:    16,
			wantOffsets: []int{0, 8},
			wantPadding: 4,
		},
		{
			name:        "no fields",
			fields:      nil,
			wantSize:    0,
			wantOffsets: nil,
			wantPadding: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Analyze(&parser.Record{Name: "r", Fields: tt.fields}, mipsRegistry(t))
			if err != nil {
				t.Fatalf("Analyze() error: %v", err)
			}
			if l.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", l.Size, tt.wantSize)
			}
			if len(l.Slots) != len(tt.wantOffsets) {
				t.Fatalf("got %d slots, want %d", len(l.Slots), len(tt.wantOffsets))
			}
			for i, slot := range l.Slots {
				if slot.Offset != tt.wantOffsets[i] {
					t.Errorf("Slots[%d].Offset = %d, want %d", i, slot.Offset, tt.wantOffsets[i])
				}
			}
			if l.PaddingBytes() != tt.wantPadding {
				t.Errorf("PaddingBytes() = %d, want %d", l.PaddingBytes(), tt.wantPadding)
			}
		})
	}
}

func TestAnalyzeUnknownType(t *testing.T) {
	record := &parser.Record{
		Name: "odd",
		Fields: []parser.Field{
			{Type: "unsigned", Name: "code"},
			{Type: "widget_t", Name: "w"},
			{Type: "gadget_t", Name: "g"},
		},
	}

	l, err := Analyze(record, mipsRegistry(t))
	if err == nil {
		t.Fatal("Analyze() expected error for unknown types")
	}
	if l.IsValid() {
		t.Error("IsValid() = true, want false")
	}
	if len(l.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 entries", l.Errors)
	}
	if !strings.HasPrefix(l.Errors[0], "w:") {
		t.Errorf("Errors[0] = %q, want field name prefix", l.Errors[0])
	}
}

func TestAnalyzeNil(t *testing.T) {
	if _, err := Analyze(nil, mipsRegistry(t)); err == nil {
		t.Error("Analyze(nil) expected error")
	}
}

func TestAnalyzeSchema(t *testing.T) {
	doc, err := parser.ParseFile("../parser/testdata/sfs_jentries.c", parser.DefaultMarkers())
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	layouts, err := AnalyzeSchema(doc.Schema, mipsRegistry(t))
	if err != nil {
		t.Fatalf("AnalyzeSchema() error: %v", err)
	}

	want := map[string]int{
		"block_alloc":   16,
		"meta_update":   24,
		"block_dealloc": 8,
		"trans_begin":   12,
	}
	if len(layouts) != len(want) {
		t.Fatalf("got %d layouts, want %d", len(layouts), len(want))
	}
	for _, l := range layouts {
		if l.Size != want[l.Name] {
			t.Errorf("%s size = %d, want %d", l.Name, l.Size, want[l.Name])
		}
	}
}
