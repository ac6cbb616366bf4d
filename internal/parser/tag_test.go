package parser

import (
	"testing"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		line     string
		wantType string
		wantName string
		wantErr  bool
	}{
		// Scalars
		{"\tint code;", "int", "code", false},
		{"\tunsigned code;", "unsigned", "code", false},
		{"\tdaddr_t disk_addr;", "daddr_t", "disk_addr", false},
		{"\tuint16_t old_linkcount; /* before */", "uint16_t", "old_linkcount", false},
		{"\tint id, ", "int", "id", false},

		// Pointers bind to the type
		{"\tvoid *buffer;", "void *", "buffer", false},
		{"\tvoid* buffer;", "void *", "buffer", false},
		{"\tvoid * buffer;", "void *", "buffer", false},
		{"\tvoid*buffer;", "void *", "buffer", false},
		{"\tchar **argv;", "char **", "argv", false},
		{"\tstruct vnode *vn;", "struct vnode *", "vn", false},

		// Error cases
		{"\tunsigned int code;", "", "", true},    // three tokens
		{"\tint offset length;", "", "", true},    // three tokens
		{"\tint;", "", "", true},                  // one token
		{"\t;", "", "", true},                     // empty
		{"\t*buffer;", "", "", true},              // pointer without type
		{"\tvoid *buffer extra;", "", "", true},   // two names
		{"\tchar name[16];", "", "", true},        // arrays are not identifiers
		{"\tint 2fast;", "", "", true},            // bad identifier
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseField(tt.line)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseField(%q) expected error, got %+v", tt.line, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseField(%q) unexpected error: %v", tt.line, err)
			}

			if got.Type != tt.wantType {
				t.Errorf("ParseField(%q).Type = %q, want %q", tt.line, got.Type, tt.wantType)
			}
			if got.Name != tt.wantName {
				t.Errorf("ParseField(%q).Name = %q, want %q", tt.line, got.Name, tt.wantName)
			}
		})
	}
}
