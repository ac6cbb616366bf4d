package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseField parses one member line of a record declaration
//
// Semantics:
//   - "int offset;"        : Type "int", Name "offset"
//   - "void *buffer;"      : Type "void *", Name "buffer"
//   - "void* buffer;"      : Type "void *", Name "buffer"
//   - "struct vnode *v;"   : Type "struct vnode *", Name "v"
//
// Pointer markers bind to the type. Without a pointer marker the line must
// split into exactly two tokens (type and name). Trailing comments and
// statement separators are ignored.
func ParseField(line string) (Field, error) {
	text := CleanComment(line)
	text = strings.NewReplacer(";", " ", ",", " ").Replace(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return Field{}, fmt.Errorf("empty field declaration")
	}

	var f Field
	if idx := strings.LastIndex(text, "*"); idx >= 0 {
		// Pointer: everything up to the last '*' is the type
		typ, err := pointerType(text[:idx+1])
		if err != nil {
			return Field{}, fmt.Errorf("invalid field %q: %w", text, err)
		}
		name := strings.Fields(text[idx+1:])
		if len(name) != 1 {
			return Field{}, fmt.Errorf("invalid field %q: expected a single name after type, got %d tokens", text, len(name))
		}
		f = Field{Type: typ, Name: name[0]}
	} else {
		tokens := strings.Fields(text)
		if len(tokens) != 2 {
			return Field{}, fmt.Errorf("invalid field %q: expected type and name, got %d tokens", text, len(tokens))
		}
		f = Field{Type: tokens[0], Name: tokens[1]}
	}

	if !identRe.MatchString(f.Name) {
		return Field{}, fmt.Errorf("invalid field name: %s", f.Name)
	}

	return f, nil
}

// pointerType normalizes "void*", "void *" and "char * *" to "void *" / "char **"
func pointerType(s string) (string, error) {
	stars := strings.Count(s, "*")
	base := strings.Fields(strings.ReplaceAll(s, "*", " "))
	if len(base) == 0 {
		return "", fmt.Errorf("pointer marker without a type")
	}
	return strings.Join(base, " ") + " " + strings.Repeat("*", stars), nil
}
