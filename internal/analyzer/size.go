package analyzer

import (
	"fmt"
	"strings"
)

// Target describes the data model of the machine the records live on
type Target struct {
	Name        string
	PointerSize int
	LongSize    int
	// Alignment of 8-byte scalars; o32 MIPS aligns them to 8, i386 to 4
	Align8 int
}

var targets = map[string]Target{
	"mips32": {Name: "mips32", PointerSize: 4, LongSize: 4, Align8: 8},
	"i386":   {Name: "i386", PointerSize: 4, LongSize: 4, Align8: 4},
	"amd64":  {Name: "amd64", PointerSize: 8, LongSize: 8, Align8: 8},
}

// LookupTarget returns the named target
func LookupTarget(name string) (Target, error) {
	t, ok := targets[name]
	if !ok {
		return Target{}, fmt.Errorf("unknown target: %s", name)
	}
	return t, nil
}

// DefaultTypedefs are the kernel typedefs journal records commonly use
var DefaultTypedefs = map[string]string{
	"daddr_t":   "uint32_t",
	"sfs_lsn_t": "uint64_t",
	"off_t":     "int64_t",
	"pid_t":     "int32_t",
	"time_t":    "int64_t",
	"mode_t":    "uint32_t",
	"userptr_t": "void *",
}

// scalar returns size and alignment of a C scalar type name
func (t Target) scalar(cType string) (int, int, bool) {
	var size int
	switch cType {
	case "char", "signed char", "unsigned char", "bool", "_Bool", "int8_t", "uint8_t":
		size = 1
	case "short", "unsigned short", "int16_t", "uint16_t":
		size = 2
	case "int", "unsigned", "unsigned int", "signed", "int32_t", "uint32_t", "float":
		size = 4
	case "long long", "unsigned long long", "int64_t", "uint64_t", "double":
		size = 8
	case "long", "unsigned long":
		size = t.LongSize
	case "size_t", "ssize_t", "uintptr_t", "intptr_t", "ptrdiff_t":
		size = t.PointerSize
	default:
		return 0, 0, false
	}

	align := size
	if size == 8 {
		align = t.Align8
	}
	return size, align, true
}

// TypeRegistry tracks typedefs for layout analysis
type TypeRegistry struct {
	target  Target
	aliases map[string]string // typedef → underlying type
}

func NewTypeRegistry(target Target) *TypeRegistry {
	return &TypeRegistry{
		target:  target,
		aliases: make(map[string]string),
	}
}

// RegisterAliases adds every typedef in aliases
func (r *TypeRegistry) RegisterAliases(aliases map[string]string) {
	for alias, underlying := range aliases {
		r.RegisterAlias(alias, underlying)
	}
}

// Target returns the registry's target
func (r *TypeRegistry) Target() Target {
	return r.target
}

// RegisterAlias adds a typedef mapping (e.g., typedef uint32_t daddr_t)
func (r *TypeRegistry) RegisterAlias(alias, underlying string) {
	r.aliases[alias] = underlying
}

// ResolveType resolves typedefs to their underlying types
// Returns the original type if not an alias
func (r *TypeRegistry) ResolveType(cType string) string {
	seen := make(map[string]bool)
	for {
		underlying, ok := r.aliases[cType]
		if !ok || seen[cType] {
			return cType
		}
		seen[cType] = true
		cType = underlying
	}
}

// SizeOf returns size and alignment of a C type as written in a declaration
func (r *TypeRegistry) SizeOf(cType string) (int, int, error) {
	cType = strings.Join(strings.Fields(cType), " ")

	// Pointers have the target's pointer size whatever they point to
	if strings.HasSuffix(cType, "*") {
		return r.target.PointerSize, r.target.PointerSize, nil
	}

	resolved := r.ResolveType(cType)
	if resolved != cType {
		return r.SizeOf(resolved)
	}

	if size, align, ok := r.target.scalar(resolved); ok {
		return size, align, nil
	}

	return 0, 0, fmt.Errorf("unknown type: %s (not registered)", cType)
}
