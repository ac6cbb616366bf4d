package codegen

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"

	"github.com/alexhholmes/jentrygen/internal/parser"
)

// TagCase selects how record names become tag constants
type TagCase string

const (
	TagUpper          TagCase = "upper"           // block_alloc → BLOCK_ALLOC, inodeLink → INODELINK
	TagScreamingSnake TagCase = "screaming_snake" // block_alloc → BLOCK_ALLOC, inodeLink → INODE_LINK
)

// Options controls the identifiers used in generated C
type Options struct {
	TagField          string  // Field that carries the record tag
	TagCase           TagCase // Tag constant casing
	PrintFunc         string  // printf-like function used by dispatch cases
	AllocFunc         string  // malloc-like function used by constructors
	SizeVar           string  // Variable receiving the record size in dispatch cases
	RecordVar         string  // Variable holding the record pointer in dispatch cases
	ConstructorPrefix string  // Prepended to the record name to name constructors
}

// DefaultOptions returns options matching the sfs journal template
func DefaultOptions() Options {
	return Options{
		TagField:          "code",
		TagCase:           TagUpper,
		PrintFunc:         "kprintf",
		AllocFunc:         "kmalloc",
		SizeVar:           "reclen",
		RecordVar:         "recptr",
		ConstructorPrefix: "jentry_",
	}
}

var cIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that every option is usable as a C identifier
func (o Options) Validate() error {
	idents := []struct {
		name, value string
	}{
		{"tag field", o.TagField},
		{"print function", o.PrintFunc},
		{"alloc function", o.AllocFunc},
		{"size variable", o.SizeVar},
		{"record variable", o.RecordVar},
		{"constructor prefix", o.ConstructorPrefix},
	}
	for _, id := range idents {
		if !cIdentRe.MatchString(id.value) {
			return fmt.Errorf("%s must be a C identifier, got: %q", id.name, id.value)
		}
	}

	if o.TagCase != TagUpper && o.TagCase != TagScreamingSnake {
		return fmt.Errorf("tag case must be '%s' or '%s', got: %s", TagUpper, TagScreamingSnake, o.TagCase)
	}
	return nil
}

// Fragments holds the generated body of each autogenerate region
type Fragments struct {
	Dispatch     string
	Constructors string
}

// For returns the fragment that fills region
func (f Fragments) For(region parser.Region) (string, bool) {
	switch region {
	case parser.RegionDispatch:
		return f.Dispatch, true
	case parser.RegionConstructors:
		return f.Constructors, true
	default:
		return "", false
	}
}

// Generator synthesizes region bodies from a schema
type Generator struct {
	opts         Options
	dispatch     *template.Template
	constructors *template.Template
}

// NewGenerator creates a new code generator
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid codegen options: %w", err)
	}
	return &Generator{
		opts:         opts,
		dispatch:     template.Must(template.New("dispatch").Parse(dispatchTemplate)),
		constructors: template.Must(template.New("constructors").Parse(constructorTemplate)),
	}, nil
}

// Options returns the generator's options
func (g *Generator) Options() Options {
	return g.opts
}

// TagConstant returns the tag constant for a record name
func (g *Generator) TagConstant(name string) string {
	if g.opts.TagCase == TagScreamingSnake {
		return strcase.ToScreamingSnake(name)
	}
	return strings.ToUpper(name)
}

// Generate returns both region bodies. Records appear in declaration order.
func (g *Generator) Generate(schema *parser.Schema) (Fragments, error) {
	views, err := g.views(schema)
	if err != nil {
		return Fragments{}, err
	}

	data := templateData{Opts: g.opts, Records: views}

	var dispatch, constructors strings.Builder
	if err := g.dispatch.Execute(&dispatch, data); err != nil {
		return Fragments{}, fmt.Errorf("render dispatch: %w", err)
	}
	if err := g.constructors.Execute(&constructors, data); err != nil {
		return Fragments{}, fmt.Errorf("render constructors: %w", err)
	}

	return Fragments{
		Dispatch:     dispatch.String(),
		Constructors: constructors.String(),
	}, nil
}

func (g *Generator) views(schema *parser.Schema) ([]recordView, error) {
	var views []recordView
	tags := make(map[string]string) // tag → record name

	for _, record := range schema.Records() {
		v := g.newRecordView(record)
		if other, ok := tags[v.Tag]; ok {
			return nil, fmt.Errorf("records %q and %q share tag constant %s", other, record.Name, v.Tag)
		}
		tags[v.Tag] = record.Name
		views = append(views, v)
	}

	return views, nil
}
