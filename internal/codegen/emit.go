package codegen

import (
	"fmt"
	"strings"

	"github.com/alexhholmes/jentrygen/internal/parser"
)

// templateData is what both region templates render
type templateData struct {
	Opts    Options
	Records []recordView
}

// recordView carries everything both regions need for one record. Fields are
// walked once here so the dispatch format and the constructor parameters come
// from the same pass.
type recordView struct {
	Name        string
	Struct      string // "struct write_args"
	Tag         string // "WRITE"
	Constructor string // "jentry_write"
	Format      string // "code=%d, offset=%d, buffer=%p"
	ParamList   string // "int offset, void *buffer", or "void"
	HasTag      bool
	Fields      []fieldView // All fields, declaration order
	Params      []fieldView // Non-tag fields, declaration order
}

type fieldView struct {
	parser.Field
	Placeholder string // "%p" for pointers, "%d" otherwise
	Access      string // "((struct write_args *)recptr)->offset"
}

func (g *Generator) newRecordView(record *parser.Record) recordView {
	v := recordView{
		Name:        record.Name,
		Struct:      fmt.Sprintf("struct %s_args", record.Name),
		Tag:         g.TagConstant(record.Name),
		Constructor: g.opts.ConstructorPrefix + record.Name,
	}

	var format, params []string
	for _, field := range record.Fields {
		fv := fieldView{
			Field:       field,
			Placeholder: placeholder(field),
			Access:      fmt.Sprintf("((%s *)%s)->%s", v.Struct, g.opts.RecordVar, field.Name),
		}
		v.Fields = append(v.Fields, fv)
		format = append(format, field.Name+"="+fv.Placeholder)

		if field.IsTag(g.opts.TagField) {
			v.HasTag = true
			continue
		}
		v.Params = append(v.Params, fv)
		params = append(params, field.Decl())
	}

	v.Format = strings.Join(format, ", ")
	v.ParamList = "void"
	if len(params) > 0 {
		v.ParamList = strings.Join(params, ", ")
	}

	return v
}

// placeholder returns the printf conversion for a field
func placeholder(f parser.Field) string {
	if f.IsPointer() {
		return "%p"
	}
	return "%d"
}

// One case per record:
//
//	case WRITE:
//		reclen = sizeof(struct write_args);
//		kprintf("WRITE(code=%d, buffer=%p)",
//			((struct write_args *)recptr)->code,
//			((struct write_args *)recptr)->buffer);
//		break;
const dispatchTemplate = `{{ range .Records }}		case {{ .Tag }}:
			{{ $.Opts.SizeVar }} = sizeof({{ .Struct }});
			{{ $.Opts.PrintFunc }}("{{ .Tag }}({{ .Format }})"{{ range .Fields }},
				{{ .Access }}{{ end }});
			break;
{{ end }}`

// One allocating constructor per record, followed by a blank line
const constructorTemplate = `{{ range .Records }}void *{{ .Constructor }}({{ .ParamList }})
{
	{{ .Struct }} *record;

	record = {{ $.Opts.AllocFunc }}(sizeof({{ .Struct }}));
{{- if .HasTag }}
	record->{{ $.Opts.TagField }} = {{ .Tag }};
{{- end }}
{{- range .Params }}
	record->{{ .Name }} = {{ .Name }};
{{- end }}

	return (void *)record;
}

{{ end }}`
