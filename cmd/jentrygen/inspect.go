package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexhholmes/jentrygen/internal/analyzer"
	"github.com/alexhholmes/jentrygen/internal/codegen"
	"github.com/alexhholmes/jentrygen/internal/parser"
)

var inspectTarget string

var inspectCmd = &cobra.Command{
	Use:   "inspect [template]",
	Short: "Print the records declared in a template",
	Long: `Parses the template's record declarations and prints each record with
its tag constant and its C layout on the configured target ABI.
The template is not modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectTarget, "target", "", "Target ABI (mips32, i386, amd64); overrides config")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := cfg.Template
	if len(args) == 1 {
		path = args[0]
	}
	if inspectTarget != "" {
		cfg.Analyzer.Target = inspectTarget
	}

	doc, err := parser.ParseFile(path, cfg.ParserMarkers())
	if err != nil {
		return err
	}
	gen, err := codegen.NewGenerator(cfg.CodegenOptions())
	if err != nil {
		return err
	}
	reg, err := cfg.TypeRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if doc.Schema.Len() == 0 {
		fmt.Fprintln(out, "No records found")
		return nil
	}

	tagField := cfg.Codegen.TagField
	for _, r := range doc.Schema.Records() {
		l, err := analyzer.Analyze(r, reg)
		if err != nil {
			logger.Warn("layout failed", zap.String("record", r.Name), zap.Strings("errors", l.Errors))
			fmt.Fprintf(out, "\n%s (tag=%s, line=%d, size=?)\n", r.Name, gen.TagConstant(r.Name), r.Line)
			for _, f := range r.Fields {
				fmt.Fprintf(out, "  %-15s %-20s\n", f.Name, f.Type)
			}
			continue
		}

		fmt.Fprintf(out, "\n%s (tag=%s, line=%d, size=%d, align=%d, target=%s)\n",
			r.Name, gen.TagConstant(r.Name), r.Line, l.Size, l.Align, reg.Target().Name)
		fmt.Fprintln(out, "Fields:")
		for _, s := range l.Slots {
			fmt.Fprintf(out, "  %-15s %-20s @%d", s.Field.Name, s.Field.Type, s.Offset)
			switch {
			case s.Field.IsTag(tagField):
				fmt.Fprint(out, " tag")
			case s.Field.IsPointer():
				fmt.Fprint(out, " payload")
			}
			fmt.Fprintln(out)
		}
		if pad := l.PaddingBytes(); pad > 0 {
			fmt.Fprintf(out, "  (%d padding bytes)\n", pad)
		}
	}
	return nil
}
