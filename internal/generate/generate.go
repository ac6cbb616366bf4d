// Package generate runs the full regeneration of one template: read the
// schema, synthesize both regions, optionally verify them, splice, and
// atomically replace the file.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexhholmes/jentrygen/internal/codegen"
	"github.com/alexhholmes/jentrygen/internal/parser"
	"github.com/alexhholmes/jentrygen/internal/splice"
	"github.com/alexhholmes/jentrygen/internal/verify"
)

// ErrOutOfDate is returned in check mode when regeneration would change the file
var ErrOutOfDate = errors.New("template is out of date")

// Options configures one run
type Options struct {
	Template string
	Markers  parser.Markers
	Codegen  codegen.Options
	Verify   bool
	DryRun   bool // Produce output without writing the template
	Check    bool // Fail with ErrOutOfDate instead of writing
	Logger   *zap.Logger
}

// Result describes a completed run
type Result struct {
	RunID   string
	Records []string // Record names in declaration order
	Output  []byte   // Full regenerated template
	Changed bool     // Output differs from the file on disk
	Written bool     // Template was replaced
}

// Run regenerates the template. Any failure leaves the file untouched.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{RunID: uuid.NewString()}
	logger = logger.With(zap.String("run", res.RunID), zap.String("template", opts.Template))
	logger.Info("generating")

	gen, err := codegen.NewGenerator(opts.Codegen)
	if err != nil {
		return nil, err
	}

	input, err := os.ReadFile(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	doc, err := parser.Parse(string(input), opts.Markers)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.Template, err)
	}
	for _, r := range doc.Schema.Records() {
		res.Records = append(res.Records, r.Name)
		logger.Debug("record", zap.String("name", r.Name), zap.Int("fields", len(r.Fields)), zap.Int("line", r.Line))
	}

	frags, err := gen.Generate(doc.Schema)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if opts.Verify {
		if err := verify.Fragments(ctx, frags); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
	}

	output, err := splice.Splice(doc, frags)
	if err != nil {
		return nil, fmt.Errorf("splice: %w", err)
	}
	res.Output = output
	res.Changed = !bytes.Equal(input, output)

	switch {
	case opts.Check && res.Changed:
		return res, ErrOutOfDate
	case opts.Check, opts.DryRun:
		// Nothing to write
	case !res.Changed:
		logger.Debug("template up to date")
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := splice.WriteFileAtomic(opts.Template, output); err != nil {
			return nil, err
		}
		res.Written = true
	}

	logger.Info("done",
		zap.Int("records", len(res.Records)),
		zap.Bool("changed", res.Changed),
		zap.Bool("written", res.Written),
	)
	return res, nil
}
