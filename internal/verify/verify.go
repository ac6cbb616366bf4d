// Package verify parses generated C fragments with tree-sitter so that a
// fragment that would not compile is rejected before the template is touched.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/alexhholmes/jentrygen/internal/codegen"
	"github.com/alexhholmes/jentrygen/internal/parser"
)

// ErrSyntax matches every *Error via errors.Is
var ErrSyntax = errors.New("syntax error in generated code")

// Error locates the first syntax problem in a fragment
type Error struct {
	Region  parser.Region
	Line    int // 1-based, relative to the fragment
	Column  int // 1-based
	Snippet string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s region: line %d, column %d: syntax error near %q", e.Region, e.Line, e.Column, e.Snippet)
}

func (e *Error) Is(target error) bool { return target == ErrSyntax }

// Case labels only parse inside a switch
const (
	dispatchPrefix = "void __jentrygen_dispatch(void)\n{\n\tswitch (0) {\n"
	dispatchSuffix = "\t}\n}\n"
)

// Checker parses fragments with the C grammar
type Checker struct {
	parser *sitter.Parser
}

func NewChecker() *Checker {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return &Checker{parser: p}
}

// Fragments checks both region bodies
func (ch *Checker) Fragments(ctx context.Context, frags codegen.Fragments) error {
	if err := ch.check(ctx, parser.RegionDispatch, dispatchPrefix, frags.Dispatch+dispatchSuffix); err != nil {
		return err
	}
	return ch.check(ctx, parser.RegionConstructors, "", frags.Constructors)
}

// Fragments checks both region bodies with a fresh Checker
func Fragments(ctx context.Context, frags codegen.Fragments) error {
	return NewChecker().Fragments(ctx, frags)
}

func (ch *Checker) check(ctx context.Context, region parser.Region, prefix, body string) error {
	src := []byte(prefix + body)

	tree, err := ch.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parse %s region: %w", region, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	bad := firstError(root)
	if bad == nil {
		bad = root
	}

	// Report positions relative to the fragment, not the wrapper
	offset := strings.Count(prefix, "\n")
	point := bad.StartPoint()
	line := int(point.Row) + 1 - offset
	if line < 1 {
		line = 1
	}

	return &Error{
		Region:  region,
		Line:    line,
		Column:  int(point.Column) + 1,
		Snippet: snippet(bad.Content(src)),
	}
}

// firstError returns the first ERROR or MISSING node in document order
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
