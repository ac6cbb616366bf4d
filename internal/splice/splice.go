// Package splice fills the gaps of a parsed template with generated
// fragments and commits the result to disk.
package splice

import (
	"bytes"
	"fmt"

	"github.com/alexhholmes/jentrygen/internal/codegen"
	"github.com/alexhholmes/jentrygen/internal/parser"
)

// Splice returns the template content with each gap replaced by its fragment
func Splice(doc *parser.Document, frags codegen.Fragments) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var out bytes.Buffer
	for _, seg := range doc.Segments {
		if seg.Gap == parser.RegionNone {
			out.WriteString(seg.Text)
			continue
		}

		fragment, ok := frags.For(seg.Gap)
		if !ok {
			return nil, fmt.Errorf("no fragment for %s region", seg.Gap)
		}
		out.WriteString(fragment)
	}

	return out.Bytes(), nil
}
