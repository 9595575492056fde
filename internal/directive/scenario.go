package directive

import (
	"fmt"

	"stencil/internal/source"
)

// Scenario is one expectation written in a source file as a doc comment:
//
//	/// expect: TPL3004
//	NUMBR => 1
//
// The expectation applies to the line of the token the comment is attached to.
type Scenario struct {
	// Namespace is the directive name ("expect").
	Namespace string

	// Index is the sequential number of this scenario within its namespace and file.
	Index int

	// Code is the expected diagnostic ID, e.g. "TPL3004".
	Code string

	// SourceFile is the path to the source file containing this directive.
	SourceFile string

	// Span is the location of the directive comment.
	Span source.Span

	// Target is the span of the token the directive describes.
	Target source.Span
}

// Name returns a stable label for reports.
func (s *Scenario) Name() string {
	return fmt.Sprintf("%s_%s_%d", s.Namespace, s.Code, s.Index)
}
