package format

import (
	"errors"
	"fmt"

	"stencil/internal/source"
	"stencil/internal/tree"
)

// ErrTreeChanged is returned by CheckRoundTrip when layout altered tokens.
var ErrTreeChanged = errors.New("format: token tree changed after layout")

// CheckRoundTrip re-parses formatted output and verifies that it carries the
// same token tree as nodes.
func CheckRoundTrip(nodes []tree.Node, out []byte) error {
	reparsed, err := tree.Snippet(string(out), source.Span{})
	if err != nil {
		return fmt.Errorf("format: reparse failed: %w", err)
	}
	if !tree.Equal(nodes, reparsed) {
		return ErrTreeChanged
	}
	return nil
}
