package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// CheckTokenSpans runs the lexer span invariants on a token stream:
// 1) every token and trivia span is well formed and inside the file
// 2) trivia precedes its token, and tokens never overlap
// 3) the stream ends with exactly one EOF token
func CheckTokenSpans(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	size, err := fileLen(sf)
	if err != nil {
		return err
	}
	var prevEnd uint32
	for i, tok := range tokens {
		if tok.Kind == token.EOF && i != len(tokens)-1 {
			return fmt.Errorf("EOF token at index %d of %d", i, len(tokens))
		}
		for _, tr := range tok.Leading {
			if err := checkSpan(tr.Span, sf.ID, size); err != nil {
				return fmt.Errorf("trivia %s before token %d: %w", tr.Kind, i, err)
			}
			if tr.Span.Start < prevEnd || tr.Span.End > tok.Span.Start {
				return fmt.Errorf("trivia %v out of order before token %d at %v", tr.Span, i, tok.Span)
			}
			prevEnd = tr.Span.End
		}
		if err := checkSpan(tok.Span, sf.ID, size); err != nil {
			return fmt.Errorf("token %d (%q): %w", i, tok.Text, err)
		}
		if tok.Span.Start < prevEnd {
			return fmt.Errorf("token %d (%q) at %v overlaps the previous one ending at %d", i, tok.Text, tok.Span, prevEnd)
		}
		prevEnd = tok.Span.End
	}
	return nil
}

// CheckTreeSpans checks that a parsed forest keeps source order: children
// lie inside their group's delimiters and siblings do not overlap.
func CheckTreeSpans(nodes []tree.Node, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := fileLen(sf)
	if err != nil {
		return err
	}
	return checkForest(nodes, sf.ID, size, source.Span{File: sf.ID, End: size})
}

func checkForest(nodes []tree.Node, id source.FileID, size uint32, within source.Span) error {
	prevEnd := within.Start
	for _, n := range nodes {
		sp := n.Span()
		if err := checkSpan(sp, id, size); err != nil {
			return fmt.Errorf("node %q: %w", tree.PrintNode(n), err)
		}
		if sp.Start < prevEnd || sp.End > within.End {
			return fmt.Errorf("node %q at %v is outside %d..%d", tree.PrintNode(n), sp, prevEnd, within.End)
		}
		prevEnd = sp.End
		if !n.IsGroup() {
			continue
		}
		inner := source.Span{File: id, Start: n.Tok.Span.End, End: n.Close.Span.Start}
		if inner.End < inner.Start {
			return fmt.Errorf("group %s at %v closes before it opens", n.Delim, sp)
		}
		if err := checkForest(n.Children, id, size, inner); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(sp source.Span, id source.FileID, size uint32) error {
	if sp.File != id {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, id)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.End > size {
		return fmt.Errorf("span %v ends beyond content (%d bytes)", sp, size)
	}
	return nil
}

func fileLen(sf *source.File) (uint32, error) {
	n, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return 0, fmt.Errorf("len content overflow: %w", err)
	}
	return n, nil
}
