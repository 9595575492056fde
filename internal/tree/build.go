package tree

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/lexer"
	"stencil/internal/source"
	"stencil/internal/token"
)

// DefaultMaxDepth bounds group nesting accepted by Build.
const DefaultMaxDepth = 256

// Options configures Build.
type Options struct {
	MaxDepth int // 0 means DefaultMaxDepth
}

// Unit is a parsed forest plus the trivia that trails the last token.
type Unit struct {
	Nodes    []Node
	Trailing []token.Trivia
}

type frame struct {
	open     token.Token
	delim    Delimiter
	children []Node
}

// Build groups a token stream (as produced by lexer.All) into a forest.
// Unmatched delimiters are reported and repaired so the result is always
// well formed: stray closers are dropped, unclosed groups are closed at the
// point of failure.
func Build(tokens []token.Token, rep diag.Reporter, opts Options) Unit {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	stack := []frame{{}}
	tooDeep := false
	var trailing []token.Trivia

	closeTop := func(closer token.Token) {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := &stack[len(stack)-1]
		parent.children = append(parent.children, NewGroup(top.delim, top.open, closer, top.children))
	}

	for _, tok := range tokens {
		switch {
		case tok.Kind == token.EOF:
			trailing = tok.Leading
		case tok.Kind.IsOpenDelim():
			if len(stack) > maxDepth && !tooDeep {
				tooDeep = true
				diag.ReportError(rep, diag.SynNestingTooDeep, tok.Span,
					fmt.Sprintf("delimiters nested deeper than %d levels", maxDepth)).Emit()
			}
			stack = append(stack, frame{open: tok, delim: delimiterOf(tok.Kind)})
		case tok.Kind.IsCloseDelim():
			idx := matchingFrame(stack, tok.Kind)
			if idx < 0 {
				diag.ReportError(rep, diag.SynUnbalancedCloser, tok.Span,
					fmt.Sprintf("unexpected closing delimiter `%s`", tok.Text)).Emit()
				continue
			}
			for len(stack)-1 > idx {
				top := stack[len(stack)-1]
				reportUnclosed(rep, top, tok.Span)
				closeTop(synthCloser(top, tok.Span.ZeroWidthAt()))
			}
			closeTop(tok)
		default:
			top := &stack[len(stack)-1]
			top.children = append(top.children, Leaf(tok))
		}
	}

	var end source.Span
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span
	}
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		reportUnclosed(rep, top, end)
		closeTop(synthCloser(top, end))
	}
	return Unit{Nodes: stack[0].children, Trailing: trailing}
}

// Parse lexes and builds file in one step.
func Parse(file *source.File, rep diag.Reporter, opts Options) Unit {
	return Build(lexer.Tokenize(file, lexer.Options{Reporter: rep}), rep, opts)
}

// matchingFrame returns the innermost open frame closed by kind, or -1.
func matchingFrame(stack []frame, kind token.Kind) int {
	for i := len(stack) - 1; i >= 1; i-- {
		if stack[i].open.Kind.Closer() == kind {
			return i
		}
	}
	return -1
}

func synthCloser(f frame, at source.Span) token.Token {
	return token.SynthPunct(f.open.Kind.Closer(), at)
}

func reportUnclosed(rep diag.Reporter, f frame, at source.Span) {
	closer, _ := token.PunctText(f.open.Kind.Closer())
	diag.ReportError(rep, diag.SynUnclosedDelimiter, f.open.Span,
		fmt.Sprintf("unclosed delimiter `%s`", f.open.Text)).
		WithNote(at, fmt.Sprintf("expected `%s` before this point", closer)).
		Emit()
}

// Depth returns the deepest group nesting in nodes (0 for a flat slice).
func Depth(nodes []Node) int {
	deepest := 0
	for _, n := range nodes {
		if n.IsGroup() {
			deepest = max(deepest, 1+Depth(n.Children))
		}
	}
	return deepest
}
