package tree

import (
	"stencil/internal/source"
	"stencil/internal/token"
)

// Delimiter is the bracket kind of a group. DelimNone marks a leaf.
type Delimiter uint8

const (
	DelimNone Delimiter = iota
	Paren
	Brace
	Bracket
)

func (d Delimiter) String() string {
	switch d {
	case Paren:
		return "()"
	case Brace:
		return "{}"
	case Bracket:
		return "[]"
	default:
		return "none"
	}
}

// Tokens returns the opening and closing token kinds of d.
func (d Delimiter) Tokens() (open, close token.Kind) {
	switch d {
	case Paren:
		return token.LParen, token.RParen
	case Brace:
		return token.LBrace, token.RBrace
	case Bracket:
		return token.LBracket, token.RBracket
	default:
		return token.Invalid, token.Invalid
	}
}

func delimiterOf(open token.Kind) Delimiter {
	switch open {
	case token.LParen:
		return Paren
	case token.LBrace:
		return Brace
	case token.LBracket:
		return Bracket
	default:
		return DelimNone
	}
}

// Node is a leaf token or a delimited group.
type Node struct {
	Tok      token.Token // the leaf, or the opening delimiter of a group
	Close    token.Token // closing delimiter; zero for leaves
	Delim    Delimiter
	Children []Node
}

// Leaf wraps a token.
func Leaf(tok token.Token) Node {
	return Node{Tok: tok}
}

// NewGroup builds a group from explicit delimiter tokens.
func NewGroup(delim Delimiter, open, closeTok token.Token, children []Node) Node {
	return Node{Tok: open, Close: closeTok, Delim: delim, Children: children}
}

// SynthGroup builds a group whose delimiters are synthesized at span.
func SynthGroup(delim Delimiter, span source.Span, children []Node) Node {
	openKind, closeKind := delim.Tokens()
	return NewGroup(delim, token.SynthPunct(openKind, span), token.SynthPunct(closeKind, span), children)
}

// Punct builds a synthesized punctuation leaf.
func Punct(kind token.Kind, span source.Span) Node {
	return Leaf(token.SynthPunct(kind, span))
}

// Word builds a synthesized identifier leaf.
func Word(text string, span source.Span) Node {
	return Leaf(token.Synth(token.Ident, text, span))
}

// IsGroup reports whether n is a delimited group.
func (n Node) IsGroup() bool { return n.Delim != DelimNone }

// Is reports whether n is a group with delimiter d.
func (n Node) Is(d Delimiter) bool { return n.Delim == d && d != DelimNone }

// IsPunct reports whether n is the punctuation leaf k.
func (n Node) IsPunct(k token.Kind) bool { return n.Delim == DelimNone && n.Tok.Kind == k }

// IsWord reports whether n is the identifier leaf w.
func (n Node) IsWord(w string) bool { return n.Delim == DelimNone && n.Tok.IsWord(w) }

// IsIdent reports whether n is an identifier leaf.
func (n Node) IsIdent() bool { return n.Delim == DelimNone && n.Tok.Kind == token.Ident }

// Span covers the leaf, or the group from its opening to its closing delimiter.
func (n Node) Span() source.Span {
	if n.IsGroup() {
		return n.Tok.Span.Cover(n.Close.Span)
	}
	return n.Tok.Span
}

// WithChildren returns a copy of the group n with new children.
func (n Node) WithChildren(children []Node) Node {
	n.Children = children
	return n
}

// SpanOf covers every node in nodes; the zero span for an empty slice.
func SpanOf(nodes []Node) source.Span {
	if len(nodes) == 0 {
		return source.Span{}
	}
	sp := nodes[0].Span()
	for _, n := range nodes[1:] {
		sp = sp.Cover(n.Span())
	}
	return sp
}

// Equal compares two forests by token kind, text and delimiters, ignoring spans and trivia.
func Equal(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Delim != b[i].Delim {
			return false
		}
		if a[i].IsGroup() {
			if !Equal(a[i].Children, b[i].Children) {
				return false
			}
			continue
		}
		if a[i].Tok.Kind != b[i].Tok.Kind || a[i].Tok.Text != b[i].Tok.Text {
			return false
		}
	}
	return true
}

// Respan returns a deep copy of nodes with every span replaced by span and trivia dropped.
// Snippets parsed from configuration use it so diagnostics point at the trigger.
func Respan(nodes []Node, span source.Span) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Tok.Span = span
		n.Tok.Leading = nil
		if n.IsGroup() {
			n.Close.Span = span
			n.Close.Leading = nil
			n.Children = Respan(n.Children, span)
		}
		out[i] = n
	}
	return out
}
