package tree

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/token"
)

// Stream is a forward cursor over sibling nodes, used by the small grammars
// (registries, definitions, attribute arguments).
type Stream struct {
	nodes []Node
	pos   int
	end   source.Span // reported when input runs out
}

// NewStream creates a stream; end anchors "unexpected end" diagnostics,
// usually the closing delimiter of the enclosing group.
func NewStream(nodes []Node, end source.Span) *Stream {
	return &Stream{nodes: nodes, end: end}
}

// StreamOf streams the children of group g.
func StreamOf(g Node) *Stream {
	return NewStream(g.Children, g.Close.Span)
}

func (s *Stream) AtEnd() bool { return s.pos >= len(s.nodes) }

// Peek returns the current node without consuming it.
func (s *Stream) Peek() (Node, bool) {
	return s.PeekN(0)
}

// PeekN looks n nodes ahead.
func (s *Stream) PeekN(n int) (Node, bool) {
	if s.pos+n >= len(s.nodes) {
		return Node{}, false
	}
	return s.nodes[s.pos+n], true
}

// Next consumes one node.
func (s *Stream) Next() (Node, bool) {
	n, ok := s.Peek()
	if ok {
		s.pos++
	}
	return n, ok
}

// Rest consumes and returns everything left.
func (s *Stream) Rest() []Node {
	rest := s.nodes[s.pos:]
	s.pos = len(s.nodes)
	return rest
}

// Span is the span of the current node, or the end anchor.
func (s *Stream) Span() source.Span {
	if n, ok := s.Peek(); ok {
		return n.Span()
	}
	return s.end
}

// EatPunct consumes the punctuation k if it is next.
func (s *Stream) EatPunct(k token.Kind) bool {
	if n, ok := s.Peek(); ok && n.IsPunct(k) {
		s.pos++
		return true
	}
	return false
}

// EatWord consumes the identifier w if it is next.
func (s *Stream) EatWord(w string) bool {
	if n, ok := s.Peek(); ok && n.IsWord(w) {
		s.pos++
		return true
	}
	return false
}

// ExpectIdent consumes an identifier or fails with code.
func (s *Stream) ExpectIdent(code diag.Code, what string) (token.Token, error) {
	n, ok := s.Peek()
	if !ok || !n.IsIdent() {
		return token.Token{}, s.unexpected(code, what)
	}
	s.pos++
	return n.Tok, nil
}

// ExpectPunct consumes the punctuation k or fails with code.
func (s *Stream) ExpectPunct(k token.Kind, code diag.Code) (Node, error) {
	n, ok := s.Peek()
	if !ok || !n.IsPunct(k) {
		text, _ := token.PunctText(k)
		return Node{}, s.unexpected(code, "`"+text+"`")
	}
	s.pos++
	return n, nil
}

// ExpectGroup consumes a group with delimiter d or fails with code.
func (s *Stream) ExpectGroup(d Delimiter, code diag.Code, what string) (Node, error) {
	n, ok := s.Peek()
	if !ok || !n.Is(d) {
		return Node{}, s.unexpected(code, what)
	}
	s.pos++
	return n, nil
}

// ExpectEnd fails with code unless the stream is exhausted.
func (s *Stream) ExpectEnd(code diag.Code) error {
	if s.AtEnd() {
		return nil
	}
	return diag.Errorf(code, s.Span(), "unexpected %s", describe(s.nodes[s.pos]))
}

// Until consumes nodes up to (not including) the first node at depth 0 for
// which stop returns true. Angle brackets are tracked according to mode.
// Closure parameters (`|a, b|`) are skipped as a whole.
func (s *Stream) Until(mode AngleMode, stop func(Node) bool) []Node {
	start := s.pos
	depth := 0
	params := false
	for s.pos < len(s.nodes) {
		n := s.nodes[s.pos]
		if n.IsPunct(token.Pipe) && (params || opensClosure(s.nodes, start, s.pos)) {
			params = !params
			s.pos++
			continue
		}
		if depth == 0 && !params && stop(n) {
			break
		}
		depth = trackAngles(mode, s.nodes, s.pos, depth)
		s.pos++
	}
	return s.nodes[start:s.pos]
}

// opensClosure reports whether the `|` at i starts a closure parameter list.
// A binary `|` always follows an operand; an opening one starts the
// expression or follows `move` or an operator.
func opensClosure(nodes []Node, start, i int) bool {
	if i == start {
		return true
	}
	prev := nodes[i-1]
	if prev.IsWord("move") {
		return true
	}
	return !prev.IsGroup() && prev.Tok.Kind.IsPunct() && !prev.IsPunct(token.Question)
}

func (s *Stream) unexpected(code diag.Code, what string) error {
	if n, ok := s.Peek(); ok {
		return diag.Errorf(code, n.Span(), "expected %s, found %s", what, describe(n))
	}
	return diag.Errorf(code, s.end, "expected %s, found end of input", what)
}

func describe(n Node) string {
	if n.IsGroup() {
		return fmt.Sprintf("`%s`", n.Delim.String()[:1])
	}
	return fmt.Sprintf("`%s`", n.Tok.Text)
}

// AngleMode selects how `<`/`>` affect top-level splitting.
type AngleMode uint8

const (
	// AnglesIgnored treats `<` and `>` as operators.
	AnglesIgnored AngleMode = iota
	// AnglesGeneric treats every `<`/`>` as brackets, as in type position.
	AnglesGeneric
	// AnglesTurbofish opens only after `::` (expression position: Vec::<u8, A>::new()).
	AnglesTurbofish
)

func trackAngles(mode AngleMode, nodes []Node, i, depth int) int {
	if mode == AnglesIgnored {
		return depth
	}
	n := nodes[i]
	switch {
	case n.IsPunct(token.Lt):
		if mode == AnglesGeneric || (i > 0 && nodes[i-1].IsPunct(token.ColonColon)) || depth > 0 {
			return depth + 1
		}
	case n.IsPunct(token.Shl):
		if mode == AnglesGeneric || depth > 0 {
			return depth + 2
		}
	case n.IsPunct(token.Gt):
		if depth > 0 {
			return depth - 1
		}
	case n.IsPunct(token.Shr):
		return max(depth-2, 0)
	}
	return depth
}

// Split cuts nodes at every top-level sep. A trailing separator does not
// produce an empty last element; other empty elements are kept.
func Split(nodes []Node, sep token.Kind, mode AngleMode) [][]Node {
	var out [][]Node
	s := NewStream(nodes, source.Span{})
	for !s.AtEnd() {
		part := s.Until(mode, func(n Node) bool { return n.IsPunct(sep) })
		out = append(out, part)
		s.EatPunct(sep)
	}
	return out
}
