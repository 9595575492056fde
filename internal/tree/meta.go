package tree

import (
	"strings"

	"stencil/internal/source"
	"stencil/internal/token"
)

// MetaKind is the shape of a marker annotation's contents.
type MetaKind uint8

const (
	MetaPath      MetaKind = iota // #[path]
	MetaList                      // #[path(args)]
	MetaNameValue                 // #[path = value]
)

// Meta is a parsed marker annotation `#[Path(Args)]`.
type Meta struct {
	Path     string // segments joined by "::", leading "::" dropped
	PathSpan source.Span
	Kind     MetaKind
	Args     []Node // list contents, or the value tokens of a name-value
	ArgsSpan source.Span
	Span     source.Span // marker punct through closing bracket
}

// MarkerAt reports whether nodes[i] is the marker punct immediately followed
// by a bracket group, and returns that group.
func MarkerAt(nodes []Node, i int, marker token.Kind) (Node, bool) {
	if i+1 >= len(nodes) || !nodes[i].IsPunct(marker) || !nodes[i+1].Is(Bracket) {
		return Node{}, false
	}
	return nodes[i+1], true
}

// ParseMeta interprets the contents of a marker's bracket group.
// It fails (ok == false) for anything that is not path, path(list) or path = value.
func ParseMeta(marker, bracket Node) (Meta, bool) {
	nodes := bracket.Children
	i := 0
	if i < len(nodes) && nodes[i].IsPunct(token.ColonColon) {
		i++
	}
	var segments []string
	var pathSpan source.Span
	for {
		if i >= len(nodes) || !nodes[i].IsIdent() {
			return Meta{}, false
		}
		if len(segments) == 0 {
			pathSpan = nodes[i].Span()
		} else {
			pathSpan = pathSpan.Cover(nodes[i].Span())
		}
		segments = append(segments, nodes[i].Tok.Text)
		i++
		if i < len(nodes) && nodes[i].IsPunct(token.ColonColon) {
			i++
			continue
		}
		break
	}

	m := Meta{
		Path:     strings.Join(segments, "::"),
		PathSpan: pathSpan,
		Span:     marker.Span().Cover(bracket.Span()),
	}
	rest := nodes[i:]
	switch {
	case len(rest) == 0:
		m.Kind = MetaPath
	case len(rest) == 1 && rest[0].Is(Paren):
		m.Kind = MetaList
		m.Args = rest[0].Children
		m.ArgsSpan = rest[0].Span()
	case len(rest) >= 2 && rest[0].IsPunct(token.Assign):
		m.Kind = MetaNameValue
		m.Args = rest[1:]
		m.ArgsSpan = SpanOf(rest[1:])
	default:
		return Meta{}, false
	}
	return m, true
}

// Attribute builds `#[path(args)]` (or `#[path]` when args is nil) at span.
func Attribute(marker token.Kind, path string, args []Node, span source.Span) []Node {
	var inner []Node
	for i, seg := range strings.Split(path, "::") {
		if i > 0 {
			inner = append(inner, Punct(token.ColonColon, span))
		}
		inner = append(inner, Word(seg, span))
	}
	if args != nil {
		inner = append(inner, SynthGroup(Paren, span, args))
	}
	return []Node{Punct(marker, span), SynthGroup(Bracket, span, inner)}
}
