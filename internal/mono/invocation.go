package mono

import (
	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/slots"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// Invocation is the parsed payload of `NAME! { ... }`.
type Invocation struct {
	// Header is the module header, e.g. `mod a_mod` or `#[cfg(test)] pub mod b`.
	Header        []tree.Node
	Constructions []slots.ConstructionDef
	Substitutions []slots.SubstitutionDef
	Span          source.Span // whole invocation; missing names are reported here
}

// ModuleName returns the name the header gives the instantiated module.
func (inv Invocation) ModuleName() string {
	if len(inv.Header) == 0 {
		return ""
	}
	return inv.Header[len(inv.Header)-1].Tok.Text
}

// ParseInvocation parses
//
//	<header> [; [constructions { ... }] [,] [attribute_substitutions { ... }] [,]]
//
// The blocks may come in either order, each at most once.
func ParseInvocation(payload []tree.Node, span source.Span, d dialect.Dialect) (Invocation, error) {
	const code = diag.TplDefinitionParse
	inv := Invocation{Span: span}
	s := tree.NewStream(payload, span)
	inv.Header = s.Until(tree.AnglesIgnored, func(n tree.Node) bool { return n.IsPunct(token.Semicolon) })
	if err := checkHeader(inv.Header, span, d); err != nil {
		return Invocation{}, err
	}
	if s.AtEnd() {
		return inv, nil
	}
	s.Next()

	seen := map[slots.Kind]bool{}
	for !s.AtEnd() {
		kw, err := s.ExpectIdent(code, "`constructions` or `attribute_substitutions`")
		if err != nil {
			return Invocation{}, err
		}
		var kind slots.Kind
		switch kw.Text {
		case "constructions":
			kind = slots.KindConstruction
		case "attribute_substitutions":
			kind = slots.KindSubstitution
		default:
			return Invocation{}, diag.Errorf(code, kw.Span,
				"unexpected `%s`, expected `constructions` or `attribute_substitutions`", kw.Text)
		}
		if seen[kind] {
			return Invocation{}, diag.Errorf(code, kw.Span, "duplicate %s block", kind.Block())
		}
		seen[kind] = true

		group, err := s.ExpectGroup(tree.Brace, code, "`{`")
		if err != nil {
			return Invocation{}, err
		}
		if kind == slots.KindConstruction {
			inv.Constructions, err = slots.ParseConstructions(group)
		} else {
			inv.Substitutions, err = slots.ParseSubstitutions(group, d.MarkerKind())
		}
		if err != nil {
			return Invocation{}, err
		}
		s.EatPunct(token.Comma)
	}
	return inv, nil
}

// checkHeader accepts `[attrs] [vis] mod NAME`.
func checkHeader(header []tree.Node, span source.Span, d dialect.Dialect) error {
	const code = diag.TplDefinitionParse
	n := len(header)
	if n < 2 || !header[n-2].IsWord(d.ModKeyword) || !header[n-1].IsIdent() {
		at := span
		if n > 0 {
			at = tree.SpanOf(header)
		}
		return diag.Errorf(code, at, "expected a module header such as `%s name`", d.ModKeyword)
	}
	return nil
}
