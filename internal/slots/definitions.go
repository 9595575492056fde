package slots

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// ConstructionDef supplies the value of one construction slot.
type ConstructionDef struct {
	Name     string
	NameSpan source.Span
	Expr     []tree.Node
}

// SubstitutionDef supplies annotations and an optional parameter-list
// extension for one substitution slot.
type SubstitutionDef struct {
	Name        string
	NameSpan    source.Span
	Annotations [][]tree.Node // each is `#` followed by a bracket group
	Extension   *Extension    // nil when absent or a no-op
}

// Direction of a parameter-list extension.
type Direction uint8

const (
	// Append adds parameters after the existing ones.
	Append Direction = iota
)

func (d Direction) String() string {
	return ".."
}

// Extension is a parameter-list extension `(.., params)`.
type Extension struct {
	Direction Direction
	Params    []tree.Node
}

// IsNoop reports whether applying the extension changes nothing.
func (e Extension) IsNoop() bool { return len(e.Params) == 0 }

// ParseConstructions parses `{ NAME => expr, ... }`.
func ParseConstructions(group tree.Node) ([]ConstructionDef, error) {
	const code = diag.TplDefinitionParse
	if !group.Is(tree.Brace) {
		return nil, diag.Errorf(code, group.Span(), "expected `{` after `constructions`")
	}
	var out []ConstructionDef
	names := newNameSet()
	for _, part := range tree.Split(group.Children, token.Comma, tree.AnglesTurbofish) {
		s := tree.NewStream(part, group.Close.Span)
		name, err := s.ExpectIdent(code, "a construction name")
		if err != nil {
			return nil, err
		}
		arrow, err := s.ExpectPunct(token.FatArrow, code)
		if err != nil {
			return nil, err
		}
		expr := s.Rest()
		if len(expr) == 0 {
			return nil, diag.Errorf(code, arrow.Span(), "expected an expression after `=>`")
		}
		if err := names.add(name); err != nil {
			return nil, err
		}
		out = append(out, ConstructionDef{Name: name.Text, NameSpan: name.Span, Expr: expr})
	}
	return out, nil
}

// ParseSubstitutions parses `{ NAME => #[a] #[b] (.., p: T), ... }`.
// An entry with neither annotations nor an extension is rejected;
// `(..)` alone is accepted and dropped as a no-op.
func ParseSubstitutions(group tree.Node, marker token.Kind) ([]SubstitutionDef, error) {
	const code = diag.TplDefinitionParse
	if !group.Is(tree.Brace) {
		return nil, diag.Errorf(code, group.Span(), "expected `{` after `attribute_substitutions`")
	}
	var out []SubstitutionDef
	names := newNameSet()
	for _, part := range tree.Split(group.Children, token.Comma, tree.AnglesIgnored) {
		s := tree.NewStream(part, group.Close.Span)
		name, err := s.ExpectIdent(code, "an attribute substitution name")
		if err != nil {
			return nil, err
		}
		if _, err := s.ExpectPunct(token.FatArrow, code); err != nil {
			return nil, err
		}

		def := SubstitutionDef{Name: name.Text, NameSpan: name.Span}
		rest := s.Rest()
		i := 0
		for {
			bracket, ok := tree.MarkerAt(rest, i, marker)
			if !ok {
				break
			}
			def.Annotations = append(def.Annotations, []tree.Node{rest[i], bracket})
			i += 2
		}
		hasExtension := false
		if i < len(rest) && rest[i].Is(tree.Paren) {
			ext, err := ParseExtension(rest[i].Children, rest[i].Close.Span)
			if err != nil {
				return nil, err
			}
			hasExtension = true
			if !ext.IsNoop() {
				def.Extension = &ext
			}
			i++
		}
		if i < len(rest) {
			tail := tree.NewStream(rest[i:], group.Close.Span)
			if err := tail.ExpectEnd(code); err != nil {
				return nil, err
			}
		}
		if len(def.Annotations) == 0 && !hasExtension {
			return nil, diag.Errorf(code, name.Span,
				"consider rewriting this entry as `%s => (..)`, to make the right side of the arrow not be empty", name.Text)
		}
		if err := names.add(name); err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// ParseExtension parses the inside of `(.. [, params])`.
func ParseExtension(nodes []tree.Node, end source.Span) (Extension, error) {
	const code = diag.TplDefinitionParse
	s := tree.NewStream(nodes, end)
	first, ok := s.Peek()
	switch {
	case !ok:
		return Extension{}, diag.Errorf(code, end, "expected `..` to start a parameter-list extension")
	case !first.IsPunct(token.DotDot):
		return Extension{}, diag.Errorf(code, first.Span(),
			"unsupported parameter-list direction %s, only `..` (append) is supported", describe(first))
	}
	s.Next()
	if s.AtEnd() {
		return Extension{Direction: Append}, nil
	}
	if _, err := s.ExpectPunct(token.Comma, code); err != nil {
		return Extension{}, err
	}
	return Extension{Direction: Append, Params: s.Rest()}, nil
}

func describe(n tree.Node) string {
	return fmt.Sprintf("`%s`", tree.PrintNode(n))
}

// Name is a supplied slot name with its location.
type Name struct {
	Text string
	Span source.Span
}

// ConstructionNames lists the names supplied by defs.
func ConstructionNames(defs []ConstructionDef) []Name {
	out := make([]Name, 0, len(defs))
	for _, d := range defs {
		out = append(out, Name{Text: d.Name, Span: d.NameSpan})
	}
	return out
}

// SubstitutionNames lists the names supplied by defs.
func SubstitutionNames(defs []SubstitutionDef) []Name {
	out := make([]Name, 0, len(defs))
	for _, d := range defs {
		out = append(out, Name{Text: d.Name, Span: d.NameSpan})
	}
	return out
}
