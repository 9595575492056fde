package slots

import (
	"stencil/internal/diag"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// Target is one `pattern as NAME` entry of a construct marker.
type Target struct {
	Pattern []tree.Node
	Name    Name
}

// ParseConstructMarker reads the arguments of `__CONSTRUCT(pat as NAME, ...)`.
// Patterns may be anything up to the last top-level `as` of an entry.
func ParseConstructMarker(m tree.Meta, code diag.Code) ([]Target, error) {
	if m.Kind != tree.MetaList {
		return nil, diag.Errorf(code, m.Span, "expected `%s(pattern as NAME, ...)`", m.Path)
	}
	var out []Target
	for _, part := range tree.Split(m.Args, token.Comma, tree.AnglesIgnored) {
		as := -1
		for i, n := range part {
			if n.IsWord("as") {
				as = i
			}
		}
		if len(part) == 0 || as < 0 {
			at := m.ArgsSpan
			if len(part) > 0 {
				at = tree.SpanOf(part)
			}
			return nil, diag.Errorf(code, at, "expected `pattern as NAME`")
		}
		if as == 0 {
			return nil, diag.Errorf(code, part[0].Span(), "expected a pattern before `as`")
		}
		s := tree.NewStream(part[as+1:], part[as].Span())
		name, err := s.ExpectIdent(code, "a target name after `as`")
		if err != nil {
			return nil, err
		}
		if err := s.ExpectEnd(code); err != nil {
			return nil, err
		}
		out = append(out, Target{Pattern: part[:as], Name: Name{Text: name.Text, Span: name.Span}})
	}
	if len(out) == 0 {
		return nil, diag.Errorf(code, m.ArgsSpan, "expected at least one `pattern as NAME`")
	}
	return out, nil
}

// ParseSubstituteMarker reads the single name of `__SUBSTITUTE(NAME)`.
func ParseSubstituteMarker(m tree.Meta, code diag.Code) (Name, error) {
	if m.Kind != tree.MetaList {
		return Name{}, diag.Errorf(code, m.Span, "expected `%s(NAME)`", m.Path)
	}
	s := tree.NewStream(m.Args, m.ArgsSpan)
	name, err := s.ExpectIdent(code, "a target name")
	if err != nil {
		return Name{}, err
	}
	if err := s.ExpectEnd(code); err != nil {
		return Name{}, err
	}
	return Name{Text: name.Text, Span: name.Span}, nil
}
