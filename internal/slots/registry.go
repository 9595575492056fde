package slots

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// Kind distinguishes the two slot families.
type Kind uint8

const (
	KindConstruction Kind = iota
	KindSubstitution
)

// Block is the name of the block that declares or defines slots of this kind.
func (k Kind) Block() string {
	if k == KindSubstitution {
		return "attribute_substitutions"
	}
	return "constructions"
}

func (k Kind) String() string { return k.Block() }

// ConstructionSlot is a declared construction point with an optional type.
type ConstructionSlot struct {
	Name string
	Type []tree.Node // nil when untyped
	Span source.Span
}

// Typed reports whether the slot declares a type.
func (s ConstructionSlot) Typed() bool { return len(s.Type) > 0 }

// SubstitutionSlot is a declared substitution point.
type SubstitutionSlot struct {
	Name string
	Span source.Span
}

// Registry holds the slots of one template in declared order.
type Registry struct {
	Name          string
	NameSpan      source.Span
	Constructions []ConstructionSlot
	Substitutions []SubstitutionSlot

	constructIdx map[string]int
	substIdx     map[string]int
}

// NewRegistry indexes already validated slots. Duplicate names panic.
func NewRegistry(name string, constructions []ConstructionSlot, substitutions []SubstitutionSlot) *Registry {
	r := &Registry{Name: name, Constructions: constructions, Substitutions: substitutions}
	r.index()
	return r
}

func (r *Registry) index() {
	r.constructIdx = make(map[string]int, len(r.Constructions))
	for i, s := range r.Constructions {
		if _, dup := r.constructIdx[s.Name]; dup {
			panic(fmt.Sprintf("slots: duplicate construction slot %q", s.Name))
		}
		r.constructIdx[s.Name] = i
	}
	r.substIdx = make(map[string]int, len(r.Substitutions))
	for i, s := range r.Substitutions {
		if _, dup := r.substIdx[s.Name]; dup {
			panic(fmt.Sprintf("slots: duplicate substitution slot %q", s.Name))
		}
		r.substIdx[s.Name] = i
	}
}

// Construction looks up a construction slot by name.
func (r *Registry) Construction(name string) (ConstructionSlot, bool) {
	i, ok := r.constructIdx[name]
	if !ok {
		return ConstructionSlot{}, false
	}
	return r.Constructions[i], true
}

// HasSubstitution reports whether a substitution slot is declared.
func (r *Registry) HasSubstitution(name string) bool {
	_, ok := r.substIdx[name]
	return ok
}

// Names returns the declared names of kind k in declared order.
func (r *Registry) Names(k Kind) []string {
	var out []string
	if k == KindConstruction {
		out = make([]string, 0, len(r.Constructions))
		for _, s := range r.Constructions {
			out = append(out, s.Name)
		}
		return out
	}
	out = make([]string, 0, len(r.Substitutions))
	for _, s := range r.Substitutions {
		out = append(out, s.Name)
	}
	return out
}

// ParseRegistry parses the options of `define`:
//
//	name [; [constructions(NAME [-> Type], ...)] [,] [attribute_substitutions(NAME, ...)] [,]]
//
// The two blocks may come in either order, each at most once.
// end anchors errors about missing input (usually the closing paren).
func ParseRegistry(args []tree.Node, end source.Span) (*Registry, error) {
	const code = diag.TplDeclarationParse
	s := tree.NewStream(args, end)
	name, err := s.ExpectIdent(code, "a template name")
	if err != nil {
		return nil, err
	}
	reg := &Registry{Name: name.Text, NameSpan: name.Span}
	if s.AtEnd() {
		reg.index()
		return reg, nil
	}
	if _, err := s.ExpectPunct(token.Semicolon, code); err != nil {
		return nil, err
	}

	seen := map[Kind]bool{}
	for !s.AtEnd() {
		kw, err := s.ExpectIdent(code, "`constructions` or `attribute_substitutions`")
		if err != nil {
			return nil, err
		}
		var kind Kind
		switch kw.Text {
		case "constructions":
			kind = KindConstruction
		case "attribute_substitutions":
			kind = KindSubstitution
		default:
			return nil, diag.Errorf(code, kw.Span,
				"unexpected `%s`, expected `constructions` or `attribute_substitutions`", kw.Text)
		}
		if seen[kind] {
			return nil, diag.Errorf(code, kw.Span, "duplicate %s block", kind.Block())
		}
		seen[kind] = true

		group, err := s.ExpectGroup(tree.Paren, code, "`(`")
		if err != nil {
			return nil, err
		}
		if kind == KindConstruction {
			reg.Constructions, err = parseConstructionSlots(group)
		} else {
			reg.Substitutions, err = parseSubstitutionSlots(group)
		}
		if err != nil {
			return nil, err
		}
		if !s.AtEnd() {
			if _, err := s.ExpectPunct(token.Comma, code); err != nil {
				return nil, err
			}
		}
	}
	reg.index()
	return reg, nil
}

func parseConstructionSlots(group tree.Node) ([]ConstructionSlot, error) {
	const code = diag.TplDeclarationParse
	var out []ConstructionSlot
	names := newNameSet()
	for _, part := range tree.Split(group.Children, token.Comma, tree.AnglesGeneric) {
		s := tree.NewStream(part, group.Close.Span)
		name, err := s.ExpectIdent(code, "a construction name")
		if err != nil {
			return nil, err
		}
		slot := ConstructionSlot{Name: name.Text, Span: name.Span}
		if arrow, ok := s.Peek(); ok && arrow.IsPunct(token.Arrow) {
			s.Next()
			slot.Type = s.Rest()
			if len(slot.Type) == 0 {
				return nil, diag.Errorf(code, arrow.Span(), "expected a type after `->`")
			}
		}
		if err := s.ExpectEnd(code); err != nil {
			return nil, err
		}
		if err := names.add(name); err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}

func parseSubstitutionSlots(group tree.Node) ([]SubstitutionSlot, error) {
	const code = diag.TplDeclarationParse
	var out []SubstitutionSlot
	names := newNameSet()
	for _, part := range tree.Split(group.Children, token.Comma, tree.AnglesIgnored) {
		s := tree.NewStream(part, group.Close.Span)
		name, err := s.ExpectIdent(code, "an attribute substitution name")
		if err != nil {
			return nil, err
		}
		if err := s.ExpectEnd(code); err != nil {
			return nil, err
		}
		if err := names.add(name); err != nil {
			return nil, err
		}
		out = append(out, SubstitutionSlot{Name: name.Text, Span: name.Span})
	}
	return out, nil
}

// nameSet detects a name repeated within one block.
type nameSet map[string]source.Span

func newNameSet() nameSet { return nameSet{} }

func (ns nameSet) add(tok token.Token) error {
	if first, dup := ns[tok.Text]; dup {
		return diag.Errorf(diag.TplDuplicateName, tok.Span, "duplicate target name `%s`", tok.Text).
			WithNote(first, "first used here")
	}
	ns[tok.Text] = tok.Span
	return nil
}
