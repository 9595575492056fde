// Package template turns a `define` declaration into a reusable template.
package template

import (
	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/scaffold"
	"stencil/internal/slots"
	"stencil/internal/source"
	"stencil/internal/tree"
)

// Template is a declared template: its slot registry and the body of the
// `mod __` it was attached to. It is read-only once declared.
type Template struct {
	Name     string
	Registry *slots.Registry
	Body     []tree.Node
	Span     source.Span // define marker through the module body

	// Scaffold is the guarded compile-check module emitted in place of the declaration.
	Scaffold []tree.Node
}

// Declare parses the define annotation m and the module item that follows it.
func Declare(m tree.Meta, item []tree.Node, d dialect.Dialect) (*Template, error) {
	const code = diag.TplDeclarationParse
	if m.Kind != tree.MetaList {
		return nil, diag.Errorf(code, m.Span, "expected `%s(NAME; ...)`", m.Path)
	}
	reg, err := slots.ParseRegistry(m.Args, m.ArgsSpan)
	if err != nil {
		return nil, err
	}
	if err := rejectOpaqueSlots(reg, d); err != nil {
		return nil, err
	}
	header, body, err := moduleShape(item, m.Span, d)
	if err != nil {
		return nil, err
	}

	generated, err := scaffold.Generate(body.Children, reg, d)
	if err != nil {
		return nil, err
	}
	checked := append(append([]tree.Node(nil), header...), body.WithChildren(generated))

	return &Template{
		Name:     reg.Name,
		Registry: reg,
		Body:     body.Children,
		Span:     m.Span.Cover(body.Span()),
		Scaffold: scaffold.Module(reg.Name, checked, d, m.Span),
	}, nil
}

// rejectOpaqueSlots fails on the first construction slot declared with an
// opaque type: the scaffold has no value of type `impl Trait` to bind.
func rejectOpaqueSlots(reg *slots.Registry, d dialect.Dialect) error {
	for _, slot := range reg.Constructions {
		if d.IsOpaque(slot.Type) {
			return diag.Errorf(diag.TplDeclarationParse, slot.Type[0].Span(),
				"`%s` types are unsupported for construction `%s`", d.OpaqueKeyword, slot.Name)
		}
	}
	return nil
}

// moduleShape checks that item is `[vis] mod __ { ... }` and splits it into
// the header and the body group.
func moduleShape(item []tree.Node, at source.Span, d dialect.Dialect) ([]tree.Node, tree.Node, error) {
	const code = diag.TplDeclarationParse
	marker := d.MarkerKind()
	mod := -1
	for i, n := range item {
		if n.IsPunct(marker) {
			return nil, tree.Node{}, diag.Errorf(code, n.Span(), "attributes on the template module are not supported")
		}
		if n.IsWord(d.ModKeyword) {
			mod = i
			break
		}
	}
	if mod < 0 {
		sp := at
		if len(item) > 0 {
			sp = item[0].Span()
		}
		return nil, tree.Node{}, diag.Errorf(code, sp, "expected a `%s` item", d.ModKeyword)
	}
	s := tree.NewStream(item[mod+1:], item[mod].Span())
	name, err := s.ExpectIdent(code, "a module name")
	if err != nil {
		return nil, tree.Node{}, err
	}
	if name.Text != d.TemplateModule {
		return nil, tree.Node{}, diag.Errorf(code, name.Span, "template module must be named `%s`", d.TemplateModule)
	}
	body, err := s.ExpectGroup(tree.Brace, code, "`{`")
	if err != nil {
		return nil, tree.Node{}, err
	}
	if err := s.ExpectEnd(code); err != nil {
		return nil, tree.Node{}, err
	}
	return item[:mod+2], body, nil
}
