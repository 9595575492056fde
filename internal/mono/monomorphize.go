// Package mono instantiates declared templates.
//
// An instantiation validates the supplied definitions against the template's
// registry, rewrites the construct and substitute markers of the template
// body into emitted annotations, and wraps the result in the header the
// invocation gave. Nothing is shared between two instantiations of the same
// template.
package mono

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/inject"
	"stencil/internal/slots"
	"stencil/internal/subst"
	"stencil/internal/template"
	"stencil/internal/tree"
)

// Monomorphize expands tpl with the definitions of inv into
// `<header> { <body> }`. Missing and unknown names are reported together.
func Monomorphize(tpl *template.Template, inv Invocation, d dialect.Dialect) ([]tree.Node, error) {
	err := slots.Validate(tpl.Registry,
		slots.ConstructionNames(inv.Constructions),
		slots.SubstitutionNames(inv.Substitutions),
		inv.Span)
	if err != nil {
		return nil, err
	}

	b := newBuilder(tpl, inv, d)
	body, err := subst.Substitute(tpl.Body, b.table(), d.MarkerKind())
	if err != nil {
		return nil, err
	}

	out := make([]tree.Node, 0, len(inv.Header)+1)
	out = append(out, inv.Header...)
	out = append(out, tree.SynthGroup(tree.Brace, inv.Span, body))
	return out, nil
}

type builder struct {
	tpl           *template.Template
	d             dialect.Dialect
	constructions map[string]slots.ConstructionDef
	substitutions map[string]slots.SubstitutionDef
}

func newBuilder(tpl *template.Template, inv Invocation, d dialect.Dialect) *builder {
	b := &builder{
		tpl:           tpl,
		d:             d,
		constructions: make(map[string]slots.ConstructionDef, len(inv.Constructions)),
		substitutions: make(map[string]slots.SubstitutionDef, len(inv.Substitutions)),
	}
	for _, c := range inv.Constructions {
		b.constructions[c.Name] = c
	}
	for _, s := range inv.Substitutions {
		b.substitutions[s.Name] = s
	}
	return b
}

func (b *builder) table() subst.Table {
	return subst.Table{
		dialect.ConstructMarker:  b.construct,
		dialect.SubstituteMarker: b.substitute,
	}
}

// construct emits one construct annotation per `pattern as NAME`.
func (b *builder) construct(m tree.Meta) ([]tree.Node, error) {
	targets, err := slots.ParseConstructMarker(m, diag.TplDeclarationParse)
	if err != nil {
		panic(fmt.Sprintf("mono: construct marker of template %s was not checked at declaration: %v", b.tpl.Name, err))
	}
	var out []tree.Node
	for _, tg := range targets {
		def, ok := b.constructions[tg.Name.Text]
		if !ok {
			panic(fmt.Sprintf("mono: construction %s of template %s is not defined after validation", tg.Name.Text, b.tpl.Name))
		}
		slot, ok := b.tpl.Registry.Construction(tg.Name.Text)
		if !ok {
			panic(fmt.Sprintf("mono: construction %s has no slot in template %s", tg.Name.Text, b.tpl.Name))
		}
		binding := inject.Binding{Pattern: tg.Pattern, Type: slot.Type, Expr: def.Expr}
		out = append(out, inject.ConstructAnnotation([]inject.Binding{binding}, b.d, m.Span)...)
	}
	return out, nil
}

// substitute emits the extension annotation, when there is one, followed
// by the supplied annotations in order.
func (b *builder) substitute(m tree.Meta) ([]tree.Node, error) {
	name, err := slots.ParseSubstituteMarker(m, diag.TplDeclarationParse)
	if err != nil {
		panic(fmt.Sprintf("mono: substitute marker of template %s was not checked at declaration: %v", b.tpl.Name, err))
	}
	def, ok := b.substitutions[name.Text]
	if !ok {
		panic(fmt.Sprintf("mono: substitution %s of template %s is not defined after validation", name.Text, b.tpl.Name))
	}
	var out []tree.Node
	if def.Extension != nil {
		out = append(out, inject.ExtendAnnotation(*def.Extension, b.d, m.Span)...)
	}
	for _, a := range def.Annotations {
		out = append(out, a...)
	}
	return out, nil
}
