// Package scaffold builds the compile-check copy of a template body.
//
// Every construct marker is replaced by a binding to a never-returning value
// of the slot's type, and every substitute marker is dropped. The result is
// ordinary host code that fails to type-check exactly when the template body
// itself is ill-typed, so templates get checked even before anyone
// instantiates them.
package scaffold

import (
	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/inject"
	"stencil/internal/slots"
	"stencil/internal/source"
	"stencil/internal/subst"
	"stencil/internal/tree"
)

// Generate rewrites the markers of body against reg. Unknown target names
// are aggregated together with marker parse errors.
func Generate(body []tree.Node, reg *slots.Registry, d dialect.Dialect) ([]tree.Node, error) {
	table := subst.Table{
		dialect.ConstructMarker:  constructRewriter(reg, d),
		dialect.SubstituteMarker: substituteRewriter(reg),
	}
	return subst.Substitute(body, table, d.MarkerKind())
}

func constructRewriter(reg *slots.Registry, d dialect.Dialect) subst.Rewriter {
	declared := reg.Names(slots.KindConstruction)
	return func(m tree.Meta) ([]tree.Node, error) {
		targets, err := slots.ParseConstructMarker(m, diag.TplDeclarationParse)
		if err != nil {
			return nil, err
		}
		var (
			out  []tree.Node
			errs diag.List
		)
		for _, tg := range targets {
			slot, ok := reg.Construction(tg.Name.Text)
			if !ok {
				errs.Add(slots.UnknownTarget(slots.KindConstruction, tg.Name.Text, tg.Name.Span, declared))
				continue
			}
			b := Placeholder(tg.Pattern, slot, d, m.Span)
			out = append(out, inject.ConstructAnnotation([]inject.Binding{b}, d, m.Span)...)
		}
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func substituteRewriter(reg *slots.Registry) subst.Rewriter {
	declared := reg.Names(slots.KindSubstitution)
	return func(m tree.Meta) ([]tree.Node, error) {
		name, err := slots.ParseSubstituteMarker(m, diag.TplDeclarationParse)
		if err != nil {
			return nil, err
		}
		if !reg.HasSubstitution(name.Text) {
			return nil, slots.UnknownTarget(slots.KindSubstitution, name.Text, name.Span, declared)
		}
		return nil, nil
	}
}

// Placeholder binds pattern to an unreachable value of the slot's type.
// An untyped slot gets the plain unreachable expression; its binding has no
// inferable type.
// Opaque slot types never get here, Declare rejects them.
func Placeholder(pattern []tree.Node, slot slots.ConstructionSlot, d dialect.Dialect, at source.Span) inject.Binding {
	b := inject.Binding{Pattern: pattern, Type: slot.Type}
	if slot.Typed() && !d.IsOpaque(slot.Type) {
		b.Expr = d.TypedUnreachableExpr(slot.Type, at)
	} else {
		b.Expr = d.UnreachableExpr(at)
	}
	return b
}

// Module wraps items into the guarded scaffold module of template name:
//
//	#[cfg(test)] #[allow(non_snake_case)] mod __stencil_check__NAME { items }
func Module(name string, items []tree.Node, d dialect.Dialect, at source.Span) []tree.Node {
	out := d.GuardAnnotations(at)
	out = append(out,
		tree.Word(d.ModKeyword, at),
		tree.Word(d.ScaffoldPrefix+name, at),
		tree.SynthGroup(tree.Brace, at, items),
	)
	return out
}
