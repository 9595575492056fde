package driver

import (
	"slices"

	"stencil/internal/diag"
	"stencil/internal/mono"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// instantiate replaces `NAME! { ... }` (also `NAME!( ... );` and
// `NAME![ ... ];`) for every declared NAME with the expanded module.
// Invocations of unknown names are host macros and pass through.
// Expanded output is walked again so templates may instantiate other
// templates; active names in stack stop self-instantiation.
func (x *expander) instantiate(nodes []tree.Node, stack []string) []tree.Node {
	out := make([]tree.Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if name, ok := x.invocationAt(nodes, i); ok {
			end := i + 3
			if end < len(nodes) && nodes[end].IsPunct(token.Semicolon) {
				end++
			}
			span := n.Span().Cover(nodes[i+2].Span())
			if expanded, ok := x.expandOne(name, nodes[i+2], span, stack); ok {
				out = append(out, carryLeading(expanded, n.Tok.Leading)...)
			}
			i = end - 1
			continue
		}
		if n.IsGroup() {
			n = n.WithChildren(x.instantiate(n.Children, stack))
		}
		out = append(out, n)
	}
	return out
}

// invocationAt reports whether nodes[i:] starts an invocation of a declared
// template and returns its name.
func (x *expander) invocationAt(nodes []tree.Node, i int) (string, bool) {
	if i+2 >= len(nodes) || !nodes[i].IsIdent() || !nodes[i+1].IsPunct(token.Bang) || !nodes[i+2].IsGroup() {
		return "", false
	}
	// `a.NAME!` or `x::NAME!` are not ours.
	if i > 0 && (nodes[i-1].IsPunct(token.Dot) || nodes[i-1].IsPunct(token.ColonColon)) {
		return "", false
	}
	name := nodes[i].Tok.Text
	_, declared := x.templates[name]
	return name, declared
}

// expandOne instantiates name at span. The use is recorded even when the
// invocation is rejected, so a broken invocation does not also make the
// template look unused.
func (x *expander) expandOne(name string, payload tree.Node, span source.Span, stack []string) ([]tree.Node, bool) {
	if slices.Contains(stack, name) {
		x.bag.AddErr(diag.Errorf(diag.TplDefinitionParse, span,
			"template `%s` instantiates itself", name))
		return nil, false
	}
	tpl := x.templates[name]
	inv, err := mono.ParseInvocation(payload.Children, span, x.d)
	x.insts.Record(name, mono.UseSite{Span: span, Module: inv.ModuleName()})
	if err != nil {
		x.bag.AddErr(err)
		return nil, false
	}
	expanded, err := mono.Monomorphize(tpl, inv, x.d)
	if err != nil {
		x.bag.AddErr(err)
		return nil, false
	}
	return x.instantiate(expanded, append(slices.Clone(stack), name)), true
}
