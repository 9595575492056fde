package driver

import (
	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/inject"
	"stencil/internal/template"
	"stencil/internal/tree"
)

// declare replaces every `#[define(...)] mod __ { ... }` with its scaffold
// and registers the template. A failed declaration is reported and dropped;
// the rest of the file is still processed.
func (x *expander) declare(nodes []tree.Node) []tree.Node {
	out := make([]tree.Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if bracket, ok := tree.MarkerAt(nodes, i, x.marker); ok {
			if m, ok := tree.ParseMeta(n, bracket); ok && x.d.Is(m.Path, dialect.DefineAttr) {
				end := inject.ItemEnd(nodes, i+2)
				if tpl := x.register(m, nodes[i+2:end]); tpl != nil {
					out = append(out, carryLeading(tpl.Scaffold, n.Tok.Leading)...)
				}
				i = end - 1
				continue
			}
		}
		if n.IsGroup() {
			n = n.WithChildren(x.declare(n.Children))
		}
		out = append(out, n)
	}
	return out
}

func (x *expander) register(m tree.Meta, item []tree.Node) *template.Template {
	tpl, err := template.Declare(m, item, x.d)
	if err != nil {
		x.bag.AddErr(err)
		return nil
	}
	if prev, ok := x.templates[tpl.Name]; ok {
		x.bag.AddErr(diag.Errorf(diag.TplDuplicateName, m.Span,
			"template `%s` is declared more than once", tpl.Name).
			WithNote(prev.Span, "first declared here"))
		return nil
	}
	x.templates[tpl.Name] = tpl
	x.insts.Declare(tpl.Name, m.Span)
	return tpl
}
