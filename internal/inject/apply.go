package inject

import (
	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/slots"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// Apply finds every `construct` and `extend_parameter_list` annotation (bare
// or namespaced) and applies it to the item that follows. The item runs up to
// and including the first brace group or `;` at the same level. Stacked
// annotations are applied innermost first. All errors are collected; on
// error no nodes are returned.
func Apply(nodes []tree.Node, d dialect.Dialect) ([]tree.Node, error) {
	a := applier{d: d, marker: d.MarkerKind()}
	out := a.seq(nodes)
	if err := a.errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type applier struct {
	d      dialect.Dialect
	marker token.Kind
	errs   diag.List
}

func (a *applier) seq(nodes []tree.Node) []tree.Node {
	out := make([]tree.Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if bracket, ok := tree.MarkerAt(nodes, i, a.marker); ok {
			if m, ok := tree.ParseMeta(n, bracket); ok && a.isItemAnnotation(m.Path) {
				end := ItemEnd(nodes, i+2)
				item := a.seq(nodes[i+2 : end])
				res, err := a.apply(m, item)
				if err != nil {
					a.errs.Add(err)
				} else {
					out = append(out, res...)
				}
				i = end - 1
				continue
			}
		}
		if n.IsGroup() {
			n = n.WithChildren(a.seq(n.Children))
		}
		out = append(out, n)
	}
	return out
}

func (a *applier) isItemAnnotation(path string) bool {
	return a.d.Is(path, dialect.ConstructAttr) || a.d.Is(path, dialect.ExtendAttr)
}

func (a *applier) apply(m tree.Meta, item []tree.Node) ([]tree.Node, error) {
	if m.Kind == tree.MetaNameValue {
		return nil, diag.Errorf(diag.TplDefinitionParse, m.Span, "expected `%s(...)`", m.Path)
	}
	if a.d.Is(m.Path, dialect.ConstructAttr) {
		bindings, err := ParseBindings(m.Args, m.Span)
		if err != nil {
			return nil, err
		}
		return Construct(item, bindings, a.d, m.Span)
	}
	if m.Kind == tree.MetaPath {
		return nil, diag.Errorf(diag.TplDefinitionParse, m.Span, "expected `%s(..)`", m.Path)
	}
	ext, err := slots.ParseExtension(m.Args, m.Span)
	if err != nil {
		return nil, err
	}
	return ExtendParameterList(item, ext, a.d, m.Span)
}

// ItemEnd returns the index just past the item starting at start: the first
// brace group or `;` at the same level, inclusive.
func ItemEnd(nodes []tree.Node, start int) int {
	for j := start; j < len(nodes); j++ {
		if nodes[j].Is(tree.Brace) || nodes[j].IsPunct(token.Semicolon) {
			return j + 1
		}
	}
	return len(nodes)
}
