package inject

import (
	"stencil/internal/dialect"
	"stencil/internal/slots"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// ExtendParameterList appends ext.Params to the parameter list of the
// function item. A separating comma is inserted unless the list is empty or
// already ends with one. A no-op extension returns item unchanged.
func ExtendParameterList(item []tree.Node, ext slots.Extension, d dialect.Dialect, at source.Span) ([]tree.Node, error) {
	sh, err := locate(item, d, at)
	if err != nil {
		return nil, err
	}
	if ext.IsNoop() {
		return item, nil
	}
	switch ext.Direction {
	case slots.Append:
	default:
		panic("inject: unknown parameter-list direction")
	}
	params := item[sh.params]
	children := make([]tree.Node, 0, len(params.Children)+len(ext.Params)+1)
	children = append(children, params.Children...)
	if n := len(children); n > 0 && !children[n-1].IsPunct(token.Comma) {
		children = append(children, tree.Punct(token.Comma, at))
	}
	children = append(children, ext.Params...)
	return replaceAt(item, sh.params, params.WithChildren(children)), nil
}

// ExtendAnnotation builds `#[ns::extend_parameter_list(.., params)]`.
func ExtendAnnotation(ext slots.Extension, d dialect.Dialect, at source.Span) []tree.Node {
	args := []tree.Node{tree.Punct(token.DotDot, at)}
	if !ext.IsNoop() {
		args = append(args, tree.Punct(token.Comma, at))
		args = append(args, ext.Params...)
	}
	return tree.Attribute(d.MarkerKind(), d.Qualified(dialect.ExtendAttr), args, at)
}
