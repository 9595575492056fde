package inject

import (
	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// Binding is one `pattern [: Type] = expr` triple.
type Binding struct {
	Pattern []tree.Node
	Type    []tree.Node // nil when untyped
	Expr    []tree.Node
}

// Construct prepends one local binding per entry to the body of the function
// item, in order. An opaque type (`impl Trait`) is enforced through a local
// helper whose return type is exactly that type:
//
//	let pat = { fn type_checked() -> impl Trait { expr } type_checked() };
//
// at anchors shape errors.
func Construct(item []tree.Node, bindings []Binding, d dialect.Dialect, at source.Span) ([]tree.Node, error) {
	sh, err := locate(item, d, at)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return item, nil
	}
	body := item[sh.body]
	stmts := make([]tree.Node, 0, len(body.Children)+len(bindings)*8)
	for _, b := range bindings {
		stmts = append(stmts, letStatement(b, d, at)...)
	}
	stmts = append(stmts, body.Children...)
	return replaceAt(item, sh.body, body.WithChildren(stmts)), nil
}

func letStatement(b Binding, d dialect.Dialect, at source.Span) []tree.Node {
	out := []tree.Node{tree.Word(d.LetKeyword, at)}
	out = append(out, b.Pattern...)
	value := b.Expr
	switch {
	case d.IsOpaque(b.Type):
		value = typeChecked(b.Type, b.Expr, d, at)
	case len(b.Type) > 0:
		out = append(out, tree.Punct(token.Colon, at))
		out = append(out, b.Type...)
	}
	out = append(out, tree.Punct(token.Assign, at))
	out = append(out, value...)
	return append(out, tree.Punct(token.Semicolon, at))
}

// typeChecked builds `{ fn NAME() -> T { expr } NAME() }`.
func typeChecked(ty, expr []tree.Node, d dialect.Dialect, at source.Span) []tree.Node {
	var inner []tree.Node
	inner = append(inner,
		tree.Word(d.FnKeyword, at),
		tree.Word(d.TypeCheckedFn, at),
		tree.SynthGroup(tree.Paren, at, nil),
		tree.Punct(token.Arrow, at),
	)
	inner = append(inner, ty...)
	inner = append(inner,
		tree.SynthGroup(tree.Brace, at, expr),
		tree.Word(d.TypeCheckedFn, at),
		tree.SynthGroup(tree.Paren, at, nil),
	)
	return []tree.Node{tree.SynthGroup(tree.Brace, at, inner)}
}

// ParseBindings parses `pat [: T] = expr, ...`. A top-level `,` ends an
// expression; inside the type, commas between angle brackets do not.
func ParseBindings(args []tree.Node, end source.Span) ([]Binding, error) {
	const code = diag.TplDefinitionParse
	s := tree.NewStream(args, end)
	var out []Binding
	for !s.AtEnd() {
		start := s.Span()
		pat := s.Until(tree.AnglesIgnored, func(n tree.Node) bool {
			return n.IsPunct(token.Colon) || n.IsPunct(token.Assign) || n.IsPunct(token.Comma)
		})
		if len(pat) == 0 {
			return nil, diag.Errorf(code, start, "expected a pattern")
		}
		var b Binding
		b.Pattern = pat
		if colon, ok := s.Peek(); ok && colon.IsPunct(token.Colon) {
			s.Next()
			b.Type = s.Until(tree.AnglesGeneric, func(n tree.Node) bool {
				return n.IsPunct(token.Assign) || n.IsPunct(token.Comma)
			})
			if len(b.Type) == 0 {
				return nil, diag.Errorf(code, colon.Span(), "expected a type after `:`")
			}
		}
		if !s.EatPunct(token.Assign) {
			return nil, diag.Errorf(code, s.Span(), "expected `=` after `%s`", tree.Print(pat))
		}
		eq := s.Span()
		b.Expr = s.Until(tree.AnglesTurbofish, func(n tree.Node) bool { return n.IsPunct(token.Comma) })
		if len(b.Expr) == 0 {
			return nil, diag.Errorf(code, eq, "expected an expression")
		}
		out = append(out, b)
		s.EatPunct(token.Comma)
	}
	return out, nil
}

// BindingArgs renders bindings back into `pat: T = expr, ...` form.
func BindingArgs(bindings []Binding, at source.Span) []tree.Node {
	var out []tree.Node
	for i, b := range bindings {
		if i > 0 {
			out = append(out, tree.Punct(token.Comma, at))
		}
		out = append(out, b.Pattern...)
		if len(b.Type) > 0 {
			out = append(out, tree.Punct(token.Colon, at))
			out = append(out, b.Type...)
		}
		out = append(out, tree.Punct(token.Assign, at))
		out = append(out, b.Expr...)
	}
	return out
}

// ConstructAnnotation builds `#[ns::construct(bindings)]`.
func ConstructAnnotation(bindings []Binding, d dialect.Dialect, at source.Span) []tree.Node {
	return tree.Attribute(d.MarkerKind(), d.Qualified(dialect.ConstructAttr), BindingArgs(bindings, at), at)
}
