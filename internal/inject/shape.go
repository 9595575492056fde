package inject

import (
	"fmt"

	"stencil/internal/diag"
	"stencil/internal/dialect"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// fnShape holds indices into an item: the fn keyword, its parameter list and its body.
type fnShape struct {
	fn     int
	params int
	body   int
}

// locate finds the function parts of item. The parameter list is the first
// paren group after the keyword outside of generic brackets; the body is the
// first brace group after it.
func locate(item []tree.Node, d dialect.Dialect, at source.Span) (fnShape, error) {
	sh := fnShape{fn: -1, params: -1, body: -1}
	for i, n := range item {
		if n.IsWord(d.FnKeyword) {
			sh.fn = i
			break
		}
	}
	if sh.fn < 0 {
		return sh, shapeError(at, "this attribute can only be applied to an `%s`", d.FnKeyword)
	}
	angles := 0
	for i := sh.fn + 1; i < len(item); i++ {
		n := item[i]
		switch {
		case n.IsPunct(token.Lt):
			angles++
		case n.IsPunct(token.Gt) && angles > 0:
			angles--
		case n.IsPunct(token.Shr) && angles > 0:
			angles = max(angles-2, 0)
		case angles == 0 && n.Is(tree.Paren):
			sh.params = i
		}
		if sh.params >= 0 {
			break
		}
	}
	if sh.params < 0 {
		return sh, shapeError(at, "function parameter list not found")
	}
	for i := sh.params + 1; i < len(item); i++ {
		if item[i].Is(tree.Brace) {
			sh.body = i
			break
		}
	}
	if sh.body < 0 {
		return sh, shapeError(at, "function body not found")
	}
	return sh, nil
}

func shapeError(at source.Span, format string, args ...any) *diag.Error {
	return diag.Errorf(diag.TplStructuralShape, at, "%s", fmt.Sprintf(format, args...))
}

// replaceAt returns a copy of item with item[i] replaced by n.
func replaceAt(item []tree.Node, i int, n tree.Node) []tree.Node {
	out := make([]tree.Node, len(item))
	copy(out, item)
	out[i] = n
	return out
}
