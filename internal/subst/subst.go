// Package subst rewrites marker annotations in a token tree.
//
// The walker is shared by both expansion phases: the scaffold generator and
// the instantiation each pass their own Table over the same template body.
// Annotations whose path is not in the table are left alone, so several
// tables can process one tree in turn.
package subst

import (
	"stencil/internal/diag"
	"stencil/internal/token"
	"stencil/internal/tree"
)

// Rewriter produces the nodes that replace one marker annotation.
type Rewriter func(m tree.Meta) ([]tree.Node, error)

// Table maps an annotation path (segments joined by "::") to its rewriter.
type Table map[string]Rewriter

// Substitute walks nodes left to right and replaces every marker annotation
// whose path is in table. Groups are walked recursively; rewriter output is
// spliced in as is. Errors from all rewriters are collected in traversal
// order and returned together as a diag.List; on error no nodes are returned.
func Substitute(nodes []tree.Node, table Table, marker token.Kind) ([]tree.Node, error) {
	w := walker{table: table, marker: marker}
	out := w.walk(nodes)
	if err := w.errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type walker struct {
	table  Table
	marker token.Kind
	errs   diag.List
}

func (w *walker) walk(nodes []tree.Node) []tree.Node {
	out := make([]tree.Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if bracket, ok := tree.MarkerAt(nodes, i, w.marker); ok {
			i++
			repl, matched, err := w.rewrite(n, bracket)
			switch {
			case !matched:
				out = append(out, n, bracket)
			case err != nil:
				w.errs.Add(err)
			default:
				out = append(out, repl...)
			}
			continue
		}
		if n.IsGroup() {
			out = append(out, n.WithChildren(w.walk(n.Children)))
			continue
		}
		out = append(out, n)
	}
	return out
}

func (w *walker) rewrite(marker, bracket tree.Node) ([]tree.Node, bool, error) {
	m, ok := tree.ParseMeta(marker, bracket)
	if !ok {
		return nil, false, nil
	}
	rw, ok := w.table[m.Path]
	if !ok {
		return nil, false, nil
	}
	repl, err := rw(m)
	return repl, true, err
}

// Count reports how many marker annotations in nodes (at any depth) have a
// path present in table. Pass-through brackets are not searched.
func Count(nodes []tree.Node, table Table, marker token.Kind) int {
	count := 0
	for i := 0; i < len(nodes); i++ {
		if bracket, ok := tree.MarkerAt(nodes, i, marker); ok {
			i++
			if m, ok := tree.ParseMeta(nodes[i-1], bracket); ok {
				if _, ok := table[m.Path]; ok {
					count++
				}
			}
			continue
		}
		if nodes[i].IsGroup() {
			count += Count(nodes[i].Children, table, marker)
		}
	}
	return count
}
