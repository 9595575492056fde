package tree

import (
	"stencil/internal/diag"
	"stencil/internal/source"
)

// Snippet parses a short piece of host code (a dialect template, a guard
// attribute) and respans it to anchor. Lexical and delimiter problems are
// returned as a diag.List.
func Snippet(text string, anchor source.Span) ([]Node, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<snippet>", []byte(text)))
	var rep diag.ListReporter
	unit := Parse(file, &rep, Options{})
	if err := rep.Err(); err != nil {
		return nil, err
	}
	return Respan(unit.Nodes, anchor), nil
}

// MustSnippet is Snippet for text known to be well-formed.
func MustSnippet(text string, anchor source.Span) []Node {
	nodes, err := Snippet(text, anchor)
	if err != nil {
		panic("tree: bad snippet " + text + ": " + err.Error())
	}
	return nodes
}
