package tree_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/tree"
)

func parse(t *testing.T, input string) ([]tree.Node, diag.List) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.stn", []byte(input)))
	var rep diag.ListReporter
	unit := tree.Parse(file, &rep, tree.Options{})
	return unit.Nodes, rep.List
}

func mustParse(t *testing.T, input string) []tree.Node {
	t.Helper()
	nodes, errs := parse(t, input)
	if len(errs) != 0 {
		t.Fatalf("%q: unexpected diagnostics: %v", input, errs)
	}
	return nodes
}

func codes(l diag.List) []diag.Code {
	out := make([]diag.Code, 0, len(l))
	for _, d := range l {
		out = append(out, d.Code)
	}
	return out
}

func TestBuildGroups(t *testing.T) {
	nodes := mustParse(t, "fn f(a: i32) { let x = [1, 2]; }")
	if len(nodes) != 4 {
		t.Fatalf("got %d top-level nodes, want 4: %s", len(nodes), tree.Print(nodes))
	}
	if !nodes[2].Is(tree.Paren) || !nodes[3].Is(tree.Brace) {
		t.Fatalf("unexpected group kinds: %v %v", nodes[2].Delim, nodes[3].Delim)
	}
	body := nodes[3].Children
	if got := len(body); got != 6 {
		t.Fatalf("body has %d nodes, want 6", got)
	}
	if !body[3].Is(tree.Bracket) || len(body[3].Children) != 3 {
		t.Fatalf("bracket group not built: %s", tree.PrintNode(body[3]))
	}
}

func TestPrintCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"fn   f ( a : i32 )\n{ }", "fn f (a : i32) {}"},
		{"#[ test ]", "# [test]"},
		{"// comment\nx", "x"},
		{"", ""},
	}
	for _, tc := range cases {
		got := tree.Print(mustParse(t, tc.in))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q: print mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestBuildUnclosed(t *testing.T) {
	nodes, errs := parse(t, "fn f() { let x = (1;")
	if diff := cmp.Diff([]diag.Code{diag.SynUnclosedDelimiter, diag.SynUnclosedDelimiter}, codes(errs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if got, want := tree.Print(nodes), "fn f () {let x = (1 ;)}"; got != want {
		t.Fatalf("repaired tree = %q, want %q", got, want)
	}
}

func TestBuildStrayCloser(t *testing.T) {
	nodes, errs := parse(t, "a ) b")
	if diff := cmp.Diff([]diag.Code{diag.SynUnbalancedCloser}, codes(errs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Print(nodes); got != "a b" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildMismatchedCloser(t *testing.T) {
	nodes, errs := parse(t, "{ ( }")
	if diff := cmp.Diff([]diag.Code{diag.SynUnclosedDelimiter}, codes(errs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Print(nodes); got != "{()}" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildNestingLimit(t *testing.T) {
	input := strings.Repeat("(", 10) + strings.Repeat(")", 10)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("deep.stn", []byte(input)))
	var rep diag.ListReporter
	unit := tree.Parse(file, &rep, tree.Options{MaxDepth: 4})
	if diff := cmp.Diff([]diag.Code{diag.SynNestingTooDeep}, codes(rep.List)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Depth(unit.Nodes); got != 10 {
		t.Fatalf("depth = %d, want 10", got)
	}
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := mustParse(t, "f(x, y)")
	b := mustParse(t, "  f ( x ,\n y )")
	if !tree.Equal(a, b) {
		t.Fatalf("expected equal forests")
	}
	c := mustParse(t, "f[x, y]")
	if tree.Equal(a, c) {
		t.Fatalf("different delimiters compared equal")
	}
}

func TestRespan(t *testing.T) {
	nodes := mustParse(t, "a (b [c])")
	anchor := source.Span{File: 7, Start: 1, End: 2}
	re := tree.Respan(nodes, anchor)
	var walk func([]tree.Node)
	walk = func(ns []tree.Node) {
		for _, n := range ns {
			if n.Tok.Span != anchor {
				t.Fatalf("span of %q not replaced", n.Tok.Text)
			}
			walk(n.Children)
		}
	}
	walk(re)
	if nodes[0].Tok.Span == anchor {
		t.Fatalf("Respan mutated its input")
	}
}

func TestSnippet(t *testing.T) {
	nodes, err := tree.Snippet("(|| -> $T { unreachable!() })()", source.Span{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := tree.Print(nodes), "(|| -> $ T {unreachable ! ()}) ()"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if _, err := tree.Snippet("(", source.Span{}); err == nil {
		t.Fatalf("expected error for unclosed snippet")
	}
}
