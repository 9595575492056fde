package tree_test

import (
	"testing"

	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

func TestParseMeta(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		path string
		kind tree.MetaKind
		args string
	}{
		{"#[test]", true, "test", tree.MetaPath, ""},
		{"#[__CONSTRUCT(n as NUM)]", true, "__CONSTRUCT", tree.MetaList, "n as NUM"},
		{"#[::stencil::construct(x = 1)]", true, "stencil::construct", tree.MetaList, "x = 1"},
		{"#[doc = \"hi\"]", true, "doc", tree.MetaNameValue, "\"hi\""},
		{"#[a(b) c]", false, "", 0, ""},
		{"#[(x)]", false, "", 0, ""},
		{"#[a::]", false, "", 0, ""},
		{"#[]", false, "", 0, ""},
	}
	for _, tc := range cases {
		nodes := mustParse(t, tc.in)
		bracket, ok := tree.MarkerAt(nodes, 0, token.Pound)
		if !ok {
			t.Fatalf("%q: marker not found", tc.in)
		}
		m, ok := tree.ParseMeta(nodes[0], bracket)
		if ok != tc.ok {
			t.Errorf("%q: ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if m.Path != tc.path || m.Kind != tc.kind {
			t.Errorf("%q: got %q/%v, want %q/%v", tc.in, m.Path, m.Kind, tc.path, tc.kind)
		}
		if got := tree.Print(m.Args); got != tc.args {
			t.Errorf("%q: args = %q, want %q", tc.in, got, tc.args)
		}
		if m.Span != tree.SpanOf(nodes) {
			t.Errorf("%q: span %v does not cover the marker %v", tc.in, m.Span, tree.SpanOf(nodes))
		}
	}
}

func TestMarkerAtRequiresBracket(t *testing.T) {
	nodes := mustParse(t, "# (x) #")
	if _, ok := tree.MarkerAt(nodes, 0, token.Pound); ok {
		t.Fatalf("paren group accepted as marker")
	}
	if _, ok := tree.MarkerAt(nodes, 2, token.Pound); ok {
		t.Fatalf("trailing marker punct accepted")
	}
}

func TestAttribute(t *testing.T) {
	args := mustParse(t, "x: i32 = 1")
	got := tree.Print(tree.Attribute(token.Pound, "stencil::construct", args, source.Span{}))
	if want := "# [stencil :: construct (x : i32 = 1)]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := tree.Print(tree.Attribute(token.Pound, "test", nil, source.Span{})); got != "# [test]" {
		t.Fatalf("got %q", got)
	}
}
