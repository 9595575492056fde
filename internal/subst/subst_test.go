package subst_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/subst"
	"stencil/internal/token"
	"stencil/internal/tree"
)

func snippet(t *testing.T, text string) []tree.Node {
	t.Helper()
	nodes, err := tree.Snippet(text, source.Span{})
	if err != nil {
		t.Fatalf("snippet %q: %v", text, err)
	}
	return nodes
}

func constant(t *testing.T, text string) subst.Rewriter {
	nodes := snippet(t, text)
	return func(tree.Meta) ([]tree.Node, error) { return nodes, nil }
}

func TestSubstituteBasic(t *testing.T) {
	input := snippet(t, `
		#[foo]
		mod a_mod {
			#[foo]
			#[not_in_map]
			#[bar]
			struct a_struct {
				#[baz(#[zab])]
				a_field: i32,
			}
			impl a_struct {
				#[bar]
				#[foo]
				fn an_fn() {}
			}
		}`)
	table := subst.Table{
		"foo": constant(t, "#[oof]"),
		"bar": constant(t, "#[bar_1] #[bar_2]"),
		"baz": func(m tree.Meta) ([]tree.Node, error) { return m.Args, nil },
	}
	expected := snippet(t, `
		#[oof]
		mod a_mod {
			#[oof]
			#[not_in_map]
			#[bar_1]
			#[bar_2]
			struct a_struct {
				#[zab]
				a_field: i32,
			}
			impl a_struct {
				#[bar_1]
				#[bar_2]
				#[oof]
				fn an_fn() {}
			}
		}`)

	got, err := subst.Substitute(input, table, token.Pound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(tree.Print(expected), tree.Print(got)); diff != "" {
		t.Fatalf("substitution mismatch (-want +got):\n%s", diff)
	}
}

func erroring(m tree.Meta) ([]tree.Node, error) {
	return nil, diag.Errorf(diag.TplUnknownTargetName, m.PathSpan, "errored")
}

func TestSubstituteSingleError(t *testing.T) {
	_, err := subst.Substitute(snippet(t, "#[errored] mod foo {}"), subst.Table{"errored": erroring}, token.Pound)
	ds := diag.Collect(err)
	if len(ds) != 1 || ds[0].Message != "errored" {
		t.Fatalf("got %v", err)
	}
}

func TestSubstituteAggregatesErrors(t *testing.T) {
	input := snippet(t, "#[errored] mod foo { #[errored] fn bar() {} } mod baz { fn q() { #[errored] let x = 1; } }")
	got, err := subst.Substitute(input, subst.Table{"errored": erroring}, token.Pound)
	if got != nil {
		t.Fatalf("expected no output on error, got %s", tree.Print(got))
	}
	var list diag.List
	if !errors.As(err, &list) {
		t.Fatalf("expected diag.List, got %T", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d errors, want 3", len(list))
	}
	for _, d := range list {
		if d.Message != "errored" {
			t.Errorf("unexpected message %q", d.Message)
		}
	}
}

func TestSubstituteDeepMarkerKeepsSiblingOrder(t *testing.T) {
	input := snippet(t, "a (b [c { d #[deep] e } f] g) h")
	got, err := subst.Substitute(input, subst.Table{"deep": constant(t, "X Y")}, token.Pound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "a (b [c {d X Y e} f] g) h"; tree.Print(got) != want {
		t.Fatalf("got %q, want %q", tree.Print(got), want)
	}
}

func TestSubstituteInertMarkers(t *testing.T) {
	cases := []string{
		"#[unknown] fn f() {}",
		"#[a(b) c] fn f() {}",
		"#[doc = \"text\"] fn f() {}",
		"# (x)",
		"x #",
		"#[outer(#[foo])]",
	}
	table := subst.Table{"foo": constant(t, "#[oof]")}
	for _, in := range cases {
		input := snippet(t, in)
		got, err := subst.Substitute(input, table, token.Pound)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if !tree.Equal(input, got) {
			t.Errorf("%q: changed to %q", in, tree.Print(got))
		}
	}
}

func TestSubstituteDoesNotMutateInput(t *testing.T) {
	input := snippet(t, "mod m { #[foo] fn f() {} }")
	before := tree.Print(input)
	if _, err := subst.Substitute(input, subst.Table{"foo": constant(t, "")}, token.Pound); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Print(input) != before {
		t.Fatalf("input was mutated: %q", tree.Print(input))
	}
}

func TestCount(t *testing.T) {
	input := snippet(t, "#[a] mod m { #[b] fn f() { #[a] x } #[c] }")
	table := subst.Table{"a": constant(t, ""), "b": constant(t, "")}
	if got := subst.Count(input, table, token.Pound); got != 3 {
		t.Fatalf("Count = %d, want 3", got)
	}
}
