package slots_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/slots"
	"stencil/internal/token"
	"stencil/internal/tree"
)

func TestParseConstructions(t *testing.T) {
	defs, err := slots.ParseConstructions(group(t, "{ NUM => 41 + 1, V => Vec::<u8, A>::new(), OP => |a, b| a + b, S => crate::Sumer{}, }"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]string{}
	var order []string
	for _, d := range defs {
		got[d.Name] = tree.Print(d.Expr)
		order = append(order, d.Name)
	}
	want := map[string]string{
		"NUM": "41 + 1",
		"V":   "Vec :: < u8 , A > :: new ()",
		"OP":  "| a , b | a + b",
		"S":   "crate :: Sumer {}",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"NUM", "V", "OP", "S"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConstructionsErrors(t *testing.T) {
	cases := []struct {
		in   string
		code diag.Code
		msg  string
	}{
		{"{ X => }", diag.TplDefinitionParse, "expected an expression after `=>`"},
		{"{ X = 1 }", diag.TplDefinitionParse, "expected `=>`, found `=`"},
		{"{ X => 1, X => 2 }", diag.TplDuplicateName, "duplicate target name `X`"},
		{"{ 1 => X }", diag.TplDefinitionParse, "expected a construction name, found `1`"},
	}
	for _, tc := range cases {
		_, err := slots.ParseConstructions(group(t, tc.in))
		d := singleDiag(t, err)
		if d.Code != tc.code || d.Message != tc.msg {
			t.Errorf("%q: got %v %q, want %v %q", tc.in, d.Code, d.Message, tc.code, tc.msg)
		}
	}
}

func TestParseSubstitutions(t *testing.T) {
	in := "{ TEST => #[test], BAZ => #[::baz::baz] #[ignore] (.., qux: crate::Qux), EXT => (.., a: A, b: B), NOOP => (..) }"
	defs, err := slots.ParseSubstitutions(group(t, in), token.Pound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	type view struct {
		Name        string
		Annotations []string
		Params      string
		HasExt      bool
	}
	var got []view
	for _, d := range defs {
		v := view{Name: d.Name}
		for _, a := range d.Annotations {
			v.Annotations = append(v.Annotations, tree.Print(a))
		}
		if d.Extension != nil {
			v.HasExt = true
			v.Params = tree.Print(d.Extension.Params)
		}
		got = append(got, v)
	}
	want := []view{
		{Name: "TEST", Annotations: []string{"# [test]"}},
		{Name: "BAZ", Annotations: []string{"# [:: baz :: baz]", "# [ignore]"}, Params: "qux : crate :: Qux", HasExt: true},
		{Name: "EXT", Params: "a : A , b : B", HasExt: true},
		{Name: "NOOP"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSubstitutionsErrors(t *testing.T) {
	cases := []struct {
		in   string
		code diag.Code
		msg  string
	}{
		{"{ X => }", diag.TplDefinitionParse, "consider rewriting this entry as `X => (..)`, to make the right side of the arrow not be empty"},
		{"{ X => (a: A) }", diag.TplDefinitionParse, "unsupported parameter-list direction `a`, only `..` (append) is supported"},
		{"{ X => () }", diag.TplDefinitionParse, "expected `..` to start a parameter-list extension"},
		{"{ X => (.. a: A) }", diag.TplDefinitionParse, "expected `,`, found `a`"},
		{"{ X => #[test] junk }", diag.TplDefinitionParse, "unexpected `junk`"},
		{"{ X => #[a], X => #[b] }", diag.TplDuplicateName, "duplicate target name `X`"},
	}
	for _, tc := range cases {
		_, err := slots.ParseSubstitutions(group(t, tc.in), token.Pound)
		d := singleDiag(t, err)
		if d.Code != tc.code || d.Message != tc.msg {
			t.Errorf("%q: got %v %q, want %v %q", tc.in, d.Code, d.Message, tc.code, tc.msg)
		}
	}
}

func TestParseExtension(t *testing.T) {
	ext, err := slots.ParseExtension(nodes(t, ".."), group(t, "()").Close.Span)
	if err != nil || !ext.IsNoop() || ext.Direction != slots.Append {
		t.Fatalf("`..` = %+v, %v", ext, err)
	}
	ext, err = slots.ParseExtension(nodes(t, ".., mut input: i32, output: &mut i32"), group(t, "()").Close.Span)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.Print(ext.Params); got != "mut input : i32 , output : & mut i32" {
		t.Fatalf("params = %q", got)
	}
}
