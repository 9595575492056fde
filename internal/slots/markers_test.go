package slots_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/slots"
	"stencil/internal/token"
	"stencil/internal/tree"
)

func meta(t *testing.T, text string) tree.Meta {
	t.Helper()
	ns := nodes(t, text)
	bracket, ok := tree.MarkerAt(ns, 0, token.Pound)
	if !ok {
		t.Fatalf("%q is not an annotation", text)
	}
	m, ok := tree.ParseMeta(ns[0], bracket)
	if !ok {
		t.Fatalf("%q does not parse as meta", text)
	}
	return m
}

func TestParseConstructMarker(t *testing.T) {
	targets, err := slots.ParseConstructMarker(meta(t, "#[__CONSTRUCT(foo as FOO, mut n as NUM, (a, b) as PAIR, _ as UNUSED,)]"), diag.TplDeclarationParse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	type view struct{ Pattern, Name string }
	var got []view
	for _, tg := range targets {
		got = append(got, view{tree.Print(tg.Pattern), tg.Name.Text})
	}
	want := []view{{"foo", "FOO"}, {"mut n", "NUM"}, {"(a , b)", "PAIR"}, {"_", "UNUSED"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConstructMarkerErrors(t *testing.T) {
	cases := []struct {
		in  string
		msg string
	}{
		{"#[__CONSTRUCT]", "expected `__CONSTRUCT(pattern as NAME, ...)`"},
		{"#[__CONSTRUCT()]", "expected at least one `pattern as NAME`"},
		{"#[__CONSTRUCT(foo)]", "expected `pattern as NAME`"},
		{"#[__CONSTRUCT(as FOO)]", "expected a pattern before `as`"},
		{"#[__CONSTRUCT(foo as)]", "expected a target name after `as`, found end of input"},
		{"#[__CONSTRUCT(foo as FOO BAR)]", "unexpected `BAR`"},
	}
	for _, tc := range cases {
		_, err := slots.ParseConstructMarker(meta(t, tc.in), diag.TplDefinitionParse)
		d := singleDiag(t, err)
		if d.Code != diag.TplDefinitionParse || d.Message != tc.msg {
			t.Errorf("%s: got %s %q, want %q", tc.in, d.Code.ID(), d.Message, tc.msg)
		}
	}
}

func TestParseSubstituteMarker(t *testing.T) {
	name, err := slots.ParseSubstituteMarker(meta(t, "#[__SUBSTITUTE(CHECK)]"), diag.TplDeclarationParse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name.Text != "CHECK" {
		t.Fatalf("name = %q, want CHECK", name.Text)
	}
	for _, in := range []string{"#[__SUBSTITUTE]", "#[__SUBSTITUTE()]", "#[__SUBSTITUTE(A, B)]", "#[__SUBSTITUTE(1)]"} {
		if _, err := slots.ParseSubstituteMarker(meta(t, in), diag.TplDeclarationParse); err == nil {
			t.Errorf("%s: expected an error", in)
		}
	}
}
