package tree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

func printParts(parts [][]tree.Node) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, tree.Print(p))
	}
	return out
}

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		in   string
		mode tree.AngleMode
		want []string
	}{
		{"plain", "a, b, c", tree.AnglesIgnored, []string{"a", "b", "c"}},
		{"trailing comma", "a, b,", tree.AnglesIgnored, []string{"a", "b"}},
		{"empty element", "a,, b", tree.AnglesIgnored, []string{"a", "", "b"}},
		{"groups are opaque", "f(a, b), [c, d]", tree.AnglesIgnored, []string{"f (a , b)", "[c , d]"}},
		{"generic type", "HashMap<K, V>, u8", tree.AnglesGeneric, []string{"HashMap < K , V >", "u8"}},
		{"nested generic", "Vec<Vec<u8>>, i32", tree.AnglesGeneric, []string{"Vec < Vec < u8 >>", "i32"}},
		{"fn arrow", "impl Fn(u8) -> u8, x", tree.AnglesGeneric, []string{"impl Fn (u8) -> u8", "x"}},
		{"comparison in expr", "a < b, c > d", tree.AnglesTurbofish, []string{"a < b", "c > d"}},
		{"turbofish", "f::<A, B>(), c", tree.AnglesTurbofish, []string{"f :: < A , B > ()", "c"}},
		{"closure params", "|a, b| a + b, c", tree.AnglesTurbofish, []string{"| a , b | a + b", "c"}},
		{"move closure", "x => move |a: Vec<u8>, b| a.len() | b, y", tree.AnglesTurbofish, []string{"x => move | a : Vec < u8 > , b | a . len () | b", "y"}},
		{"bitwise or", "a | b, c", tree.AnglesTurbofish, []string{"a | b", "c"}},
		{"empty", "", tree.AnglesIgnored, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := printParts(tree.Split(mustParse(t, tc.in), token.Comma, tc.mode))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStreamExpect(t *testing.T) {
	nodes := mustParse(t, "NAME -> i32 { x }")
	s := tree.NewStream(nodes, source.Span{})
	name, err := s.ExpectIdent(diag.TplDeclarationParse, "a name")
	if err != nil || name.Text != "NAME" {
		t.Fatalf("ExpectIdent = %q, %v", name.Text, err)
	}
	if s.EatPunct(token.Comma) {
		t.Fatalf("EatPunct consumed a non-matching token")
	}
	if _, err := s.ExpectPunct(token.Arrow, diag.TplDeclarationParse); err != nil {
		t.Fatalf("ExpectPunct: %v", err)
	}
	if !s.EatWord("i32") {
		t.Fatalf("EatWord failed")
	}
	if _, err := s.ExpectGroup(tree.Paren, diag.TplDeclarationParse, "`(`"); err == nil {
		t.Fatalf("expected error for brace group")
	}
	if _, err := s.ExpectGroup(tree.Brace, diag.TplDeclarationParse, "`{`"); err != nil {
		t.Fatalf("ExpectGroup: %v", err)
	}
	if err := s.ExpectEnd(diag.TplDeclarationParse); err != nil {
		t.Fatalf("ExpectEnd: %v", err)
	}
	_, err = s.ExpectIdent(diag.TplDeclarationParse, "a name")
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %T", err)
	}
	if de.Diag.Code != diag.TplDeclarationParse || de.Diag.Message != "expected a name, found end of input" {
		t.Fatalf("unexpected diagnostic: %+v", de.Diag)
	}
}

func TestStreamUntil(t *testing.T) {
	nodes := mustParse(t, "x: HashMap<K, V> = 1, y = 2")
	s := tree.NewStream(nodes, source.Span{})
	s.Next()
	s.EatPunct(token.Colon)
	ty := s.Until(tree.AnglesGeneric, func(n tree.Node) bool {
		return n.IsPunct(token.Assign) || n.IsPunct(token.Comma)
	})
	if got := tree.Print(ty); got != "HashMap < K , V >" {
		t.Fatalf("type = %q", got)
	}
	if !s.EatPunct(token.Assign) {
		t.Fatalf("stopped at the wrong token")
	}
	if got := tree.Print(s.Rest()); got != "1 , y = 2" {
		t.Fatalf("rest = %q", got)
	}
	if !s.AtEnd() {
		t.Fatalf("Rest did not exhaust the stream")
	}
}
