package directive

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/lexer"
	"stencil/internal/source"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		text string
		args []string
		ok   bool
	}{
		{"/// expect: TPL3004", []string{"TPL3004"}, true},
		{"/// expect: TPL3004, TPL3005 ,", []string{"TPL3004", "TPL3005"}, true},
		{"/// expect:", nil, false},
		{"/// plain doc comment", nil, false},
		{"/// bench: x", nil, false},
		{"// expect: TPL3004", nil, false},
	}
	for _, tt := range tests {
		_, args, ok := parseDirective(tt.text)
		if ok != tt.ok || !cmp.Equal(args, tt.args) {
			t.Errorf("parseDirective(%q) = %v, %v; want %v, %v", tt.text, args, ok, tt.args, tt.ok)
		}
	}
}

func TestCollectFromTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.rs.stn", []byte("/// expect: TPL3004, TPL3005\nfoo\n// expect: TPL3001\nbar /// expect: TPL3007\nbaz\n")))
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(4)}})

	reg := NewRegistry()
	reg.CollectFromTokens(tokens, file)
	all := reg.All()
	if reg.Len() != 3 || len(all) != 3 {
		t.Fatalf("scenarios = %+v", all)
	}
	var codes []string
	for _, s := range all {
		codes = append(codes, s.Code)
	}
	if diff := cmp.Diff([]string{"TPL3004", "TPL3005", "TPL3007"}, codes); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	if fs.Slice(all[0].Target) != "foo" || fs.Slice(all[2].Target) != "baz" {
		t.Fatalf("targets = %q, %q", fs.Slice(all[0].Target), fs.Slice(all[2].Target))
	}
	if all[1].Index != 1 || all[1].Name() != "expect_TPL3005_1" {
		t.Fatalf("second scenario = %+v", all[1])
	}
	if got := reg.FilterByNamespace([]string{"bench"}); len(got) != 0 {
		t.Fatalf("unexpected bench scenarios: %+v", got)
	}
}
