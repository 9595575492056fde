package testkit

import (
	"testing"

	"stencil/internal/diag"
	"stencil/internal/lexer"
	"stencil/internal/source"
	"stencil/internal/token"
	"stencil/internal/tree"
)

const sample = `// doc
#[define(T; constructions(X -> u8))]
mod __ { #[__CONSTRUCT(x as X)] fn f() { let v = [1, (2)]; } }
T! { mod a; constructions { X => 3 } }
`

func parse(t *testing.T, src string) (*source.File, []token.Token, tree.Unit) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("sample.rs.stn", []byte(src)))
	bag := diag.NewBag(16)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	unit := tree.Build(tokens, diag.BagReporter{Bag: bag}, tree.Options{})
	return file, tokens, unit
}

func TestInvariantsHoldForParsedInput(t *testing.T) {
	for _, src := range []string{sample, "", "mod m { ( [ } ]", "fn f() { /* open"} {
		file, tokens, unit := parse(t, src)
		if err := CheckTokenSpans(tokens, file); err != nil {
			t.Errorf("tokens of %q: %v", src, err)
		}
		if err := CheckTreeSpans(unit.Nodes, file); err != nil {
			t.Errorf("tree of %q: %v", src, err)
		}
	}
}

func TestInvariantsCatchBrokenSpans(t *testing.T) {
	file, tokens, unit := parse(t, sample)

	swapped := append([]token.Token(nil), tokens...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if err := CheckTokenSpans(swapped, file); err == nil {
		t.Error("out-of-order tokens must be rejected")
	}
	if err := CheckTokenSpans(tokens[:len(tokens)-1], file); err == nil {
		t.Error("missing EOF must be rejected")
	}

	nodes := append([]tree.Node(nil), unit.Nodes...)
	nodes[0], nodes[1] = nodes[1], nodes[0]
	if err := CheckTreeSpans(nodes, file); err == nil {
		t.Error("out-of-order siblings must be rejected")
	}

	far := tree.Leaf(token.Synth(token.Ident, "x", source.Span{File: file.ID, Start: 1 << 20, End: 1<<20 + 1}))
	if err := CheckTreeSpans([]tree.Node{far}, file); err == nil {
		t.Error("span beyond content must be rejected")
	}
}
