package driver_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/driver"
	"stencil/internal/source"
	"stencil/internal/tree"
)

const numTemplate = `// answers
#[define(NUM_T; constructions(NUM -> i64), attribute_substitutions(CHECK))]
mod __ {
    #[__CONSTRUCT(n as NUM)]
    #[__SUBSTITUTE(CHECK)]
    fn answer() {
        assert_eq!(n, 42);
    }
}
`

func expand(t *testing.T, input string) (*source.FileSet, *driver.Result) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.rs.stn", []byte(input))
	res, err := driver.Expand(context.Background(), fs, id, driver.Options{VerifyLayout: true})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	return fs, res
}

func codes(res *driver.Result) []string {
	var out []string
	for _, d := range res.Bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func sameTree(t *testing.T, want string, got []byte) {
	t.Helper()
	if got == nil {
		t.Fatalf("no output")
	}
	w := tree.Print(tree.MustSnippet(want, source.Span{}))
	g := tree.Print(tree.MustSnippet(string(got), source.Span{}))
	if diff := cmp.Diff(w, g); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s\nfull output:\n%s", diff, got)
	}
}

func TestExpandEndToEnd(t *testing.T) {
	_, res := expand(t, numTemplate+`
NUM_T! { mod a; constructions { NUM => 41 + 1 }, attribute_substitutions { CHECK => #[test] } }
`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", codes(res))
	}
	sameTree(t, `
		#[cfg(test)]
		#[allow(non_snake_case)]
		mod __stencil_check__NUM_T {
			mod __ {
				fn answer() {
					let n: i64 = (|| -> i64 { unreachable!() })();
					assert_eq!(n, 42);
				}
			}
		}
		mod a {
			#[test]
			fn answer() {
				let n: i64 = 41 + 1;
				assert_eq!(n, 42);
			}
		}`, res.Output)
	if !strings.HasPrefix(string(res.Output), "// answers\n#[cfg(test)]\n") {
		t.Fatalf("leading comment lost:\n%s", res.Output)
	}
	if strings.Contains(string(res.Output), "__CONSTRUCT") || strings.Contains(string(res.Output), "__SUBSTITUTE") {
		t.Fatalf("markers left in output:\n%s", res.Output)
	}
}

func TestExpandUseBeforeDeclarationAndForms(t *testing.T) {
	_, res := expand(t, `
NUM_T!(mod a; constructions { NUM => 1 }, attribute_substitutions { CHECK => #[test] });
mod outer {
    NUM_T![pub mod b; attribute_substitutions { CHECK => #[inline] }, constructions { NUM => 2 }];
}
`+numTemplate)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", codes(res))
	}
	sameTree(t, `
		mod a { #[test] fn answer() { let n: i64 = 1; assert_eq!(n, 42); } }
		mod outer {
			pub mod b { #[inline] fn answer() { let n: i64 = 2; assert_eq!(n, 42); } }
		}
		#[cfg(test)]
		#[allow(non_snake_case)]
		mod __stencil_check__NUM_T {
			mod __ { fn answer() { let n: i64 = (|| -> i64 { unreachable!() })(); assert_eq!(n, 42); } }
		}`, res.Output)

	if len(res.Templates) != 1 || len(res.Templates[0].UseSites) != 2 {
		t.Fatalf("unexpected instantiations: %+v", res.Templates)
	}
	if got := []string{res.Templates[0].UseSites[0].Module, res.Templates[0].UseSites[1].Module}; !cmp.Equal(got, []string{"a", "b"}) {
		t.Fatalf("use sites = %v", got)
	}
}

func TestExpandLeavesHostMacrosAlone(t *testing.T) {
	_, res := expand(t, `fn main() { println!("{}", 1); let v = vec![1, 2]; other::NUM_T! { x } }`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", codes(res))
	}
	sameTree(t, `fn main() { println!("{}", 1); let v = vec![1, 2]; other::NUM_T! { x } }`, res.Output)
}

func TestExpandStandaloneAttributes(t *testing.T) {
	_, res := expand(t, `
#[stencil::construct(x: u8 = 1)]
#[stencil::extend_parameter_list(.., y: u8)]
fn f() -> u8 { x + y }
`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", codes(res))
	}
	sameTree(t, `fn f(y: u8) -> u8 { let x: u8 = 1; x + y }`, res.Output)
}

func TestExpandReportsMissingAndUnknownTogether(t *testing.T) {
	_, res := expand(t, numTemplate+`
NUM_T! { mod a; constructions { NUMBER => 1 } }
`)
	if res.Output != nil {
		t.Fatalf("output written despite errors:\n%s", res.Output)
	}
	want := []string{"TPL3004", "TPL3005", "TPL3005"}
	got := codes(res)
	// sorted by span: the unknown name comes first, missing ones sit on the invocation
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	counts := map[string]int{}
	for _, c := range got {
		counts[c]++
	}
	if counts["TPL3004"] != 1 || counts["TPL3005"] != 2 {
		t.Fatalf("codes = %v, want %v", got, want)
	}
}

func TestExpandDuplicateDeclaration(t *testing.T) {
	_, res := expand(t, numTemplate+numTemplate+`
NUM_T! { mod a; constructions { NUM => 1 }, attribute_substitutions { CHECK => #[test] } }
`)
	if !res.Failed() {
		t.Fatalf("expected failure")
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.TplDuplicateName {
		t.Fatalf("codes = %v", codes(res))
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Msg != "first declared here" {
		t.Fatalf("notes = %+v", items[0].Notes)
	}
}

func TestExpandWarnsAboutUnusedTemplate(t *testing.T) {
	fs, res := expand(t, numTemplate)
	if res.Failed() {
		t.Fatalf("a warning must not fail the file: %v", codes(res))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.TplUnusedTemplate || items[0].Severity != diag.SevWarning {
		t.Fatalf("codes = %v", codes(res))
	}
	got := diag.FormatGoldenDiagnostics(items, fs, false)
	if !strings.Contains(got, "template `NUM_T` is declared but never instantiated") {
		t.Fatalf("golden = %q", got)
	}
}

func TestExpandRejectsSelfInstantiation(t *testing.T) {
	_, res := expand(t, `
#[define(LOOP)]
mod __ {
    LOOP! { mod inner; }
}
LOOP! { mod outer; }
`)
	if !res.Failed() {
		t.Fatalf("expected failure, got:\n%s", res.Output)
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.TplDefinitionParse && strings.Contains(d.Message, "instantiates itself") {
			return
		}
	}
	t.Fatalf("no self-instantiation error in %v", codes(res))
}

func TestExpandClosureConstruction(t *testing.T) {
	_, res := expand(t, `
#[define(OP_T; constructions(OP -> fn(u8, u8) -> u8))]
mod __ {
    #[__CONSTRUCT(op as OP)]
    pub fn apply() -> u8 { op(2, 3) }
}
OP_T! { mod a; constructions { OP => |a, b| a + b } }
`)
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", codes(res))
	}
	got := tree.Print(tree.MustSnippet(string(res.Output), source.Span{}))
	want := tree.Print(tree.MustSnippet("let op: fn(u8, u8) -> u8 = |a, b| a + b; op(2, 3)", source.Span{}))
	if !strings.Contains(got, want) {
		t.Fatalf("output does not bind the closure:\n%s", res.Output)
	}
}

func TestExpandRejectsOpaqueConstructionSlot(t *testing.T) {
	_, res := expand(t, `
#[define(SHOW_T; constructions(V -> impl std::fmt::Display))]
mod __ {
    #[__CONSTRUCT(v as V)]
    pub fn show() -> String { v.to_string() }
}
`)
	if res.Output != nil {
		t.Fatalf("output written despite errors:\n%s", res.Output)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.TplDeclarationParse {
		t.Fatalf("codes = %v", codes(res))
	}
	if items[0].Message != "`impl` types are unsupported for construction `V`" {
		t.Fatalf("message = %q", items[0].Message)
	}
}

func TestExpandStopsOnSyntaxErrors(t *testing.T) {
	_, res := expand(t, "fn f() { (x }")
	if res.Output != nil {
		t.Fatalf("output written despite errors")
	}
	if got := codes(res); len(got) == 0 || !strings.HasPrefix(got[0], "SYN") {
		t.Fatalf("codes = %v", got)
	}
}
