package format_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/format"
	"stencil/internal/source"
	"stencil/internal/tree"
)

func parseUnit(t *testing.T, input string) tree.Unit {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.stn", []byte(input)))
	var rep diag.ListReporter
	unit := tree.Parse(file, &rep, tree.Options{})
	if len(rep.List) != 0 {
		t.Fatalf("%q: unexpected diagnostics: %v", input, rep.List)
	}
	return unit
}

func TestLayout(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "attribute and block",
			in:   "#[test] fn f(){let n:i64=41+1;assert_eq!(n,42)}",
			want: "#[test]\nfn f() {\n    let n: i64 = 41 + 1;\n    assert_eq!(n, 42)\n}\n",
		},
		{
			name: "immediately invoked closure",
			in:   "let x=(||->i64{unreachable!()})();",
			want: "let x = (|| -> i64 { unreachable!() })();\n",
		},
		{
			name: "generics",
			in:   "fn f<T: Into<String>>(x: Vec<Vec<u8>>) -> Option<T> where T: Clone { None }",
			want: "fn f<T: Into<String>>(x: Vec<Vec<u8>>) -> Option<T> where T: Clone { None }\n",
		},
		{
			name: "comparisons and else",
			in:   "if a<b&&c>d{x}else{y}",
			want: "if a < b && c > d { x } else { y }\n",
		},
		{
			name: "closure and unary operators",
			in:   "let f=|a,b|a*b; let r=&mut *x;",
			want: "let f = |a, b| a * b;\nlet r = &mut *x;\n",
		},
		{
			name: "type checked helper",
			in:   "let v={fn type_checked()->impl Display{\"4\"} type_checked()};",
			want: "let v = {\n    fn type_checked() -> impl Display { \"4\" }\n    type_checked()\n};\n",
		},
		{
			name: "guarded module",
			in:   "#[cfg(test)] #[allow(non_snake_case)] mod __stencil_check__t { use crate::X; }",
			want: "#[cfg(test)]\n#[allow(non_snake_case)]\nmod __stencil_check__t {\n    use crate::X;\n}\n",
		},
		{
			name: "macro with brace",
			in:   "define_suite! { mod a; constructions { X => 1 } }",
			want: "define_suite! {\n    mod a;\n    constructions { X => 1 }\n}\n",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unit := parseUnit(t, tc.in)
			got := string(format.Layout(unit, format.Options{}))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("layout mismatch (-want +got):\n%s", diff)
			}
			if err := format.CheckRoundTrip(unit.Nodes, []byte(got)); err != nil {
				t.Fatalf("round trip: %v", err)
			}
		})
	}
}

func TestLayoutKeepsCommentsAndBlankLines(t *testing.T) {
	in := "mod m {\n    // helper\n    fn a() {}\n\n    fn b() { x }\n}\n"
	got := string(format.Layout(parseUnit(t, in), format.Options{}))
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutDropComments(t *testing.T) {
	in := "// top\nfn a() { /* inner */ x }\n"
	got := string(format.Layout(parseUnit(t, in), format.Options{DropComments: true}))
	if want := "fn a() { x }\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLayoutTabs(t *testing.T) {
	got := string(format.Layout(parseUnit(t, "mod m { fn a(); }"), format.Options{UseTabs: true}))
	if want := "mod m {\n\tfn a();\n}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLayoutSeparatesMergeablePunct(t *testing.T) {
	nodes := tree.MustSnippet("a = & &x;", source.Span{})
	got := format.Nodes(nodes, format.Options{})
	if string(got) != "a = & &x;\n" {
		t.Fatalf("got %q", got)
	}
	if err := format.CheckRoundTrip(nodes, got); err != nil {
		t.Fatalf("round trip: %v", err)
	}
}
