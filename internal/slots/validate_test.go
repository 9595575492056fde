package slots_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stencil/internal/diag"
	"stencil/internal/source"
	"stencil/internal/slots"
)

func names(ns ...string) []slots.Name {
	out := make([]slots.Name, 0, len(ns))
	for i, n := range ns {
		out = append(out, slots.Name{Text: n, Span: source.Span{Start: uint32(i * 10), End: uint32(i*10 + len(n))}})
	}
	return out
}

func registry(cons, subst []string) *slots.Registry {
	var cs []slots.ConstructionSlot
	for _, n := range cons {
		cs = append(cs, slots.ConstructionSlot{Name: n})
	}
	var ss []slots.SubstitutionSlot
	for _, n := range subst {
		ss = append(ss, slots.SubstitutionSlot{Name: n})
	}
	return slots.NewRegistry("t", cs, ss)
}

type issue struct {
	Code diag.Code
	Msg  string
}

func issues(err error) []issue {
	var out []issue
	for _, d := range diag.Collect(err) {
		out = append(out, issue{d.Code, d.Message})
	}
	return out
}

func TestValidateExactMatch(t *testing.T) {
	reg := registry([]string{"A", "B"}, []string{"T"})
	if err := slots.Validate(reg, names("B", "A"), names("T"), source.Span{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSymmetricDifference(t *testing.T) {
	reg := registry([]string{"A", "B", "C"}, nil)
	err := slots.Validate(reg, names("B", "C", "D"), nil, source.Span{})
	want := []issue{
		{diag.TplMissingTargetName, "missing target name `A` in constructions"},
		{diag.TplUnknownTargetName, "unknown target name `D`. It should be declared in the `constructions` block among the options of `define`"},
	}
	if diff := cmp.Diff(want, issues(err)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateKindsAreIndependent(t *testing.T) {
	reg := registry([]string{"X"}, []string{"Y", "Z"})
	// X supplied as a substitution does not satisfy the construction slot.
	err := slots.Validate(reg, nil, names("Y", "X", "Z", "W"), source.Span{})
	want := []issue{
		{diag.TplMissingTargetName, "missing target name `X` in constructions"},
		{diag.TplUnknownTargetName, "unknown target name `X`. It should be declared in the `attribute_substitutions` block among the options of `define`"},
		{diag.TplUnknownTargetName, "unknown target name `W`. It should be declared in the `attribute_substitutions` block among the options of `define`"},
	}
	if diff := cmp.Diff(want, issues(err)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCaseSensitive(t *testing.T) {
	reg := registry([]string{"Num"}, nil)
	err := slots.Validate(reg, names("num"), nil, source.Span{})
	if got := len(diag.Collect(err)); got != 2 {
		t.Fatalf("got %d issues, want 2 (missing Num, unknown num)", got)
	}
}

func TestValidateOrdering(t *testing.T) {
	reg := registry([]string{"A", "B"}, []string{"S"})
	err := slots.Validate(reg, names("Q", "P"), names("R"), source.Span{})
	var got []string
	for _, d := range diag.Collect(err) {
		got = append(got, d.Code.ID()+" "+d.Message[:len("missing target name `A`")])
	}
	want := []string{
		diag.TplMissingTargetName.ID() + " missing target name `A`",
		diag.TplMissingTargetName.ID() + " missing target name `B`",
		diag.TplUnknownTargetName.ID() + " unknown target name `Q`",
		diag.TplUnknownTargetName.ID() + " unknown target name `P`",
		diag.TplMissingTargetName.ID() + " missing target name `S`",
		diag.TplUnknownTargetName.ID() + " unknown target name `R`",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownTargetSuggestion(t *testing.T) {
	reg := registry([]string{"NUM"}, []string{"CHECK"})
	err := slots.Validate(reg, names("NUM"), names("CHEK"), source.Span{})
	ds := diag.Collect(err)
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(ds))
	}
	unknown := ds[1]
	if unknown.Code != diag.TplUnknownTargetName {
		t.Fatalf("second diagnostic is %v", unknown.Code)
	}
	if len(unknown.Notes) != 1 || unknown.Notes[0].Msg != "did you mean `CHECK`?" {
		t.Fatalf("notes = %+v", unknown.Notes)
	}
	if len(unknown.Fixes) != 1 || unknown.Fixes[0].Edits[0].NewText != "CHECK" {
		t.Fatalf("fixes = %+v", unknown.Fixes)
	}
}

func TestSuggest(t *testing.T) {
	cases := []struct {
		name     string
		declared []string
		want     string
		ok       bool
	}{
		{"CHEK", []string{"NUM", "CHECK"}, "CHECK", true},
		{"NUMM", []string{"NUM", "CHECK"}, "NUM", true},
		{"ZZZ", []string{"NUM", "CHECK"}, "", false},
		{"X", nil, "", false},
	}
	for _, tc := range cases {
		got, ok := slots.Suggest(tc.name, tc.declared)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Suggest(%q) = %q, %v; want %q, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
