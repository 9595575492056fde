package diag

import (
	"testing"

	"stencil/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(TplUnknownTargetName, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("Len=%d HasErrors=%v", b.Len(), b.HasErrors())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(TplMissingTargetName, source.Span{File: 0, Start: 9, End: 10}, "missing"))
	b.Add(New(SevWarning, TplUnusedTemplate, source.Span{File: 0, Start: 1, End: 2}, "unused"))
	b.Add(NewError(TplUnknownTargetName, source.Span{File: 0, Start: 1, End: 2}, "unknown"))
	b.Add(NewError(TplMissingTargetName, source.Span{File: 0, Start: 9, End: 10}, "missing"))

	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items after dedup", len(items))
	}
	want := []Code{TplUnknownTargetName, TplUnusedTemplate, TplMissingTargetName}
	for i, code := range want {
		if items[i].Code != code {
			t.Errorf("items[%d].Code = %s, want %s", i, items[i].Code.ID(), code.ID())
		}
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(TplDuplicateName, source.Span{}, "a"))
	b := NewBag(2)
	b.Add(NewError(TplDuplicateName, source.Span{}, "b"))
	b.Add(NewError(TplDuplicateName, source.Span{}, "c"))

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("Len after merge = %d, want 3", a.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:       "LEX1001",
		SynUnclosedDelimiter: "SYN2002",
		TplUnknownTargetName: "TPL3004",
		IOLoadFileError:      "IO4001",
		ProjConfigError:      "PRJ5001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("ID(%d) = %s, want %s", code, got, want)
		}
	}
	if TplStructuralShape.Title() != "Unsupported item shape" {
		t.Errorf("Title = %q", TplStructuralShape.Title())
	}
}
