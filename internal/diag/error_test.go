package diag

import (
	"errors"
	"fmt"
	"testing"

	"stencil/internal/source"
)

func TestCollect(t *testing.T) {
	one := Errorf(TplStructuralShape, source.Span{Start: 1}, "no body")
	list := List{
		NewError(TplMissingTargetName, source.Span{Start: 2}, "missing"),
		NewError(TplUnknownTargetName, source.Span{Start: 3}, "unknown"),
	}

	tests := []struct {
		name string
		err  error
		want []Code
	}{
		{"nil", nil, nil},
		{"single", one, []Code{TplStructuralShape}},
		{"list", list, []Code{TplMissingTargetName, TplUnknownTargetName}},
		{"wrapped", fmt.Errorf("expand: %w", one), []Code{TplStructuralShape}},
		{"joined", errors.Join(one, list), []Code{TplStructuralShape, TplMissingTargetName, TplUnknownTargetName}},
		{"plain", errors.New("boom"), []Code{UnknownCode}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(tt.err)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d diagnostics, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Code != tt.want[i] {
					t.Errorf("[%d] code = %s, want %s", i, got[i].Code.ID(), tt.want[i].ID())
				}
			}
		})
	}
}

func TestListErr(t *testing.T) {
	var l List
	if l.Err() != nil {
		t.Fatal("empty list must be a nil error")
	}
	l.Add(Errorf(TplDuplicateName, source.Span{}, "duplicate name `A`"))
	l.Add(nil)
	if l.Err() == nil || len(l) != 1 {
		t.Fatalf("list = %v", l)
	}
	if got := l.Error(); got != "TPL3003: duplicate name `A`" {
		t.Errorf("Error() = %q", got)
	}
}

func TestListReporter(t *testing.T) {
	var r ListReporter
	ReportWarning(&r, TplUnusedTemplate, source.Span{}, "unused").Emit()
	if r.Err() != nil {
		t.Fatal("warnings alone must not fail")
	}
	b := ReportError(&r, SynUnclosedDelimiter, source.Span{}, "unclosed `{`")
	b.Emit()
	b.Emit()
	if r.Err() == nil || len(r.List) != 2 {
		t.Fatalf("reports = %d", len(r.List))
	}
}
