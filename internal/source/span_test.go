package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	tests := []struct {
		name  string
		other Span
		want  Span
	}{
		{"extends left", Span{File: 1, Start: 5, End: 12}, Span{File: 1, Start: 5, End: 20}},
		{"extends right", Span{File: 1, Start: 15, End: 30}, Span{File: 1, Start: 10, End: 30}},
		{"inside", Span{File: 1, Start: 11, End: 12}, a},
		{"other file", Span{File: 2, Start: 0, End: 100}, a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Cover(tt.other); got != tt.want {
				t.Errorf("Cover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanZeroWidth(t *testing.T) {
	s := Span{File: 3, Start: 4, End: 9}
	if got := s.ZeroWidthAt(); got != (Span{File: 3, Start: 4, End: 4}) || !got.Empty() {
		t.Errorf("ZeroWidthAt = %v", got)
	}
	if got := s.ZeroWidthEnd(); got != (Span{File: 3, Start: 9, End: 9}) {
		t.Errorf("ZeroWidthEnd = %v", got)
	}
	if s.Len() != 5 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 0, Start: 0, End: 10}
	if !outer.Contains(Span{File: 0, Start: 2, End: 10}) {
		t.Error("expected containment")
	}
	if outer.Contains(Span{File: 0, Start: 2, End: 11}) {
		t.Error("span past end must not be contained")
	}
	if outer.Contains(Span{File: 1, Start: 2, End: 3}) {
		t.Error("span from another file must not be contained")
	}
}
