package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s so it also covers other. Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

// ZeroWidthAt returns an empty span positioned at s.Start.
func (s Span) ZeroWidthAt() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// ZeroWidthEnd returns an empty span positioned at s.End.
func (s Span) ZeroWidthEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
