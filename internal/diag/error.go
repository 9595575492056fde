package diag

import (
	"errors"
	"fmt"
	"strings"

	"stencil/internal/source"
)

// Error carries a single diagnostic through APIs that return error.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// Errorf builds an *Error with SevError severity.
func Errorf(code Code, primary source.Span, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, primary, fmt.Sprintf(format, args...))}
}

// WithNote returns e with an extra note.
func (e *Error) WithNote(sp source.Span, msg string) *Error {
	e.Diag = e.Diag.WithNote(sp, msg)
	return e
}

// WithFix returns e with an extra fix.
func (e *Error) WithFix(title string, edits ...FixEdit) *Error {
	e.Diag = e.Diag.WithFix(title, edits...)
	return e
}

// List is an ordered set of diagnostics reported together.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return (&Error{Diag: l[0]}).Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, d := range l {
		fmt.Fprintf(&b, "\n\t%s: %s", d.Code.ID(), d.Message)
	}
	return b.String()
}

// Add appends every diagnostic carried by err.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	*l = append(*l, Collect(err)...)
}

// Err returns nil for an empty list and the list itself otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Collect flattens err into diagnostics. It understands *Error, List and
// errors.Join trees; anything else becomes one UnknownCode diagnostic.
func Collect(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case List:
		return append([]Diagnostic(nil), e...)
	case *Error:
		return []Diagnostic{e.Diag}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, inner := range joined.Unwrap() {
			out = append(out, Collect(inner)...)
		}
		return out
	}
	var list List
	if errors.As(err, &list) {
		return append([]Diagnostic(nil), list...)
	}
	var one *Error
	if errors.As(err, &one) {
		return []Diagnostic{one.Diag}
	}
	return []Diagnostic{NewError(UnknownCode, source.Span{}, err.Error())}
}
