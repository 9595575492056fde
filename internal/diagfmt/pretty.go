package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stencil/internal/diag"
	"stencil/internal/source"
)

const tabWidth = 4

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что items уже отсортированы. Для каждой диагностики:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  12 | source line
//	     |     ^~~~
//	  note: <path>:<line>:<col>: <msg>
//	  fix: <title>
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

type palette struct {
	err, warn, info, code, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(d.Primary, fs, opts.PathMode),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	snippet(w, d.Primary, fs, opts, p, p.caret)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
			if opts.Context > 0 {
				snippet(w, n.Span, fs, opts, p, p.note)
			}
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprint("fix:"), fix.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fix.Edits {
				preview, err := previewEdit(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    - %s\n", line)
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s %s\n", p.fix.Sprint("+"), line)
				}
			}
		}
	}
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	if !known(fs, span) {
		return "<unknown>"
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode.formatArg(), fs.BaseDir()), start.Line, start.Col)
}

// snippet prints the context lines and the primary line with a caret
// underline. Multi-line spans are underlined to the end of the first line.
func snippet(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts, p palette, caret *color.Color) {
	if !known(fs, span) {
		return
	}
	f := fs.Get(span.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for n := first; n <= start.Line; n++ {
		line := expandTabs(f.GetLine(n))
		if opts.Width > 0 {
			line = runewidth.Truncate(line, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), line)
	}

	raw := f.GetLine(start.Line)
	from := min(int(start.Col)-1, len(raw))
	to := len(raw)
	if end.Line == start.Line {
		to = min(max(int(end.Col)-1, from), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:from]))
	width := max(runewidth.StringWidth(expandTabs(raw[from:to])), 1)
	if opts.Width > 0 && pad >= int(opts.Width) {
		return
	}
	fmt.Fprintf(w, "  %s %s%s\n",
		p.gutter.Sprint(strings.Repeat(" ", gutterWidth)+" |"),
		strings.Repeat(" ", pad),
		caret.Sprint("^"+strings.Repeat("~", width-1)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
