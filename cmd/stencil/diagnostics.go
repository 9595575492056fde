package main

import (
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"golang.org/x/term"

	"stencil/internal/diag"
	"stencil/internal/diagfmt"
	"stencil/internal/driver"
	"stencil/internal/source"
)

// collectDiagnostics merges the per-file bags in input order.
func collectDiagnostics(results []*driver.Result) []diag.Diagnostic {
	var items []diag.Diagnostic
	for _, res := range results {
		if res == nil || res.Bag == nil {
			continue
		}
		items = append(items, res.Bag.Items()...)
	}
	return items
}

func renderDiagnostics(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, format diagfmt.Format) error {
	switch format {
	case diagfmt.FormatJSON:
		return diagfmt.JSON(w, items, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case diagfmt.FormatYAML:
		return diagfmt.YAML(w, items, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	default:
		if len(items) == 0 {
			return nil
		}
		diagfmt.Pretty(w, items, fs, diagfmt.PrettyOpts{
			Color:       !color.NoColor,
			Context:     1,
			PathMode:    diagfmt.PathModeRelative,
			Width:       terminalWidth(os.Stderr),
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: true,
		})
		return nil
	}
}

// terminalWidth returns 0 (no truncation) when f is not a terminal.
func terminalWidth(f *os.File) uint8 {
	if !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	if w > 255 {
		return 255
	}
	width, err := safecast.Conv[uint8](w)
	if err != nil {
		return 0
	}
	return width
}

func countSeverity(items []diag.Diagnostic) (errs, warns int) {
	for _, d := range items {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
