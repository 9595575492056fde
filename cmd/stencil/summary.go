package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"stencil/internal/diag"
	"stencil/internal/driver"
	"stencil/internal/source"
)

func printSummary(w io.Writer, results []*driver.Result, items []diag.Diagnostic, check bool) {
	var done, cached, written, failed int
	for _, res := range results {
		switch {
		case res.Failed():
			failed++
		case res.Cached:
			cached++
			done++
		default:
			done++
		}
		if res.Written != "" {
			written++
		}
	}
	errs, warns := countSeverity(items)

	verb := "expanded"
	if check {
		verb = "checked"
	}
	parts := []string{fmt.Sprintf("%s %s", verb, plural(done, "file"))}
	if cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", cached))
	}
	if !check {
		parts = append(parts, fmt.Sprintf("%d written", written))
	}
	if failed > 0 {
		parts = append(parts, color.RedString("%d failed", failed))
	}
	if errs > 0 {
		parts = append(parts, color.RedString("%s", plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, color.YellowString("%s", plural(warns, "warning")))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

// printTemplates lists every template with its declaration and use sites.
func printTemplates(w io.Writer, fs *source.FileSet, results []*driver.Result) {
	bold := color.New(color.Bold)
	for _, res := range results {
		if res == nil || len(res.Templates) == 0 {
			continue
		}
		fmt.Fprintln(w, bold.Sprint(res.Path))
		for _, entry := range res.Templates {
			decl, _ := fs.Resolve(entry.Declared)
			fmt.Fprintf(w, "  %-24s declared %d:%d", entry.Template, decl.Line, decl.Col)
			if len(entry.UseSites) == 0 {
				fmt.Fprintln(w, color.YellowString("  never instantiated"))
				continue
			}
			fmt.Fprintf(w, "  instantiated %s\n", plural(len(entry.UseSites), "time"))
			for _, use := range entry.UseSites {
				pos, _ := fs.Resolve(use.Span)
				module := use.Module
				if module == "" {
					module = "<anonymous>"
				}
				fmt.Fprintf(w, "    %d:%d  mod %s\n", pos.Line, pos.Col, module)
			}
		}
	}
}
