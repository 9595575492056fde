package directive

import (
	"fmt"
	"io"
	"path/filepath"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// RunnerConfig configures directive checking.
type RunnerConfig struct {
	// Output receives one status line per scenario; nil is silent.
	Output io.Writer
}

// RunResult contains the outcome of checking directives.
type RunResult struct {
	Total    int
	Passed   int
	Failed   int
	Failures []string // missing expectations and unexpected diagnostics
}

// Runner matches expect scenarios against produced diagnostics.
type Runner struct {
	config   RunnerConfig
	registry *Registry
}

// NewRunner creates a directive runner.
func NewRunner(registry *Registry, config RunnerConfig) *Runner {
	return &Runner{
		config:   config,
		registry: registry,
	}
}

// Run pairs every expectation with one diagnostic of the same code that
// starts on the target line. Unpaired warnings and errors are failures too;
// info diagnostics are ignored.
func (r *Runner) Run(fs *source.FileSet, items []diag.Diagnostic) RunResult {
	scenarios := r.registry.FilterByNamespace([]string{NamespaceExpect})
	result := RunResult{Total: len(scenarios)}
	used := make([]bool, len(items))

	for i := range scenarios {
		s := &scenarios[i]
		wantLine, _ := fs.Resolve(s.Target)
		matched := false
		for j, d := range items {
			if used[j] || d.Code.ID() != s.Code || d.Primary.File != s.Target.File {
				continue
			}
			if got, _ := fs.Resolve(d.Primary); got.Line == wantLine.Line {
				used[j] = true
				matched = true
				break
			}
		}
		status := "ok"
		if matched {
			result.Passed++
		} else {
			status = "MISSING"
			result.Failed++
			result.Failures = append(result.Failures,
				fmt.Sprintf("%s:%d: expected %s", filepath.Base(s.SourceFile), wantLine.Line, s.Code))
		}
		r.printf("expect %s (%s) ... %s\n", formatLocation(s), s.Code, status)
	}

	for j, d := range items {
		if used[j] || d.Severity < diag.SevWarning {
			continue
		}
		at, _ := fs.Resolve(d.Primary)
		result.Failed++
		result.Failures = append(result.Failures,
			fmt.Sprintf("%s:%d: unexpected %s: %s", filepath.Base(fs.Get(d.Primary.File).Path), at.Line, d.Code.ID(), d.Message))
	}

	r.printf("\nDirective summary: %d total, %d passed, %d failed\n", result.Total, result.Passed, result.Failed)
	return result
}

func (r *Runner) printf(format string, args ...any) {
	if r.config.Output == nil {
		return
	}
	fmt.Fprintf(r.config.Output, format, args...)
}

// formatLocation returns a human-readable location string.
func formatLocation(s *Scenario) string {
	return fmt.Sprintf("%s#%d", filepath.Base(s.SourceFile), s.Index)
}
