package directive_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"stencil/internal/diag"
	"stencil/internal/directive"
	"stencil/internal/driver"
	"stencil/internal/lexer"
	"stencil/internal/source"
)

func collect(t *testing.T, fs *source.FileSet, id source.FileID) *directive.Registry {
	t.Helper()
	file := fs.Get(id)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(16)}})
	reg := directive.NewRegistry()
	reg.CollectFromTokens(tokens, file)
	return reg
}

func TestRunnerReportsMissingAndUnexpected(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.rs.stn", []byte("/// expect: TPL3004\nfoo\n/// expect: TPL3003\nbar\nbaz\n"))
	reg := collect(t, fs, id)

	items := []diag.Diagnostic{
		diag.NewError(diag.TplUnknownTargetName, source.Span{File: id, Start: 20, End: 23}, "unknown"),
		diag.NewError(diag.TplDuplicateName, source.Span{File: id, Start: 48, End: 51}, "on the wrong line"),
		diag.New(diag.SevInfo, diag.TplUnusedTemplate, source.Span{File: id, Start: 48, End: 51}, "info is ignored"),
	}
	var out bytes.Buffer
	res := directive.NewRunner(reg, directive.RunnerConfig{Output: &out}).Run(fs, items)
	if res.Total != 2 || res.Passed != 1 || res.Failed != 2 {
		t.Fatalf("result = %+v", res)
	}
	joined := strings.Join(res.Failures, "\n")
	if !strings.Contains(joined, "a.rs.stn:4: expected TPL3003") || !strings.Contains(joined, "a.rs.stn:5: unexpected TPL3003") {
		t.Fatalf("failures:\n%s", joined)
	}
	if !strings.Contains(out.String(), "expect a.rs.stn#0 (TPL3004) ... ok") {
		t.Fatalf("output:\n%s", out.String())
	}
}

// TestDiagnosticsTestdata expands every file under testdata/diagnostics and
// checks its `/// expect:` directives.
func TestDiagnosticsTestdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "testdata", "diagnostics", "*.stn"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("no testdata")
	}
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			fs := source.NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			reg := collect(t, fs, id)
			if reg.Len() == 0 {
				t.Fatalf("%s has no expectations", path)
			}
			res, err := driver.Expand(context.Background(), fs, id, driver.Options{})
			if err != nil {
				t.Fatalf("expand: %v", err)
			}
			run := directive.NewRunner(reg, directive.RunnerConfig{}).Run(fs, res.Bag.Items())
			if run.Failed != 0 {
				t.Fatalf("directive failures:\n%s", strings.Join(run.Failures, "\n"))
			}
		})
	}
}
