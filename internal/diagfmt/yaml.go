package diagfmt

import (
	"io"

	"gopkg.in/yaml.v3"

	"stencil/internal/diag"
	"stencil/internal/source"
)

// YAML renders the same document as JSON in YAML.
func YAML(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildDiagnosticsOutput(items, fs, opts)); err != nil {
		return err
	}
	return enc.Close()
}
