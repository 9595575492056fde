package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != "" || cfg.Expand.Extension != ".stn" || !cfg.Expand.Cache {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[dialect]
attr_namespace = "tpl"
guard = ["#[cfg(test)]"]

[expand]
extension = "tmpl"
out_dir = "gen"
cache = false

[limits]
max_depth = 32
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != root {
		t.Fatalf("root = %q, want %q", cfg.Root, root)
	}
	if cfg.Dialect.AttrNamespace != "tpl" || len(cfg.Dialect.Guard) != 1 {
		t.Fatalf("dialect not applied: %+v", cfg.Dialect)
	}
	if cfg.Dialect.FnKeyword != "fn" {
		t.Fatalf("unset keys must keep defaults, fn_keyword = %q", cfg.Dialect.FnKeyword)
	}
	if cfg.Expand.Extension != ".tmpl" || cfg.Expand.OutDir != filepath.Join(root, "gen") || cfg.Expand.Cache {
		t.Fatalf("expand not applied: %+v", cfg.Expand)
	}
	if cfg.Limits.MaxDepth != 32 || cfg.Limits.MaxDiagnostics != 100 {
		t.Fatalf("limits not applied: %+v", cfg.Limits)
	}
}

func TestLoadEmptyNamespaceIsDefined(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[dialect]\nattr_namespace = \"\"\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dialect.AttrNamespace != "" {
		t.Fatalf("attr_namespace = %q, want empty", cfg.Dialect.AttrNamespace)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[expand\n", "failed to parse TOML"},
		{"unknown key", "[expand]\nfoo = 1\n", "unknown keys: expand.foo"},
		{"bad marker", "[dialect]\nmarker = \"abc\"\n", "marker"},
		{"typed unreachable", "[dialect]\ntyped_unreachable = \"panic!()\"\n", "lacks $T"},
		{"escaping out_dir", "[expand]\nout_dir = \"../out\"\n", "escapes project root"},
		{"absolute out_dir", "[expand]\nout_dir = \"/tmp/out\"\n", "must be relative"},
		{"negative jobs", "[expand]\njobs = -1\n", "must not be negative"},
		{"zero depth", "[limits]\nmax_depth = 0\n", "must be positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tc.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("got %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestFindConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, "")
	file := filepath.Join(dir, "a.rs.stn")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok, err := FindConfig(file)
	if err != nil || !ok || got != want {
		t.Fatalf("FindConfig = %q, %v, %v", got, ok, err)
	}
}

func TestCombine(t *testing.T) {
	var content Digest
	a := Combine(content, "v1", "schema")
	b := Combine(content, "v1s", "chema")
	if a == b {
		t.Fatalf("part boundaries must affect the digest")
	}
	if a != Combine(content, "v1", "schema") {
		t.Fatalf("Combine is not deterministic")
	}
}
