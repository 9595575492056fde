package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFileName is the per-project configuration file.
const ConfigFileName = "stencil.toml"

// FindConfig walks up from startDir to locate stencil.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing stencil.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(path), true, nil
}

// ResolveOutDir resolves a configured output directory against the project
// root. It must be relative and stay inside the root.
func ResolveOutDir(root, out string) (string, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return "", nil
	}
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("invalid [expand].out_dir %q: must be relative", out)
	}
	path := filepath.Join(root, filepath.Clean(filepath.FromSlash(out)))
	if !pathWithin(root, path) {
		return "", fmt.Errorf("invalid [expand].out_dir %q: escapes project root", out)
	}
	return path, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
