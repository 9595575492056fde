package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"stencil/internal/diag"
	"stencil/internal/driver"
	"stencil/internal/project"
)

// loadConfig reads --config, or searches for stencil.toml upwards from target.
func loadConfig(cmd *cobra.Command, target string) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg project.Config
	if path != "" {
		cfg, err = project.LoadFile(path)
	} else {
		cfg, err = project.Load(target)
	}
	if err != nil {
		return project.Config{}, fmt.Errorf("%s: %w", diag.ProjConfigError.ID(), err)
	}
	return cfg, nil
}

// cacheDir keeps project caches inside the project; loose files share the
// user cache.
func cacheDir(cfg project.Config) (string, error) {
	if cfg.Root != "" {
		return filepath.Join(cfg.Root, ".stencil", "cache"), nil
	}
	return driver.DefaultCacheDir("stencil")
}

// maxDiagnostics returns the flag value when set, fallback otherwise.
func maxDiagnostics(cmd *cobra.Command, fallback int) (int, error) {
	pf := cmd.Root().PersistentFlags()
	if !pf.Changed("max-diagnostics") {
		return fallback, nil
	}
	n, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return n, nil
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
