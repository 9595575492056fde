package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove the expansion cache",
	Long: `Remove the expansion cache of the project containing dir. Outside a
project this is the user cache directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", baseDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", baseDir)
	}
	cfg, err := loadConfig(cmd, baseDir)
	if err != nil {
		return err
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if !quietFlag(cmd) {
			_, _ = fmt.Fprintln(os.Stdout, "cache directory not found")
		}
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", dir, err)
	}
	if !quietFlag(cmd) {
		_, _ = fmt.Fprintf(os.Stdout, "removed %s\n", dir)
	}
	return nil
}
