package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stencil/internal/diag"
	"stencil/internal/fix"
	"stencil/internal/source"
)

// runFixes applies the fixes attached to items when --fix is set.
func runFixes(cmd *cobra.Command, fs *source.FileSet, items []diag.Diagnostic) error {
	modeStr, err := cmd.Flags().GetString("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	if modeStr == "" {
		return nil
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	opts := fix.ApplyOptions{DryRun: dryRun}
	switch modeStr {
	case "all":
		opts.Mode = fix.ApplyModeAll
	case "once":
		opts.Mode = fix.ApplyModeOnce
	default:
		return fmt.Errorf("invalid --fix value %q (expected all|once)", modeStr)
	}

	res, err := fix.Apply(fs, items, opts)
	if errors.Is(err, fix.ErrNoFixes) {
		if !quietFlag(cmd) {
			fmt.Fprintln(os.Stderr, "no applicable fixes")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}
	for _, applied := range res.Applied {
		fmt.Fprintf(os.Stderr, "fixed %s: %s (%s)\n", applied.Path, applied.Title, applied.Code.ID())
	}
	for _, skipped := range res.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %q: %s\n", skipped.Title, skipped.Reason)
	}
	for _, change := range res.FileChanges {
		if dryRun {
			fmt.Fprintf(os.Stdout, "=== %s (%d edits)\n", change.Path, change.EditCount)
			if _, err := os.Stdout.Write(change.Content); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d edits)\n", change.Path, change.EditCount)
	}
	return nil
}
