package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stencil/internal/diagfmt"
	"stencil/internal/driver"
	"stencil/internal/observ"
	"stencil/internal/source"
)

var expandCmd = &cobra.Command{
	Use:   "expand [file|dir]",
	Short: "Expand templates and write the output files",
	Long: `Expand declares every #[define] template in each input, instantiates all
invocations and writes the result next to the input without its extension,
or under --out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExpand(cmd, args, false)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [file|dir]",
	Short: "Validate templates and invocations without writing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExpand(cmd, args, true)
	},
}

func init() {
	expandCmd.Flags().String("out", "", "output directory (overrides [expand].out_dir)")
	expandCmd.Flags().Bool("stdout", false, "print the expansion of a single file instead of writing it")
	expandCmd.Flags().Bool("no-cache", false, "disable the expansion cache")
	addCommonExpandFlags(expandCmd)

	checkCmd.Flags().Bool("list", false, "list templates and their use sites")
	checkCmd.Flags().String("fix", "", "apply suggested fixes to the inputs (all|once)")
	checkCmd.Flags().Lookup("fix").NoOptDefVal = "all"
	checkCmd.Flags().Bool("dry-run", false, "with --fix, print the fixed files instead of writing them")
	addCommonExpandFlags(checkCmd)
}

func addCommonExpandFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|yaml)")
}

func runExpand(cmd *cobra.Command, args []string, check bool) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return err
	}
	opts := driver.OptionsFromConfig(cfg)

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if opts.MaxDiagnostics, err = maxDiagnostics(cmd, opts.MaxDiagnostics); err != nil {
		return err
	}
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	uiMode, err := readUIMode(cmd)
	if err != nil {
		return err
	}

	toStdout := false
	useCache := cfg.Expand.Cache && !check
	if !check {
		if toStdout, err = cmd.Flags().GetBool("stdout"); err != nil {
			return fmt.Errorf("failed to get stdout flag: %w", err)
		}
		noCache, flagErr := cmd.Flags().GetBool("no-cache")
		if flagErr != nil {
			return fmt.Errorf("failed to get no-cache flag: %w", flagErr)
		}
		useCache = useCache && !noCache
		out, flagErr := cmd.Flags().GetString("out")
		if flagErr != nil {
			return fmt.Errorf("failed to get out flag: %w", flagErr)
		}
		if out != "" {
			if opts.OutDir, err = filepath.Abs(out); err != nil {
				return fmt.Errorf("failed to resolve --out: %w", err)
			}
		}
	}
	opts.Write = !check && !toStdout

	base, files, err := driver.CollectInputs(target, opts.Extension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", opts.Extension, target)
	}
	if toStdout && len(files) != 1 {
		return fmt.Errorf("--stdout needs a single input file, found %d", len(files))
	}
	if opts.Root == "" {
		if opts.Root, err = filepath.Abs(base); err != nil {
			return err
		}
	}

	if useCache {
		dir, dirErr := cacheDir(cfg)
		if dirErr != nil {
			return dirErr
		}
		if opts.Cache, err = driver.OpenDiskCacheAt(dir); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings {
		opts.Timer = observ.NewTimer()
	}

	quiet := quietFlag(cmd)
	var (
		fs      *source.FileSet
		results []*driver.Result
	)
	if !quiet && !toStdout && shouldUseTUI(uiMode) {
		title := "Expanding"
		if check {
			title = "Checking"
		}
		fs, results, err = expandWithUI(cmd.Context(), title, base, files, opts)
	} else {
		fs, results, err = driver.ExpandFiles(cmd.Context(), base, files, opts)
	}
	if err != nil {
		return err
	}

	items := collectDiagnostics(results)
	diagOut := os.Stderr
	if format != diagfmt.FormatPretty {
		diagOut = os.Stdout
	}
	if err := renderDiagnostics(diagOut, items, fs, format); err != nil {
		return fmt.Errorf("failed to render diagnostics: %w", err)
	}

	failed := false
	for _, res := range results {
		if res.Failed() {
			failed = true
		}
	}
	if toStdout && !failed {
		if _, err := os.Stdout.Write(results[0].Output); err != nil {
			return err
		}
	}

	if check {
		list, listErr := cmd.Flags().GetBool("list")
		if listErr != nil {
			return fmt.Errorf("failed to get list flag: %w", listErr)
		}
		if list && format == diagfmt.FormatPretty {
			printTemplates(os.Stdout, fs, results)
		}
		if err := runFixes(cmd, fs, items); err != nil {
			return err
		}
	}

	if !quiet && format == diagfmt.FormatPretty {
		printSummary(os.Stderr, results, items, check)
	}
	if opts.Timer != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	if failed {
		return errReported
	}
	return nil
}
