package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stencil/internal/diagfmt"
	"stencil/internal/driver"
	"stencil/internal/project"
	"stencil/internal/tree"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a source file",
	Long:  `Tokenize breaks a source file into tokens with their leading trivia`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var treeCmd = &cobra.Command{
	Use:   "tree [flags] file",
	Short: "Print the token tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	treeCmd.Flags().Bool("compact", false, "print canonical compact text instead of indented groups")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	limit, err := maxDiagnostics(cmd, project.Default().Limits.MaxDiagnostics)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, limit)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		if err := renderDiagnostics(os.Stderr, result.Bag.Items(), result.FileSet, diagfmt.FormatPretty); err != nil {
			return err
		}
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runTree(cmd *cobra.Command, args []string) error {
	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	limit, err := maxDiagnostics(cmd, cfg.Limits.MaxDiagnostics)
	if err != nil {
		return err
	}

	result, err := driver.ParseTree(args[0], cfg.Limits.MaxDepth, limit)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		if err := renderDiagnostics(os.Stderr, result.Bag.Items(), result.FileSet, diagfmt.FormatPretty); err != nil {
			return err
		}
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	if compact {
		_, err = fmt.Fprintln(os.Stdout, tree.Print(result.Unit.Nodes))
		return err
	}
	return diagfmt.FormatTree(os.Stdout, result.Unit.Nodes)
}
