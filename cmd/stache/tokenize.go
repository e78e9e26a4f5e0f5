package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stache/internal/diagfmt"
	"stache/internal/driver"
	"stache/internal/lexer"
	"stache/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] template.mustache",
	Short: "Tokenize a mustache template",
	Long:  `Tokenize breaks a mustache template into its token stream; pass "-" to read stdin`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	tokenizeCmd.Flags().String("open", "", "initial open delimiter (default {{)")
	tokenizeCmd.Flags().String("close", "", "initial close delimiter (default }})")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	delims, err := delimsFromFlags(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	var result *driver.TokenizeResult
	var scanErr error
	if path == "-" {
		src, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result, scanErr = driver.TokenizeBytes("<stdin>", src, maxDiagnostics, delims)
	} else {
		result, scanErr = driver.Tokenize(path, maxDiagnostics, delims)
	}
	if result == nil {
		return fmt.Errorf("tokenization failed: %w", scanErr)
	}

	// A scan error is already in the bag; render it with positions instead
	// of the bare error string.
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		result.Bag.Sort()
		opts := diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 1,
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	var formatErr error
	switch format {
	case "pretty":
		formatErr = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		formatErr = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	case "msgpack":
		formatErr = diagfmt.FormatTokensMsgpack(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if formatErr != nil {
		return formatErr
	}

	var se *lexer.ScanError
	if errors.As(scanErr, &se) {
		// Diagnostics already rendered; exit non-zero without re-printing.
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return scanErr
	}
	return scanErr
}

func delimsFromFlags(cmd *cobra.Command) (token.Delims, error) {
	open, err := cmd.Flags().GetString("open")
	if err != nil {
		return token.Delims{}, fmt.Errorf("failed to get open flag: %w", err)
	}
	closing, err := cmd.Flags().GetString("close")
	if err != nil {
		return token.Delims{}, fmt.Errorf("failed to get close flag: %w", err)
	}
	if (open == "") != (closing == "") {
		return token.Delims{}, fmt.Errorf("--open and --close must be set together")
	}
	if open == "" {
		return token.Default(), nil
	}
	return token.Delims{Open: open, Close: closing}, nil
}
