package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stache/internal/diagfmt"
	"stache/internal/driver"
	"stache/internal/project"
	"stache/internal/token"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir]",
	Short: "Scan every template under a directory",
	Long: `Check scans all templates under a directory (or the nearest stache.toml
project) and reports every lexical problem it finds`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "scan parallelism (0 = number of CPUs)")
	checkCmd.Flags().String("ext", "", "template extension (default .mustache or manifest setting)")
	checkCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	extFlag, err := cmd.Flags().GetString("ext")
	if err != nil {
		return fmt.Errorf("failed to get ext flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	// Manifest settings fill whatever the flags leave open.
	dir := startDir
	ext := extFlag
	delims := token.Default()
	if manifest, ok, mErr := project.Load(startDir); mErr != nil {
		return mErr
	} else if ok {
		if len(args) == 0 {
			dir = manifest.TemplatesDir()
		}
		if ext == "" {
			ext = manifest.Ext()
		}
		delims = manifest.Delims()
	}

	opts := driver.CheckOptions{
		Ext:            ext,
		Delims:         delims,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}

	results, fs, err := runCheckMaybeUI(cmd, dir, opts, mode)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Bag.HasErrors() || res.Bag.HasWarnings() {
			res.Bag.Sort()
			diagfmt.Pretty(os.Stderr, res.Bag, fs, diagfmt.PrettyOpts{
				Color:    useColor(cmd, os.Stderr),
				Context:  1,
				PathMode: diagfmt.PathModeRelative,
			})
		}
		if res.Bag.HasErrors() {
			failed++
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d template(s), %d with errors\n", len(results), failed)
	}
	if failed > 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return fmt.Errorf("%d template(s) failed", failed)
	}
	return nil
}
