package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"stache/internal/driver"
	"stache/internal/source"
	"stache/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.CheckResult
	err     error
}

// runCheckMaybeUI runs the directory check, behind a progress TUI when the
// mode allows it.
func runCheckMaybeUI(cmd *cobra.Command, dir string, opts driver.CheckOptions, mode uiMode) ([]driver.CheckResult, *source.FileSet, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !shouldUseTUI(mode) {
		fs, results, err := driver.CheckDir(ctx, dir, opts)
		return results, fs, err
	}

	files, err := driver.ListTemplates(dir, extOrDefault(opts.Ext))
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		fs, results, err := driver.CheckDir(ctx, dir, opts)
		return results, fs, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking templates", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.fs, uiErr
	}
	return outcome.results, outcome.fs, outcome.err
}

func extOrDefault(ext string) string {
	if ext == "" {
		return ".mustache"
	}
	return ext
}
