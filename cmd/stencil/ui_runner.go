package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stencil/internal/driver"
	"stencil/internal/pipeline"
	"stencil/internal/source"
	"stencil/internal/ui"
)

type expandOutcome struct {
	fs      *source.FileSet
	results []*driver.Result
	err     error
}

func expandWithUI(ctx context.Context, title, base string, files []string, opts driver.Options) (*source.FileSet, []*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	go func() {
		withSink := opts
		withSink.Sink = pipeline.ChannelSink{Ch: events}
		fs, results, err := driver.ExpandFiles(ctx, base, files, withSink)
		outcomeCh <- expandOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// ctrl+c leaves the workers running; stop them and keep draining
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
