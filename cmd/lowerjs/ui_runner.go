package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lowerjs/internal/driver"
	"lowerjs/internal/ui"
)

type compileOutcome struct {
	results []*driver.Result
	err     error
}

// compileDirWithUI runs driver.CompileDir while a progress view follows its
// events. display holds the file names shown for files.
func compileDirWithUI(ctx context.Context, title string, files, display []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		opts.Progress = relabel(driver.ChannelSink{Ch: events}, files, display)
		results, err := driver.CompileDir(ctx, files, opts)
		outcomeCh <- compileOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, display, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

type relabelSink struct {
	next  driver.ProgressSink
	names map[string]string
}

func relabel(next driver.ProgressSink, files, display []string) driver.ProgressSink {
	names := make(map[string]string, len(files))
	for i, f := range files {
		names[f] = display[i]
	}
	return relabelSink{next: next, names: names}
}

func (s relabelSink) OnEvent(ev driver.Event) {
	if name, ok := s.names[ev.File]; ok {
		ev.File = name
	}
	s.next.OnEvent(ev)
}
