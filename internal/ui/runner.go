package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"easel/internal/pipeline"
)

type checkOutcome struct {
	result *pipeline.CheckResult
	err    error
}

// RunCheck runs pipeline.Check while rendering progress to out. files are
// the display names used by the request.
func RunCheck(ctx context.Context, out io.Writer, title string, req pipeline.CheckRequest) (*pipeline.CheckResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	files := req.Display
	if len(files) != len(req.Files) {
		files = req.Files
	}
	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Check(ctx, req)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// drain so the pipeline never blocks on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
