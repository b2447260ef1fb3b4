package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/logging"
	teaui "tableflip.dev/cinerec/pkg/tui/app"
	"tableflip.dev/cinerec/pkg/tui/components/eventviewer"
)

// UI launches the interactive browser.
type UI struct {
	App *app.Service
	// LogFile receives log output while the UI owns the terminal. Empty
	// discards logs.
	LogFile  string
	LogLevel string

	// run is swapped in tests.
	run func(*app.Service, ...teaui.Option) error
}

func (u *UI) Do(ctx context.Context) error {
	if u.App == nil {
		return errors.New("can not start ui, no backend")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The debug pane shows the same lines the log file receives.
	sink := eventviewer.NewLogSink(500)
	var file io.Writer = io.Discard
	if u.LogFile != "" {
		f, err := os.OpenFile(u.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		file = f
	}
	logging.Init(logging.Config{Level: u.LogLevel, Format: "json", Output: io.MultiWriter(file, sink)})
	logging.Info().Msg("starting ui")

	run := u.run
	if run == nil {
		run = teaui.Run
	}
	return run(u.App, teaui.WithLogSink(sink))
}
