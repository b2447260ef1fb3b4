package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/logging"
	teaui "tableflip.dev/cinerec/pkg/tui/app"
)

func TestDoRequiresBackend(t *testing.T) {
	u := UI{}
	if err := u.Do(context.Background()); err == nil {
		t.Fatalf("expected error without a backend")
	}
}

func TestDoLogsToFileAndRuns(t *testing.T) {
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info", Format: "console"}) })

	logFile := filepath.Join(t.TempDir(), "cinerec.log")
	svc := app.New(nil, "")
	var ran bool
	u := UI{
		App:      svc,
		LogFile:  logFile,
		LogLevel: "info",
		run: func(got *app.Service, opts ...teaui.Option) error {
			ran = got == svc && len(opts) == 1
			return nil
		},
	}
	if err := u.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatalf("expected ui to run with the service")
	}
	b, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "starting ui") {
		t.Fatalf("expected startup line in log, got %q", b)
	}
}

func TestDoCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := UI{App: app.New(nil, ""), run: func(*app.Service, ...teaui.Option) error {
		t.Fatalf("ui should not start")
		return nil
	}}
	if err := u.Do(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
