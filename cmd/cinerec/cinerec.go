package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tableflip.dev/cinerec/pkg/commands"
	"tableflip.dev/cinerec/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.New().ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("error during command execution")
		stop()
		os.Exit(1)
	}
}
