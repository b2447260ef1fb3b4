package commands

import (
	"errors"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/backend"
	"tableflip.dev/cinerec/pkg/commands/options"
	"tableflip.dev/cinerec/pkg/config"
	"tableflip.dev/cinerec/pkg/logging"
)

var (
	bo  = &options.BackendOptions{}
	cfg *config.Config
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "cinerec",
		Short: base.Wrap80("Browse a movie catalog and find similar movies from the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
	}
	options.AddBackendArgs(cmd.PersistentFlags(), bo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addMovies(topLevel)
	addRecommend(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadConfig resolves configuration for every subcommand. A missing backend
// is only an error for commands that talk to it, see service.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.LoadConfig(config.Options{BackendURL: bo.URL, EnvFile: bo.EnvFile})
	switch {
	case errors.Is(err, config.ErrMissingBackend):
		cfg = nil
		logging.Init(logging.Config{Level: bo.LogLevel, Format: "console", Output: cmd.ErrOrStderr()})
		return nil
	case err != nil:
		return err
	}
	cfg = c

	level := c.LogLevel
	if bo.LogLevel != "" {
		level = bo.LogLevel
	}
	logging.Init(logging.Config{Level: level, Format: c.LogFormat, Output: cmd.ErrOrStderr()})
	return nil
}

func service() (*app.Service, error) {
	if cfg == nil {
		return nil, config.ErrMissingBackend
	}
	var opts []backend.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, backend.WithTimeout(cfg.RequestTimeout))
	}
	return app.New(backend.New(cfg.BackendURL, opts...), cfg.ImageBaseURL), nil
}
