package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/cinerec/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
cinerec ui
cinerec ui --backend-url http://localhost:8000
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("ui needs a terminal; try `cinerec movies` or `cinerec recommend`")
			}
			svc, err := service()
			if err != nil {
				return err
			}
			i := ui.UI{App: svc, LogFile: cfg.LogFile, LogLevel: cfg.LogLevel}
			if bo.LogLevel != "" {
				i.LogLevel = bo.LogLevel
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
