package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/cinerec/pkg/commands/options"
	"tableflip.dev/cinerec/pkg/runner/movies"
)

func addMovies(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	limit := 0

	cmd := &cobra.Command{
		Use:     "movies [query]",
		Aliases: []string{"ls", "search"},
		Short:   "list the catalog, optionally filtered by title",
		Example: `
cinerec movies
cinerec movies zo
cinerec movies --json --limit 5
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			m := movies.Movies{
				App:    svc,
				Query:  strings.TrimSpace(strings.Join(args, " ")),
				Limit:  limit,
				ShowID: oo.ShowID,
				JSON:   oo.JSON,
				Out:    cmd.OutOrStdout(),
			}
			return oo.HandleError(m.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many movies (0 for all).")

	topLevel.AddCommand(cmd)
}
