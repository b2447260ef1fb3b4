package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/cinerec/pkg/commands/options"
	"tableflip.dev/cinerec/pkg/runner/recommend"
)

func addRecommend(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	i := &options.InteractiveOptions{}
	r := &recommend.Recommend{}

	cmd := &cobra.Command{
		Use:     "recommend [movie-id]",
		Aliases: []string{"rec"},
		Short:   "show movies similar to the given one",
		Example: `
cinerec recommend 603
cinerec recommend -i
cinerec recommend 603 --json
`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return movieCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 1 {
				return errors.New("a movie id is required, or use --interactive")
			}
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			r.MovieID = id
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return oo.HandleError(err)
			}
			r.App = svc
			r.ShowID = oo.ShowID
			r.JSON = oo.JSON
			r.Out = cmd.OutOrStdout()
			if i.Interactive {
				r.Pick = recommend.PromptPick(os.Stdin, os.Stdout)
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}
