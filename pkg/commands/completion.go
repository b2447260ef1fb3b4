package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/cinerec/pkg/search"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(cinerec completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(cinerec completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// movieCompletions offers catalog ids whose title or id starts with
// toComplete, each described by its title.
func movieCompletions(cmd *cobra.Command, toComplete string) []string {
	svc, err := service()
	if err != nil {
		return nil
	}
	movies, _ := svc.Movies(cmd.Context())
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		id := strconv.Itoa(m.ID)
		if toComplete != "" && !strings.HasPrefix(id, toComplete) && !search.Matches(m.Title, toComplete) {
			continue
		}
		out = append(out, fmt.Sprintf("%s\t%s", id, m.Title))
	}
	return out
}
