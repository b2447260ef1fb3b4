// Package recommend provides the CLI runner for recommendation lookups.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/manifoldco/promptui"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/printers"
	rec "tableflip.dev/cinerec/pkg/recommend"
	"tableflip.dev/cinerec/pkg/search"
)

type Recommend struct {
	App     *app.Service
	MovieID int
	// Pick chooses the movie when MovieID is not set, see PromptPick.
	Pick   func(movies []movie.Summary) (movie.Summary, error)
	ShowID bool
	JSON   bool
	Out    io.Writer
}

type jsonResult struct {
	MovieID         int                    `json:"movieId"`
	Outcome         string                 `json:"outcome"`
	Recommendations []movie.Recommendation `json:"recommendations"`
}

func (r *Recommend) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("can not recommend, no backend")
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}

	selected, err := r.selected(ctx)
	if err != nil {
		return err
	}

	res, err := r.App.Recommend(ctx, selected.ID)
	if err != nil {
		return err
	}

	if r.JSON {
		b, err := json.Marshal(jsonResult{
			MovieID:         selected.ID,
			Outcome:         res.Outcome.String(),
			Recommendations: res.Items,
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: r.ShowID, Out: out, ImageURL: r.App.ImageURL}
	pp.NewLine()
	title := "Recommended Movies"
	if selected.Title != "" {
		title = fmt.Sprintf("Recommended Movies for %s", selected.Title)
	}
	pp.TitleWithCount(title, len(res.Items))
	if res.Outcome == rec.OutcomeFailed {
		_, _ = color.New(color.Faint).Fprintln(out, "(recommendation service unavailable)")
	}
	pp.Recommendations(res.Items...)
	return nil
}

func (r *Recommend) selected(ctx context.Context) (movie.Summary, error) {
	if r.MovieID > 0 {
		m, err := r.App.Find(ctx, r.MovieID)
		if errors.Is(err, app.ErrNotFound) {
			// The catalog may be unavailable; the service can still answer.
			return movie.Summary{ID: r.MovieID}, nil
		}
		return m, err
	}
	if r.Pick == nil {
		return movie.Summary{}, errors.New("a movie id is required")
	}
	movies, err := r.App.Movies(ctx)
	if err != nil {
		return movie.Summary{}, fmt.Errorf("loading catalog: %w", err)
	}
	if len(movies) == 0 {
		return movie.Summary{}, errors.New("no movies found")
	}
	return r.Pick(movies)
}

// PromptPick asks the user to choose a movie, filtering by title as they type.
func PromptPick(in io.ReadCloser, out io.WriteCloser) func([]movie.Summary) (movie.Summary, error) {
	return func(movies []movie.Summary) (movie.Summary, error) {
		templates := &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Title | bold }} {{ .ReleaseDate | faint }}",
			Inactive: "   {{ .Title }} {{ .ReleaseDate | faint }}",
			Selected: "{{ .Title | bold }}",
			Details: `
--------- Overview ----------
{{ .Overview }}
`,
		}

		searcher := func(input string, index int) bool {
			return search.Matches(movies[index].Title, strings.TrimSpace(input))
		}

		prompt := promptui.Select{
			HideHelp:          true,
			Label:             "Select Movie",
			Items:             movies,
			Templates:         templates,
			Size:              10,
			Searcher:          searcher,
			StartInSearchMode: true,
			Stdin:             in,
			Stdout:            out,
		}

		i, _, err := prompt.Run()
		if err != nil {
			return movie.Summary{}, fmt.Errorf("prompt failed: %w", err)
		}
		return movies[i], nil
	}
}
