package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/cinerec/pkg/movie"
)

type PrettyPrint struct {
	ShowID bool
	// Width bounds titles and wrapped overviews. Zero means 80.
	Width int
	// ImageURL resolves a poster path into a link. Nil hides images.
	ImageURL func(*string) string
	Out      io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return 80
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " movie")
	default:
		_, _ = c.Fprintln(pp.out(), " movies")
	}
}

// Empty prints a faint placeholder line.
func (pp *PrettyPrint) Empty(msg string) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintf(pp.out(), " %s\n\n", msg)
}

// Movies prints the catalog as a table.
func (pp *PrettyPrint) Movies(movies ...movie.Summary) {
	if len(movies) == 0 {
		pp.Empty("No movies found")
		return
	}
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width())
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Title"), bold.Sprint("Year"), bold.Sprint("Rating"))
	} else {
		tbl.AddRow(bold.Sprint("Title"), bold.Sprint("Year"), bold.Sprint("Rating"))
	}
	for _, m := range movies {
		title := truncate.StringWithTail(m.Title, uint(pp.width()/2), "…")
		if pp.ShowID {
			tbl.AddRow(y.Sprint(m.ID), title, m.Year(), Rating(m.VoteAverage))
		} else {
			tbl.AddRow(title, m.Year(), Rating(m.VoteAverage))
		}
	}
	if pp.ShowID {
		tbl.RightAlign(0)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Recommendations prints one block per recommended movie.
func (pp *PrettyPrint) Recommendations(recs ...movie.Recommendation) {
	if len(recs) == 0 {
		pp.Empty("No recommendations found")
		return
	}
	t := color.New(color.Bold)
	f := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, r := range recs {
		if pp.ShowID {
			_, _ = y.Fprintf(pp.out(), "%d ", r.ID)
		}
		_, _ = t.Fprint(pp.out(), r.Title)
		if yr := r.Year(); yr != "" {
			_, _ = f.Fprintf(pp.out(), " (%s)", yr)
		}
		_, _ = fmt.Fprintf(pp.out(), "  %s\n", Rating(r.VoteAverage))

		if pp.ImageURL != nil {
			if u := pp.ImageURL(r.Image); u != "" {
				_, _ = f.Fprintln(pp.out(), indent.String(u, 2))
			} else {
				_, _ = f.Fprintln(pp.out(), indent.String("No image", 2))
			}
		}
		if ov := strings.TrimSpace(r.Overview); ov != "" {
			wrapped := wordwrap.String(ov, pp.width()-2)
			_, _ = fmt.Fprintln(pp.out(), indent.String(wrapped, 2))
		}
		pp.NewLine()
	}
}

// Rating renders a vote average coloured by how good it is.
func Rating(v float64) string {
	if v <= 0 {
		return color.New(color.Faint).Sprint("-")
	}
	s := "★ " + strconv.FormatFloat(v, 'f', 1, 64)
	switch {
	case v >= 7.5:
		return color.New(color.FgGreen).Sprint(s)
	case v >= 5.5:
		return color.New(color.FgYellow).Sprint(s)
	default:
		return color.New(color.FgRed).Sprint(s)
	}
}
