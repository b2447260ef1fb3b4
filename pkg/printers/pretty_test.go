package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/cinerec/pkg/movie"
)

func init() {
	color.NoColor = true
}

func TestMovies(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}
	pp.Movies(
		movie.Summary{ID: 1, Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.1},
		movie.Summary{ID: 2, Title: "zorro"},
	)
	out := buf.String()
	for _, want := range []string{"ID", "Title", "Alien", "1979", "★ 8.1", "zorro"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMoviesEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Movies()
	if !strings.Contains(buf.String(), "No movies found") {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}

func TestRecommendations(t *testing.T) {
	var buf bytes.Buffer
	img := "/x.jpg"
	pp := PrettyPrint{
		Out:   &buf,
		Width: 30,
		ImageURL: func(p *string) string {
			if p == nil {
				return ""
			}
			return "https://img" + *p
		},
	}
	pp.Recommendations(
		movie.Recommendation{ID: 5, Title: "Aliens", Image: &img, Overview: "Ripley returns to the planet with a squad of marines."},
		movie.Recommendation{ID: 6, Title: "Prometheus"},
	)
	out := buf.String()
	if !strings.Contains(out, "https://img/x.jpg") {
		t.Fatalf("expected image url in output:\n%s", out)
	}
	if !strings.Contains(out, "No image") {
		t.Fatalf("expected placeholder for missing image:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Ripley") && len(line) > 30 {
			t.Fatalf("overview not wrapped: %q", line)
		}
	}
}

func TestRecommendationsEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Recommendations()
	if !strings.Contains(buf.String(), "No recommendations found") {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}

func TestRating(t *testing.T) {
	if Rating(0) != "-" {
		t.Fatalf("expected dash for unrated, got %q", Rating(0))
	}
	if Rating(7.94) != "★ 7.9" {
		t.Fatalf("unexpected rating %q", Rating(7.94))
	}
}
