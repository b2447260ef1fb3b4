// Package mcp provides the Model Context Protocol server integration for cinerec.
package mcp

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/recommend"
)

// Service adapts the catalog and recommendation operations for MCP transport.
type Service struct {
	App *app.Service
}

// ErrMovieNotFound is returned when an id is not in the catalog.
var ErrMovieNotFound = errors.New("movie not found")

// MovieDTO is a transport-friendly projection of a catalog entry.
type MovieDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Year        string  `json:"year,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"voteAverage,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// RecommendationsDTO is the result of one recommendation lookup. Outcome is
// ok, empty or failed; failed lookups still carry an empty list.
type RecommendationsDTO struct {
	MovieID int        `json:"movieId"`
	Title   string     `json:"title,omitempty"`
	Outcome string     `json:"outcome"`
	Error   string     `json:"error,omitempty"`
	Count   int        `json:"count"`
	Items   []MovieDTO `json:"items"`
}

// NewService creates a Service backed by the provided app service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

func (s *Service) ensure() error {
	if s == nil || s.App == nil {
		return errors.New("mcp service requires an app service")
	}
	return nil
}

// ListMovies returns the sorted catalog, at most limit entries when limit > 0.
func (s *Service) ListMovies(ctx context.Context, limit int) ([]MovieDTO, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	movies, _ := s.App.Movies(ctx)
	return s.toMovieDTOs(movies, limit), nil
}

// SearchMovies filters the catalog by title.
func (s *Service) SearchMovies(ctx context.Context, query string, limit int) ([]MovieDTO, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	movies, _ := s.App.Search(ctx, strings.TrimSpace(query))
	return s.toMovieDTOs(movies, limit), nil
}

// GetMovie returns a single catalog entry.
func (s *Service) GetMovie(ctx context.Context, id int) (MovieDTO, error) {
	if err := s.ensure(); err != nil {
		return MovieDTO{}, err
	}
	m, err := s.App.Find(ctx, id)
	if errors.Is(err, app.ErrNotFound) {
		return MovieDTO{}, ErrMovieNotFound
	}
	if err != nil {
		return MovieDTO{}, err
	}
	return s.toMovieDTO(m), nil
}

// Recommend looks up movies similar to id.
func (s *Service) Recommend(ctx context.Context, id int) (RecommendationsDTO, error) {
	if err := s.ensure(); err != nil {
		return RecommendationsDTO{}, err
	}
	res, err := s.App.Recommend(ctx, id)
	if err != nil {
		return RecommendationsDTO{}, err
	}
	dto := RecommendationsDTO{
		MovieID: id,
		Outcome: res.Outcome.String(),
		Count:   len(res.Items),
		Items:   make([]MovieDTO, 0, len(res.Items)),
	}
	if res.Outcome == recommend.OutcomeFailed && res.Err != nil {
		dto.Error = res.Err.Error()
	}
	if m, ok := s.App.Catalog.Find(id); ok {
		dto.Title = m.Title
	}
	for _, r := range res.Items {
		dto.Items = append(dto.Items, MovieDTO{
			ID:          r.ID,
			Title:       r.Title,
			Year:        r.Year(),
			Overview:    r.Overview,
			VoteAverage: r.VoteAverage,
			ImageURL:    s.App.ImageURL(r.Image),
		})
	}
	return dto, nil
}

func (s *Service) toMovieDTOs(movies []movie.Summary, limit int) []MovieDTO {
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	out := make([]MovieDTO, 0, len(movies))
	for _, m := range movies {
		out = append(out, s.toMovieDTO(m))
	}
	return out
}

func (s *Service) toMovieDTO(m movie.Summary) MovieDTO {
	poster := m.PosterPath
	return MovieDTO{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year(),
		Overview:    m.Overview,
		VoteAverage: m.VoteAverage,
		ImageURL:    s.App.ImageURL(&poster),
	}
}

// ParseMovieID converts a tool or resource argument into a movie id.
func ParseMovieID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 0 {
		return 0, errors.New("movie id must be a non-negative integer")
	}
	return id, nil
}
