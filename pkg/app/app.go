// Package app is the service layer shared by the TUI, the CLI and the MCP
// server: catalog access, title search and recommendations.
package app

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/cinerec/pkg/catalog"
	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/recommend"
	"tableflip.dev/cinerec/pkg/search"
)

// Backend is the remote service the stores read from.
type Backend interface {
	catalog.Source
	recommend.Source
}

// Service provides catalog, search and recommendation operations.
// It wraps the stores so the TUI, the CLI and the MCP server share logic.
type Service struct {
	Catalog *catalog.Store
	// Recommender is the single-request state the TUI drives. One-shot
	// callers go through Recommend instead.
	Recommender  *recommend.Fetcher
	ImageBaseURL string

	source recommend.Source
}

// ErrNotFound is returned by Find when the id is not in the catalog.
var ErrNotFound = errors.New("app: movie not found")

// New wires a service around b.
func New(b Backend, imageBaseURL string) *Service {
	return &Service{
		Catalog:      catalog.New(b),
		Recommender:  recommend.New(b),
		ImageBaseURL: imageBaseURL,
		source:       b,
	}
}

func (s *Service) ready() error {
	if s == nil || s.Catalog == nil || s.Recommender == nil {
		return errors.New("app: no backend configured")
	}
	return nil
}

// Movies loads the catalog once and returns it sorted by title. A failed load
// yields an empty catalog; the load error is returned alongside for callers
// that want to report it.
//
// The one-time load runs detached from ctx. A caller giving up early must not
// settle the catalog empty for every later caller of a long-lived service.
func (s *Service) Movies(ctx context.Context) ([]movie.Summary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	snap := s.Catalog.Load(context.WithoutCancel(ctx))
	return snap.Movies, s.Catalog.LastError()
}

// Search filters the catalog by a case-insensitive title substring.
func (s *Service) Search(ctx context.Context, query string) ([]movie.Summary, error) {
	movies, err := s.Movies(ctx)
	return search.Filter(movies, query), err
}

// Find looks a movie up by id in the loaded catalog.
func (s *Service) Find(ctx context.Context, id int) (movie.Summary, error) {
	if err := s.ready(); err != nil {
		return movie.Summary{}, err
	}
	s.Catalog.Load(context.WithoutCancel(ctx))
	if m, ok := s.Catalog.Find(id); ok {
		return m, nil
	}
	return movie.Summary{}, ErrNotFound
}

// Recommend fetches recommendations for movieID on its own fetcher, so
// concurrent callers never see ErrInFlight and the TUI state is untouched.
// A remote failure is not an error here: it resolves to an empty list with
// OutcomeFailed.
func (s *Service) Recommend(ctx context.Context, movieID int) (recommend.Result, error) {
	if err := s.ready(); err != nil {
		return recommend.Result{}, err
	}
	return recommend.New(s.source).Recommend(ctx, movieID)
}

// ImageURL builds the full poster URL for path, or "" when there is none.
func (s *Service) ImageURL(path *string) string {
	if path == nil || strings.TrimSpace(*path) == "" {
		return ""
	}
	return ImageURL(s.ImageBaseURL, *path)
}

// ImageURL joins an image host base and a poster path.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
