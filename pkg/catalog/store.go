// Package catalog loads and holds the browsable movie catalog.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tableflip.dev/cinerec/pkg/logging"
	"tableflip.dev/cinerec/pkg/movie"
)

// Source fetches the full catalog in service order.
type Source interface {
	Movies(ctx context.Context) ([]movie.Summary, error)
}

// Snapshot is a consistent view of the store. Movies must be treated as
// read-only; the store never mutates a published slice.
type Snapshot struct {
	Movies  []movie.Summary
	Loading bool
}

// Store owns the catalog and its loading flag. The catalog is replaced
// wholesale on every load, never edited in place.
type Store struct {
	src  Source
	tag  language.Tag
	log  zerolog.Logger
	once sync.Once

	group singleflight.Group

	mu      sync.RWMutex
	movies  []movie.Summary
	loading bool
	lastErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLanguage selects the collation used for sorting titles.
func WithLanguage(tag language.Tag) Option {
	return func(s *Store) { s.tag = tag }
}

// New creates a store in the loading state. Nothing is fetched until Load.
func New(src Source, opts ...Option) *Store {
	s := &Store{
		src:     src,
		tag:     language.English,
		log:     logging.With("catalog"),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load performs the initial fetch. Only the first call does any work; later
// calls return the settled snapshot.
func (s *Store) Load(ctx context.Context) Snapshot {
	s.once.Do(func() {
		s.fetch(ctx)
	})
	return s.Snapshot()
}

// Reload fetches the catalog again and replaces it atomically. Concurrent
// reloads share one request.
func (s *Store) Reload(ctx context.Context) Snapshot {
	s.once.Do(func() {})
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.fetch(ctx)
	return s.Snapshot()
}

func (s *Store) fetch(ctx context.Context) {
	v, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		if s.src == nil {
			return nil, errNoSource
		}
		movies, err := s.src.Movies(ctx)
		if err != nil {
			return nil, err
		}
		return SortByTitle(movies, s.tag), nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = err
	if err != nil {
		s.log.Error().Err(err).Msg("error fetching movies")
		s.movies = nil
		return
	}
	s.movies = v.([]movie.Summary)
	s.log.Debug().Int("count", len(s.movies)).Msg("catalog loaded")
}

// Snapshot returns the current catalog and loading flag together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Movies: s.movies, Loading: s.loading}
}

// Movies returns the sorted catalog.
func (s *Store) Movies() []movie.Summary {
	return s.Snapshot().Movies
}

// Loading reports whether the catalog has not settled yet.
func (s *Store) Loading() bool {
	return s.Snapshot().Loading
}

// LastError is the failure from the most recent load, for diagnostics only.
// The rest of the system sees a failed load as an empty catalog.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Find returns the movie with id, if present.
func (s *Store) Find(id int) (movie.Summary, bool) {
	for _, m := range s.Movies() {
		if m.ID == id {
			return m, true
		}
	}
	return movie.Summary{}, false
}

// SortByTitle returns a copy of movies ordered by lower-cased title using
// the collation rules of tag. Equal titles keep their input order.
func SortByTitle(movies []movie.Summary, tag language.Tag) []movie.Summary {
	sorted := append([]movie.Summary(nil), movies...)
	keys := make([]string, len(sorted))
	for i, m := range sorted {
		keys[i] = strings.ToLower(m.Title)
	}
	col := collate.New(tag)
	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return col.CompareString(keys[idx[i]], keys[idx[j]]) < 0
	})
	out := make([]movie.Summary, len(sorted))
	for i, k := range idx {
		out[i] = sorted[k]
	}
	return out
}
