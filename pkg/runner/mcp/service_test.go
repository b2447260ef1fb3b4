package mcp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/cinerec/pkg/app"
	"tableflip.dev/cinerec/pkg/backend"
)

func newTestService(t *testing.T, recStatus int) *Service {
	t.Helper()
	return newDelayedService(t, recStatus, 0)
}

func newDelayedService(t *testing.T, recStatus int, delay time.Duration) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		switch {
		case r.URL.Path == "/movies":
			_, _ = io.WriteString(w, `[
				{"id":2,"title":"zorro","release_date":"1998-07-17"},
				{"id":1,"title":"Alien","poster_path":"/alien.jpg","release_date":"1979-05-25"},
				{"movie_id":3,"title":"Brazil"}
			]`)
		case r.URL.Path == "/recommendations/1":
			if recStatus != http.StatusOK {
				w.WriteHeader(recStatus)
				return
			}
			_, _ = io.WriteString(w, `[
				{"id":5,"title":"Aliens","poster_path":"/x.jpg","overview":"","release_date":"1986-07-18","vote_average":7.9},
				{"id":6,"title":"Prometheus","poster_path":null,"overview":"","release_date":"2012-06-01","vote_average":7.0}
			]`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	}))
	t.Cleanup(srv.Close)
	return NewService(app.New(backend.New(srv.URL), "https://image.tmdb.org/t/p/w500"))
}

func TestListMovies(t *testing.T) {
	svc := newTestService(t, http.StatusOK)
	movies, err := svc.ListMovies(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, m := range movies {
		got = append(got, m.Title)
	}
	if strings.Join(got, ",") != "Alien,Brazil,zorro" {
		t.Fatalf("unexpected order %v", got)
	}
	if movies[0].ImageURL != "https://image.tmdb.org/t/p/w500/alien.jpg" {
		t.Fatalf("unexpected image url %q", movies[0].ImageURL)
	}
	if movies[1].ID != 3 {
		t.Fatalf("expected movie_id fallback, got %d", movies[1].ID)
	}
	if movies[0].Year != "1979" {
		t.Fatalf("expected year 1979, got %q", movies[0].Year)
	}

	limited, _ := svc.ListMovies(context.Background(), 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestSearchMovies(t *testing.T) {
	svc := newTestService(t, http.StatusOK)
	movies, err := svc.SearchMovies(context.Background(), "  ZO ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "zorro" {
		t.Fatalf("expected zorro, got %+v", movies)
	}
}

func TestGetMovie(t *testing.T) {
	svc := newTestService(t, http.StatusOK)
	m, err := svc.GetMovie(context.Background(), 1)
	if err != nil || m.Title != "Alien" {
		t.Fatalf("expected Alien, got %+v %v", m, err)
	}
	if _, err := svc.GetMovie(context.Background(), 99); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestRecommend(t *testing.T) {
	svc := newTestService(t, http.StatusOK)
	dto, err := svc.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Outcome != "ok" || dto.Count != 2 {
		t.Fatalf("unexpected result %+v", dto)
	}
	if dto.Items[0].ImageURL != "https://image.tmdb.org/t/p/w500/x.jpg" {
		t.Fatalf("unexpected image url %q", dto.Items[0].ImageURL)
	}
	if dto.Items[1].ImageURL != "" {
		t.Fatalf("absent poster should have no image url, got %q", dto.Items[1].ImageURL)
	}
}

func TestRecommendConcurrentClients(t *testing.T) {
	svc := newDelayedService(t, http.StatusOK, 50*time.Millisecond)

	var wg sync.WaitGroup
	dtos := make([]RecommendationsDTO, 3)
	errs := make([]error, 3)
	for i := range dtos {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dtos[i], errs[i] = svc.Recommend(context.Background(), 1)
		}(i)
	}
	wg.Wait()

	for i := range dtos {
		if errs[i] != nil {
			t.Fatalf("client %d: unexpected error %v", i, errs[i])
		}
		if dtos[i].Outcome != "ok" || dtos[i].Count != 2 {
			t.Fatalf("client %d: unexpected result %+v", i, dtos[i])
		}
	}
}

func TestListMoviesAfterCancelledFirstCall(t *testing.T) {
	svc := newDelayedService(t, http.StatusOK, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _ = svc.ListMovies(ctx, 0)

	movies, err := svc.ListMovies(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 movies after an abandoned first call, got %d", len(movies))
	}
}

func TestRecommendFailureIsEmpty(t *testing.T) {
	svc := newTestService(t, http.StatusServiceUnavailable)
	dto, err := svc.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("failure must not escape, got %v", err)
	}
	if dto.Outcome != "failed" || dto.Count != 0 || dto.Items == nil {
		t.Fatalf("expected failed empty result, got %+v", dto)
	}
	if dto.Error == "" {
		t.Fatalf("expected error detail for diagnostics")
	}
}

func TestParseMovieID(t *testing.T) {
	if id, err := ParseMovieID(" 42 "); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d %v", id, err)
	}
	for _, bad := range []string{"", "abc", "-1"} {
		if _, err := ParseMovieID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRouterServesMetrics(t *testing.T) {
	r := Runner{MetricsPath: "metrics"}
	h := r.router("/mcp", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cinerec_recommend_stale_results_total") {
		t.Fatalf("expected cinerec metrics in output")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected mcp handler to be mounted, got %d", rec.Code)
	}
}
