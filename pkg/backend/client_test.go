package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestMovies(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":2,"title":"zorro"},{"movie_id":1,"title":"Alien","poster_path":"/a.jpg"}]`))
	})

	movies, err := New(srv.URL).Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	// Service order is preserved; sorting belongs to the catalog store.
	assert.Equal(t, "zorro", movies[0].Title)
	assert.Equal(t, 1, movies[1].ID)
	assert.Equal(t, "/a.jpg", movies[1].PosterPath)
}

func TestMoviesNon2xx(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := New(srv.URL).Movies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogLoad)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestMoviesBadJSON(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	})

	_, err := New(srv.URL).Movies(context.Background())
	assert.ErrorIs(t, err, ErrCatalogLoad)
}

func TestRecommendations(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommendations/1", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":5,"title":"Aliens","poster_path":"/x.jpg","overview":"o","release_date":"1986-07-18","vote_average":7.9},
			{"id":6,"title":"Alien 3","poster_path":null,"overview":"","release_date":"","vote_average":0}
		]`))
	})

	recs, err := New(srv.URL + "/").Recommendations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.NotNil(t, recs[0].Image)
	assert.Equal(t, "/x.jpg", *recs[0].Image)
	assert.Nil(t, recs[1].Image)
}

func TestRecommendationsNon2xx(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	recs, err := New(srv.URL).Recommendations(context.Background(), 42)
	assert.Nil(t, recs)
	assert.ErrorIs(t, err, ErrRecommendationLoad)
	assert.False(t, errors.Is(err, ErrCatalogLoad))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	st := DefaultBreakerSettings()
	st.Name = "test-open"
	st.Timeout = time.Minute
	st.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 2 }
	c := New(srv.URL, WithBreakerSettings(st))

	for i := 0; i < 2; i++ {
		_, err := c.Movies(context.Background())
		require.Error(t, err)
	}
	_, err := c.Movies(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.ErrorIs(t, err, ErrCatalogLoad)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	st := DefaultBreakerSettings()
	st.Name = "test-4xx"
	st.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 }
	c := New(srv.URL, WithBreakerSettings(st))

	for i := 0; i < 3; i++ {
		_, err := c.Recommendations(context.Background(), 7)
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestCancelledContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL).Recommendations(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrRecommendationLoad)
}
