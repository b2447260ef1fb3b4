// Package backend is the HTTP client for the movie recommendation service.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"tableflip.dev/cinerec/pkg/logging"
	"tableflip.dev/cinerec/pkg/metrics"
	"tableflip.dev/cinerec/pkg/movie"
)

const (
	endpointMovies          = "movies"
	endpointRecommendations = "recommendations"

	maxBodyBytes = 64 << 20
)

// Client talks to the recommendation service. Calls are guarded by a circuit
// breaker so an unreachable service fails fast instead of hanging every
// keystroke-driven retry the user makes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a transport timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBreakerSettings overrides the circuit breaker configuration.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(c *Client) {
		c.breaker = newBreaker(st)
	}
}

// New builds a client for baseURL (scheme://host[/prefix], no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = newBreaker(DefaultBreakerSettings())
	}
	return c
}

// DefaultBreakerSettings opens after five consecutive server-side failures
// and probes again after thirty seconds.
func DefaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "recommendation-service",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

func newBreaker(st gobreaker.Settings) *gobreaker.CircuitBreaker[[]byte] {
	if st.IsSuccessful == nil {
		st.IsSuccessful = func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || !serverSide(err)
		}
	}
	onChange := st.OnStateChange
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		if onChange != nil {
			onChange(name, from, to)
		}
	}
	return gobreaker.NewCircuitBreaker[[]byte](st)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Movies fetches the full catalog in service order. Errors wrap ErrCatalogLoad.
func (c *Client) Movies(ctx context.Context) ([]movie.Summary, error) {
	body, err := c.get(ctx, endpointMovies, "/movies")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}
	var records []movie.CatalogRecord
	if err := json.Unmarshal(body, &records); err != nil {
		observe(endpointMovies, "error")
		return nil, fmt.Errorf("%w: decoding response: %w", ErrCatalogLoad, err)
	}
	movies := make([]movie.Summary, 0, len(records))
	for _, r := range records {
		movies = append(movies, r.Summary())
	}
	observe(endpointMovies, outcome(len(movies)))
	return movies, nil
}

// Recommendations fetches movies similar to movieID. Errors wrap
// ErrRecommendationLoad.
func (c *Client) Recommendations(ctx context.Context, movieID int) ([]movie.Recommendation, error) {
	path := "/recommendations/" + url.PathEscape(strconv.Itoa(movieID))
	body, err := c.get(ctx, endpointRecommendations, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecommendationLoad, err)
	}
	var records []movie.RecommendationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		observe(endpointRecommendations, "error")
		return nil, fmt.Errorf("%w: decoding response: %w", ErrRecommendationLoad, err)
	}
	recs := movie.Recommendations(records)
	observe(endpointRecommendations, outcome(len(recs)))
	return recs, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.BackendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return b, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			observe(endpoint, "rejected")
		} else {
			observe(endpoint, "error")
		}
		return nil, err
	}
	return body, nil
}

func observe(endpoint, result string) {
	metrics.BackendRequests.WithLabelValues(endpoint, result).Inc()
}

func outcome(n int) string {
	if n == 0 {
		return "empty"
	}
	return "ok"
}
