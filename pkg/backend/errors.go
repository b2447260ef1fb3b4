package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogLoad wraps every failure of GET /movies.
	ErrCatalogLoad = errors.New("backend: catalog load failed")
	// ErrRecommendationLoad wraps every failure of GET /recommendations/{id}.
	ErrRecommendationLoad = errors.New("backend: recommendation load failed")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// serverSide reports whether the error says the service itself is unhealthy.
func serverSide(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return true
}
