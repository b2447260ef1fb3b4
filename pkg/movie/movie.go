// Package movie defines the catalog and recommendation value types shared by
// the client, the stores, and the UIs.
package movie

import (
	"strings"
)

// Summary is a single catalog entry. ID is the identity; every other field is
// display data.
type Summary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// Year returns the four digit release year, or "" when unknown.
func (s Summary) Year() string {
	return year(s.ReleaseDate)
}

// Recommendation is a movie returned by the recommendation endpoint. Image
// carries the remote poster path and is nil when the service sent none.
type Recommendation struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Image       *string `json:"image"`
	Overview    string  `json:"overview,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// Year returns the four digit release year, or "" when unknown.
func (r Recommendation) Year() string {
	return year(r.ReleaseDate)
}

// HasImage reports whether a non-empty image path is present.
func (r Recommendation) HasImage() bool {
	return r.Image != nil && strings.TrimSpace(*r.Image) != ""
}

// CatalogRecord is the wire shape of GET /movies. Older deployments of the
// service key movies by movie_id instead of id.
type CatalogRecord struct {
	ID          *int    `json:"id"`
	MovieID     *int    `json:"movie_id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// Summary converts the wire record into a catalog entry.
func (r CatalogRecord) Summary() Summary {
	s := Summary{
		Title:       r.Title,
		Overview:    r.Overview,
		ReleaseDate: r.ReleaseDate,
		VoteAverage: r.VoteAverage,
	}
	switch {
	case r.ID != nil:
		s.ID = *r.ID
	case r.MovieID != nil:
		s.ID = *r.MovieID
	}
	if r.PosterPath != nil {
		s.PosterPath = *r.PosterPath
	}
	return s
}

// RecommendationRecord is the wire shape of GET /recommendations/{id}.
type RecommendationRecord struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// Recommendation maps the record so its poster path lands in Image. A null or
// missing poster stays nil.
func (r RecommendationRecord) Recommendation() Recommendation {
	rec := Recommendation{
		ID:          r.ID,
		Title:       r.Title,
		Overview:    r.Overview,
		ReleaseDate: r.ReleaseDate,
		VoteAverage: r.VoteAverage,
	}
	if r.PosterPath != nil {
		p := *r.PosterPath
		rec.Image = &p
	}
	return rec
}

// Recommendations maps every record, always returning a non-nil slice.
func Recommendations(records []RecommendationRecord) []Recommendation {
	out := make([]Recommendation, 0, len(records))
	for _, r := range records {
		out = append(out, r.Recommendation())
	}
	return out
}

func year(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
