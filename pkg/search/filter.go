// Package search narrows a catalog to the titles matching a query.
package search

import (
	"strings"

	"tableflip.dev/cinerec/pkg/movie"
)

// Filter returns the movies whose title contains query, ignoring case, in
// catalog order. An empty query returns the catalog itself.
func Filter(catalog []movie.Summary, query string) []movie.Summary {
	if query == "" {
		return catalog
	}
	needle := strings.ToLower(query)
	out := make([]movie.Summary, 0, len(catalog))
	for _, m := range catalog {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}

// Matches reports whether title contains query, ignoring case.
func Matches(title, query string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}
