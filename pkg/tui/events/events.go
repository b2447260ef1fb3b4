package events

import (
	"fmt"

	"tableflip.dev/cinerec/pkg/catalog"
	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/recommend"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// CatalogLoadedMsg carries the settled catalog into the update loop. Err is
// only for diagnostics; a failed load arrives as an empty catalog.
type CatalogLoadedMsg struct {
	Snapshot catalog.Snapshot
	Err      error
	Reload   bool
}

// Describe renders the load in a human-friendly format for logs.
func (m CatalogLoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf("movies:%d err:%q", len(m.Snapshot.Movies), m.Err.Error())
	}
	return fmt.Sprintf("movies:%d", len(m.Snapshot.Movies))
}

// MovieSelectMsg is emitted when the picker commits a movie.
type MovieSelectMsg struct {
	Component ComponentID
	Movie     movie.Summary
}

// Describe renders the selection in a human-friendly format for logs.
func (m MovieSelectMsg) Describe() string {
	return fmt.Sprintf("id:%d title:%q", m.Movie.ID, m.Movie.Title)
}

// PickerStateMsg is emitted when the picker opens or closes.
type PickerStateMsg struct {
	Component ComponentID
	Open      bool
	Outside   bool
}

// Describe renders the state change in a human-friendly format for logs.
func (m PickerStateMsg) Describe() string {
	state := "closed"
	if m.Open {
		state = "open"
	}
	if m.Outside {
		return fmt.Sprintf("state:%s via:outside-press", state)
	}
	return fmt.Sprintf("state:%s", state)
}

// RecommendationsMsg carries a finished recommendation request back into the
// update loop.
type RecommendationsMsg struct {
	Result recommend.Result
}

// Describe renders the result in a human-friendly format for logs.
func (m RecommendationsMsg) Describe() string {
	r := m.Result
	if r.Err != nil {
		return fmt.Sprintf("seq:%d movie:%d outcome:%s err:%q", r.Seq, r.MovieID, r.Outcome, r.Err.Error())
	}
	return fmt.Sprintf("seq:%d movie:%d outcome:%s items:%d", r.Seq, r.MovieID, r.Outcome, len(r.Items))
}

// CarouselScrollMsg is emitted when the carousel moves.
type CarouselScrollMsg struct {
	Component ComponentID
	Offset    int
}

// Describe renders the scroll in a human-friendly format for logs.
func (m CarouselScrollMsg) Describe() string {
	return fmt.Sprintf("offset:%d", m.Offset)
}
