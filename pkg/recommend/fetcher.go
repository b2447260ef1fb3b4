// Package recommend runs recommendation lookups for the selected movie, one
// request at a time, and exposes the result as Idle, Loading or Resolved.
package recommend

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"tableflip.dev/cinerec/pkg/logging"
	"tableflip.dev/cinerec/pkg/metrics"
	"tableflip.dev/cinerec/pkg/movie"
)

// ErrInFlight is returned by Recommend when another request is running.
var ErrInFlight = errors.New("recommendation request already in flight")

// Source fetches recommendations for one movie.
type Source interface {
	Recommendations(ctx context.Context, movieID int) ([]movie.Recommendation, error)
}

// Phase is the request lifecycle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Outcome distinguishes how a resolved request ended. Empty and Failed render
// the same way; the distinction exists for logs and tests.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeOK
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Result is what one request produced. Items is never nil.
type Result struct {
	Seq     uint64
	MovieID int
	Items   []movie.Recommendation
	Outcome Outcome
	Err     error
}

// Snapshot is a consistent view of the fetcher.
type Snapshot struct {
	Phase      Phase
	ForMovieID int
	Items      []movie.Recommendation
	Outcome    Outcome
	Err        error
	// Visible is set by the first request and stays set.
	Visible bool
}

// Fetcher owns the recommendation request state.
type Fetcher struct {
	src Source
	sem *semaphore.Weighted
	log zerolog.Logger

	mu      sync.Mutex
	seq     uint64
	phase   Phase
	forID   int
	items   []movie.Recommendation
	outcome Outcome
	err     error
	visible bool
	running bool
	cancel  context.CancelFunc
}

// New returns an idle fetcher.
func New(src Source) *Fetcher {
	return &Fetcher{
		src:   src,
		sem:   semaphore.NewWeighted(1),
		log:   logging.With("recommend"),
		items: []movie.Recommendation{},
	}
}

// Pending is a started request. Do must be called exactly once.
type Pending struct {
	f       *Fetcher
	ctx     context.Context
	seq     uint64
	movieID int
}

// Seq is the sequence number tagging this request.
func (p Pending) Seq() uint64 { return p.seq }

// MovieID is the movie this request is for.
func (p Pending) MovieID() int { return p.movieID }

// Request moves the fetcher to Loading for movieID and returns the work to
// run. While a request is loading or its network call is still running,
// Request does nothing and reports false.
func (f *Fetcher) Request(ctx context.Context, movieID int) (Pending, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == Loading || f.running {
		return Pending{}, false
	}
	if !f.sem.TryAcquire(1) {
		return Pending{}, false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cctx, cancel := context.WithCancel(ctx)
	f.seq++
	f.cancel = cancel
	f.running = true
	f.phase = Loading
	f.forID = movieID
	f.visible = true
	f.log.Debug().Int("movie_id", movieID).Uint64("seq", f.seq).Msg("requesting recommendations")
	return Pending{f: f, ctx: cctx, seq: f.seq, movieID: movieID}, true
}

// Do performs the remote call. Failures are logged and come back as an
// empty list with OutcomeFailed; Do never panics on a remote error.
func (p Pending) Do() Result {
	f := p.f
	defer func() {
		f.mu.Lock()
		f.running = false
		f.mu.Unlock()
		f.sem.Release(1)
	}()

	res := Result{Seq: p.seq, MovieID: p.movieID, Items: []movie.Recommendation{}}
	var (
		items []movie.Recommendation
		err   error
	)
	if f.src == nil {
		err = errors.New("recommend: no source configured")
	} else {
		items, err = f.src.Recommendations(p.ctx, p.movieID)
	}
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Err = err
		if errors.Is(err, context.Canceled) {
			f.log.Debug().Int("movie_id", p.movieID).Msg("recommendation request cancelled")
		} else {
			f.log.Error().Err(err).Int("movie_id", p.movieID).Msg("error fetching recommendations")
		}
	case len(items) == 0:
		res.Outcome = OutcomeEmpty
	default:
		res.Outcome = OutcomeOK
		res.Items = items
	}
	return res
}

// Resolve applies r if it answers the current request. Items and the loading
// flag change together. Stale results are dropped and Resolve reports false.
func (f *Fetcher) Resolve(r Result) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Seq != f.seq || f.phase != Loading {
		metrics.StaleResults.Inc()
		f.log.Debug().Uint64("seq", r.Seq).Uint64("current", f.seq).Msg("dropping stale recommendations")
		return false
	}
	items := r.Items
	if items == nil {
		items = []movie.Recommendation{}
	}
	f.phase = Resolved
	f.items = items
	f.outcome = r.Outcome
	f.err = r.Err
	f.releaseLocked()
	return true
}

// Invalidate is called when the selection changes. A request loading for a
// different movie is cancelled and its result will be dropped; the fetcher
// returns to Idle. A resolved list is kept until the next request.
func (f *Fetcher) Invalidate(movieID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != Loading || f.forID == movieID {
		return
	}
	f.log.Debug().Int("movie_id", f.forID).Int("selected", movieID).Msg("selection changed, cancelling request")
	f.seq++
	f.phase = Idle
	f.forID = 0
	f.releaseLocked()
}

// Stop cancels any running request and drops its result. Used on teardown.
func (f *Fetcher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if f.phase == Loading {
		f.phase = Idle
		f.forID = 0
	}
	f.releaseLocked()
}

func (f *Fetcher) releaseLocked() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Recommend runs a full request synchronously for one-shot callers.
func (f *Fetcher) Recommend(ctx context.Context, movieID int) (Result, error) {
	p, ok := f.Request(ctx, movieID)
	if !ok {
		return Result{}, ErrInFlight
	}
	r := p.Do()
	f.Resolve(r)
	return r, nil
}

// Snapshot returns the current state.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Phase:      f.phase,
		ForMovieID: f.forID,
		Items:      f.items,
		Outcome:    f.outcome,
		Err:        f.err,
		Visible:    f.visible,
	}
}

// Busy reports whether a new request would be refused: one is loading, or a
// cancelled one has not returned from the network yet.
func (f *Fetcher) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase == Loading || f.running
}

// Loading reports whether a request is loading.
func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase == Loading
}
