package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/text/language"

	"tableflip.dev/cinerec/pkg/movie"
)

type fakeSource struct {
	calls  atomic.Int32
	movies []movie.Summary
	err    error
	gate   chan struct{}
}

func (f *fakeSource) Movies(ctx context.Context) ([]movie.Summary, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func titles(movies []movie.Summary) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewStartsLoading(t *testing.T) {
	s := New(&fakeSource{})
	if !s.Loading() {
		t.Fatalf("expected store to be loading before first load")
	}
	if len(s.Movies()) != 0 {
		t.Fatalf("expected empty catalog before load")
	}
}

func TestLoadSortsCaseInsensitive(t *testing.T) {
	src := &fakeSource{movies: []movie.Summary{
		{ID: 2, Title: "zorro"},
		{ID: 1, Title: "Alien"},
		{ID: 3, Title: "batman"},
	}}
	snap := New(src).Load(context.Background())
	if snap.Loading {
		t.Fatalf("expected loading to be cleared")
	}
	want := []string{"Alien", "batman", "zorro"}
	if got := titles(snap.Movies); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadOnlyFetchesOnce(t *testing.T) {
	src := &fakeSource{movies: []movie.Summary{{ID: 1, Title: "Alien"}}}
	s := New(src)
	s.Load(context.Background())
	s.Load(context.Background())
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}
}

func TestConcurrentLoadSharesFetch(t *testing.T) {
	src := &fakeSource{
		movies: []movie.Summary{{ID: 1, Title: "Alien"}},
		gate:   make(chan struct{}),
	}
	s := New(src)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load(context.Background())
		}()
	}
	close(src.gate)
	wg.Wait()
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}
	if len(s.Movies()) != 1 {
		t.Fatalf("expected catalog to be loaded")
	}
}

func TestLoadFailureSettlesEmpty(t *testing.T) {
	boom := errors.New("boom")
	s := New(&fakeSource{err: boom})
	snap := s.Load(context.Background())
	if snap.Loading {
		t.Fatalf("expected loading false after failure")
	}
	if len(snap.Movies) != 0 {
		t.Fatalf("expected empty catalog after failure, got %v", titles(snap.Movies))
	}
	if !errors.Is(s.LastError(), boom) {
		t.Fatalf("expected last error to be recorded, got %v", s.LastError())
	}
}

func TestReloadReplacesCatalog(t *testing.T) {
	src := &fakeSource{movies: []movie.Summary{{ID: 1, Title: "Alien"}}}
	s := New(src)
	first := s.Load(context.Background())

	src.movies = []movie.Summary{{ID: 2, Title: "Brazil"}, {ID: 3, Title: "alphaville"}}
	second := s.Reload(context.Background())

	if got := titles(first.Movies); !equal(got, []string{"Alien"}) {
		t.Fatalf("published snapshot mutated: %v", got)
	}
	if got := titles(second.Movies); !equal(got, []string{"alphaville", "Brazil"}) {
		t.Fatalf("unexpected reload result %v", got)
	}
	if n := src.calls.Load(); n != 2 {
		t.Fatalf("expected 2 fetches, got %d", n)
	}
}

func TestReloadFailureEmptiesCatalog(t *testing.T) {
	src := &fakeSource{movies: []movie.Summary{{ID: 1, Title: "Alien"}}}
	s := New(src)
	s.Load(context.Background())
	src.err = errors.New("down")
	snap := s.Reload(context.Background())
	if snap.Loading || len(snap.Movies) != 0 {
		t.Fatalf("expected settled empty catalog, got %+v", snap)
	}
}

func TestFind(t *testing.T) {
	s := New(&fakeSource{movies: []movie.Summary{{ID: 7, Title: "Heat"}}})
	s.Load(context.Background())
	if m, ok := s.Find(7); !ok || m.Title != "Heat" {
		t.Fatalf("expected to find Heat, got %+v %v", m, ok)
	}
	if _, ok := s.Find(8); ok {
		t.Fatalf("did not expect to find id 8")
	}
}

func TestSortByTitle(t *testing.T) {
	tests := []struct {
		name string
		in   []movie.Summary
		want []int
	}{
		{
			name: "case differences follow lower-cased order",
			in:   []movie.Summary{{ID: 1, Title: "b"}, {ID: 2, Title: "A"}, {ID: 3, Title: "a2"}},
			want: []int{2, 3, 1},
		},
		{
			name: "equal titles keep fetch order",
			in:   []movie.Summary{{ID: 1, Title: "Heat"}, {ID: 2, Title: "heat"}, {ID: 3, Title: "HEAT"}},
			want: []int{1, 2, 3},
		},
		{
			name: "accents collate next to base letter",
			in:   []movie.Summary{{ID: 1, Title: "Zulu"}, {ID: 2, Title: "Élan"}, {ID: 3, Title: "Echo"}},
			want: []int{3, 2, 1},
		},
		{
			name: "empty",
			in:   nil,
			want: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortByTitle(tt.in, language.English)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d movies, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("position %d: expected id %d, got %d (%v)", i, id, got[i].ID, titles(got))
				}
			}
		})
	}
}

func TestSortByTitleDoesNotMutateInput(t *testing.T) {
	in := []movie.Summary{{ID: 1, Title: "b"}, {ID: 2, Title: "a"}}
	SortByTitle(in, language.English)
	if in[0].ID != 1 || in[1].ID != 2 {
		t.Fatalf("input slice was reordered")
	}
}
