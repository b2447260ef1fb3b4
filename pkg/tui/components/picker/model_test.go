package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/cinerec/pkg/catalog"
	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/selection"
	"tableflip.dev/cinerec/pkg/tui/events"
)

var movies = []movie.Summary{
	{ID: 1, Title: "Alien"},
	{ID: 4, Title: "Aliens"},
	{ID: 3, Title: "Blade Runner"},
	{ID: 2, Title: "zorro"},
}

func newPicker(t *testing.T) (*Model, *selection.Controller) {
	t.Helper()
	sel := selection.New()
	m := New(sel, Options{Rows: 3})
	m.SetSize(40, 0)
	m.SetCatalog(catalog.Snapshot{Movies: movies})
	return m, sel
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestClosedShowsPlaceholder(t *testing.T) {
	m, _ := newPicker(t)
	if !strings.Contains(m.View(), Placeholder) {
		t.Fatalf("expected placeholder in closed view:\n%s", m.View())
	}
}

func TestEnterOpensWithEmptyQuery(t *testing.T) {
	m, sel := newPicker(t)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !sel.IsOpen() {
		t.Fatalf("expected picker to open")
	}
	typeText(m, "zo")
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if sel.Query() != "" || len(m.Filtered()) != len(movies) {
		t.Fatalf("expected reopened picker to reset query, got %q (%d)", sel.Query(), len(m.Filtered()))
	}
}

func TestTypingFilters(t *testing.T) {
	m, sel := newPicker(t)
	m.Open()
	typeText(m, "zo")
	if sel.Query() != "zo" {
		t.Fatalf("expected query zo, got %q", sel.Query())
	}
	got := m.Filtered()
	if len(got) != 1 || got[0].Title != "zorro" {
		t.Fatalf("expected [zorro], got %+v", got)
	}
}

func TestNoResultsMessage(t *testing.T) {
	m, _ := newPicker(t)
	m.Open()
	typeText(m, "xyz")
	if !strings.Contains(m.View(), `No movies found matching "xyz"`) {
		t.Fatalf("expected no results message:\n%s", m.View())
	}
}

func TestLoadingMessage(t *testing.T) {
	sel := selection.New()
	m := New(sel, Options{})
	m.Open()
	if !strings.Contains(m.View(), LoadingText) {
		t.Fatalf("expected loading message:\n%s", m.View())
	}
}

func TestSelectCommitsAndCloses(t *testing.T) {
	m, sel := newPicker(t)
	m.Open()
	typeText(m, "ali")
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if sel.IsOpen() || sel.Query() != "" {
		t.Fatalf("expected closed picker with empty query, open=%v query=%q", sel.IsOpen(), sel.Query())
	}
	chosen, ok := sel.Selected()
	if !ok || chosen.ID != 4 {
		t.Fatalf("expected Aliens (id 4), got %+v", chosen)
	}
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if sm, ok := msgs[0].(events.MovieSelectMsg); !ok || sm.Movie.ID != 4 {
		t.Fatalf("expected MovieSelectMsg for id 4, got %#v", msgs[0])
	}
	if !strings.Contains(m.View(), "Aliens") {
		t.Fatalf("expected closed view to show selection:\n%s", m.View())
	}
}

func TestEnterWithNoMatchesDoesNothing(t *testing.T) {
	m, sel := newPicker(t)
	m.Open()
	typeText(m, "xyz")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil || !sel.IsOpen() {
		t.Fatalf("expected picker to stay open with no selection")
	}
}

func TestCursorScrollsWindow(t *testing.T) {
	m, _ := newPicker(t)
	m.Open()
	for i := 0; i < 10; i++ {
		m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if m.Cursor() != len(movies)-1 {
		t.Fatalf("expected cursor clamped to last item, got %d", m.Cursor())
	}
	if !strings.Contains(m.View(), "zorro") {
		t.Fatalf("expected last item visible:\n%s", m.View())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Cursor() != len(movies)-2 {
		t.Fatalf("expected cursor to move up, got %d", m.Cursor())
	}
}

func TestClick(t *testing.T) {
	m, sel := newPicker(t)
	m.Click(0)
	if !sel.IsOpen() {
		t.Fatalf("click on closed picker should open it")
	}
	m.Click(listTop + 2)
	chosen, ok := sel.Selected()
	if !ok || chosen.Title != "Blade Runner" {
		t.Fatalf("expected Blade Runner, got %+v", chosen)
	}
}

func TestSyncAfterOutsideClose(t *testing.T) {
	m, sel := newPicker(t)
	m.Open()
	sel.Close()
	msgs := runCmd(m.Sync())
	if len(msgs) != 1 {
		t.Fatalf("expected a state message, got %v", msgs)
	}
	st, ok := msgs[0].(events.PickerStateMsg)
	if !ok || st.Open || !st.Outside {
		t.Fatalf("unexpected message %#v", msgs[0])
	}
	if m.Sync() != nil {
		t.Fatalf("second sync should be a no-op")
	}
}
