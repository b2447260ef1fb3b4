// Package picker renders the movie picker: a closed label showing the
// selection, or an open search box over the filtered catalog.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/cinerec/pkg/catalog"
	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/search"
	"tableflip.dev/cinerec/pkg/selection"
	"tableflip.dev/cinerec/pkg/tui/events"
	"tableflip.dev/cinerec/pkg/tui/theme"
	"tableflip.dev/cinerec/pkg/tui/ui"
)

const (
	// Placeholder is shown while nothing is selected.
	Placeholder = "Select Movie"
	// LoadingText is shown in an open picker while the catalog loads.
	LoadingText = "Loading movies..."

	defaultRows = 8
	// rows taken by the top border and the input line
	listTop = 2
)

// Options configures the picker.
type Options struct {
	ID          events.ComponentID
	Placeholder string
	Rows        int
	Theme       *theme.PickerTheme
}

// Model is the picker widget. Open/closed state, the query and the selection
// live in the selection controller; Model only renders them and routes input.
type Model struct {
	id  events.ComponentID
	sel *selection.Controller

	input       textinput.Model
	placeholder string

	movies  []movie.Summary
	loading bool

	filtered []movie.Summary
	cursor   int
	offset   int
	rows     int

	width int

	styles theme.PickerTheme
}

// New constructs a picker over sel.
func New(sel *selection.Controller, opts Options) *Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Search movies..."

	id := opts.ID
	if id == "" {
		id = events.ComponentID("picker")
	}
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = Placeholder
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = defaultRows
	}
	styles := theme.Default().Picker
	if opts.Theme != nil {
		styles = *opts.Theme
	}

	m := &Model{
		id:          id,
		sel:         sel,
		input:       input,
		placeholder: placeholder,
		loading:     true,
		rows:        rows,
		width:       40,
		styles:      styles,
	}
	m.refilter()
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetCatalog replaces the catalog the picker filters.
func (m *Model) SetCatalog(snap catalog.Snapshot) {
	m.movies = snap.Movies
	m.loading = snap.Loading
	m.refilter()
}

// SetSize sets the picker width. Height follows the content.
func (m *Model) SetSize(width, _ int) {
	if width < 20 {
		width = 20
	}
	m.width = width
	inner := width - m.styles.Frame.GetHorizontalFrameSize() - lipgloss.Width(m.input.Prompt)
	m.input.SetWidth(max(inner-1, 1))
}

// Width is the rendered width.
func (m *Model) Width() int { return m.width }

// Height is the number of terminal rows the current view occupies.
func (m *Model) Height() int { return lipgloss.Height(m.View()) }

// IsOpen reports whether the picker is open.
func (m *Model) IsOpen() bool { return m.sel.IsOpen() }

// Filtered is the current filtered view of the catalog.
func (m *Model) Filtered() []movie.Summary { return m.filtered }

// Cursor is the highlighted index into Filtered.
func (m *Model) Cursor() int { return m.cursor }

// Focus implements ui.Focusable.
func (m *Model) Focus() tea.Cmd { return m.Open() }

// Blur implements ui.Focusable.
func (m *Model) Blur() { m.Close() }

// Focused implements ui.Focusable.
func (m *Model) Focused() bool { return m.sel.IsOpen() }

// Open opens the picker with an empty query.
func (m *Model) Open() tea.Cmd {
	m.sel.Open()
	m.input.Reset()
	m.cursor, m.offset = 0, 0
	m.refilter()
	focus := m.input.Focus()
	return tea.Batch(focus, textinput.Blink, m.emitState(true, false))
}

// Close closes the picker without changing the selection.
func (m *Model) Close() tea.Cmd {
	wasOpen := m.sel.IsOpen()
	m.sel.Close()
	m.input.Blur()
	if !wasOpen {
		return nil
	}
	return m.emitState(false, false)
}

// Sync reconciles the widget with the controller after it was closed from
// outside, for example by a press elsewhere on screen.
func (m *Model) Sync() tea.Cmd {
	if !m.sel.IsOpen() && m.input.Focused() {
		m.input.Blur()
		return m.emitState(false, true)
	}
	return nil
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if m.sel.IsOpen() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if !m.sel.IsOpen() {
		switch key.String() {
		case "enter", "/", "space":
			return m, m.Open()
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, m.Close()
	case "enter", "tab":
		return m, m.selectCursor()
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	case "pgup":
		m.moveCursor(-m.rows)
		return m, nil
	case "pgdown":
		m.moveCursor(m.rows)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != m.sel.Query() {
		m.sel.SetQuery(q)
		m.cursor, m.offset = 0, 0
		m.refilter()
	}
	return m, cmd
}

// Click handles a press at row, relative to the top of the picker. A press on
// a closed picker opens it; a press on a listed movie selects it.
func (m *Model) Click(row int) tea.Cmd {
	if !m.sel.IsOpen() {
		return m.Open()
	}
	idx := m.offset + row - listTop
	if row < listTop || idx < m.offset || idx >= min(m.offset+m.rows, len(m.filtered)) {
		return nil
	}
	m.cursor = idx
	return m.selectCursor()
}

func (m *Model) selectCursor() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	chosen := m.filtered[m.cursor]
	m.sel.Select(chosen)
	m.input.Blur()
	m.input.Reset()
	m.refilter()
	id := m.id
	return func() tea.Msg {
		return events.MovieSelectMsg{Component: id, Movie: chosen}
	}
}

func (m *Model) emitState(open, outside bool) tea.Cmd {
	id := m.id
	return func() tea.Msg {
		return events.PickerStateMsg{Component: id, Open: open, Outside: outside}
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.filtered) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.filtered)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
}

func (m *Model) refilter() {
	m.filtered = search.Filter(m.movies, m.sel.Query())
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// View implements ui.Component.
func (m *Model) View() string {
	inner := max(m.width-m.styles.Frame.GetHorizontalFrameSize(), 1)

	if !m.sel.IsOpen() {
		label := m.sel.Label("")
		var text string
		if label == "" {
			text = m.styles.Placeholder.Render(m.placeholder)
		} else {
			text = m.styles.Label.Render(truncate.StringWithTail(label, uint(max(inner-2, 1)), "…"))
		}
		return m.styles.Frame.Width(m.width).Render(text + " ▾")
	}

	lines := []string{m.input.View()}
	switch {
	case m.loading:
		lines = append(lines, m.styles.Message.Render(LoadingText))
	case len(m.filtered) == 0:
		lines = append(lines, m.styles.Message.Render(NoResults(m.sel.Query())))
	default:
		end := min(m.offset+m.rows, len(m.filtered))
		for i := m.offset; i < end; i++ {
			title := m.filtered[i].Title
			if y := m.filtered[i].Year(); y != "" {
				title = fmt.Sprintf("%s (%s)", title, y)
			}
			title = truncate.StringWithTail(title, uint(max(inner-2, 1)), "…")
			if i == m.cursor {
				lines = append(lines, m.styles.Active.Render("› "+title))
			} else {
				lines = append(lines, m.styles.Item.Render("  "+title))
			}
		}
		if rest := len(m.filtered) - end; rest > 0 {
			lines = append(lines, m.styles.Message.Render(fmt.Sprintf("  … %d more", rest)))
		}
	}
	return m.styles.FocusFrame.Width(m.width).Render(strings.Join(lines, "\n"))
}

// NoResults is the message shown when nothing matches query.
func NoResults(query string) string {
	if query == "" {
		return "No movies found"
	}
	return fmt.Sprintf("No movies found matching %q", query)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
