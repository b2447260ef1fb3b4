package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/cinerec/pkg/tui/theme"
	"tableflip.dev/cinerec/pkg/tui/ui"
)

// Level indicates the severity of a logged event. Levels are ordered so a
// minimum level can filter the view.
type Level int

const (
	// LevelInfo is the default severity.
	LevelInfo Level = iota
	// LevelWarn highlights potential issues.
	LevelWarn
	// LevelError highlights failures.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry captures a rendered event.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Model renders a streaming event log, newest first.
type Model struct {
	viewport viewport.Model
	entries  []Entry
	minLevel Level

	maxEntries int
	followTop  bool

	width  int
	height int

	styles theme.DebugTheme
}

// NewModel constructs an event viewer capped at the provided entry count.
func NewModel(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	return &Model{
		viewport:   vp,
		maxEntries: maxEntries,
		followTop:  true,
		styles:     theme.Default().Debug,
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements ui.Component. Only scroll keys and the mouse wheel are
// handled; entries arrive through Append.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "pgup", "pgdown", "home", "end":
		default:
			return m, nil
		}
	case tea.MouseWheelMsg:
	default:
		return m, nil
	}
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	m.followTop = m.viewport.AtTop()
	return m, cmd
}

// SetSize resizes the viewport while keeping the header + border intact.
func (m *Model) SetSize(width, height int) {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(1, width-2)
	innerHeight := max(1, height-2)
	headerRows := 1
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(max(1, innerHeight-headerRows))
	m.refreshContent()
}

// View renders the bordered viewport.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	title := fmt.Sprintf("Events (%d)", len(m.entries))
	if m.minLevel > LevelInfo {
		title = fmt.Sprintf("Events (%d of %d, %s and above)", m.visibleCount(), len(m.entries), m.minLevel)
	}
	header := m.styles.Header.Render(title)
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

// Append inserts a new entry at the top of the log.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Source == "" {
		entry.Source = "tea"
	}
	if entry.Summary == "" {
		entry.Summary = "event"
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.refreshContent()
	if m.followTop {
		m.viewport.SetYOffset(0)
	}
}

// AppendError logs err at error level under source.
func (m *Model) AppendError(source, summary string, err error) {
	entry := Entry{Source: source, Summary: summary, Level: LevelError}
	if err != nil {
		entry.Detail = err.Error()
	}
	m.Append(entry)
}

// Entries returns the logged entries, newest first.
func (m *Model) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Len is the number of retained entries.
func (m *Model) Len() int { return len(m.entries) }

// AppendAll appends entries in order, so the last one ends up on top.
func (m *Model) AppendAll(entries []Entry) {
	for _, e := range entries {
		m.Append(e)
	}
}

// MinLevel is the lowest severity currently shown.
func (m *Model) MinLevel() Level { return m.minLevel }

// SetMinLevel hides entries below level. Hidden entries are retained.
func (m *Model) SetMinLevel(level Level) {
	if level < LevelInfo || level > LevelError {
		level = LevelInfo
	}
	m.minLevel = level
	m.refreshContent()
}

// CycleLevel steps the filter info → warn → error → info and returns the new
// minimum.
func (m *Model) CycleLevel() Level {
	m.SetMinLevel((m.minLevel + 1) % (LevelError + 1))
	return m.minLevel
}

func (m *Model) visibleCount() int {
	n := 0
	for _, e := range m.entries {
		if e.Level >= m.minLevel {
			n++
		}
	}
	return n
}

// Clear drops all logged entries.
func (m *Model) Clear() {
	m.entries = nil
	m.refreshContent()
}

// WithStyles overrides the default styling.
func (m *Model) WithStyles(styles theme.DebugTheme) {
	m.styles = styles
	m.refreshContent()
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry.Level < m.minLevel {
			continue
		}
		lines = append(lines, m.renderEntry(entry))
	}
	content := strings.Join(lines, "\n")
	switch {
	case content == "" && len(m.entries) > 0:
		content = m.styles.Timestamp.Render(fmt.Sprintf("No %s events", m.minLevel))
	case content == "":
		content = m.styles.Timestamp.Render("No events yet")
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderEntry(entry Entry) string {
	ts := m.styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	source := m.styles.Source.Render("[" + entry.Source + "]")
	msg := entry.Summary
	if entry.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, entry.Detail)
	}
	switch entry.Level {
	case LevelWarn:
		msg = m.styles.Warn.Render(msg)
	case LevelError:
		msg = m.styles.Error.Render(msg)
	default:
		msg = m.styles.Info.Render(msg)
	}
	return fmt.Sprintf("%s %s %s", ts, source, msg)
}
