// Package carousel renders recommendation cards in a horizontally scrolling
// row. It holds no business state beyond its scroll offset.
package carousel

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/cinerec/pkg/movie"
	"tableflip.dev/cinerec/pkg/tui/events"
	"tableflip.dev/cinerec/pkg/tui/theme"
	"tableflip.dev/cinerec/pkg/tui/ui"
)

const (
	// CardWidth is the outer width of a card in cells.
	CardWidth = 26
	// CardGap separates neighbouring cards.
	CardGap = 1
	// NoImageText replaces a missing poster.
	NoImageText = "No image"

	titleLines = 2
)

// Item is one card.
type Item struct {
	DisplayTitle string
	ImageSource  *string
	Year         string
	VoteAverage  float64
}

// FromRecommendations builds cards from recommendations. imageURL turns a
// poster path into a full link; absent posters stay nil.
func FromRecommendations(recs []movie.Recommendation, imageURL func(*string) string) []Item {
	items := make([]Item, 0, len(recs))
	for _, r := range recs {
		it := Item{DisplayTitle: r.Title, Year: r.Year(), VoteAverage: r.VoteAverage}
		if r.HasImage() {
			src := *r.Image
			if imageURL != nil {
				src = imageURL(r.Image)
			}
			it.ImageSource = &src
		}
		items = append(items, it)
	}
	return items
}

// Model is the carousel.
type Model struct {
	id        events.ComponentID
	items     []Item
	offset    int
	increment int

	width int

	styles theme.CardTheme
}

// New returns an empty carousel that scrolls by increment cards.
func New(id events.ComponentID, increment int) *Model {
	if id == "" {
		id = events.ComponentID("carousel")
	}
	if increment <= 0 {
		increment = 1
	}
	return &Model{
		id:        id,
		increment: increment,
		width:     80,
		styles:    theme.Default().Card,
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetItems replaces every card and scrolls back to the start.
func (m *Model) SetItems(items []Item) {
	m.items = items
	m.offset = 0
}

// Items returns the current cards.
func (m *Model) Items() []Item { return m.items }

// Offset is the index of the first visible card.
func (m *Model) Offset() int { return m.offset }

// SetSize sets the available width.
func (m *Model) SetSize(width, _ int) {
	if width < CardWidth+4 {
		width = CardWidth + 4
	}
	m.width = width
	m.offset = clamp(m.offset, 0, m.maxOffset())
}

// Visible is how many cards fit on screen.
func (m *Model) Visible() int {
	avail := m.width - 4
	n := (avail + CardGap) / (CardWidth + CardGap)
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) maxOffset() int {
	return max(len(m.items)-m.Visible(), 0)
}

// CanScrollLeft reports whether ScrollLeft would move.
func (m *Model) CanScrollLeft() bool { return m.offset > 0 }

// CanScrollRight reports whether ScrollRight would move.
func (m *Model) CanScrollRight() bool { return m.offset < m.maxOffset() }

// ScrollLeft moves back by the fixed increment.
func (m *Model) ScrollLeft() tea.Cmd {
	return m.scrollTo(m.offset - m.increment)
}

// ScrollRight moves forward by the fixed increment.
func (m *Model) ScrollRight() tea.Cmd {
	return m.scrollTo(m.offset + m.increment)
}

func (m *Model) scrollTo(offset int) tea.Cmd {
	offset = clamp(offset, 0, m.maxOffset())
	if offset == m.offset {
		return nil
	}
	m.offset = offset
	id := m.id
	return func() tea.Msg {
		return events.CarouselScrollMsg{Component: id, Offset: offset}
	}
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "left", "h":
			return m, m.ScrollLeft()
		case "right", "l":
			return m, m.ScrollRight()
		}
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp, tea.MouseWheelLeft:
			return m, m.ScrollLeft()
		case tea.MouseWheelDown, tea.MouseWheelRight:
			return m, m.ScrollRight()
		}
	}
	return m, nil
}

// ClickArrow scrolls when x, relative to the carousel's left edge, lands on
// one of the arrows.
func (m *Model) ClickArrow(x int) tea.Cmd {
	switch {
	case x <= 1:
		return m.ScrollLeft()
	case x >= m.width-2:
		return m.ScrollRight()
	}
	return nil
}

// View implements ui.Component.
func (m *Model) View() string {
	if len(m.items) == 0 {
		return ""
	}
	end := min(m.offset+m.Visible(), len(m.items))
	cards := make([]string, 0, (end-m.offset)*2)
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			cards = append(cards, strings.Repeat(" ", CardGap))
		}
		cards = append(cards, m.renderCard(m.items[i]))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	h := lipgloss.Height(row)

	left := m.arrow("‹", m.CanScrollLeft(), h)
	right := m.arrow("›", m.CanScrollRight(), h)
	return lipgloss.JoinHorizontal(lipgloss.Center, left, " ", row, " ", right)
}

func (m *Model) arrow(glyph string, enabled bool, height int) string {
	style := m.styles.ArrowOff
	if enabled {
		style = m.styles.Arrow
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = " "
	}
	lines[height/2] = style.Render(glyph)
	return strings.Join(lines, "\n")
}

func (m *Model) renderCard(it Item) string {
	inner := CardWidth - m.styles.Frame.GetHorizontalFrameSize()

	lines := ClampLines(it.DisplayTitle, inner, titleLines)
	for i := range lines {
		lines[i] = m.styles.Title.Render(lines[i])
	}
	for len(lines) < titleLines {
		lines = append(lines, "")
	}

	meta := it.Year
	if it.VoteAverage > 0 {
		vote := theme.VoteStyle(it.VoteAverage).Render("★ " + strconv.FormatFloat(it.VoteAverage, 'f', 1, 64))
		if meta != "" {
			meta = m.styles.Meta.Render(meta) + "  " + vote
		} else {
			meta = vote
		}
	} else {
		meta = m.styles.Meta.Render(meta)
	}
	lines = append(lines, meta)

	if it.ImageSource != nil && *it.ImageSource != "" {
		lines = append(lines, m.styles.Image.Render(truncate.StringWithTail(*it.ImageSource, uint(inner), "…")))
	} else {
		lines = append(lines, m.styles.NoImage.Render(NoImageText))
	}
	return m.styles.Frame.Width(CardWidth).Render(strings.Join(lines, "\n"))
}

// ClampLines word-wraps s to width and keeps at most n lines, marking a cut
// with an ellipsis.
func ClampLines(s string, width, n int) []string {
	if width < 1 {
		width = 1
	}
	wrapped := strings.Split(wordwrap.String(strings.TrimSpace(s), width), "\n")
	out := make([]string, 0, n)
	for _, line := range wrapped {
		out = append(out, truncate.StringWithTail(line, uint(width), "…"))
	}
	if len(out) > n {
		out = out[:n]
		last := strings.TrimRight(out[n-1], " …")
		out[n-1] = truncate.StringWithTail(last+"…", uint(width), "…")
	}
	return out
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
