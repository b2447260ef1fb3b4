// Package panel renders a framed panel with an optional title over either
// pre-rendered content or a muted message.
package panel

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/cinerec/pkg/tui/theme"
)

// Model is a framed panel.
type Model struct {
	title   string
	body    string
	message bool
	width   int
	styles  theme.PanelTheme
}

// New returns a panel styled by th.
func New(th theme.PanelTheme) *Model {
	return &Model{styles: th, width: 40}
}

// SetTitle sets the heading. Empty hides it.
func (m *Model) SetTitle(title string) { m.title = title }

// SetBody shows already rendered content, such as a carousel.
func (m *Model) SetBody(body string) {
	m.body = body
	m.message = false
}

// SetMessage shows text in the muted message style.
func (m *Model) SetMessage(text string) {
	m.body = text
	m.message = true
}

// SetWidth sets the outer width including the frame.
func (m *Model) SetWidth(width int) {
	if width < 1 {
		width = 1
	}
	m.width = width
}

// InnerWidth is the width left for the body inside the frame.
func (m *Model) InnerWidth() int {
	return max(m.width-m.styles.Frame.GetHorizontalFrameSize(), 1)
}

// BodyTop is the row offset of the body from the panel's top edge.
func (m *Model) BodyTop() int {
	top := m.styles.Frame.GetBorderTopSize() + m.styles.Frame.GetPaddingTop()
	if m.title != "" {
		top++
	}
	return top
}

// BodyLeft is the column offset of the body from the panel's left edge.
func (m *Model) BodyLeft() int {
	return m.styles.Frame.GetBorderLeftSize() + m.styles.Frame.GetPaddingLeft()
}

// View renders the panel.
func (m *Model) View() string {
	body := m.body
	if m.message {
		body = m.styles.Message.Render(body)
	} else {
		body = m.styles.Body.Render(body)
	}
	if m.title != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, m.styles.Title.Render(m.title), body)
	}
	inner := m.width - m.styles.Frame.GetHorizontalBorderSize()
	return m.styles.Frame.Width(max(inner, 1)).Render(body)
}
