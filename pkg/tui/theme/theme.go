package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Picker PickerTheme
	Panel  PanelTheme
	Card   CardTheme
	Footer FooterTheme
	Modal  ModalTheme
	Debug  DebugTheme
}

// HeaderTheme styles the title bar.
type HeaderTheme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
}

// PickerTheme styles the movie picker.
type PickerTheme struct {
	Frame       lipgloss.Style
	FocusFrame  lipgloss.Style
	Label       lipgloss.Style
	Placeholder lipgloss.Style
	Item        lipgloss.Style
	Active      lipgloss.Style
	Message     lipgloss.Style
	Button      lipgloss.Style
	ButtonOff   lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Body    lipgloss.Style
	Message lipgloss.Style
}

// CardTheme styles carousel cards.
type CardTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Meta     lipgloss.Style
	NoImage  lipgloss.Style
	Image    lipgloss.Style
	Arrow    lipgloss.Style
	ArrowOff lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ModalTheme styles centered modal overlays such as help.
type ModalTheme struct {
	Frame lipgloss.Style
}

// DebugTheme styles the event log pane.
type DebugTheme struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("63")).
		Padding(0, 2).
		Bold(true)

	return Theme{
		Header: HeaderTheme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
			Subtitle: lipgloss.NewStyle().Foreground(muted),
		},
		Picker: PickerTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			FocusFrame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Label:       lipgloss.NewStyle().Bold(true),
			Placeholder: lipgloss.NewStyle().Foreground(muted),
			Item:        lipgloss.NewStyle(),
			Active:      lipgloss.NewStyle().Foreground(accent).Bold(true).Reverse(true),
			Message:     lipgloss.NewStyle().Foreground(muted).Italic(true),
			Button:      button,
			ButtonOff:   button.Background(lipgloss.Color("238")).Foreground(lipgloss.Color("245")).Bold(false),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title:   lipgloss.NewStyle().Bold(true),
			Body:    lipgloss.NewStyle(),
			Message: lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
		Card: CardTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			Title:    lipgloss.NewStyle().Bold(true),
			Meta:     lipgloss.NewStyle().Foreground(muted),
			NoImage:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
			Image:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
			Arrow:    lipgloss.NewStyle().Bold(true).Foreground(accent),
			ArrowOff: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(muted),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
		},
		Debug: DebugTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")),
			Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
			Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
			Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
			Timestamp: lipgloss.NewStyle().Foreground(muted),
			Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}

var (
	voteLow  = mustHex("#E8505B")
	voteMid  = mustHex("#F9D56E")
	voteHigh = mustHex("#14B1AB")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// VoteColor maps a 0-10 vote average onto a red, yellow, green gradient.
func VoteColor(vote float64) colorful.Color {
	t := vote / 10
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if t < 0.5 {
		return voteLow.BlendLab(voteMid, t*2).Clamped()
	}
	return voteMid.BlendLab(voteHigh, (t-0.5)*2).Clamped()
}

// VoteStyle renders a vote average in its gradient colour.
func VoteStyle(vote float64) lipgloss.Style {
	if vote <= 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(VoteColor(vote).Hex()))
}
