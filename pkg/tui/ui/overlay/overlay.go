// Package overlay draws a foreground block, such as a modal, on top of a
// rendered screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
)

// Placement controls overlay alignment. The zero value anchors the overlay
// at the top left corner.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// Compose overlays foreground atop background, a width by height screen.
// Background cells left of the overlay are kept; cells to its right on
// covered rows are blanked.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalize(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}

	fgLines := strings.Split(foreground, "\n")
	overlayWidth := 0
	for _, line := range fgLines {
		if w := lipgloss.Width(line); w > overlayWidth {
			overlayWidth = w
		}
	}
	overlayWidth = min(overlayWidth, width)
	overlayHeight := min(len(fgLines), height)

	offsetX, offsetY := Offsets(width, height, overlayWidth, overlayHeight, placement)

	for row := 0; row < overlayHeight; row++ {
		destY := offsetY + row
		fgLine := truncate.String(fgLines[row], uint(overlayWidth))
		prefix := truncate.String(bgLines[destY], uint(offsetX))
		bgLines[destY] = pad(prefix, offsetX) + pad(fgLine, overlayWidth) + strings.Repeat(" ", width-offsetX-overlayWidth)
	}
	return strings.Join(bgLines, "\n")
}

func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(truncate.String(lines[i], uint(max(width, 0))), width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Offsets computes the top-left cell for an overlay of the given size.
func Offsets(width, height, overlayWidth, overlayHeight int, placement Placement) (int, int) {
	offsetX := placement.MarginX
	switch placement.Horizontal {
	case lipgloss.Right:
		offsetX = width - overlayWidth - placement.MarginX
	case lipgloss.Center:
		offsetX = (width - overlayWidth) / 2
	}
	offsetX = clamp(offsetX, 0, width-overlayWidth)

	offsetY := placement.MarginY
	switch placement.Vertical {
	case lipgloss.Bottom:
		offsetY = height - overlayHeight - placement.MarginY
	case lipgloss.Center:
		offsetY = (height - overlayHeight) / 2
	}
	offsetY = clamp(offsetY, 0, height-overlayHeight)

	return offsetX, offsetY
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
