package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestComposeCenters(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 10)+"\n", 5)
	out := Compose(strings.TrimSuffix(bg, "\n"), 10, 5, "ab\ncd", Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center})
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	if lines[0] != ".........." {
		t.Fatalf("expected untouched first row, got %q", lines[0])
	}
	if lines[1] != "....ab    " || lines[2] != "....cd    " {
		t.Fatalf("unexpected overlay rows %q %q", lines[1], lines[2])
	}
	for _, l := range lines {
		if lipgloss.Width(l) != 10 {
			t.Fatalf("expected every row padded to 10, got %q", l)
		}
	}
}

func TestComposeEmptyForeground(t *testing.T) {
	out := Compose("x", 3, 2, "", Placement{})
	if out != "x  \n   " {
		t.Fatalf("unexpected %q", out)
	}
}

func TestOffsets(t *testing.T) {
	cases := []struct {
		name   string
		place  Placement
		wx, wy int
	}{
		{"center", Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}, 4, 2},
		{"zero value", Placement{}, 0, 0},
		{"top left", Placement{Horizontal: lipgloss.Left, Vertical: lipgloss.Top, MarginX: 1, MarginY: 1}, 1, 1},
		{"bottom right", Placement{Horizontal: lipgloss.Right, Vertical: lipgloss.Bottom}, 8, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := Offsets(10, 6, 2, 2, tc.place)
			if x != tc.wx || y != tc.wy {
				t.Fatalf("got %d,%d want %d,%d", x, y, tc.wx, tc.wy)
			}
		})
	}
}
