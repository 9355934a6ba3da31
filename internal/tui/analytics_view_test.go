package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSentimentBarShape(t *testing.T) {
	const half = 14

	for _, v := range []float64{-1, -0.5, 0, 0.33, 1, 2, -2} {
		bar := sentimentBar(v, half)
		if got := len([]rune(bar)); got != 2*half+1 {
			t.Fatalf("bar for %v has width %d, want %d", v, got, 2*half+1)
		}
	}

	if bar := sentimentBar(0, half); strings.ContainsRune(bar, '█') {
		t.Fatalf("zero sentiment must render an empty bar, got %q", bar)
	}

	pos := sentimentBar(1, half)
	if strings.Count(pos, "█") != half {
		t.Fatalf("full positive must fill the right side, got %q", pos)
	}
	if idx := strings.IndexRune(pos, '█'); idx <= strings.IndexRune(pos, '│') {
		t.Fatalf("positive bars must sit right of the axis, got %q", pos)
	}

	neg := sentimentBar(-1, half)
	if idx := strings.IndexRune(neg, '█'); idx >= strings.IndexRune(neg, '│') {
		t.Fatalf("negative bars must sit left of the axis, got %q", neg)
	}
}

func TestHeatStyleRampIsMonotonicInput(t *testing.T) {
	theme := NewTheme("dusk")
	// Counts at and beyond the cap must resolve to a style without panicking.
	for count := 0; count <= 10; count++ {
		out := theme.HeatStyle(count).Render("■")
		if lipgloss.Width(out) == 0 {
			t.Fatalf("heat cell for count %d rendered empty", count)
		}
	}
}

func TestThemeFallsBackToDusk(t *testing.T) {
	known := NewTheme("dusk")
	unknown := NewTheme("no-such-theme")
	if known.Accent != unknown.Accent {
		t.Fatal("unknown theme name must fall back to the default palette")
	}
}
