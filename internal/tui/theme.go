package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Name string

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	Accent      lipgloss.AdaptiveColor
	Success     lipgloss.AdaptiveColor
	Warn        lipgloss.AdaptiveColor
	Error       lipgloss.AdaptiveColor
	Border      lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	Badge       lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	Footer      lipgloss.Style
	Muted       lipgloss.Style
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
	Toast       lipgloss.Style
	ToastTitle  lipgloss.Style
	Selected    lipgloss.Style
	ThemeBadge  lipgloss.Style

	// heat ramp endpoints for the activity grid
	heatLow  colorful.Color
	heatHigh colorful.Color
	// sentiment scale endpoints
	sentNeg colorful.Color
	sentPos colorful.Color
}

// NewTheme resolves a theme by name; unknown names fall back to dusk.
func NewTheme(name string) Theme {
	switch name {
	case "paper":
		return newPaperTheme()
	default:
		return newDuskTheme()
	}
}

func newDuskTheme() Theme {
	t := Theme{
		Name:        "dusk",
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e8e8f0"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8b90a5"},
		Accent:      lipgloss.AdaptiveColor{Light: "#7c5cff", Dark: "#9d8cff"},
		Success:     lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"},
		Warn:        lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"},
		Error:       lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"},
		Border:      lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#3a3f55"},
	}
	t.heatLow, _ = colorful.Hex("#2a2f45")
	t.heatHigh, _ = colorful.Hex("#9d8cff")
	t.sentNeg, _ = colorful.Hex("#f87171")
	t.sentPos, _ = colorful.Hex("#34d399")
	t.buildStyles()
	return t
}

func newPaperTheme() Theme {
	t := Theme{
		Name:        "paper",
		TextPrimary: lipgloss.AdaptiveColor{Light: "#222222", Dark: "#f2f0e9"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#777777", Dark: "#a8a49a"},
		Accent:      lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#2dd4bf"},
		Success:     lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"},
		Warn:        lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#facc15"},
		Error:       lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#fca5a5"},
		Border:      lipgloss.AdaptiveColor{Light: "#cccccc", Dark: "#4a4742"},
	}
	t.heatLow, _ = colorful.Hex("#3a3832")
	t.heatHigh, _ = colorful.Hex("#2dd4bf")
	t.sentNeg, _ = colorful.Hex("#fca5a5")
	t.sentPos, _ = colorful.Hex("#4ade80")
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Badge = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	t.Pane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	t.SuccessText = lipgloss.NewStyle().Foreground(t.Success)
	t.Toast = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(0, 1)
	t.ToastTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.ThemeBadge = lipgloss.NewStyle().Foreground(t.TextMuted).Italic(true)
}

// HeatStyle maps an activity count to a cell style on the low→high ramp.
// Counts of 4 or more saturate.
func (t Theme) HeatStyle(count int) lipgloss.Style {
	f := float64(count) / 4.0
	if f > 1 {
		f = 1
	}
	c := t.heatLow.BlendLuv(t.heatHigh, f)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

// SentimentStyle maps a -1..+1 sentiment to the negative→positive scale.
func (t Theme) SentimentStyle(v float64) lipgloss.Style {
	f := (v + 1) / 2
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c := t.sentNeg.BlendLuv(t.sentPos, f)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}
