package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

// renderWeekly renders the backend-computed weekly reflection card, shared
// by the dashboard sidebar and the analytics view.
func renderWeekly(theme Theme, w api.WeeklySummary, width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder

	avg := w.AvgSentiment()
	chip := theme.SentimentStyle(avg).Render(fmt.Sprintf("%+.2f", avg))
	b.WriteString(theme.PaneTitle.Render("Weekly reflection") + "  " + chip + "\n")
	if w.WeekStart != "" {
		b.WriteString(theme.Muted.Render("week of "+w.WeekStart) + "\n")
	}

	if avg >= 0 {
		b.WriteString("This week generally felt positive — nice work staying grounded.\n")
	} else {
		b.WriteString("This week felt a bit heavier — thanks for showing up anyway.\n")
	}

	if w.Summary != "" {
		b.WriteString(wordwrap.String(w.Summary, width) + "\n")
	}

	if themes := w.Themes(); len(themes) > 0 {
		b.WriteString(theme.Muted.Render("themes: "+strings.Join(themes, " · ")) + "\n")
	}
	if count := w.EntryCount(); count > 0 {
		b.WriteString(theme.Muted.Render(
			fmt.Sprintf("You logged %d entries. That consistency matters.", count)) + "\n")
	}
	return b.String()
}
