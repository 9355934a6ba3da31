package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GregorioSC/Journaling-Companion/internal/analytics"
	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

// analyticsModel renders three independent panels: the activity heatmap,
// the sentiment series and the weekly reflection. Each has its own
// loading/error state; the failure of one never blocks the others.
type analyticsModel struct {
	app   *App
	theme Theme
	keys  keyMap

	seq int

	cells    []analytics.DayCount
	entries  []api.Entry
	heatBusy bool
	heatErr  string

	points   []analytics.Point
	sentBusy bool
	sentErr  string

	weekly     *api.WeeklySummary
	weeklyBusy bool
	weeklyErr  string
}

func newAnalyticsModel(app *App, theme Theme, keys keyMap) analyticsModel {
	return analyticsModel{app: app, theme: theme, keys: keys}
}

func (m *analyticsModel) open() tea.Cmd {
	m.seq++
	m.heatBusy = true
	m.heatErr = ""
	m.sentBusy = true
	m.sentErr = ""
	m.weeklyBusy = true
	m.weeklyErr = ""

	seq := m.seq
	app := m.app

	loadEntries := func() tea.Msg {
		entries, err := app.Client.ListEntries(context.Background())
		if err != nil {
			return heatmapMsg{seq: seq, err: err}
		}
		return heatmapMsg{
			seq:     seq,
			cells:   analytics.Heatmap(entries, time.Now()),
			entries: entries,
		}
	}
	loadWeekly := func() tea.Msg {
		summary, err := app.Client.WeeklySummary(context.Background())
		return analyticsWeeklyMsg{seq: seq, summary: summary, err: err}
	}
	return tea.Batch(loadEntries, loadWeekly)
}

func (m analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case heatmapMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.heatBusy = false
		if msg.err != nil {
			// The entry list feeds both the heatmap and the sentiment
			// series, so a failed fetch settles both panels.
			m.heatErr = humanError(msg.err)
			m.sentBusy = false
			m.sentErr = m.heatErr
			return m, nil
		}
		m.cells = msg.cells
		m.entries = msg.entries
		return m, m.loadSentiment(msg.entries)

	case sentimentMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.sentBusy = false
		m.points = msg.points
		return m, nil

	case analyticsWeeklyMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.weeklyBusy = false
		if msg.err != nil {
			m.weeklyErr = humanError(msg.err)
			return m, nil
		}
		summary := msg.summary
		m.weekly = &summary
		return m, nil
	}
	return m, nil
}

func (m analyticsModel) loadSentiment(entries []api.Entry) tea.Cmd {
	seq := m.seq
	app := m.app
	return func() tea.Msg {
		points := app.Analytics.SentimentSeries(context.Background(), entries)
		return sentimentMsg{seq: seq, points: points}
	}
}

func (m analyticsModel) view(width int) string {
	var b strings.Builder

	b.WriteString(m.theme.PaneTitle.Render("Sentiment over time") + "\n")
	b.WriteString(m.theme.Muted.Render("Closer to +1 leans happier; closer to −1 leans sadder.") + "\n")
	switch {
	case m.sentBusy:
		b.WriteString(m.theme.Muted.Render("loading chart…") + "\n")
	case m.sentErr != "":
		b.WriteString(m.theme.ErrorText.Render(m.sentErr) + "\n")
	case len(m.points) == 0:
		b.WriteString(m.theme.Muted.Render("No sentiment data yet.") + "\n")
	default:
		b.WriteString(m.renderSentiment(width))
	}

	b.WriteString("\n" + m.theme.PaneTitle.Render("Activity (last 12 weeks)") + "\n")
	switch {
	case m.heatBusy:
		b.WriteString(m.theme.Muted.Render("loading activity…") + "\n")
	case m.heatErr != "":
		b.WriteString(m.theme.ErrorText.Render(m.heatErr) + "\n")
	default:
		b.WriteString(m.renderHeatmap())
	}

	b.WriteString("\n")
	switch {
	case m.weeklyBusy:
		b.WriteString(m.theme.Muted.Render("loading summary…") + "\n")
	case m.weeklyErr != "":
		b.WriteString(m.theme.PaneTitle.Render("Weekly reflection") + "\n")
		b.WriteString(m.theme.ErrorText.Render(m.weeklyErr) + "\n")
	case m.weekly != nil:
		b.WriteString(renderWeekly(m.theme, *m.weekly, width-4))
	}

	return b.String()
}

// renderHeatmap draws the 12×7 grid as weekly columns, Sunday on top.
func (m analyticsModel) renderHeatmap() string {
	if len(m.cells) == 0 {
		return m.theme.Muted.Render("No activity yet.") + "\n"
	}
	labels := []string{"Sun", "   ", "Tue", "   ", "Thu", "   ", "Sat"}
	var b strings.Builder
	for row := 0; row < 7; row++ {
		b.WriteString(m.theme.Muted.Render(labels[row]) + " ")
		for week := 0; week < len(m.cells)/7; week++ {
			cell := m.cells[week*7+row]
			b.WriteString(m.theme.HeatStyle(cell.Count).Render("■ "))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Muted.Render("    less ") +
		m.theme.HeatStyle(0).Render("■ ") +
		m.theme.HeatStyle(1).Render("■ ") +
		m.theme.HeatStyle(2).Render("■ ") +
		m.theme.HeatStyle(3).Render("■ ") +
		m.theme.HeatStyle(4).Render("■ ") +
		m.theme.Muted.Render("more") + "\n")
	return b.String()
}

// renderSentiment draws one bar per analyzed entry, centered on zero.
func (m analyticsModel) renderSentiment(width int) string {
	points := m.points
	// Keep the most recent points when the list outgrows the screen.
	maxRows := 12
	if len(points) > maxRows {
		points = points[len(points)-maxRows:]
	}

	half := 14
	var b strings.Builder
	for _, p := range points {
		date := "          "
		if !p.Date.IsZero() {
			date = p.Date.Format("Jan 02 '06")
		}
		bar := sentimentBar(p.Sentiment, half)
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			m.theme.Muted.Render(date),
			m.theme.SentimentStyle(p.Sentiment).Render(bar),
			fmt.Sprintf("%+.2f", p.Sentiment)))
	}
	return b.String()
}

// sentimentBar renders v in [-1,1] as a bar around a center axis of width
// 2*half+1.
func sentimentBar(v float64, half int) string {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	n := int(v * float64(half))
	cells := make([]rune, 2*half+1)
	for i := range cells {
		cells[i] = ' '
	}
	cells[half] = '│'
	if n >= 0 {
		for i := 1; i <= n; i++ {
			cells[half+i] = '█'
		}
	} else {
		for i := 1; i <= -n; i++ {
			cells[half-i] = '█'
		}
	}
	return string(cells)
}
