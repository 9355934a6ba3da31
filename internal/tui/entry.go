package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

// entryModel is the detail/editor view for a single entry.
type entryModel struct {
	app   *App
	theme Theme
	keys  keyMap

	width  int
	height int

	// seq is a navigation epoch: results from an earlier navigation are
	// dropped so a stale fetch never overwrites the open entry.
	seq int

	id      int
	entry   *api.Entry
	insight *api.Insight
	loading bool
	loadErr string

	title textinput.Model
	text  textarea.Model
	focus int // 0 title, 1 text

	saving   bool
	aiBusy   bool
	aiErr    string
	deleting bool

	promptsBusy bool
	prompts     []string
}

func newEntryModel(app *App, theme Theme, keys keyMap) entryModel {
	title := textinput.New()
	title.Placeholder = "Entry title"
	title.CharLimit = 200
	title.Width = 48

	text := textarea.New()
	text.Placeholder = "Write your thoughts…"
	text.CharLimit = 20000
	text.SetWidth(48)
	text.SetHeight(8)
	text.ShowLineNumbers = false

	return entryModel{
		app:    app,
		theme:  theme,
		keys:   keys,
		width:  100,
		height: 30,
		title:  title,
		text:   text,
	}
}

func (m *entryModel) setSize(width, height int) {
	m.width = width
	m.height = height
	inner := m.paneWidth() - 4
	if inner < 20 {
		inner = 20
	}
	m.title.Width = inner
	m.text.SetWidth(inner)
}

func (m entryModel) paneWidth() int {
	if m.width >= 100 {
		return m.width * 2 / 3
	}
	return m.width - 2
}

// open starts a fresh navigation to an entry.
func (m *entryModel) open(id int) tea.Cmd {
	m.seq++
	m.id = id
	m.entry = nil
	m.insight = nil
	m.loading = true
	m.loadErr = ""
	m.aiErr = ""
	m.saving = false
	m.deleting = false
	m.promptsBusy = false
	m.prompts = nil
	m.focus = 0
	m.title.Focus()
	m.text.Blur()

	seq := m.seq
	app := m.app
	return func() tea.Msg {
		ctx := context.Background()
		entry, err := app.Client.GetEntry(ctx, id)
		if err != nil {
			return entryLoadedMsg{seq: seq, err: err}
		}
		// A missing insight just means "not analyzed yet".
		var insight *api.Insight
		if ins, err := app.Client.InsightByEntry(ctx, id); err == nil {
			insight = &ins
		} else if !errors.Is(err, api.ErrNotFound) {
			app.Log.Warn("insight fetch failed", zap.Int("entry_id", id), zap.Error(err))
		}
		return entryLoadedMsg{seq: seq, entry: entry, insight: insight}
	}
}

func (m entryModel) update(msg tea.Msg) (entryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entryLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.loadErr = humanError(msg.err)
			return m, nil
		}
		entry := msg.entry
		m.entry = &entry
		m.insight = msg.insight
		m.title.SetValue(entry.Title)
		m.text.SetValue(entry.Text)
		return m, nil

	case entrySavedMsg:
		m.saving = false
		if msg.err != nil {
			// Stay on the page; the edit buffer is untouched.
			m.app.Notifier.Notify("Save failed", humanError(msg.err))
			return m, nil
		}
		entry := msg.entry
		m.entry = &entry
		m.app.Notifier.Notify("Saved", "Your changes have been saved.")
		return m, func() tea.Msg { return navigateMsg{to: routeDashboard} }

	case entryDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.app.Notifier.Notify("Delete failed", humanError(msg.err))
			return m, nil
		}
		m.app.Notifier.Notify("Deleted", "Entry removed.")
		return m, func() tea.Msg { return navigateMsg{to: routeDashboard} }

	case analyzedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.aiBusy = false
		if msg.err != nil {
			m.aiErr = humanError(msg.err)
			m.app.Notifier.Notify("AI failed", humanError(msg.err))
			return m, nil
		}
		insight := msg.insight
		m.insight = &insight
		m.app.Analytics.Invalidate(m.id)
		m.app.Notifier.Notify("Analyzed!", fmt.Sprintf("Sentiment: %.2f", insight.Sentiment))
		return m, nil

	case entryPromptsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.promptsBusy = false
		if msg.err != nil {
			m.aiErr = humanError(msg.err)
			return m, nil
		}
		m.prompts = msg.prompts
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m entryModel) handleKey(msg tea.KeyMsg) (entryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return navigateMsg{to: routeDashboard} }

	case key.Matches(msg, m.keys.FocusNext), key.Matches(msg, m.keys.FocusPrev):
		if m.focus == 0 {
			m.focus = 1
			m.title.Blur()
			m.text.Focus()
		} else {
			m.focus = 0
			m.text.Blur()
			m.title.Focus()
		}
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteEntry()

	case key.Matches(msg, m.keys.Analyze):
		return m.analyze()

	case key.Matches(msg, m.keys.AskAI):
		return m.askAI()
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m entryModel) save() (entryModel, tea.Cmd) {
	if m.entry == nil || m.saving {
		return m, nil
	}
	title := strings.TrimSpace(m.title.Value())
	text := strings.TrimSpace(m.text.Value())
	if title == "" || text == "" {
		return m, nil
	}
	m.saving = true
	app := m.app
	id := m.entry.ID
	patch := api.EntryPatch{Title: &title, Text: &text}
	return m, func() tea.Msg {
		entry, err := app.Client.UpdateEntry(context.Background(), id, patch)
		return entrySavedMsg{entry: entry, err: err}
	}
}

func (m entryModel) deleteEntry() (entryModel, tea.Cmd) {
	if m.entry == nil || m.deleting {
		return m, nil
	}
	m.deleting = true
	app := m.app
	id := m.entry.ID
	return m, func() tea.Msg {
		err := app.Client.DeleteEntry(context.Background(), id)
		return entryDeletedMsg{id: id, err: err}
	}
}

// analyze requests a fresh analysis, then re-fetches the stored insight.
func (m entryModel) analyze() (entryModel, tea.Cmd) {
	if m.entry == nil || m.aiBusy {
		return m, nil
	}
	m.aiBusy = true
	m.aiErr = ""
	seq := m.seq
	app := m.app
	id := m.entry.ID
	return m, func() tea.Msg {
		ctx := context.Background()
		if _, err := app.Client.AnalyzeEntry(ctx, id); err != nil {
			return analyzedMsg{seq: seq, err: err}
		}
		insight, err := app.Client.InsightByEntry(ctx, id)
		return analyzedMsg{seq: seq, insight: insight, err: err}
	}
}

// askAI fetches reflection prompts grounded in the open entry.
func (m entryModel) askAI() (entryModel, tea.Cmd) {
	if m.entry == nil || m.promptsBusy {
		return m, nil
	}
	m.promptsBusy = true
	seq := m.seq
	app := m.app
	return m, func() tea.Msg {
		resp, err := app.Client.Prompts(context.Background(), "reflect on this entry", 3)
		return entryPromptsMsg{seq: seq, prompts: resp.Prompts, err: err}
	}
}

func (m entryModel) view(width, height int) string {
	if m.loading {
		return m.theme.Muted.Render("loading entry…")
	}
	if m.loadErr != "" {
		return m.theme.ErrorText.Render(m.loadErr)
	}
	if m.entry == nil {
		return m.theme.Muted.Render("no entry selected")
	}

	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Edit Entry") + "\n")
	b.WriteString(m.title.View() + "\n")
	b.WriteString(m.text.View() + "\n")
	if m.saving {
		b.WriteString(m.theme.Muted.Render("saving…"))
	} else if strings.TrimSpace(m.title.Value()) == "" || strings.TrimSpace(m.text.Value()) == "" {
		b.WriteString(m.theme.Muted.Render("ctrl+s save (title and text required)"))
	} else {
		b.WriteString(m.theme.Selected.Render("ctrl+s save"))
	}
	editor := m.theme.PaneFocused.Width(m.paneWidth()).Render(b.String())

	insights := m.renderInsights()
	if width >= 100 {
		return lipgloss.JoinHorizontal(lipgloss.Top, editor, insights)
	}
	return editor + "\n" + insights
}

func (m entryModel) renderInsights() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Insights") + "\n")

	if m.insight == nil {
		b.WriteString(m.theme.Muted.Render("No insight yet. Press ctrl+y to analyze.") + "\n")
	} else {
		ins := m.insight
		b.WriteString("sentiment " +
			m.theme.SentimentStyle(ins.Sentiment).Render(fmt.Sprintf("%+.2f", ins.Sentiment)) + "\n")
		if len(ins.Themes) > 0 {
			b.WriteString(wordwrap.String("themes: "+strings.Join(ins.Themes, " · "), m.sideWidth()-4) + "\n")
		}
		if ins.CreatedAt != "" {
			b.WriteString(m.theme.Muted.Render("analyzed "+ins.CreatedAt) + "\n")
		}
	}

	if m.aiBusy {
		b.WriteString(m.theme.Muted.Render("analyzing…") + "\n")
	}
	if m.aiErr != "" {
		b.WriteString(m.theme.ErrorText.Render(m.aiErr) + "\n")
	}

	if m.promptsBusy {
		b.WriteString(m.theme.Muted.Render("fetching prompts…") + "\n")
	}
	if len(m.prompts) > 0 {
		b.WriteString("\n" + m.theme.PaneTitle.Render("Reflection prompts") + "\n")
		for _, p := range m.prompts {
			b.WriteString(wordwrap.String("· "+p, m.sideWidth()-4) + "\n")
		}
	}
	return m.theme.Pane.Width(m.sideWidth()).Render(b.String())
}

func (m entryModel) sideWidth() int {
	if m.width >= 100 {
		w := m.width - m.paneWidth() - 2
		if w < 30 {
			w = 30
		}
		return w
	}
	return m.width - 2
}
