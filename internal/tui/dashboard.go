package tui

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/store"
)

// pageSize is the collapsed window of the entry list.
const pageSize = 6

var promptIdeas = []string{
	"What energized you today? Why?",
	"Describe a moment of calm you noticed.",
	"What's one small win you're proud of?",
	"What challenged you today, and how did you respond?",
	"Name one thing you'll try tomorrow to make it 1% better.",
	"Who supported you recently? Write them a thank-you note (even if you don't send it).",
	"When did you feel most like yourself this week?",
}

type dashFocus int

const (
	focusTitle dashFocus = iota
	focusText
	focusSearch
	focusList
)

type dashboardModel struct {
	app   *App
	theme Theme
	keys  keyMap

	width  int
	height int

	title  textinput.Model
	text   textarea.Model
	search textinput.Model
	focus  dashFocus

	entries   []api.Entry // newest-first, local cache of server truth
	loading   bool
	loadErr   string
	showAll   bool
	selected  int
	lastQuery string

	submitting bool

	promptSeq int
	prompts   []string
	aiBusy    bool
	aiErr     string

	weekly     *api.WeeklySummary
	weeklyBusy bool
	weeklyErr  string
}

func newDashboardModel(app *App, theme Theme, keys keyMap) dashboardModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Width = 48

	text := textarea.New()
	text.Placeholder = "How are you feeling today?"
	text.CharLimit = 20000
	text.SetWidth(48)
	text.SetHeight(6)
	text.ShowLineNumbers = false

	search := textinput.New()
	search.Placeholder = "Search your entries…"
	search.CharLimit = 200
	search.Width = 48

	m := dashboardModel{
		app:     app,
		theme:   theme,
		keys:    keys,
		width:   100,
		height:  30,
		title:   title,
		text:    text,
		search:  search,
		loading: true,
	}

	// Restore the unsaved draft before anything else happens.
	draft := app.Drafts.Draft()
	m.title.SetValue(draft.Title)
	m.text.SetValue(draft.Text)
	m.title.Focus()
	return m
}

func (m *dashboardModel) setSize(width, height int) {
	m.width = width
	m.height = height
	inner := m.paneWidth() - 4
	if inner < 20 {
		inner = 20
	}
	m.title.Width = inner
	m.search.Width = inner
	m.text.SetWidth(inner)
}

func (m dashboardModel) paneWidth() int {
	if m.width >= 100 {
		return m.width * 2 / 3
	}
	return m.width - 2
}

// open (re)loads the entry list; called on every navigation to the
// dashboard so edits and deletes elsewhere are reflected.
func (m dashboardModel) open() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		entries, err := app.Client.ListEntries(context.Background())
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = humanError(msg.err)
			return m, nil
		}
		m.loadErr = ""
		m.entries = sortNewestFirst(msg.entries)
		if m.selected >= len(m.entries) {
			m.selected = 0
		}
		return m, nil

	case entryCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.app.Notifier.Notify("Save failed", humanError(msg.err))
			return m, nil
		}
		// Newest-first is an invariant of this list.
		m.entries = append([]api.Entry{msg.entry}, m.entries...)
		m.title.SetValue("")
		m.text.SetValue("")
		if err := m.app.Drafts.ClearDraft(); err != nil {
			m.app.Log.Warn("clear draft", zap.Error(err))
		}
		m.app.Notifier.Notify("Entry saved", "Your journal entry has been created.")
		return m, m.postCreateCmd(msg.entry.ID, msg.beforeStreak)

	case postCreateMsg:
		if msg.err != nil {
			m.app.Log.Warn("profile refresh after create failed", zap.Error(msg.err))
			return m, nil
		}
		if msg.user.CurrentStreak > msg.beforeStreak {
			streak := msg.user.CurrentStreak
			m.app.Notifier.Notify("Streak +1 🎉", fmt.Sprintf("You're on a %d day streak!", streak))
			return m, func() tea.Msg { return celebrateMsg{streak: streak} }
		}
		return m, nil

	case promptsMsg:
		if msg.seq != m.promptSeq {
			return m, nil
		}
		m.aiBusy = false
		if msg.err != nil {
			m.aiErr = humanError(msg.err)
			return m, nil
		}
		m.aiErr = ""
		m.prompts = msg.prompts
		return m, nil

	case dashWeeklyMsg:
		m.weeklyBusy = false
		if msg.err != nil {
			m.weeklyErr = humanError(msg.err)
			return m, nil
		}
		m.weeklyErr = ""
		summary := msg.summary
		m.weekly = &summary
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other component messages go to the focused input.
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusText:
		m.text, cmd = m.text.Update(msg)
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.submit()

	case key.Matches(msg, m.keys.FocusNext):
		m.setFocus((m.focus + 1) % 4)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.FocusPrev):
		m.setFocus((m.focus + 3) % 4)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ToggleAll):
		m.showAll = !m.showAll
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.AskAI):
		return m.askAI()

	case key.Matches(msg, m.keys.Weekly):
		return m.fetchWeekly()

	case key.Matches(msg, m.keys.Surprise):
		m.usePrompt(promptIdeas[rand.Intn(len(promptIdeas))])
		return m, nil
	}

	if m.focus == focusList {
		visible := m.visibleEntries()
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(visible)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			if m.selected < len(visible) {
				id := visible[m.selected].ID
				return m, func() tea.Msg { return openEntryMsg{id: id} }
			}
			return m, nil
		}
		// Digits 1..9 insert a listed AI prompt into the draft.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			idx := int(s[0] - '1')
			if idx < len(m.prompts) {
				m.usePrompt(m.prompts[idx])
			}
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		m.saveDraft()
	case focusText:
		m.text, cmd = m.text.Update(msg)
		m.saveDraft()
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
		if q := m.search.Value(); q != m.lastQuery {
			// Changing the query always collapses the window.
			m.lastQuery = q
			m.showAll = false
			m.selected = 0
		}
	}
	return m, cmd
}

func (m *dashboardModel) setFocus(f dashFocus) {
	m.title.Blur()
	m.text.Blur()
	m.search.Blur()
	m.focus = f
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusText:
		m.text.Focus()
	case focusSearch:
		m.search.Focus()
	}
}

// saveDraft persists the in-progress entry on every keystroke.
func (m *dashboardModel) saveDraft() {
	d := store.Draft{Title: m.title.Value(), Text: m.text.Value()}
	if err := m.app.Drafts.SaveDraft(d); err != nil {
		m.app.Log.Warn("save draft", zap.Error(err))
	}
}

func (m *dashboardModel) usePrompt(p string) {
	current := m.text.Value()
	if current == "" {
		m.text.SetValue(p)
	} else {
		m.text.SetValue(current + "\n\n" + p)
	}
	m.setFocus(focusText)
	m.saveDraft()
}

// submit runs the create flow with the field values at invocation time.
// Both fields must be non-blank; otherwise no network call is made.
func (m dashboardModel) submit() (dashboardModel, tea.Cmd) {
	title := strings.TrimSpace(m.title.Value())
	text := strings.TrimSpace(m.text.Value())
	if title == "" || text == "" || m.submitting {
		return m, nil
	}
	user, ok := m.app.Session.CurrentUser()
	if !ok {
		return m, nil
	}
	m.submitting = true
	app := m.app
	beforeStreak := user.CurrentStreak
	req := api.CreateEntryRequest{UserID: user.ID, Title: title, Text: text}
	return m, func() tea.Msg {
		entry, err := app.Client.CreateEntry(context.Background(), req)
		return entryCreatedMsg{entry: entry, beforeStreak: beforeStreak, err: err}
	}
}

// postCreateCmd runs the best-effort tail of the save flow: analyze the new
// entry, then refresh the profile to observe a streak change. The analyze
// failure is logged and swallowed; it never blocks the refresh.
func (m dashboardModel) postCreateCmd(entryID, beforeStreak int) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := app.Client.AnalyzeEntry(ctx, entryID); err != nil {
			app.Log.Warn("auto analyze failed", zap.Int("entry_id", entryID), zap.Error(err))
		}
		user, err := app.Session.RefreshUser(ctx)
		return postCreateMsg{user: user, beforeStreak: beforeStreak, err: err}
	}
}

func (m dashboardModel) askAI() (dashboardModel, tea.Cmd) {
	if m.aiBusy {
		return m, nil
	}
	m.aiBusy = true
	m.aiErr = ""
	m.promptSeq++
	seq := m.promptSeq
	app := m.app
	return m, func() tea.Msg {
		resp, err := app.Client.Prompts(context.Background(), "daily reflection", 5)
		return promptsMsg{seq: seq, prompts: resp.Prompts, err: err}
	}
}

func (m dashboardModel) fetchWeekly() (dashboardModel, tea.Cmd) {
	if m.weeklyBusy {
		return m, nil
	}
	m.weeklyBusy = true
	m.weeklyErr = ""
	app := m.app
	return m, func() tea.Msg {
		summary, err := app.Client.WeeklySummary(context.Background())
		return dashWeeklyMsg{summary: summary, err: err}
	}
}

// filterEntries matches the query case-insensitively against title or text
// substrings. An empty query is the identity.
func filterEntries(entries []api.Entry, query string) []api.Entry {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	out := make([]api.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Text), q) {
			out = append(out, e)
		}
	}
	return out
}

// windowEntries applies the collapsed window: min(pageSize, len) items
// unless the caller expanded the view.
func windowEntries(filtered []api.Entry, showAll bool) []api.Entry {
	if showAll || len(filtered) <= pageSize {
		return filtered
	}
	return filtered[:pageSize]
}

func (m dashboardModel) filtered() []api.Entry {
	return filterEntries(m.entries, m.search.Value())
}

func (m dashboardModel) visibleEntries() []api.Entry {
	return windowEntries(m.filtered(), m.showAll)
}

func sortNewestFirst(entries []api.Entry) []api.Entry {
	out := make([]api.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// wordCount counts whitespace-separated words.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// readingMinutes estimates reading time at ~200 wpm, never below 1.
func readingMinutes(words int) int {
	mins := (words + 100) / 200
	if mins < 1 {
		return 1
	}
	return mins
}

func (m dashboardModel) view(width, height int) string {
	left := m.renderEditor() + "\n" + m.renderList()
	right := m.renderCoach()

	if width >= 100 {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return left + "\n" + right
}

func (m dashboardModel) renderEditor() string {
	var b strings.Builder
	words := wordCount(m.text.Value())
	stats := fmt.Sprintf("%d words · ~%d min read", words, readingMinutes(words))

	b.WriteString(m.theme.PaneTitle.Render("New Entry") + "  " + m.theme.Muted.Render(stats) + "\n")
	b.WriteString(m.title.View() + "\n")
	b.WriteString(m.text.View() + "\n")
	b.WriteString(m.search.View() + "\n")

	if m.canSubmit() {
		b.WriteString(m.theme.Selected.Render("ctrl+s save entry"))
	} else {
		b.WriteString(m.theme.Muted.Render("ctrl+s save entry (title and text required)"))
	}
	if m.submitting {
		b.WriteString(m.theme.Muted.Render("  saving…"))
	}

	pane := m.theme.Pane
	if m.focus == focusTitle || m.focus == focusText || m.focus == focusSearch {
		pane = m.theme.PaneFocused
	}
	return pane.Width(m.paneWidth()).Render(b.String())
}

func (m dashboardModel) canSubmit() bool {
	return strings.TrimSpace(m.title.Value()) != "" &&
		strings.TrimSpace(m.text.Value()) != ""
}

func (m dashboardModel) renderList() string {
	var b strings.Builder
	filtered := m.filtered()
	visible := windowEntries(filtered, m.showAll)

	header := m.theme.PaneTitle.Render("Recent Entries")
	if len(filtered) > pageSize {
		toggle := "ctrl+a view all"
		if m.showAll {
			toggle = "ctrl+a view less"
		}
		header += "  " + m.theme.Muted.Render(
			fmt.Sprintf("showing %d of %d · %s", len(visible), len(filtered), toggle))
	}
	b.WriteString(header + "\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Muted.Render("loading entries…") + "\n")
	case m.loadErr != "":
		b.WriteString(m.theme.ErrorText.Render(m.loadErr) + "\n")
	case len(m.entries) == 0:
		b.WriteString(m.theme.Muted.Render("No entries yet.") + "\n")
	case len(visible) == 0:
		b.WriteString(m.theme.Muted.Render("Nothing matches your search.") + "\n")
	default:
		lineWidth := m.paneWidth() - 6
		if lineWidth < 20 {
			lineWidth = 20
		}
		for i, e := range visible {
			line := entryLine(e, lineWidth)
			if m.focus == focusList && i == m.selected {
				b.WriteString(m.theme.Selected.Render("▸ "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	pane := m.theme.Pane
	if m.focus == focusList {
		pane = m.theme.PaneFocused
	}
	return pane.Width(m.paneWidth()).Render(b.String())
}

func entryLine(e api.Entry, width int) string {
	date := e.CreatedAt
	if len(date) >= 10 {
		date = date[:10]
	}
	snippet := strings.ReplaceAll(e.Text, "\n", " ")
	line := fmt.Sprintf("%s  %s — %s", date, e.Title, snippet)
	return truncate.StringWithTail(line, uint(width), "…")
}

func (m dashboardModel) renderCoach() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("AI Coach") + "\n")
	b.WriteString(m.theme.Muted.Render("Context-aware prompts and weekly reflections.") + "\n")

	if m.aiBusy {
		b.WriteString(m.theme.Muted.Render("thinking…") + "\n")
	}
	if m.aiErr != "" {
		b.WriteString(m.theme.ErrorText.Render(m.aiErr) + "\n")
	}
	for i, p := range m.prompts {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}
	if len(m.prompts) > 0 {
		b.WriteString(m.theme.Muted.Render("press a number (list focus) to insert") + "\n")
	}

	b.WriteString("\n")
	if m.weeklyBusy {
		b.WriteString(m.theme.Muted.Render("summarizing…") + "\n")
	}
	if m.weeklyErr != "" {
		b.WriteString(m.theme.ErrorText.Render(m.weeklyErr) + "\n")
	}
	if m.weekly != nil {
		b.WriteString(renderWeekly(m.theme, *m.weekly, m.coachWidth()-4))
	}

	b.WriteString("\n" + m.theme.PaneTitle.Render("Prompt ideas") + "\n")
	for _, p := range promptIdeas[:4] {
		b.WriteString(m.theme.Muted.Render("· "+p) + "\n")
	}
	b.WriteString(m.theme.Muted.Render("ctrl+u surprise me · ctrl+k ask AI · ctrl+w summarize week"))

	return m.theme.Pane.Width(m.coachWidth()).Render(b.String())
}

func (m dashboardModel) coachWidth() int {
	if m.width >= 100 {
		w := m.width - m.paneWidth() - 2
		if w < 30 {
			w = 30
		}
		return w
	}
	return m.width - 2
}
