package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

type registerModel struct {
	app   *App
	theme Theme
	keys  keyMap

	fields []textinput.Model // username, email, password, age, gender
	focus  int
	busy   bool
	errMsg string
}

var registerLabels = []string{"username", "email", "password", "age", "gender"}

func newRegisterModel(app *App, theme Theme, keys keyMap) registerModel {
	fields := make([]textinput.Model, len(registerLabels))
	for i, label := range registerLabels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 120
		ti.Width = 40
		fields[i] = ti
	}
	fields[2].EchoMode = textinput.EchoPassword
	return registerModel{
		app:    app,
		theme:  theme,
		keys:   keys,
		fields: fields,
	}
}

func (m registerModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (m registerModel) update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanError(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return navigateMsg{to: routeLogin} }

		case key.Matches(msg, m.keys.FocusNext):
			m.setFocus((m.focus + 1) % len(m.fields))
			return m, textinput.Blink

		case key.Matches(msg, m.keys.FocusPrev):
			m.setFocus((m.focus + len(m.fields) - 1) % len(m.fields))
			return m, textinput.Blink

		case msg.String() == "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if !m.fields[m.focus].Focused() {
		m.fields[m.focus].Focus()
	}
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *registerModel) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[i].Focus()
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	age, err := strconv.Atoi(strings.TrimSpace(m.fields[3].Value()))
	if err != nil {
		m.errMsg = "age must be a number"
		return m, nil
	}
	req := api.RegisterRequest{
		Username: strings.TrimSpace(m.fields[0].Value()),
		Email:    strings.TrimSpace(m.fields[1].Value()),
		Password: m.fields[2].Value(),
		Age:      age,
		Gender:   strings.TrimSpace(m.fields[4].Value()),
	}
	m.busy = true
	m.errMsg = ""
	app := m.app
	return m, func() tea.Msg {
		err := app.Session.Register(context.Background(), req)
		return registeredMsg{err: err}
	}
}

func (m registerModel) view(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Create an account") + "\n\n")
	for i, label := range registerLabels {
		b.WriteString("  " + label + "\n  " + m.fields[i].View() + "\n")
	}
	if m.busy {
		b.WriteString("\n  " + m.theme.Muted.Render("creating account…") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n  " + m.theme.ErrorText.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n  " + m.theme.Muted.Render("enter create · esc back to sign in") + "\n")
	return m.theme.Pane.Width(min(width-2, 52)).Render(b.String())
}
