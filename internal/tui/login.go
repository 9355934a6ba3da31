package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	app   *App
	theme Theme
	keys  keyMap

	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errMsg   string
}

func newLoginModel(app *App, theme Theme, keys keyMap) loginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120
	password.Width = 40

	return loginModel{
		app:      app,
		theme:    theme,
		keys:     keys,
		email:    email,
		password: password,
	}
}

func (m loginModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanError(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.FocusNext), key.Matches(msg, m.keys.FocusPrev):
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.email.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.email.Blur()
			}
			return m, textinput.Blink

		case msg.String() == "enter":
			return m.submit()

		case msg.String() == "ctrl+n":
			return m, func() tea.Msg { return navigateMsg{to: routeRegister} }
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		if !m.email.Focused() {
			m.email.Focus()
		}
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" || m.busy {
		return m, nil
	}
	m.busy = true
	m.errMsg = ""
	app := m.app
	return m, func() tea.Msg {
		user, err := app.Session.Login(context.Background(), email, password)
		return loggedInMsg{user: user, err: err}
	}
}

func (m loginModel) view(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Sign in") + "\n\n")
	b.WriteString("  email\n  " + m.email.View() + "\n\n")
	b.WriteString("  password\n  " + m.password.View() + "\n\n")
	if m.busy {
		b.WriteString("  " + m.theme.Muted.Render("signing in…") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("  " + m.theme.ErrorText.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n  " + m.theme.Muted.Render("enter sign in · ctrl+n create an account") + "\n")
	return m.theme.Pane.Width(min(width-2, 52)).Render(b.String())
}
