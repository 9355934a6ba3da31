package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

// profileModel shows the account card and streaks, with an inline edit
// form for username, age and gender.
type profileModel struct {
	app   *App
	theme Theme
	keys  keyMap

	username textinput.Model
	age      textinput.Model
	gender   textinput.Model
	focus    int
	editing  bool
	saving   bool
	errMsg   string
}

func newProfileModel(app *App, theme Theme, keys keyMap) profileModel {
	username := textinput.New()
	username.CharLimit = 120
	username.Width = 30
	age := textinput.New()
	age.CharLimit = 3
	age.Width = 30
	gender := textinput.New()
	gender.CharLimit = 40
	gender.Width = 30

	return profileModel{
		app:      app,
		theme:    theme,
		keys:     keys,
		username: username,
		age:      age,
		gender:   gender,
	}
}

func (m *profileModel) open() tea.Cmd {
	m.editing = false
	m.saving = false
	m.errMsg = ""
	if user, ok := m.app.Session.CurrentUser(); ok {
		m.username.SetValue(user.Username)
		m.age.SetValue(strconv.Itoa(user.Age))
		m.gender.SetValue(user.Gender)
	}
	return nil
}

func (m profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errMsg = humanError(msg.err)
			m.app.Notifier.Notify("Update failed", humanError(msg.err))
			return m, nil
		}
		m.editing = false
		m.errMsg = ""
		m.app.Notifier.Notify("Profile updated", "")
		return m, nil

	case tea.KeyMsg:
		if !m.editing {
			if msg.String() == "e" {
				m.editing = true
				m.setFocus(0)
				return m, textinput.Blink
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Back):
			m.editing = false
			return m, nil
		case key.Matches(msg, m.keys.FocusNext):
			m.setFocus((m.focus + 1) % 3)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.FocusPrev):
			m.setFocus((m.focus + 2) % 3)
			return m, textinput.Blink
		case msg.String() == "enter":
			return m.save()
		}
		var cmd tea.Cmd
		switch m.focus {
		case 0:
			m.username, cmd = m.username.Update(msg)
		case 1:
			m.age, cmd = m.age.Update(msg)
		case 2:
			m.gender, cmd = m.gender.Update(msg)
		}
		return m, cmd
	}

	if !m.editing {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.focus {
	case 0:
		m.username, cmd = m.username.Update(msg)
	case 1:
		m.age, cmd = m.age.Update(msg)
	case 2:
		m.gender, cmd = m.gender.Update(msg)
	}
	return m, cmd
}

func (m *profileModel) setFocus(i int) {
	m.username.Blur()
	m.age.Blur()
	m.gender.Blur()
	m.focus = i
	switch i {
	case 0:
		m.username.Focus()
	case 1:
		m.age.Focus()
	case 2:
		m.gender.Focus()
	}
}

func (m profileModel) save() (profileModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	username := strings.TrimSpace(m.username.Value())
	gender := strings.TrimSpace(m.gender.Value())
	age, err := strconv.Atoi(strings.TrimSpace(m.age.Value()))
	if err != nil {
		m.errMsg = "age must be a number"
		return m, nil
	}
	patch := api.UserPatch{Username: &username, Age: &age, Gender: &gender}
	m.saving = true
	m.errMsg = ""
	app := m.app
	return m, func() tea.Msg {
		user, err := app.Session.UpdateProfile(context.Background(), patch)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m profileModel) view(width int) string {
	user, ok := m.app.Session.CurrentUser()
	if !ok {
		return ""
	}

	var account strings.Builder
	account.WriteString(m.theme.PaneTitle.Render("Profile") + "\n")
	if m.editing {
		account.WriteString("username " + m.username.View() + "\n")
		account.WriteString("age      " + m.age.View() + "\n")
		account.WriteString("gender   " + m.gender.View() + "\n")
		if m.saving {
			account.WriteString(m.theme.Muted.Render("saving…") + "\n")
		}
		if m.errMsg != "" {
			account.WriteString(m.theme.ErrorText.Render(m.errMsg) + "\n")
		}
		account.WriteString(m.theme.Muted.Render("enter save · esc cancel"))
	} else {
		account.WriteString(user.Username + "\n")
		account.WriteString(m.theme.Muted.Render(user.Email) + "\n")
		account.WriteString(m.theme.Muted.Render(
			fmt.Sprintf("Age: %d · Gender: %s", user.Age, user.Gender)) + "\n")
		account.WriteString(m.theme.Muted.Render("press e to edit"))
	}

	var streak strings.Builder
	streak.WriteString(m.theme.PaneTitle.Render("Streak") + "\n")
	last := user.LastEntryDate
	if last == "" {
		last = "—"
	}
	streak.WriteString(m.theme.Muted.Render("Last entry: "+last) + "\n")
	streak.WriteString(m.theme.Badge.Render(fmt.Sprintf("%d day streak", user.CurrentStreak)) + "\n")
	streak.WriteString(m.theme.Muted.Render(fmt.Sprintf("Longest: %d days", user.LongestStreak)))

	paneW := min((width-4)/2, 44)
	left := m.theme.Pane.Width(paneW).Render(account.String())
	right := m.theme.Pane.Width(paneW).Render(streak.String())
	if width >= 80 {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return left + "\n" + right
}
