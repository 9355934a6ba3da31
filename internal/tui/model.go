package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/notify"
	"github.com/GregorioSC/Journaling-Companion/internal/session"
)

type route int

const (
	routeLogin route = iota
	routeRegister
	routeDashboard
	routeEntry
	routeAnalytics
	routeProfile
)

// Model is the root of the TUI: it gates everything behind the session
// state machine, routes between views, and owns the toast queue.
type Model struct {
	app   *App
	theme Theme
	keys  keyMap

	width  int
	height int

	state    session.State
	route    route
	showHelp bool

	spin spinner.Model

	login     loginModel
	register  registerModel
	dashboard dashboardModel
	entry     entryModel
	analytics analyticsModel
	profile   profileModel

	toasts   []notify.Notification
	notifCh  <-chan notify.Notification
	confetti confettiModel
}

func New(app *App, themeName string) *Model {
	theme := NewTheme(themeName)
	keys := defaultKeyMap()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	m := &Model{
		app:       app,
		theme:     theme,
		keys:      keys,
		width:     100,
		height:    30,
		state:     session.StateBooting,
		route:     routeLogin,
		spin:      sp,
		login:     newLoginModel(app, theme, keys),
		register:  newRegisterModel(app, theme, keys),
		dashboard: newDashboardModel(app, theme, keys),
		entry:     newEntryModel(app, theme, keys),
		analytics: newAnalyticsModel(app, theme, keys),
		profile:   newProfileModel(app, theme, keys),
	}

	// The notification subscription lives for the whole process.
	ch, err := app.Notifier.Subscribe(context.Background())
	if err == nil {
		m.notifCh = ch
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		m.bootstrapCmd(),
	}
	if m.notifCh != nil {
		cmds = append(cmds, waitForNotification(m.notifCh))
	}
	return tea.Batch(cmds...)
}

func (m *Model) bootstrapCmd() tea.Cmd {
	return func() tea.Msg {
		return bootedMsg{state: m.app.Session.Bootstrap(context.Background())}
	}
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		return notificationMsg{n: n, ok: ok}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard.setSize(msg.Width, msg.Height)
		m.entry.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case bootedMsg:
		m.state = msg.state
		if msg.state == session.StateAuthenticated {
			m.route = routeDashboard
			return m, m.dashboard.open()
		}
		m.route = routeLogin
		return m, m.login.focusCmd()

	case notificationMsg:
		if !msg.ok {
			return m, nil
		}
		m.toasts = append(m.toasts, msg.n)
		id := msg.n.ID
		expire := tea.Tick(notify.DisplayDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})
		return m, tea.Batch(expire, waitForNotification(m.notifCh))

	case toastExpiredMsg:
		// Each toast self-removes on its own timer, independent of the rest.
		kept := m.toasts[:0]
		for _, t := range m.toasts {
			if t.ID != msg.id {
				kept = append(kept, t)
			}
		}
		m.toasts = kept
		return m, nil

	case celebrateMsg:
		m.confetti.start(m.width)
		return m, confettiTick()

	case confettiTickMsg:
		if m.confetti.step() {
			return m, confettiTick()
		}
		return m, nil

	case navigateMsg:
		return m, m.navigate(msg.to)

	case openEntryMsg:
		if m.state == session.StateAuthenticated {
			m.route = routeEntry
			return m, m.entry.open(msg.id)
		}
		return m, nil

	case loggedInMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		if msg.err == nil {
			m.state = session.StateAuthenticated
			m.route = routeDashboard
			return m, tea.Batch(cmd, m.dashboard.open())
		}
		return m, cmd

	case registeredMsg:
		var cmd tea.Cmd
		m.register, cmd = m.register.update(msg)
		if msg.err == nil {
			m.app.Notifier.Notify("Account created", "You can sign in now.")
			m.route = routeLogin
			return m, tea.Batch(cmd, m.login.focusCmd())
		}
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.state == session.StateAuthenticated {
			switch {
			case key.Matches(msg, m.keys.Dashboard):
				return m, m.navigate(routeDashboard)
			case key.Matches(msg, m.keys.Analytics):
				return m, m.navigate(routeAnalytics)
			case key.Matches(msg, m.keys.Profile):
				return m, m.navigate(routeProfile)
			case key.Matches(msg, m.keys.Logout):
				return m, m.logout()
			}
		}
	}

	// A 401 on any in-flight request means the token went stale; the only
	// recovery is signing in again.
	if m.state == session.StateAuthenticated {
		if err := resultError(msg); err != nil && errors.Is(err, api.ErrUnauthorized) {
			cmd := m.logout()
			m.app.Notifier.Notify("Session expired", "Please sign in again.")
			return m, cmd
		}
	}

	return m.routeUpdate(msg)
}

// resultError extracts the error from command-result messages so session
// expiry can be handled in one place.
func resultError(msg tea.Msg) error {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		return msg.err
	case entryCreatedMsg:
		return msg.err
	case entryLoadedMsg:
		return msg.err
	case entrySavedMsg:
		return msg.err
	case entryDeletedMsg:
		return msg.err
	case analyzedMsg:
		return msg.err
	case heatmapMsg:
		return msg.err
	case analyticsWeeklyMsg:
		return msg.err
	case dashWeeklyMsg:
		return msg.err
	case promptsMsg:
		return msg.err
	case entryPromptsMsg:
		return msg.err
	case profileSavedMsg:
		return msg.err
	}
	return nil
}

// routeUpdate forwards a message to the active view. Non-key messages also
// reach inactive views so in-flight results land regardless of navigation.
func (m *Model) routeUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.state == session.StateAnonymous {
		switch m.route {
		case routeRegister:
			m.register, cmd = m.register.update(msg)
		default:
			m.login, cmd = m.login.update(msg)
		}
		return m, cmd
	}
	if m.state != session.StateAuthenticated {
		return m, nil
	}

	_, isKey := msg.(tea.KeyMsg)
	if !isKey {
		// Results of background commands update whichever view they
		// belong to.
		m.dashboard, cmd = m.dashboard.update(msg)
		cmds = append(cmds, cmd)
		m.entry, cmd = m.entry.update(msg)
		cmds = append(cmds, cmd)
		m.analytics, cmd = m.analytics.update(msg)
		cmds = append(cmds, cmd)
		m.profile, cmd = m.profile.update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	switch m.route {
	case routeDashboard:
		m.dashboard, cmd = m.dashboard.update(msg)
	case routeEntry:
		m.entry, cmd = m.entry.update(msg)
	case routeAnalytics:
		m.analytics, cmd = m.analytics.update(msg)
	case routeProfile:
		m.profile, cmd = m.profile.update(msg)
	}
	return m, cmd
}

func (m *Model) navigate(to route) tea.Cmd {
	if m.state != session.StateAuthenticated {
		if to == routeRegister {
			m.route = routeRegister
			return m.register.focusCmd()
		}
		m.route = routeLogin
		return m.login.focusCmd()
	}
	m.route = to
	switch to {
	case routeDashboard:
		return m.dashboard.open()
	case routeAnalytics:
		return m.analytics.open()
	case routeProfile:
		return m.profile.open()
	}
	return nil
}

func (m *Model) logout() tea.Cmd {
	if err := m.app.Session.Logout(); err != nil {
		m.app.Log.Warn("logout", zap.Error(err))
	}
	m.state = session.StateAnonymous
	m.route = routeLogin
	m.login = newLoginModel(m.app, m.theme, m.keys)
	m.register = newRegisterModel(m.app, m.theme, m.keys)
	return m.login.focusCmd()
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTopBar())
	b.WriteString("\n")

	if m.confetti.active() {
		b.WriteString(m.confetti.view(m.theme))
		b.WriteString("\n")
	}

	switch m.state {
	case session.StateBooting:
		// Protected content never renders while the session is unresolved.
		b.WriteString("\n  " + m.spin.View() + " starting up…\n")
	case session.StateAnonymous:
		if m.route == routeRegister {
			b.WriteString(m.register.view(m.width))
		} else {
			b.WriteString(m.login.view(m.width))
		}
	case session.StateAuthenticated:
		if m.showHelp {
			b.WriteString(m.renderHelp())
			break
		}
		switch m.route {
		case routeDashboard:
			b.WriteString(m.dashboard.view(m.width, m.height))
		case routeEntry:
			b.WriteString(m.entry.view(m.width, m.height))
		case routeAnalytics:
			b.WriteString(m.analytics.view(m.width))
		case routeProfile:
			b.WriteString(m.profile.view(m.width))
		}
	}

	if len(m.toasts) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderToasts())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderTopBar() string {
	title := m.theme.TopBarTitle.Render("✎ journal")
	meta := ""
	if user, ok := m.app.Session.CurrentUser(); ok {
		streak := ""
		if user.CurrentStreak > 0 {
			streak = m.theme.Badge.Render(" 🔥 " + strconv.Itoa(user.CurrentStreak))
		}
		meta = m.theme.TopBar.Render(" · "+user.Username) + streak
	}
	return title + meta
}

func (m *Model) renderToasts() string {
	boxes := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		body := m.theme.ToastTitle.Render(t.Title)
		if t.Description != "" {
			body += "\n" + m.theme.Muted.Render(t.Description)
		}
		boxes = append(boxes, m.theme.Toast.Render(body))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
}

func (m *Model) renderFooter() string {
	if m.state != session.StateAuthenticated {
		return m.theme.Footer.Render("enter submit · tab next field · ctrl+c quit")
	}
	switch m.route {
	case routeDashboard:
		return m.theme.Footer.Render("ctrl+s save · ctrl+a view all · ctrl+k ask AI · ctrl+g analytics · ctrl+p profile · f1 help")
	case routeEntry:
		return m.theme.Footer.Render("ctrl+s save · ctrl+y analyze · ctrl+k prompts · ctrl+x delete · esc back")
	default:
		return m.theme.Footer.Render("ctrl+d dashboard · ctrl+g analytics · ctrl+p profile · ctrl+o sign out · f1 help")
	}
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	kb := func(k, desc string) {
		b.WriteString("  " + m.theme.Selected.Render(k) + "  " + desc + "\n")
	}
	b.WriteString(m.theme.PaneTitle.Render("journal help") + "\n\n")
	kb("ctrl+d", "dashboard (write + browse entries)")
	kb("ctrl+g", "analytics (activity, sentiment, weekly reflection)")
	kb("ctrl+p", "profile and streaks")
	kb("ctrl+s", "save the entry being written or edited")
	kb("ctrl+a", "toggle view all / view less on the entry list")
	kb("ctrl+k", "ask the AI coach for prompts")
	kb("ctrl+w", "fetch the weekly summary")
	kb("ctrl+u", "insert a surprise prompt idea")
	kb("ctrl+y", "analyze the open entry")
	kb("ctrl+x", "delete the open entry")
	kb("ctrl+o", "sign out")
	kb("f1", "close help")
	return b.String()
}
