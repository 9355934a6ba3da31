package tui

import (
	"github.com/GregorioSC/Journaling-Companion/internal/analytics"
	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/notify"
	"github.com/GregorioSC/Journaling-Companion/internal/session"
)

// Messages flowing through the single update loop. Network work happens in
// command goroutines; these are the only way results re-enter the model.

type bootedMsg struct {
	state session.State
}

type loggedInMsg struct {
	user api.User
	err  error
}

type registeredMsg struct {
	err error
}

type entriesLoadedMsg struct {
	entries []api.Entry
	err     error
}

type entryCreatedMsg struct {
	entry        api.Entry
	beforeStreak int
	err          error
}

// postCreateMsg closes the create → analyze → refresh-profile chain. The
// analyze step is best-effort and already logged by the command; only the
// refreshed profile travels back.
type postCreateMsg struct {
	user         api.User
	beforeStreak int
	err          error
}

type promptsMsg struct {
	seq     int
	prompts []string
	err     error
}

type dashWeeklyMsg struct {
	summary api.WeeklySummary
	err     error
}

type entryLoadedMsg struct {
	seq     int
	entry   api.Entry
	insight *api.Insight // nil when not yet analyzed
	err     error
}

type entryPromptsMsg struct {
	seq     int
	prompts []string
	err     error
}

type entrySavedMsg struct {
	entry api.Entry
	err   error
}

type entryDeletedMsg struct {
	id  int
	err error
}

type analyzedMsg struct {
	seq     int
	insight api.Insight
	err     error
}

type heatmapMsg struct {
	seq     int
	cells   []analytics.DayCount
	entries []api.Entry
	err     error
}

type sentimentMsg struct {
	seq    int
	points []analytics.Point
}

type analyticsWeeklyMsg struct {
	seq     int
	summary api.WeeklySummary
	err     error
}

type profileSavedMsg struct {
	user api.User
	err  error
}

type notificationMsg struct {
	n  notify.Notification
	ok bool
}

type toastExpiredMsg struct {
	id int64
}

type confettiTickMsg struct{}

// navigateMsg asks the root model to switch routes.
type navigateMsg struct {
	to route
}

// openEntryMsg asks the root model to open the detail view for an entry.
type openEntryMsg struct {
	id int
}

// celebrateMsg fires the confetti overlay after a streak increment.
type celebrateMsg struct {
	streak int
}
