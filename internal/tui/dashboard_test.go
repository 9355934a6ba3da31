package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/notify"
	"github.com/GregorioSC/Journaling-Companion/internal/session"
	"github.com/GregorioSC/Journaling-Companion/internal/store"
)

type stubBackend struct {
	user api.User
}

func (s *stubBackend) Login(ctx context.Context, email, password string) error { return nil }
func (s *stubBackend) Register(ctx context.Context, req api.RegisterRequest) (api.User, error) {
	return s.user, nil
}
func (s *stubBackend) Me(ctx context.Context) (api.User, error) { return s.user, nil }
func (s *stubBackend) UpdateMe(ctx context.Context, patch api.UserPatch) (api.User, error) {
	return s.user, nil
}

func newTestApp(t *testing.T, user api.User) (*App, <-chan notify.Notification) {
	t.Helper()

	mem := store.NewMemory()
	sessions := session.NewManager(&stubBackend{user: user}, mem, nil)
	if user.ID != 0 {
		if _, err := sessions.Login(context.Background(), user.Email, "pw"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}

	notifier := notify.NewService(nil)
	t.Cleanup(func() { notifier.Close() })
	ch, err := notifier.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	return &App{
		Client:   api.NewClient("http://127.0.0.1:1", mem, nil),
		Session:  sessions,
		Drafts:   mem,
		Notifier: notifier,
		Log:      zap.NewNop(),
	}, ch
}

func expectNotification(t *testing.T, ch <-chan notify.Notification) notify.Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification")
		return notify.Notification{}
	}
}

func someEntries() []api.Entry {
	return []api.Entry{
		{ID: 1, Title: "Morning run", Text: "Felt great along the river.", CreatedAt: "2026-08-20T08:00:00"},
		{ID: 2, Title: "Work stress", Text: "Deadline pressure again.", CreatedAt: "2026-08-21T19:00:00"},
		{ID: 3, Title: "Quiet evening", Text: "Tea and a book.", CreatedAt: "2026-08-22T21:00:00"},
	}
}

func TestFilterEntriesEmptyQueryIsIdentity(t *testing.T) {
	entries := someEntries()
	got := filterEntries(entries, "")
	if len(got) != len(entries) {
		t.Fatalf("empty query must return everything, got %d of %d", len(got), len(entries))
	}
}

func TestFilterEntriesMatchesTitleAndTextCaseInsensitive(t *testing.T) {
	entries := someEntries()

	byTitle := filterEntries(entries, "MORNING")
	if len(byTitle) != 1 || byTitle[0].ID != 1 {
		t.Fatalf("title match: got %+v", byTitle)
	}

	byText := filterEntries(entries, "deadline")
	if len(byText) != 1 || byText[0].ID != 2 {
		t.Fatalf("text match: got %+v", byText)
	}

	if got := filterEntries(entries, "zzz-no-match"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestWindowEntries(t *testing.T) {
	many := make([]api.Entry, pageSize+4)
	for i := range many {
		many[i] = api.Entry{ID: i + 1}
	}

	if got := windowEntries(many, false); len(got) != pageSize {
		t.Fatalf("collapsed window: got %d, want %d", len(got), pageSize)
	}
	if got := windowEntries(many, true); len(got) != len(many) {
		t.Fatalf("expanded window: got %d, want %d", len(got), len(many))
	}

	few := many[:3]
	if got := windowEntries(few, false); len(got) != 3 {
		t.Fatalf("short list must not be truncated, got %d", len(got))
	}
}

func TestSortNewestFirst(t *testing.T) {
	entries := someEntries()
	sorted := sortNewestFirst(entries)

	if sorted[0].ID != 3 || sorted[2].ID != 1 {
		t.Fatalf("wrong order: %+v", sorted)
	}
	// Input untouched.
	if entries[0].ID != 1 {
		t.Fatal("sortNewestFirst must not mutate its input")
	}
}

func TestWordCountAndReadingMinutes(t *testing.T) {
	if got := wordCount("  one two\tthree\nfour "); got != 4 {
		t.Fatalf("wordCount: got %d", got)
	}
	if got := wordCount(""); got != 0 {
		t.Fatalf("wordCount empty: got %d", got)
	}

	cases := []struct{ words, want int }{
		{0, 1}, {50, 1}, {150, 1}, {250, 1}, {350, 2}, {900, 5},
	}
	for _, tc := range cases {
		if got := readingMinutes(tc.words); got != tc.want {
			t.Fatalf("readingMinutes(%d): got %d, want %d", tc.words, got, tc.want)
		}
	}
}

func TestSubmitRequiresBothFields(t *testing.T) {
	app, _ := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())

	m.title.SetValue("Only a title")
	m.text.SetValue("   ")
	if _, cmd := m.submit(); cmd != nil {
		t.Fatal("blank text must not trigger a request")
	}

	m.title.SetValue("")
	m.text.SetValue("Only text")
	if _, cmd := m.submit(); cmd != nil {
		t.Fatal("blank title must not trigger a request")
	}

	m.title.SetValue("Both")
	m.text.SetValue("Present")
	if _, cmd := m.submit(); cmd == nil {
		t.Fatal("valid fields must produce a request command")
	}
}

func TestSubmitRequiresSession(t *testing.T) {
	app, _ := newTestApp(t, api.User{}) // anonymous
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())
	m.title.SetValue("Both")
	m.text.SetValue("Present")
	if _, cmd := m.submit(); cmd != nil {
		t.Fatal("anonymous session must not trigger a request")
	}
}

func TestStreakIncreaseCelebrates(t *testing.T) {
	app, ch := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())

	_, cmd := m.update(postCreateMsg{
		user:         api.User{ID: 1, CurrentStreak: 3},
		beforeStreak: 2,
	})
	if cmd == nil {
		t.Fatal("streak increase must produce a celebration command")
	}
	if msg, ok := cmd().(celebrateMsg); !ok || msg.streak != 3 {
		t.Fatalf("expected celebrateMsg{streak: 3}, got %#v", cmd())
	}

	n := expectNotification(t, ch)
	if n.Title != "Streak +1 🎉" {
		t.Fatalf("unexpected toast title %q", n.Title)
	}
	if want := "You're on a 3 day streak!"; n.Description != want {
		t.Fatalf("toast description %q, want %q", n.Description, want)
	}
}

func TestUnchangedStreakDoesNotCelebrate(t *testing.T) {
	app, _ := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())

	if _, cmd := m.update(postCreateMsg{
		user:         api.User{ID: 1, CurrentStreak: 2},
		beforeStreak: 2,
	}); cmd != nil {
		t.Fatal("unchanged streak must not celebrate")
	}
}

func TestEntryCreatedClearsDraftAndPrepends(t *testing.T) {
	app, ch := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())
	m.entries = sortNewestFirst(someEntries())
	m.title.SetValue("New day")
	m.text.SetValue("Fresh thoughts")
	m.saveDraft()

	created := api.Entry{ID: 9, Title: "New day", Text: "Fresh thoughts", CreatedAt: "2026-08-29T09:00:00"}
	m, cmd := m.update(entryCreatedMsg{entry: created, beforeStreak: 2})

	if m.entries[0].ID != 9 {
		t.Fatalf("new entry must be first, got id %d", m.entries[0].ID)
	}
	if m.title.Value() != "" || m.text.Value() != "" {
		t.Fatal("editor must be cleared after a successful save")
	}
	if !app.Drafts.Draft().Empty() {
		t.Fatal("draft must be cleared exactly on successful create")
	}
	if cmd == nil {
		t.Fatal("create must chain into the analyze/refresh tail")
	}
	if n := expectNotification(t, ch); n.Title != "Entry saved" {
		t.Fatalf("unexpected toast %q", n.Title)
	}
}

func TestDraftRestoredIntoEditorOnStart(t *testing.T) {
	app, _ := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	if err := app.Drafts.SaveDraft(store.Draft{Title: "Half-written", Text: "Picking up where I left off."}); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())

	if m.title.Value() != "Half-written" {
		t.Fatalf("title not restored from draft, got %q", m.title.Value())
	}
	if m.text.Value() != "Picking up where I left off." {
		t.Fatalf("text not restored from draft, got %q", m.text.Value())
	}
	// Restoring must not consume the draft; only a successful create does.
	if app.Drafts.Draft().Empty() {
		t.Fatal("draft must survive being restored")
	}
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	app, ch := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())
	m.title.SetValue("Keep me")
	m.text.SetValue("And me")
	m.saveDraft()

	m, _ = m.update(entryCreatedMsg{err: &api.RequestError{Status: 500, Message: "backend down"}})

	if m.title.Value() != "Keep me" || m.text.Value() != "And me" {
		t.Fatal("failed save must leave the editor untouched")
	}
	if app.Drafts.Draft().Empty() {
		t.Fatal("failed save must keep the draft")
	}
	if n := expectNotification(t, ch); n.Title != "Save failed" {
		t.Fatalf("unexpected toast %q", n.Title)
	}
}

func TestSearchQueryChangeCollapsesWindow(t *testing.T) {
	app, _ := newTestApp(t, api.User{ID: 1, Username: "ana", Email: "a@b.c"})
	m := newDashboardModel(app, NewTheme("dusk"), defaultKeyMap())
	m.entries = sortNewestFirst(someEntries())
	m.showAll = true
	m.selected = 2
	m.setFocus(focusSearch)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if m.showAll {
		t.Fatal("query change must collapse the window")
	}
	if m.selected != 0 {
		t.Fatal("query change must reset the selection")
	}
}
