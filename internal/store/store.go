// Package store persists the small amount of cross-run local state the
// client keeps: the bearer token and the unsaved entry draft. Both stores
// are capabilities so the session and the views stay testable without a
// real disk backend.
package store

// Draft is an in-progress, unsaved entry. It is saved on every keystroke
// and cleared exactly when its entry is successfully created.
type Draft struct {
	Title string
	Text  string
}

func (d Draft) Empty() bool {
	return d.Title == "" && d.Text == ""
}

// CredentialStore holds the bearer token issued at login.
type CredentialStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

// DraftStore holds the unsaved entry draft.
type DraftStore interface {
	Draft() Draft
	SaveDraft(d Draft) error
	ClearDraft() error
}
