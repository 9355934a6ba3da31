// Package session owns the authenticated user and the Booting → Anonymous /
// Authenticated state machine that gates every protected view.
package session

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/store"
)

type State int

const (
	// StateBooting means the manager is still resolving the persisted
	// credential. Protected views render a loading indicator.
	StateBooting State = iota
	// StateAnonymous means there is no valid session. Protected views
	// redirect to sign-in and never render their content tree.
	StateAnonymous
	// StateAuthenticated means CurrentUser is valid.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Backend is the slice of the API client the session manager uses.
type Backend interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, req api.RegisterRequest) (api.User, error)
	Me(ctx context.Context) (api.User, error)
	UpdateMe(ctx context.Context, patch api.UserPatch) (api.User, error)
}

// Manager resolves, holds and mutates the current session. Methods are safe
// to call from command goroutines.
type Manager struct {
	backend  Backend
	creds    store.CredentialStore
	log      *zap.Logger
	validate *validator.Validate

	mu    sync.RWMutex
	state State
	user  api.User
}

func NewManager(backend Backend, creds store.CredentialStore, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		backend:  backend,
		creds:    creds,
		log:      log,
		validate: validator.New(),
		state:    StateBooting,
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns the session user; ok is false unless authenticated.
func (m *Manager) CurrentUser() (api.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.state == StateAuthenticated
}

// Bootstrap resolves the user from a previously persisted credential. Any
// failure, including "no credential", lands in Anonymous; this is the only
// way out of Booting.
func (m *Manager) Bootstrap(ctx context.Context) State {
	if _, ok := m.creds.Token(); !ok {
		m.setAnonymous()
		return StateAnonymous
	}
	user, err := m.backend.Me(ctx)
	if err != nil {
		m.log.Info("bootstrap failed, starting anonymous", zap.Error(err))
		m.setAnonymous()
		return StateAnonymous
	}
	m.setUser(user)
	return StateAuthenticated
}

// Login authenticates and re-resolves the user. On success the manager
// transitions to Authenticated.
func (m *Manager) Login(ctx context.Context, email, password string) (api.User, error) {
	if err := m.backend.Login(ctx, email, password); err != nil {
		return api.User{}, err
	}
	user, err := m.backend.Me(ctx)
	if err != nil {
		return api.User{}, err
	}
	m.setUser(user)
	m.log.Info("logged in", zap.Int("user_id", user.ID))
	return user, nil
}

// Register creates an account without changing session state; the caller
// still logs in afterwards.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := m.validate.Struct(req); err != nil {
		return err
	}
	_, err := m.backend.Register(ctx, req)
	return err
}

// Logout clears the credential and resets to Anonymous. The UI routes back
// to the sign-in view on observing the transition.
func (m *Manager) Logout() error {
	err := m.creds.ClearToken()
	m.setAnonymous()
	m.log.Info("logged out")
	return err
}

// RefreshUser re-fetches the profile, keeping streak fields current after
// entry creation.
func (m *Manager) RefreshUser(ctx context.Context) (api.User, error) {
	user, err := m.backend.Me(ctx)
	if err != nil {
		return api.User{}, err
	}
	m.setUser(user)
	return user, nil
}

// UpdateProfile validates and persists a partial profile update.
func (m *Manager) UpdateProfile(ctx context.Context, patch api.UserPatch) (api.User, error) {
	if err := m.validate.Struct(patch); err != nil {
		return api.User{}, err
	}
	user, err := m.backend.UpdateMe(ctx, patch)
	if err != nil {
		return api.User{}, err
	}
	m.setUser(user)
	return user, nil
}

func (m *Manager) setUser(user api.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticated
	m.user = user
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.user = api.User{}
}
