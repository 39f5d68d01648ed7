package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/storage"
)

// ErrNotLoggedIn is returned by operations that need a session.
var ErrNotLoggedIn = errors.New("auth: not logged in")

// TokenStore persists the access token between runs.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
}

// Backend is the part of the API client the session manager drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, username, email, password string) error
	User(ctx context.Context, id string) (api.Profile, error)
	SetToken(token string)
}

// Manager owns the current session and keeps the token store and the
// API client's bearer token in step with it.
type Manager struct {
	store   TokenStore
	backend Backend
	logger  *log.Logger
	now     func() time.Time

	mu      sync.RWMutex
	session *Session
}

// NewManager creates a session manager. A nil store keeps the session in
// memory only.
func NewManager(store TokenStore, backend Backend, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		store:   store,
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// Restore loads the saved token. Expired or undecodable tokens are deleted
// and reported as not logged in.
func (m *Manager) Restore() (Session, bool, error) {
	if m.store == nil {
		return Session{}, false, nil
	}

	token, err := m.store.LoadToken()
	if errors.Is(err, storage.ErrNoToken) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("auth: restore: %w", err)
	}

	s, err := Decode(token)
	if err == nil && !s.Expired(m.now()) {
		m.set(&s)
		m.logger.Debug("session restored", "user", s.Username, "expires", s.ExpiresAt)
		return s, true, nil
	}

	if err != nil {
		m.logger.Warn("dropping unreadable saved token", "error", err)
	} else {
		m.logger.Info("saved session expired", "user", s.Username, "expired", s.ExpiresAt)
	}
	if delErr := m.store.DeleteToken(); delErr != nil {
		return Session{}, false, fmt.Errorf("auth: restore: %w", delErr)
	}
	return Session{}, false, nil
}

// Login authenticates against the backend and saves the new session.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	token, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	s, err := Decode(token)
	if err != nil {
		return Session{}, fmt.Errorf("auth: login: %w", err)
	}

	if m.store != nil {
		if err := m.store.SaveToken(token); err != nil {
			return Session{}, fmt.Errorf("auth: login: %w", err)
		}
	}
	m.set(&s)
	m.logger.Info("logged in", "user", s.Username)
	return s, nil
}

// Register validates the input locally and creates the account. It does
// not log in.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	if err := ValidateRegistration(username, email, password); err != nil {
		return err
	}
	if err := m.backend.Register(ctx, username, email, password); err != nil {
		return err
	}
	m.logger.Info("account created", "user", username)
	return nil
}

// Logout forgets the session locally and on disk.
func (m *Manager) Logout() error {
	m.set(nil)
	if m.store != nil {
		if err := m.store.DeleteToken(); err != nil {
			return fmt.Errorf("auth: logout: %w", err)
		}
	}
	m.logger.Info("logged out")
	return nil
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Profile fetches level and XP for the logged-in user.
func (m *Manager) Profile(ctx context.Context) (api.Profile, error) {
	s, ok := m.Current()
	if !ok {
		return api.Profile{}, ErrNotLoggedIn
	}
	p, err := m.backend.User(ctx, s.UserID)
	if err != nil {
		return api.Profile{}, err
	}
	if p.Username == "" {
		p.Username = s.Username
	}
	return p, nil
}

func (m *Manager) set(s *Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()

	token := ""
	if s != nil {
		token = s.Token
	}
	m.backend.SetToken(token)
}
