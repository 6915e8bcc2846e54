// Package session holds the logged-in identity. A single Manager is created
// at startup and handed to every controller; there are no package globals.
package session

import (
	"sync"

	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// Session is the identity of the logged-in user. It never expires.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Valid reports whether the session names a user.
func (s Session) Valid() bool {
	return s.UserID != "" && s.Username != ""
}

// Manager owns the current session and notifies listeners on logout.
type Manager struct {
	store Store

	mu      sync.RWMutex
	current *Session
	hooks   map[int]func()
	nextID  int
}

// NewManager restores any stored session from store.
func NewManager(store Store) (*Manager, error) {
	m := &Manager{store: store, hooks: make(map[int]func())}

	s, err := store.Load()
	if err != nil {
		return nil, err
	}
	m.current = s
	if s != nil {
		logger.Debug("Session restored", "username", s.Username)
	}
	return m, nil
}

// Current returns the session and whether one exists.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// RequireUser returns the session or a not-logged-in error.
func (m *Manager) RequireUser() (Session, error) {
	s, ok := m.Current()
	if !ok {
		return Session{}, clierrors.NotLoggedInError()
	}
	return s, nil
}

// Start persists s and makes it current.
func (m *Manager) Start(s Session) error {
	if !s.Valid() {
		return clierrors.ValidationError("Invalid credentials. Please try again.")
	}
	if err := m.store.Save(s); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	logger.Info("Session started", "username", s.Username)
	return nil
}

// Logout deletes the stored session and runs every invalidation hook.
// Hooks run even when the session was already gone.
func (m *Manager) Logout() error {
	err := m.store.Delete()

	m.mu.Lock()
	m.current = nil
	hooks := make([]func(), 0, len(m.hooks))
	for id := 0; id < m.nextID; id++ {
		if h, ok := m.hooks[id]; ok {
			hooks = append(hooks, h)
		}
	}
	m.mu.Unlock()

	for _, h := range hooks {
		h()
	}
	logger.Info("Logged out")
	return err
}

// OnInvalidate registers fn to run after Logout. The returned func removes it.
func (m *Manager) OnInvalidate(fn func()) (unregister func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.hooks[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.hooks, id)
		m.mu.Unlock()
	}
}
