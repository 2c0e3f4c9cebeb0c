// Package session owns the admin's bearer token. Every component that needs
// authorization reads it through a Manager instead of touching storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
)

// ErrNoSession is returned when no admin is logged in.
var ErrNoSession = errors.New("not logged in (run `folio login`)")

// Manager caches the current session in memory and persists it through repo.
// It is safe for concurrent use.
type Manager struct {
	repo repository.SessionRepo

	mu      sync.RWMutex
	current domain.Session
}

func NewManager(repo repository.SessionRepo) *Manager {
	return &Manager{repo: repo}
}

// Load reads the persisted session, if any, into memory.
func (m *Manager) Load(ctx context.Context) error {
	s, err := m.repo.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		m.set(domain.Session{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	m.set(s)
	return nil
}

// Current returns the in-memory session.
func (m *Manager) Current() (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.current.Valid() {
		return domain.Session{}, ErrNoSession
	}
	return m.current, nil
}

// Token returns the bearer token or an empty string.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// Set persists s and makes it current.
func (m *Manager) Set(ctx context.Context, s domain.Session) error {
	if err := m.repo.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	m.set(s)
	return nil
}

// Clear forgets the session in memory and in storage.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.repo.Delete(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.set(domain.Session{})
	return nil
}

func (m *Manager) set(s domain.Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}
