package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// SessionStore is the token accessor the auth service writes through.
type SessionStore interface {
	Current() (domain.Session, error)
	Set(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

var ErrMissingCredentials = errors.New("username and password are required")

type authService struct {
	backend  AuthBackend
	sessions SessionStore
	observer UseCaseObserver
}

func NewAuthService(backend AuthBackend, sessions SessionStore, observers ...UseCaseObserver) AuthService {
	return &authService{backend: backend, sessions: sessions, observer: useCaseObserverOrNoop(observers)}
}

func (s *authService) Login(ctx context.Context, username, password string) (_ domain.Session, err error) {
	start := time.Now()
	fields := map[string]any{"username": username}
	defer observe(ctx, s.observer, "auth.login", start, fields, &err)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, ErrMissingCredentials
	}
	sess, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("logging in: %w", err)
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("saving session: %w", err)
	}
	return sess, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (s *authService) Whoami(context.Context) (domain.Session, error) {
	return s.sessions.Current()
}
