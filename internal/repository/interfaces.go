package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/folio/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SessionRepo persists the single current admin session.
type SessionRepo interface {
	Save(ctx context.Context, s domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Delete(ctx context.Context) error
}

// CommitLogRepo records every order commit attempt.
type CommitLogRepo interface {
	Append(ctx context.Context, r domain.CommitRecord) error
	// ListRecent returns the newest records first. A nil ct lists all types.
	ListRecent(ctx context.Context, ct *domain.ContentType, limit int) ([]domain.CommitRecord, error)
}
