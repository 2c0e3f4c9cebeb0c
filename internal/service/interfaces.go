package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/alexanderramin/folio/internal/api"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/reorder"
)

// OrderBackend is the part of the backend API the order service needs.
type OrderBackend interface {
	ListItems(ctx context.Context, ct domain.ContentType) ([]domain.Item, error)
	UpdateOrder(ctx context.Context, ct domain.ContentType, entries []domain.OrderEntry) error
}

// ContentBackend is the part of the backend API used for admin CRUD.
type ContentBackend interface {
	Dispatch(ctx context.Context, cmd domain.Command) (json.RawMessage, error)
	Get(ctx context.Context, r domain.Resource, id string) (json.RawMessage, error)
	List(ctx context.Context, r domain.Resource) (json.RawMessage, error)
	Upload(ctx context.Context, filename string, r io.Reader) (api.UploadResult, error)
}

// AuthBackend exchanges credentials for a session.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
}

// TypeSummary is the per-content-type line of the overview.
type TypeSummary struct {
	ContentType domain.ContentType
	Total       int
	Active      int
}

// OrderResult is the outcome of a one-shot order change. Changed lists the
// items whose position differs from the order that was loaded; it is empty
// when nothing was sent.
type OrderResult struct {
	List    *reorder.List
	Changed []domain.OrderEntry
}

type OrderService interface {
	// Load fetches a content type and builds a fresh reorder list for it.
	Load(ctx context.Context, ct domain.ContentType) (*reorder.List, error)
	// Refresh refetches the list's content type and replaces its state.
	Refresh(ctx context.Context, list *reorder.List) (discarded bool, err error)
	// Begin closes the list's commit gate and returns the payload to send.
	Begin(list *reorder.List) (*reorder.Pending, error)
	// Send performs the backend call for p and applies the outcome to list.
	Send(ctx context.Context, list *reorder.List, p *reorder.Pending) error
	// Commit is Begin followed by Send.
	Commit(ctx context.Context, list *reorder.List) error
	// SetOrder commits a full permutation of the current item ids.
	SetOrder(ctx context.Context, ct domain.ContentType, ids []string) (OrderResult, error)
	// Move moves one item (0-based positions) and commits.
	Move(ctx context.Context, ct domain.ContentType, from, to int) (OrderResult, error)
	History(ctx context.Context, ct *domain.ContentType, limit int) ([]domain.CommitRecord, error)
	Overview(ctx context.Context) ([]TypeSummary, error)
}

type ContentService interface {
	Dispatch(ctx context.Context, cmd domain.Command) (json.RawMessage, error)
	Get(ctx context.Context, r domain.Resource, id string) (json.RawMessage, error)
	List(ctx context.Context, r domain.Resource) (json.RawMessage, error)
	// Item fetches one orderable item of a content type.
	Item(ctx context.Context, ct domain.ContentType, id string) (domain.Item, error)
	Upload(ctx context.Context, path string) (api.UploadResult, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (domain.Session, error)
}
