package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/uuid"
)

// ItemOption customizes a fixture item.
type ItemOption func(*domain.Item)

func WithActive(active bool) ItemOption {
	return func(it *domain.Item) { it.Active = active }
}

func WithDescription(md string) ItemOption {
	return func(it *domain.Item) { it.Description = md }
}

func WithSubtitle(s string) ItemOption {
	return func(it *domain.Item) { it.Subtitle = s }
}

// NewTestItem builds an active item with the given id and order.
func NewTestItem(id string, order int, opts ...ItemOption) domain.Item {
	it := domain.Item{
		ID:     id,
		Order:  order,
		Title:  "Item " + id,
		Active: true,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// NewTestItems builds items with the given ids, ordered 1..n as listed.
func NewTestItems(ids ...string) []domain.Item {
	out := make([]domain.Item, len(ids))
	for i, id := range ids {
		out[i] = NewTestItem(id, i+1)
	}
	return out
}

// NumberedItems builds n items with ids "<prefix>1".."<prefix>n".
func NumberedItems(prefix string, n int) []domain.Item {
	out := make([]domain.Item, n)
	for i := range out {
		out[i] = NewTestItem(fmt.Sprintf("%s%d", prefix, i+1), i+1)
	}
	return out
}

// NewTestSession returns a valid session issued now.
func NewTestSession(username string) domain.Session {
	return domain.Session{
		Token:    "tok-" + uuid.New().String(),
		Username: username,
		IssuedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTestCommitRecord returns a finished commit record.
func NewTestCommitRecord(ct domain.ContentType, succeeded bool, startedAt time.Time) domain.CommitRecord {
	rec := domain.CommitRecord{
		ID:          uuid.New().String(),
		ContentType: ct,
		ItemCount:   3,
		Succeeded:   succeeded,
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(120 * time.Millisecond),
	}
	if !succeeded {
		rec.Error = "status 500"
	}
	return rec
}
