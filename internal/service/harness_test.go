package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/api"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/session"
	"github.com/alexanderramin/folio/internal/testutil"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend  *testutil.FakeBackend
	client   *api.Client
	sessions *session.Manager
	commits  *repository.SQLiteCommitLogRepo
	observer *recordingObserver
}

// newHarness wires a real client and sqlite store against the fake backend
// with an admin already logged in.
func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	backend := testutil.NewFakeBackend(t)
	sessions := session.NewManager(repository.NewSQLiteSessionRepo(database, testutil.NewTestUoW(database)))
	require.NoError(t, sessions.Set(context.Background(), domain.Session{
		Token:    backend.Token,
		Username: testutil.FakeUsername,
		IssuedAt: time.Now().UTC(),
	}))
	return &harness{
		backend:  backend,
		client:   api.NewClient(backend.URL(), 2*time.Second, sessions),
		sessions: sessions,
		commits:  repository.NewSQLiteCommitLogRepo(database),
		observer: &recordingObserver{},
	}
}

func (h *harness) orders() OrderService {
	return NewOrderService(h.client, h.commits, h.observer)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
