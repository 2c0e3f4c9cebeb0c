package reorder

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingCommitter struct {
	mu    sync.Mutex
	calls [][]domain.OrderEntry
	err   error
}

func (r *recordingCommitter) UpdateOrder(_ context.Context, _ domain.ContentType, entries []domain.OrderEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, entries)
	return r.err
}

func TestCommit_SuccessPromotesWorkingCopy(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)
	atCommit := l.Working()
	c := &recordingCommitter{}

	require.NoError(t, l.Commit(context.Background(), c))

	require.Len(t, c.calls, 1)
	assert.Equal(t, []domain.OrderEntry{{ID: "B", Order: 1}, {ID: "C", Order: 2}, {ID: "A", Order: 3}}, c.calls[0])
	if diff := cmp.Diff(atCommit, l.Snapshot()); diff != "" {
		t.Errorf("snapshot != committed working copy:\n%s", diff)
	}
	assert.False(t, l.Dirty())
	assert.False(t, l.Committing())
}

func TestCommit_FailureRollsBack(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	before := l.Snapshot()
	l.Move(0, 2)
	backendErr := errors.New("500 internal server error")
	c := &recordingCommitter{err: backendErr}

	err := l.Commit(context.Background(), c)

	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	var ce *CommitError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.ContentProjects, ce.ContentType)
	assert.True(t, ce.Reverted)
	assert.Contains(t, ce.Error(), "changes reverted")

	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Working()))
	if diff := cmp.Diff(before, l.Snapshot()); diff != "" {
		t.Errorf("snapshot changed on failure:\n%s", diff)
	}
	assert.False(t, l.Dirty())
	assert.False(t, l.Committing())
	assert.Len(t, c.calls, 1)
}

func TestBeginCommit_SecondIsRejectedWhileInFlight(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)

	p, err := l.BeginCommit()
	require.NoError(t, err)
	assert.True(t, l.Committing())

	_, err = l.BeginCommit()
	assert.ErrorIs(t, err, ErrCommitInFlight)

	require.NoError(t, l.Finish(p, nil))

	p2, err := l.BeginCommit()
	require.NoError(t, err)
	require.NoError(t, l.Finish(p2, nil))
}

func TestFinish_Twice(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	p, err := l.BeginCommit()
	require.NoError(t, err)

	require.Error(t, l.Finish(p, errors.New("boom")))
	assert.ErrorIs(t, l.Finish(p, errors.New("boom")), ErrCommitFinished)
}

func TestFinish_ForeignPending(t *testing.T) {
	a := New(domain.ContentProjects, abc())
	b := New(domain.ContentProjects, abc())
	p, err := a.BeginCommit()
	require.NoError(t, err)

	assert.Error(t, b.Finish(p, nil))
	assert.Error(t, a.Finish(nil, nil))
	require.NoError(t, a.Finish(p, nil))
}

func TestCommit_MovesDuringFlightStayDirty(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2) // B C A
	p, err := l.BeginCommit()
	require.NoError(t, err)

	require.True(t, l.Move(0, 1)) // C B A, not in the payload

	require.NoError(t, l.Finish(p, nil))
	assert.Equal(t, []string{"B", "C", "A"}, domain.IDs(l.Snapshot()))
	assert.Equal(t, []string{"C", "B", "A"}, domain.IDs(l.Working()))
	assert.True(t, l.Dirty())
	assert.Equal(t, []domain.OrderEntry{{ID: "C", Order: 1}, {ID: "B", Order: 2}}, l.Changes())
}

func TestCommit_FailureDuringFlightDropsLaterMoves(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)
	p, err := l.BeginCommit()
	require.NoError(t, err)
	l.Move(0, 1)

	require.Error(t, l.Finish(p, errors.New("offline")))
	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Working()))
	assert.False(t, l.Dirty())
}

func TestCommit_SyncDuringFlightWins(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)
	p, err := l.BeginCommit()
	require.NoError(t, err)

	fresh := []domain.Item{{ID: "C", Order: 1}, {ID: "A", Order: 2}, {ID: "B", Order: 3}}
	l.Sync(fresh)

	require.NoError(t, l.Finish(p, nil))
	assert.Equal(t, []string{"C", "A", "B"}, domain.IDs(l.Snapshot()))
	assert.Equal(t, []string{"C", "A", "B"}, domain.IDs(l.Working()))

	p, err = l.BeginCommit()
	require.NoError(t, err)
	l.Sync(abc())
	err = l.Finish(p, errors.New("late failure"))
	require.Error(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Working()))
}

func TestCommit_FailureAfterSyncIsNotReportedAsReverted(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)
	p, err := l.BeginCommit()
	require.NoError(t, err)

	l.Sync([]domain.Item{{ID: "C", Order: 1}, {ID: "A", Order: 2}, {ID: "B", Order: 3}})
	l.Move(0, 1) // A C B, made after the reload

	err = l.Finish(p, errors.New("offline"))
	var ce *CommitError
	require.True(t, errors.As(err, &ce))
	assert.False(t, ce.Reverted)
	assert.NotContains(t, ce.Error(), "reverted")
	assert.Equal(t, []string{"A", "C", "B"}, domain.IDs(l.Working()))
	assert.True(t, l.Dirty())
	assert.False(t, l.Committing())
}

func TestCommit_ConcurrentRequestsNeverOverlap(t *testing.T) {
	l := New(domain.ContentProjects, items(5))
	l.Move(0, 4)

	release := make(chan struct{})
	entered := make(chan struct{}, 8)
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	c := CommitterFunc(func(ctx context.Context, _ domain.ContentType, _ []domain.OrderEntry) error {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		entered <- struct{}{}
		<-release
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	})

	first := make(chan error, 1)
	go func() { first <- l.Commit(context.Background(), c) }()
	<-entered

	// The first commit is blocked in the backend call.
	err := l.Commit(context.Background(), c)
	assert.ErrorIs(t, err, ErrCommitInFlight)

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, 1, maxInFlight)
	assert.Len(t, entered, 0)
}
