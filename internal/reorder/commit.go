package reorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/folio/internal/domain"
)

var (
	// ErrCommitInFlight is returned by BeginCommit while another commit for
	// the same list has not finished.
	ErrCommitInFlight = errors.New("an order commit is already in flight")

	// ErrCommitFinished is returned when Finish is called twice for the same
	// pending commit.
	ErrCommitFinished = errors.New("pending commit already finished")
)

// CommitError wraps a failed commit. Reverted reports whether the working
// copy was rolled back to the snapshot. It is false when the list was
// resynced while the request was in flight, since the new state is kept.
type CommitError struct {
	ContentType domain.ContentType
	Err         error
	Reverted    bool
}

func (e *CommitError) Error() string {
	if !e.Reverted {
		return fmt.Sprintf("saving %s order: %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("saving %s order: %v (changes reverted)", e.ContentType, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Committer persists an order payload for a content type.
type Committer interface {
	UpdateOrder(ctx context.Context, ct domain.ContentType, entries []domain.OrderEntry) error
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(ctx context.Context, ct domain.ContentType, entries []domain.OrderEntry) error

func (f CommitterFunc) UpdateOrder(ctx context.Context, ct domain.ContentType, entries []domain.OrderEntry) error {
	return f(ctx, ct, entries)
}

// Pending is a commit that has been started but not finished. Entries is the
// payload to send.
type Pending struct {
	ContentType domain.ContentType
	Entries     []domain.OrderEntry

	list     *List
	items    []domain.Item
	epoch    int
	revision int
	done     bool
}

// BeginCommit captures the working copy for sending and closes the commit
// gate. Moves stay allowed while the commit is in flight; they are not part
// of this payload.
func (l *List) BeginCommit() (*Pending, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.committing {
		return nil, ErrCommitInFlight
	}
	l.committing = true
	return &Pending{
		ContentType: l.contentType,
		Entries:     Positions(l.working),
		list:        l,
		items:       clone(l.working),
		epoch:       l.epoch,
		revision:    l.revision,
	}, nil
}

// Finish applies the outcome of a pending commit and reopens the gate.
//
// On success the snapshot becomes the committed sequence; the list stays
// dirty only if the working copy changed while the request was in flight.
// On failure the working copy is restored to the snapshot, the dirty flag
// is cleared and a *CommitError is returned.
func (l *List) Finish(p *Pending, sendErr error) error {
	if p == nil || p.list != l {
		return errors.New("pending commit does not belong to this list")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if p.done {
		return ErrCommitFinished
	}
	p.done = true
	l.committing = false

	if sendErr != nil {
		reverted := p.epoch == l.epoch
		if reverted {
			l.working = clone(l.snapshot)
			l.dirty = false
			l.revision++
		}
		return &CommitError{ContentType: l.contentType, Err: sendErr, Reverted: reverted}
	}
	if p.epoch != l.epoch {
		return nil
	}
	l.snapshot = p.items
	l.dirty = l.revision != p.revision
	return nil
}

// Commit sends the working copy through c and applies the result. It is the
// synchronous form of BeginCommit followed by Finish.
func (l *List) Commit(ctx context.Context, c Committer) error {
	p, err := l.BeginCommit()
	if err != nil {
		return err
	}
	return l.Finish(p, c.UpdateOrder(ctx, p.ContentType, p.Entries))
}
