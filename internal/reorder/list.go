// Package reorder holds the working-copy model behind drag-and-drop content
// ordering: a backend-confirmed snapshot, a locally rearranged working copy,
// a dirty flag, and an optimistic commit that rolls back on failure.
//
// A List is owned by a single admin view. Its methods are safe to call from
// the goroutine that completes an asynchronous commit.
package reorder

import (
	"sync"

	"github.com/alexanderramin/folio/internal/domain"
)

// List is the reorder state for one content type.
type List struct {
	mu          sync.Mutex
	contentType domain.ContentType
	snapshot    []domain.Item
	working     []domain.Item
	dirty       bool
	committing  bool

	// epoch changes whenever the snapshot is replaced from outside.
	epoch int
	// revision changes whenever the working copy changes.
	revision int
}

// New builds a List from items as received from the backend. Items are
// sorted by their Order field first.
func New(ct domain.ContentType, items []domain.Item) *List {
	snap := clone(items)
	domain.SortByOrder(snap)
	return &List{
		contentType: ct,
		snapshot:    snap,
		working:     clone(snap),
	}
}

func (l *List) ContentType() domain.ContentType { return l.contentType }

// Snapshot returns a copy of the last backend-confirmed sequence.
func (l *List) Snapshot() []domain.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.snapshot)
}

// Working returns a copy of the current working sequence.
func (l *List) Working() []domain.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.working)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.working)
}

func (l *List) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// Committing reports whether a commit is in flight.
func (l *List) Committing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.committing
}

// Index returns the working-copy position of id, or -1.
func (l *List) Index(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return indexOf(l.working, id)
}

// Move removes the item at from and reinserts it at to, shifting the items
// in between by one. to is clamped to the list bounds. It returns false and
// leaves the dirty flag untouched when from is out of range or the move
// resolves to the same position.
func (l *List) Move(from, to int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !move(l.working, from, to) {
		return false
	}
	l.dirty = true
	l.revision++
	return true
}

// MoveID moves the item with the given id to position to.
func (l *List) MoveID(id string, to int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	from := indexOf(l.working, id)
	if from < 0 || !move(l.working, from, to) {
		return false
	}
	l.dirty = true
	l.revision++
	return true
}

// Apply performs the move described by an input intent.
func (l *List) Apply(in Intent) bool {
	return l.Move(in.From, in.To)
}

// Payload derives the order-update body from the working copy: one entry
// per item with its 1-based position.
func (l *List) Payload() []domain.OrderEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Positions(l.working)
}

// Changes lists only the entries whose position differs from the snapshot.
func (l *List) Changes() []domain.OrderEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Diff(l.snapshot, l.working)
}

// Discard resets the working copy to the snapshot.
func (l *List) Discard() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.working = clone(l.snapshot)
	l.dirty = false
	l.revision++
}

// Sync replaces both snapshot and working copy with a freshly fetched
// collection. Unsaved local reordering is dropped; the return value reports
// whether that happened. A commit still in flight finishes without touching
// the new state.
func (l *List) Sync(items []domain.Item) (discarded bool) {
	snap := clone(items)
	domain.SortByOrder(snap)

	l.mu.Lock()
	defer l.mu.Unlock()
	discarded = l.dirty && !Equal(l.working, snap)
	l.snapshot = snap
	l.working = clone(snap)
	l.dirty = false
	l.epoch++
	l.revision++
	return discarded
}

func move(items []domain.Item, from, to int) bool {
	n := len(items)
	if from < 0 || from >= n {
		return false
	}
	to = clamp(to, 0, n-1)
	if from == to {
		return false
	}
	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func indexOf(items []domain.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clone(items []domain.Item) []domain.Item {
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out
}
