package reorder

import (
	"fmt"
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abc() []domain.Item {
	return []domain.Item{
		{ID: "A", Order: 1, Title: "Alpha", Active: true},
		{ID: "B", Order: 2, Title: "Bravo"},
		{ID: "C", Order: 3, Title: "Charlie", Active: true},
	}
}

func items(n int) []domain.Item {
	out := make([]domain.Item, n)
	for i := range out {
		out[i] = domain.Item{ID: fmt.Sprintf("i%d", i), Order: i + 1}
	}
	return out
}

func TestNew_SortsByOrder(t *testing.T) {
	in := []domain.Item{{ID: "C", Order: 3}, {ID: "A", Order: 1}, {ID: "B", Order: 2}}
	l := New(domain.ContentProjects, in)

	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Snapshot()))
	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Working()))
	assert.False(t, l.Dirty())
	// Input slice untouched.
	assert.Equal(t, "C", in[0].ID)
}

func TestMove_FirstToLast(t *testing.T) {
	l := New(domain.ContentProjects, abc())

	require.True(t, l.Move(0, 2))

	assert.Equal(t, []string{"B", "C", "A"}, domain.IDs(l.Working()))
	assert.True(t, l.Dirty())
	want := []domain.OrderEntry{{ID: "B", Order: 1}, {ID: "C", Order: 2}, {ID: "A", Order: 3}}
	if diff := cmp.Diff(want, l.Payload()); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	// Snapshot is not touched by moves.
	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Snapshot()))
}

func TestMove_SameIndexIsNoop(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	before := l.Working()

	assert.False(t, l.Move(1, 1))

	assert.False(t, l.Dirty())
	if diff := cmp.Diff(before, l.Working()); diff != "" {
		t.Errorf("working copy changed (-before +after):\n%s", diff)
	}
}

func TestMove_NoopKeepsExistingDirty(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	require.True(t, l.Move(2, 0))
	assert.False(t, l.Move(0, 0))
	assert.True(t, l.Dirty())
}

func TestMove_ClampsDestination(t *testing.T) {
	l := New(domain.ContentProjects, abc())

	require.True(t, l.Move(0, 99))
	assert.Equal(t, []string{"B", "C", "A"}, domain.IDs(l.Working()))

	require.True(t, l.Move(2, -5))
	assert.Equal(t, []string{"A", "B", "C"}, domain.IDs(l.Working()))
}

func TestMove_ClampedToSelfIsNoop(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	assert.False(t, l.Move(2, 10))
	assert.False(t, l.Dirty())
}

func TestMove_InvalidSource(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	assert.False(t, l.Move(-1, 0))
	assert.False(t, l.Move(3, 0))
	assert.False(t, l.Dirty())

	empty := New(domain.ContentProjects, nil)
	assert.False(t, empty.Move(0, 0))
}

func TestMove_AllPairsArePermutations(t *testing.T) {
	const n = 6
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if from == to {
				continue
			}
			l := New(domain.ContentServices, items(n))
			moved := l.Working()[from].ID

			require.True(t, l.Move(from, to), "move %d->%d", from, to)

			got := l.Working()
			assert.Equal(t, moved, got[to].ID, "move %d->%d", from, to)
			assert.True(t, SamePermutation(l.Snapshot(), domain.IDs(got)), "move %d->%d", from, to)
			assert.True(t, l.Dirty())

			// Relative order of the untouched items is preserved.
			var rest []string
			for _, it := range got {
				if it.ID != moved {
					rest = append(rest, it.ID)
				}
			}
			var wantRest []string
			for _, it := range items(n) {
				if it.ID != moved {
					wantRest = append(wantRest, it.ID)
				}
			}
			assert.Equal(t, wantRest, rest, "move %d->%d", from, to)
		}
	}
}

func TestMoveID(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	require.True(t, l.MoveID("C", 0))
	assert.Equal(t, []string{"C", "A", "B"}, domain.IDs(l.Working()))
	assert.False(t, l.MoveID("missing", 0))
	assert.Equal(t, 1, l.Index("A"))
	assert.Equal(t, -1, l.Index("missing"))
}

func TestDiscard_RestoresSnapshot(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)
	l.Move(1, 0)

	l.Discard()

	assert.False(t, l.Dirty())
	if diff := cmp.Diff(l.Snapshot(), l.Working()); diff != "" {
		t.Errorf("working copy differs from snapshot:\n%s", diff)
	}
}

func TestChanges_OnlyMovedEntries(t *testing.T) {
	l := New(domain.ContentProjects, items(4))
	l.Move(1, 2)

	assert.Equal(t, []domain.OrderEntry{{ID: "i2", Order: 2}, {ID: "i1", Order: 3}}, l.Changes())
}

func TestSync_ReplacesStateAndReportsDiscard(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)

	fresh := []domain.Item{{ID: "A", Order: 1}, {ID: "B", Order: 2}, {ID: "C", Order: 3}, {ID: "D", Order: 4}}
	discarded := l.Sync(fresh)

	assert.True(t, discarded)
	assert.False(t, l.Dirty())
	assert.Equal(t, []string{"A", "B", "C", "D"}, domain.IDs(l.Working()))
	assert.Equal(t, []string{"A", "B", "C", "D"}, domain.IDs(l.Snapshot()))
}

func TestSync_CleanListDiscardsNothing(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	assert.False(t, l.Sync(abc()))
}

func TestSync_DirtyButMatchingFreshOrder(t *testing.T) {
	l := New(domain.ContentProjects, abc())
	l.Move(0, 2)
	fresh := []domain.Item{{ID: "B", Order: 1}, {ID: "C", Order: 2}, {ID: "A", Order: 3}}
	assert.False(t, l.Sync(fresh))
}
