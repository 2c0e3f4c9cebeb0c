package reorder

import "github.com/alexanderramin/folio/internal/domain"

// Positions maps a sequence to order entries with 1-based positions.
func Positions(items []domain.Item) []domain.OrderEntry {
	out := make([]domain.OrderEntry, len(items))
	for i, it := range items {
		out[i] = domain.OrderEntry{ID: it.ID, Order: i + 1}
	}
	return out
}

// Diff returns the entries of after whose position differs from before.
// Items missing from before are always reported.
func Diff(before, after []domain.Item) []domain.OrderEntry {
	prev := make(map[string]int, len(before))
	for i, it := range before {
		prev[it.ID] = i
	}
	var out []domain.OrderEntry
	for i, it := range after {
		if p, ok := prev[it.ID]; ok && p == i {
			continue
		}
		out = append(out, domain.OrderEntry{ID: it.ID, Order: i + 1})
	}
	return out
}

// Equal reports whether two sequences hold the same identifiers in the same
// order.
func Equal(a, b []domain.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// SamePermutation reports whether ids is a reordering of the identifiers in
// items, with no additions, removals or duplicates.
func SamePermutation(items []domain.Item, ids []string) bool {
	if len(items) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(items))
	for _, it := range items {
		want[it.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}
