package domain

import "sort"

// Item is a backend record that takes part in a user-controlled display
// sequence through its Order field.
type Item struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Active      bool   `json:"active"`
	Description string `json:"description,omitempty"`
}

// OrderEntry is the wire shape sent to an order-update endpoint.
type OrderEntry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// SortByOrder sorts items ascending by Order, breaking ties by ID so the
// result is deterministic.
func SortByOrder(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
}

// IDs returns the identifiers of items in sequence.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
