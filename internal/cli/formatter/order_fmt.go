package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// FormatOrder renders a content list in display order with 1-based positions.
func FormatOrder(ct domain.ContentType, items []domain.Item) string {
	var b strings.Builder
	b.WriteString(Header(ct.Label()))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(Dim("No items."))
		b.WriteString("\n")
		return b.String()
	}
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Truncate(it.Title, 48),
			Dim(Truncate(it.Subtitle, 32)),
			ActiveIndicator(it.Active),
			Dim(it.ID),
		})
	}
	b.WriteString(RenderTable([]string{"#", "TITLE", "SUBTITLE", "STATE", "ID"}, rows))
	return b.String()
}

// FormatChanges lists the items whose position differs between two orders.
func FormatChanges(entries []domain.OrderEntry) string {
	if len(entries) == 0 {
		return Dim("Order unchanged.")
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s→%d", e.ID, e.Order))
	}
	return fmt.Sprintf("%d moved: %s", len(entries), strings.Join(parts, ", "))
}

// FormatHistory renders commit log records newest first.
func FormatHistory(records []domain.CommitRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No commits recorded.") + "\n"
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		detail := ""
		if !r.Succeeded {
			detail = StyleRed.Render(Truncate(r.Error, 60))
		}
		rows = append(rows, []string{
			RelativeTime(r.StartedAt, now),
			string(r.ContentType),
			fmt.Sprintf("%d", r.ItemCount),
			Outcome(r.Succeeded),
			Latency(r.Duration()),
			detail,
		})
	}
	return RenderTable([]string{"WHEN", "TYPE", "ITEMS", "RESULT", "LATENCY", "ERROR"}, rows)
}
