package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for the terminal wrapped at width. An empty
// style selects the glamour auto style.
func RenderMarkdown(md string, width int, style string) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// FormatItem renders one content item with its description as markdown.
func FormatItem(ct domain.ContentType, it domain.Item, width int, style string) (string, error) {
	var b strings.Builder
	b.WriteString(Header(it.Title))
	b.WriteString("\n")
	if it.Subtitle != "" {
		b.WriteString(StyleFg.Render(it.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%s · #%d · %s", ct.Label(), it.Order, it.ID)))
	b.WriteString("  ")
	b.WriteString(ActiveIndicator(it.Active))
	b.WriteString("\n")
	desc, err := RenderMarkdown(it.Description, width, style)
	if err != nil {
		return "", err
	}
	if desc != "" {
		b.WriteString(desc)
	}
	return b.String(), nil
}
