package cli

import "github.com/alexanderramin/folio/internal/domain"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App         *App
	ContentType domain.ContentType

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content, accounting
// for the header (title + separator) and the status bar (separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - headerLines - statusBarLines
	if h < 1 {
		return 1
	}
	return h
}

const (
	headerLines    = 2
	statusBarLines = 2
)
