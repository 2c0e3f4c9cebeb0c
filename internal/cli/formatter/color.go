package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorSel    = lipgloss.Color("#3c3836")
)

var (
	StyleGreen    = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow   = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed      = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue     = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple   = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim      = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg       = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold     = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleSelected = lipgloss.NewStyle().Background(ColorSel).Foreground(ColorFg).Bold(true)
	StyleGrabbed  = lipgloss.NewStyle().Background(ColorSel).Foreground(ColorYellow).Bold(true)
)

// ListState is the save state of a reorderable list as shown to the admin.
type ListState int

const (
	StateSaved ListState = iota
	StateUnsaved
	StateSaving
)

// StatusPill renders a short colored label for a list's save state.
func StatusPill(s ListState) string {
	switch s {
	case StateUnsaved:
		return StyleYellow.Render("● UNSAVED")
	case StateSaving:
		return StylePurple.Render("● SAVING")
	default:
		return StyleGreen.Render("● SAVED")
	}
}

// ActiveIndicator renders the display-only active flag of an item.
func ActiveIndicator(active bool) string {
	if active {
		return StyleGreen.Render("active")
	}
	return StyleDim.Render("hidden")
}

// Outcome renders a commit result.
func Outcome(ok bool) string {
	if ok {
		return StyleGreen.Render("ok")
	}
	return StyleRed.Render("failed")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
