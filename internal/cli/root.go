package cli

import (
	"github.com/alexanderramin/folio/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Orders  service.OrderService
	Content service.ContentService
	Auth    service.AuthService

	// IsInteractive reports whether stdin is a terminal. Prompts and the
	// reorder TUI are only offered when it returns true.
	IsInteractive func() bool

	// RunProgram runs a bubbletea model to completion. Nil runs a real
	// tea.Program on the alternate screen with mouse reporting.
	RunProgram func(m tea.Model) error

	// MarkdownStyle selects the glamour style for `show`. Empty picks one
	// from the terminal background.
	MarkdownStyle string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) run(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// NewRootCmd creates the top-level "folio" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Portfolio content admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newListCmd(app),
		newOrderCmd(app),
		newReorderCmd(app),
		newCreateCmd(app),
		newUpdateCmd(app),
		newDeleteCmd(app),
		newGetCmd(app),
		newShowCmd(app),
		newUploadCmd(app),
	)

	return root
}
