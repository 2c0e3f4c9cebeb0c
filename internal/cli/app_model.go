package cli

import (
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/reorder"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the TUI. It owns the view stack,
// the header and the key hint bar.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
}

func newAppModel(app *App, list *reorder.List) appModel {
	state := &SharedState{App: app, ContentType: list.ContentType()}
	h := help.New()
	h.Styles.ShortKey = formatter.StyleBlue
	h.Styles.ShortDesc = formatter.StyleDim
	h.Styles.ShortSeparator = formatter.StyleDim
	return appModel{
		state:     state,
		viewStack: []View{newReorderView(state, list)},
		help:      h,
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		// Every view sizes itself from SharedState; forward so viewports resize.
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case commitDoneMsg, refreshDoneMsg:
		// Async results belong to the reorder view even when another view
		// is on top.
		updated, cmd := m.viewStack[0].Update(msg)
		m.viewStack[0] = updated.(View)
		return m, cmd
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	body := strings.Join(sections, "\n")

	// Pad so the status bar sits on the last lines of the alt screen.
	if m.state.Height > 0 {
		used := strings.Count(body, "\n") + 1 + statusBarLines
		if used < m.state.Height {
			body += strings.Repeat("\n", m.state.Height-used)
		}
	}
	return body + "\n" + m.renderStatusBar()
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("folio")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		title += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return title + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	bar := ""
	if v := m.activeView(); v != nil {
		bar = m.help.ShortHelpView(v.ShortHelp())
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}
