package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const historyLimit = 50

type historyLoadedMsg struct {
	records []domain.CommitRecord
	err     error
}

// historyView shows recent order commits for the current content type.
type historyView struct {
	state   *SharedState
	vp      viewport.Model
	loading bool
	err     error
	records []domain.CommitRecord
	back    key.Binding
}

func newHistoryView(state *SharedState) *historyView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight())
	vp.MouseWheelEnabled = true
	return &historyView{
		state:   state,
		vp:      vp,
		loading: true,
		back:    key.NewBinding(key.WithKeys("esc", "q", "h"), key.WithHelp("esc", "back")),
	}
}

func (v *historyView) ID() ViewID    { return ViewHistory }
func (v *historyView) Title() string { return "History" }

func (v *historyView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		v.back,
	}
}

func (v *historyView) Init() tea.Cmd {
	orders, ct := v.state.App.Orders, v.state.ContentType
	return func() tea.Msg {
		recs, err := orders.History(context.Background(), &ct, historyLimit)
		return historyLoadedMsg{records: recs, err: err}
	}
}

func (v *historyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.records = msg.records
		v.vp.SetContent(formatter.FormatHistory(v.records, time.Now()))
		return v, nil
	case tea.WindowSizeMsg:
		v.vp.Width = max(v.state.Width, 20)
		v.vp.Height = v.state.ContentHeight()
		return v, nil
	case tea.KeyMsg:
		if key.Matches(msg, v.back) {
			return v, popView()
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *historyView) View() string {
	switch {
	case v.loading:
		return formatter.Dim("Loading history…")
	case v.err != nil:
		return formatter.StyleRed.Render(v.err.Error())
	}
	return v.vp.View()
}
