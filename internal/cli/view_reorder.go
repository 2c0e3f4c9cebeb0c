package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/reorder"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// commitDoneMsg carries the outcome of an asynchronous order commit.
type commitDoneMsg struct {
	err error
}

// refreshDoneMsg carries the outcome of reloading the list from the server.
type refreshDoneMsg struct {
	discarded bool
	err       error
}

type reorderKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Grab     key.Binding
	Save     key.Binding
	Discard  key.Binding
	Refresh  key.Binding
	History  key.Binding
	Quit     key.Binding
}

func newReorderKeyMap() reorderKeyMap {
	return reorderKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Grab:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "grab")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Discard:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "discard")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		History:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// reorderView lets the admin rearrange one content list and save it.
type reorderView struct {
	state *SharedState
	list  *reorder.List
	keys  reorderKeyMap

	cursor   int
	selected string // id under the cursor, kept across list replacements
	offset   int
	grabbed  bool
	drag     reorder.DragTracker

	spinner     spinner.Model
	refreshing  bool
	confirmQuit bool

	status    string
	statusErr bool
}

func newReorderView(state *SharedState, list *reorder.List) *reorderView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple
	v := &reorderView{
		state:   state,
		list:    list,
		keys:    newReorderKeyMap(),
		spinner: sp,
	}
	v.selected = v.cursorID()
	return v
}

func (v *reorderView) ID() ViewID    { return ViewReorder }
func (v *reorderView) Title() string { return v.list.ContentType().Label() }

func (v *reorderView) ShortHelp() []key.Binding {
	if v.confirmQuit {
		return []key.Binding{
			key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "quit without saving")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("any key", "stay")),
		}
	}
	grab := v.keys.Grab
	if v.grabbed {
		grab.SetHelp("space", "drop")
	}
	return []key.Binding{v.keys.Up, v.keys.Down, grab, v.keys.MoveDown, v.keys.MoveUp,
		v.keys.Save, v.keys.Discard, v.keys.Refresh, v.keys.History, v.keys.Quit}
}

func (v *reorderView) Init() tea.Cmd { return nil }

func (v *reorderView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.clampCursor()
		return v, nil

	case commitDoneMsg:
		v.afterCommit(msg.err)
		return v, nil

	case refreshDoneMsg:
		v.afterRefresh(msg)
		return v, nil

	case spinner.TickMsg:
		if !v.list.Committing() && !v.refreshing {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		v.handleMouse(msg)
		v.selected = v.cursorID()
		return v, nil

	case tea.KeyMsg:
		m, cmd := v.handleKey(msg)
		v.selected = v.cursorID()
		return m, cmd
	}
	return v, nil
}

func (v *reorderView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.confirmQuit {
		v.confirmQuit = false
		if msg.String() == "y" {
			return v, tea.Quit
		}
		v.setStatus("", false)
		return v, nil
	}

	n := v.list.Len()
	switch {
	case key.Matches(msg, v.keys.Quit):
		if msg.Type == tea.KeyEsc && (v.grabbed || v.drag.Active()) {
			v.grabbed = false
			v.drag.Cancel()
			return v, nil
		}
		if v.list.Dirty() || v.list.Committing() {
			v.confirmQuit = true
			v.setStatus("Unsaved order changes. Quit anyway? (y/N)", true)
			return v, nil
		}
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.grabbed {
			v.moveBy(-1)
		} else if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.grabbed {
			v.moveBy(1)
		} else if v.cursor < n-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.MoveUp):
		v.moveBy(-1)
	case key.Matches(msg, v.keys.MoveDown):
		v.moveBy(1)
	case key.Matches(msg, v.keys.Top):
		if v.grabbed {
			v.moveBy(-n)
		} else {
			v.cursor = 0
		}
	case key.Matches(msg, v.keys.Bottom):
		if v.grabbed {
			v.moveBy(n)
		} else {
			v.cursor = max(n-1, 0)
		}
	case key.Matches(msg, v.keys.Grab):
		if n > 0 {
			v.grabbed = !v.grabbed
		}
	case key.Matches(msg, v.keys.Save):
		return v, v.commit()
	case key.Matches(msg, v.keys.Discard):
		v.discard()
	case key.Matches(msg, v.keys.Refresh):
		return v, v.refresh()
	case key.Matches(msg, v.keys.History):
		return v, pushView(newHistoryView(v.state))
	}
	v.clampCursor()
	return v, nil
}

// listTop is the screen row of the first item: header lines plus the
// status line this view renders above the list.
const listTop = headerLines + 1

func (v *reorderView) rowAt(y int) (int, bool) {
	r := y - listTop
	if r < 0 || r >= v.visibleRows() {
		return 0, false
	}
	idx := r + v.offset
	if idx >= v.list.Len() {
		return 0, false
	}
	return idx, true
}

func (v *reorderView) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if v.cursor > 0 {
			v.cursor--
		}
		v.clampCursor()
		return
	case tea.MouseButtonWheelDown:
		if v.cursor < v.list.Len()-1 {
			v.cursor++
		}
		v.clampCursor()
		return
	case tea.MouseButtonRight:
		v.drag.Cancel()
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if idx, ok := v.rowAt(msg.Y); ok {
			v.grabbed = false
			v.cursor = idx
			v.drag.Press(idx)
		}
	case tea.MouseActionMotion:
		if !v.drag.Active() {
			return
		}
		// Dragging above or below the list area targets the first or last
		// item of the whole list, not just the visible part.
		var idx int
		switch r := msg.Y - listTop; {
		case r < 0:
			idx = 0
		case r >= v.visibleRows():
			idx = v.list.Len() - 1
		default:
			idx = clampInt(r+v.offset, 0, v.list.Len()-1)
		}
		v.drag.Hover(idx)
	case tea.MouseActionRelease:
		in, ok := v.drag.Release()
		if !ok {
			return
		}
		if v.list.Apply(in) {
			v.cursor = in.To
			v.setStatus("", false)
		}
		v.clampCursor()
	}
}

func (v *reorderView) moveBy(delta int) {
	in, ok := reorder.KeyIntent(v.cursor, delta, v.list.Len())
	if !ok {
		return
	}
	if v.list.Apply(in) {
		v.cursor = in.To
		v.setStatus("", false)
	}
}

func (v *reorderView) commit() tea.Cmd {
	if !v.list.Dirty() && !v.list.Committing() {
		v.setStatus("Nothing to save.", false)
		return nil
	}
	orders := v.state.App.Orders
	p, err := orders.Begin(v.list)
	if errors.Is(err, reorder.ErrCommitInFlight) {
		v.setStatus("A save is already in progress.", true)
		return nil
	}
	if err != nil {
		v.setStatus(err.Error(), true)
		return nil
	}
	v.grabbed = false
	v.setStatus(fmt.Sprintf("Saving %d items…", len(p.Entries)), false)
	list := v.list
	send := func() tea.Msg {
		return commitDoneMsg{err: orders.Send(context.Background(), list, p)}
	}
	return tea.Batch(v.spinner.Tick, send)
}

func (v *reorderView) afterCommit(err error) {
	defer v.followID(v.selected)

	var ce *reorder.CommitError
	switch {
	case errors.As(err, &ce) && ce.Reverted:
		v.grabbed = false
		v.setStatus(fmt.Sprintf("Save failed, order reverted: %v", ce.Err), true)
	case errors.As(err, &ce):
		v.setStatus(fmt.Sprintf("Save failed: %v. The list was reloaded while saving.", ce.Err), true)
	case err != nil:
		v.setStatus(err.Error(), true)
	case v.list.Dirty():
		v.setStatus("Saved. Moves made while saving are not saved yet.", false)
	default:
		v.setStatus("Saved.", false)
	}
}

func (v *reorderView) discard() {
	if !v.list.Dirty() {
		v.setStatus("No changes to discard.", false)
		return
	}
	id := v.cursorID()
	v.list.Discard()
	v.grabbed = false
	v.followID(id)
	v.setStatus("Changes discarded.", false)
}

func (v *reorderView) refresh() tea.Cmd {
	if v.refreshing {
		return nil
	}
	v.refreshing = true
	v.drag.Cancel()
	v.setStatus("Reloading…", false)
	orders, list := v.state.App.Orders, v.list
	load := func() tea.Msg {
		discarded, err := orders.Refresh(context.Background(), list)
		return refreshDoneMsg{discarded: discarded, err: err}
	}
	return tea.Batch(v.spinner.Tick, load)
}

func (v *reorderView) afterRefresh(msg refreshDoneMsg) {
	v.refreshing = false
	switch {
	case msg.err != nil:
		v.setStatus(msg.err.Error(), true)
	case msg.discarded:
		v.grabbed = false
		v.setStatus("Reloaded from server. Unsaved order was discarded.", true)
	default:
		v.setStatus("Reloaded.", false)
	}
	v.followID(v.selected)
}

func (v *reorderView) setStatus(s string, isErr bool) {
	v.status = s
	v.statusErr = isErr
}

func (v *reorderView) cursorID() string {
	items := v.list.Working()
	if v.cursor >= 0 && v.cursor < len(items) {
		return items[v.cursor].ID
	}
	return ""
}

// followID keeps the cursor on the same item after the list was replaced.
func (v *reorderView) followID(id string) {
	if idx := v.list.Index(id); idx >= 0 {
		v.cursor = idx
	}
	v.clampCursor()
}

func (v *reorderView) visibleRows() int {
	if v.state.Height == 0 {
		return max(v.list.Len(), 1)
	}
	return max(v.state.ContentHeight()-1, 1)
}

func (v *reorderView) clampCursor() {
	n := v.list.Len()
	v.cursor = clampInt(v.cursor, 0, max(n-1, 0))
	rows := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+rows {
		v.offset = v.cursor - rows + 1
	}
	v.offset = clampInt(v.offset, 0, max(n-rows, 0))
}

func (v *reorderView) View() string {
	var b strings.Builder
	b.WriteString(v.renderStatusLine())
	b.WriteString("\n")

	items := v.list.Working()
	if len(items) == 0 {
		b.WriteString(formatter.Dim("  No items."))
		return b.String()
	}

	end := min(v.offset+v.visibleRows(), len(items))
	lines := make([]string, 0, end-v.offset)
	for i := v.offset; i < end; i++ {
		lines = append(lines, v.renderRow(i, items[i]))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (v *reorderView) renderStatusLine() string {
	state := formatter.StateSaved
	switch {
	case v.list.Committing():
		state = formatter.StateSaving
	case v.list.Dirty():
		state = formatter.StateUnsaved
	}
	parts := []string{
		formatter.StatusPill(state),
		formatter.Dim(fmt.Sprintf("%d items", v.list.Len())),
	}
	if v.list.Committing() || v.refreshing {
		parts = append(parts, v.spinner.View())
	}
	if v.status != "" {
		if v.statusErr {
			parts = append(parts, formatter.StyleRed.Render(v.status))
		} else {
			parts = append(parts, formatter.StyleFg.Render(v.status))
		}
	}
	return strings.Join(parts, "  ")
}

func (v *reorderView) renderRow(i int, it domain.Item) string {
	marker := "  "
	switch {
	case v.drag.Active() && i == v.drag.Target() && i != v.drag.Origin():
		marker = formatter.StyleYellow.Render("→ ")
	case i == v.cursor && v.grabbed:
		marker = formatter.StyleYellow.Render("↕ ")
	case i == v.cursor:
		marker = formatter.StyleBlue.Render("› ")
	}

	title := formatter.Truncate(it.Title, max(v.state.Width-30, 20))
	line := fmt.Sprintf("%3d. %s", i+1, title)
	if it.Subtitle != "" {
		line += "  " + formatter.Dim(formatter.Truncate(it.Subtitle, 30))
	}
	if !it.Active {
		line += "  " + formatter.ActiveIndicator(false)
	}

	switch {
	case v.drag.Active() && i == v.drag.Origin():
		line = formatter.StyleGrabbed.Render(line)
	case i == v.cursor && v.grabbed:
		line = formatter.StyleGrabbed.Render(line)
	case i == v.cursor:
		line = formatter.StyleSelected.Render(line)
	}
	return marker + line
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
