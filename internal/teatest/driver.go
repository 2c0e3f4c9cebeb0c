// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of running a tea.Program, the Driver calls Update directly and
// executes returned Cmds inline. Cmds that do not return within the driver's
// timeout (spinner ticks, blink timers, requests the test is holding open)
// are dropped, so tests stay deterministic and never sleep on timers.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may execute.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates Cmds that produce a message right away from
// timer-driven ones.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.QuitMsg is produced by a Cmd. Later sends
	// are ignored, matching a program that has exited.
	Quitting bool

	cmdTimeout time.Duration
	dropped    int
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides how long a Cmd may run before it is dropped.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.cmdTimeout = timeout }
}

// DrainInit executes the model's Init command and drains the result.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// Dropped reports how many Cmds timed out and were discarded so far.
func (d *Driver) Dropped() int { return d.dropped }

// ── Keys ─────────────────────────────────────────────────────────────────────

// PressKey sends a character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressKeys sends each rune of s as its own key press.
func (d *Driver) PressKeys(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// PressType sends a non-rune key such as tea.KeyEnter or tea.KeyShiftUp.
func (d *Driver) PressType(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) PressEnter() { d.T.Helper(); d.PressType(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.PressType(tea.KeyEsc) }
func (d *Driver) PressSpace() { d.T.Helper(); d.PressType(tea.KeySpace) }
func (d *Driver) PressUp()    { d.T.Helper(); d.PressType(tea.KeyUp) }
func (d *Driver) PressDown()  { d.T.Helper(); d.PressType(tea.KeyDown) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.PressType(tea.KeyCtrlC) }

// ── Mouse ────────────────────────────────────────────────────────────────────

// MouseDown presses the left button at the given cell.
func (d *Driver) MouseDown(x, y int) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

// MouseMove moves the pointer with the left button held.
func (d *Driver) MouseMove(x, y int) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
}

// MouseUp releases the left button at the given cell.
func (d *Driver) MouseUp(x, y int) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
}

// Click presses and releases at the same cell.
func (d *Driver) Click(x, y int) {
	d.T.Helper()
	d.MouseDown(x, y)
	d.MouseUp(x, y)
}

// Drag presses at (x, fromY), passes through every row to toY and releases
// there, the way a terminal reports a vertical drag.
func (d *Driver) Drag(x, fromY, toY int) {
	d.T.Helper()
	d.MouseDown(x, fromY)
	step := 1
	if toY < fromY {
		step = -1
	}
	for y := fromY; y != toY; y += step {
		d.MouseMove(x, y+step)
	}
	d.MouseUp(x, toY)
}

// Wheel sends one wheel notch up (delta < 0) or down.
func (d *Driver) Wheel(x, y, delta int) {
	d.T.Helper()
	btn := tea.MouseButtonWheelDown
	if delta < 0 {
		btn = tea.MouseButtonWheelUp
	}
	d.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: btn})
}

// View returns the full rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── Command draining ─────────────────────────────────────────────────────────

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := d.exec(cmd)
	if !ok {
		d.dropped++
		return
	}
	if msg == nil || isTimerMsg(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drainCmd(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// exec runs cmd on its own goroutine and waits up to the driver timeout.
// A Cmd that times out keeps running; its message is discarded.
func (d *Driver) exec(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d.cmdTimeout):
		return nil, false
	}
}

// isTimerMsg detects blink and spinner tick messages that made it through.
// Feeding them back would schedule another timer Cmd on every drain.
func isTimerMsg(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink") || strings.HasSuffix(t, "spinner.TickMsg")
}
