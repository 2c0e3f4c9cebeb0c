package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/teatest"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with access to the reorder TUI internals.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver loads ct from the app's backend and drives a fresh TUI on
// a 100x30 terminal. Cmds get a generous timeout so requests against the
// fake backend complete inline.
func NewTestDriver(t *testing.T, app *App, ct domain.ContentType, opts ...teatest.Option) *TestDriver {
	t.Helper()
	list, err := app.Orders.Load(context.Background(), ct)
	require.NoError(t, err)

	opts = append([]teatest.Option{teatest.WithCmdTimeout(2 * time.Second), teatest.WithSize(100, 30)}, opts...)
	d := teatest.New(t, newAppModel(app, list), opts...)
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	if v := m.activeView(); v != nil {
		return v.ID()
	}
	return ViewID(-1)
}

func (d *TestDriver) Reorder() *reorderView {
	return d.appModel().viewStack[0].(*reorderView)
}

// WorkingIDs returns the working order the TUI is showing.
func (d *TestDriver) WorkingIDs() []string {
	return domain.IDs(d.Reorder().list.Working())
}

// RowY is the screen row of the item at list index i, assuming no scroll.
func (d *TestDriver) RowY(i int) int {
	return listTop + i
}
