package reorder

// Intent is a request to move the item at From to position To.
type Intent struct {
	From int
	To   int
}

// DragTracker turns a pointer drag gesture into a single Intent. A gesture
// starts with Press on a row, follows the pointer with Hover, and ends with
// Release or Cancel.
type DragTracker struct {
	active bool
	origin int
	target int
}

func (d *DragTracker) Press(index int) {
	d.active = true
	d.origin = index
	d.target = index
}

func (d *DragTracker) Hover(index int) {
	if d.active {
		d.target = index
	}
}

// Release ends the gesture. It yields no intent when the pointer comes back
// to where it started.
func (d *DragTracker) Release() (Intent, bool) {
	if !d.active {
		return Intent{}, false
	}
	d.active = false
	if d.origin == d.target {
		return Intent{}, false
	}
	return Intent{From: d.origin, To: d.target}, true
}

func (d *DragTracker) Cancel() { d.active = false }

func (d *DragTracker) Active() bool { return d.active }
func (d *DragTracker) Origin() int  { return d.origin }
func (d *DragTracker) Target() int  { return d.target }

// KeyIntent computes the move for a grabbed item at cursor shifted by delta
// within a list of n items. Large deltas clamp to the first or last slot.
func KeyIntent(cursor, delta, n int) (Intent, bool) {
	if n == 0 || cursor < 0 || cursor >= n {
		return Intent{}, false
	}
	to := clamp(cursor+delta, 0, n-1)
	if to == cursor {
		return Intent{}, false
	}
	return Intent{From: cursor, To: to}, true
}
