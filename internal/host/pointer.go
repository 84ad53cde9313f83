package host

// drag tracks one pointer and turns its motion into scroll deltas. Dragging
// moves the wall with the pointer, so the delta is the negated motion.
type drag struct {
	active bool
	x, y   float64
}

// press starts a drag at (x, y).
func (d *drag) press(x, y float64) {
	d.active, d.x, d.y = true, x, y
}

// move updates the pointer and returns the scroll delta since the last call.
func (d *drag) move(x, y float64) (dx, dy float64) {
	if !d.active {
		return 0, 0
	}
	dx, dy = d.x-x, d.y-y
	d.x, d.y = x, y
	return dx, dy
}

func (d *drag) release() {
	d.active = false
}

// wheelDelta converts wheel notches to a scroll delta in device pixels.
// Scrolling down advances the wall.
func wheelDelta(wx, wy, step, ratio float64) (dx, dy float64) {
	return -wx * step * ratio, -wy * step * ratio
}
