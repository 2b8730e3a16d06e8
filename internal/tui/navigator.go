package tui

// listNav is a circular selection over a list of n items.
// scroll always equals the selection after a successful move.
type listNav struct {
	n        int
	selected int
	scroll   int
}

// newListNav selects the first item of a non-empty list.
func newListNav(n int) listNav {
	nav := listNav{selected: -1}
	nav.SetLen(n)
	return nav
}

// Selected returns the selected index when one is set.
func (n listNav) Selected() (int, bool) {
	if n.selected < 0 || n.selected >= n.n {
		return 0, false
	}
	return n.selected, true
}

// Scroll returns the scrollbar position.
func (n listNav) Scroll() int {
	return n.scroll
}

// Len returns the item count.
func (n listNav) Len() int {
	return n.n
}

// Next moves forward, wrapping from the last item to the first.
func (n *listNav) Next() bool {
	return n.move(1)
}

// Previous moves backward, wrapping from the first item to the last.
func (n *listNav) Previous() bool {
	return n.move(-1)
}

// Select moves the selection to idx when it is in range.
func (n *listNav) Select(idx int) bool {
	if idx < 0 || idx >= n.n {
		return false
	}
	n.selected = idx
	n.scroll = idx
	return true
}

// SetLen updates the item count and keeps the selection in range.
func (n *listNav) SetLen(count int) {
	if count < 0 {
		count = 0
	}
	n.n = count
	switch {
	case count == 0:
		n.selected = -1
		n.scroll = 0
	case n.selected < 0:
		n.Select(0)
	case n.selected >= count:
		n.Select(count - 1)
	}
}

// move shifts the selection by delta. An unset selection lands on 0.
func (n *listNav) move(delta int) bool {
	if n.n <= 0 {
		return false
	}
	if n.selected < 0 {
		return n.Select(0)
	}
	return n.Select(wrapIndex(n.selected, delta, n.n))
}

// wrapIndex returns current+delta wrapped into [0, total).
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := current + delta
	for next < 0 {
		next += total
	}
	for next >= total {
		next -= total
	}
	return next
}

// windowBounds returns an inclusive-exclusive list window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	half := windowSize / 2
	start := max(0, selected-half)
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
