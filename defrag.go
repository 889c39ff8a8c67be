package dynatlas

import (
	"slices"
	"time"
)

// DefragStats reports what one cleanup pass did.
type DefragStats struct {
	Visited int           // free entries used as the merge base
	Merges  int           // pairs coalesced into one rectangle
	Flips   int           // L-shaped pairs re-cut into squarer halves
	Swaps   int           // bubble steps toward the origin
	Elapsed time.Duration // wall time spent
}

// Changed reports whether the pass mutated the free list.
func (s DefragStats) Changed() bool {
	return s.Merges+s.Flips+s.Swaps > 0
}

// defragmenter coalesces the free list a little at a time. The cursor is the
// only state carried between calls.
type defragmenter struct {
	cursor int
	now    func() time.Time
}

// cleanup walks the free list backwards from the cursor, wrapping to the end,
// until budget is spent or every entry has been visited once. At least one
// entry is processed per call so progress never depends on the budget.
func (d *defragmenter) cleanup(free []Rect, budget time.Duration) ([]Rect, DefragStats) {
	var st DefragStats
	if len(free) < 2 || budget <= 0 {
		return free, st
	}
	d.cursor = max(min(d.cursor, len(free)-2), 0)
	start := d.now()

	for st.Visited < len(free) {
		i := d.cursor
		var merges, flips int
		free, merges, flips = absorbLater(free, i)
		st.Merges += merges
		st.Flips += flips
		if i+1 < len(free) && free[i+1].closerThan(free[i]) {
			free[i], free[i+1] = free[i+1], free[i]
			st.Swaps++
		}
		st.Visited++

		if len(free) < 2 {
			d.cursor = 0
			break
		}
		d.cursor = i - 1
		if d.cursor < 0 {
			d.cursor = len(free) - 2
		}
		if d.now().Sub(start) >= budget {
			break
		}
	}
	st.Elapsed = d.now().Sub(start)
	return free, st
}

// absorbLater compares free[i] against every later entry, merging or
// reshaping in place.
func absorbLater(free []Rect, i int) ([]Rect, int, int) {
	var merges, flips int
	a := free[i]
	for j := i + 1; j < len(free); {
		b := free[j]
		if m, ok := mergeRects(a, b); ok {
			a = m
			free = slices.Delete(free, j, j+1)
			merges++
			continue
		}
		if na, nb, ok := reshapeRects(a, b); ok {
			a, free[j] = na, nb
			flips++
		}
		j++
	}
	free[i] = a
	return free, merges, flips
}

// mergeRects joins two rectangles that share a full edge.
func mergeRects(a, b Rect) (Rect, bool) {
	switch {
	case a.X == b.X && a.W == b.W && (a.Bottom() == b.Y || b.Bottom() == a.Y):
		return Rect{X: a.X, Y: min(a.Y, b.Y), W: a.W, H: a.H + b.H}, true
	case a.Y == b.Y && a.H == b.H && (a.Right() == b.X || b.Right() == a.X):
		return Rect{X: min(a.X, b.X), Y: a.Y, W: a.W + b.W, H: a.H}, true
	}
	return a, false
}

// reshapeRects re-cuts two rectangles forming an L (touching along part of
// an edge with one side aligned) along the other axis, when that makes the
// pair squarer. The covered area is unchanged.
func reshapeRects(a, b Rect) (Rect, Rect, bool) {
	if na, nb, ok := reshapeStacked(a, b); ok {
		return na, nb, true
	}
	if na, nb, ok := reshapeStacked(a.transpose(), b.transpose()); ok {
		return na.transpose(), nb.transpose(), true
	}
	return a, b, false
}

// reshapeStacked handles the vertically stacked case; the horizontal case is
// the same problem transposed.
func reshapeStacked(a, b Rect) (Rect, Rect, bool) {
	top, bot := a, b
	switch {
	case a.Bottom() == b.Y:
	case b.Bottom() == a.Y:
		top, bot = b, a
	default:
		return a, b, false
	}
	if top.W == bot.W {
		return a, b, false
	}
	narrow, wide := top, bot
	if narrow.W > wide.W {
		narrow, wide = bot, top
	}

	var rest Rect
	switch {
	case narrow.X == wide.X:
		rest = Rect{X: wide.X + narrow.W, Y: wide.Y, W: wide.W - narrow.W, H: wide.H}
	case narrow.Right() == wide.Right():
		rest = Rect{X: wide.X, Y: wide.Y, W: wide.W - narrow.W, H: wide.H}
	default:
		return a, b, false
	}
	column := Rect{X: narrow.X, Y: top.Y, W: narrow.W, H: top.H + bot.H}

	if squareness(column)+squareness(rest) >= squareness(a)+squareness(b) {
		return a, b, false
	}
	if rest.closerThan(column) {
		return rest, column, true
	}
	return column, rest, true
}
