package dynatlas

import (
	"fmt"
	"image"
)

// Rect is an integer rectangle in atlas pixel space. It is the unit of all
// allocator bookkeeping and carries no behavior beyond geometry.
type Rect struct {
	X, Y, W, H int
}

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Overlaps reports whether r and o share any area. Rectangles that only touch
// along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

func (r Rect) transpose() Rect { return Rect{X: r.Y, Y: r.X, W: r.H, H: r.W} }

// closerThan orders rectangles by Manhattan distance of their origin.
func (r Rect) closerThan(o Rect) bool { return r.X+r.Y < o.X+o.Y }

// squareness scores how far r is from a square: 1 for a square, growing with
// the aspect ratio. Empty rectangles score 0 so they never sway a choice.
func squareness(r Rect) float64 {
	if r.Empty() {
		return 0
	}
	aspect := float64(r.W) / float64(r.H)
	if aspect < 1 {
		return 1 / aspect
	}
	return aspect
}

// splitRect carves a w×h rectangle out of the top-left corner of f and
// returns it together with up to two remainders covering the rest of f.
// The caller guarantees w <= f.W and h <= f.H.
func splitRect(f Rect, w, h int) (Rect, [2]Rect, int) {
	out := Rect{X: f.X, Y: f.Y, W: w, H: h}
	var rem [2]Rect
	switch {
	case w == f.W && h == f.H:
		return out, rem, 0
	case w == f.W:
		rem[0] = Rect{X: f.X, Y: f.Y + h, W: f.W, H: f.H - h}
		return out, rem, 1
	case h == f.H:
		rem[0] = Rect{X: f.X + w, Y: f.Y, W: f.W - w, H: f.H}
		return out, rem, 1
	}

	// Two L decompositions: full-height right column plus the strip under
	// the allocation, or full-width bottom row plus the strip beside it.
	colRight := Rect{X: f.X + w, Y: f.Y, W: f.W - w, H: f.H}
	colBelow := Rect{X: f.X, Y: f.Y + h, W: w, H: f.H - h}
	rowBelow := Rect{X: f.X, Y: f.Y + h, W: f.W, H: f.H - h}
	rowRight := Rect{X: f.X + w, Y: f.Y, W: f.W - w, H: h}

	if squareness(rowBelow)+squareness(rowRight) < squareness(colRight)+squareness(colBelow) {
		rem[0], rem[1] = rowBelow, rowRight
	} else {
		rem[0], rem[1] = colRight, colBelow
	}
	return out, rem, 2
}
