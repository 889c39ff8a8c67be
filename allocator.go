package dynatlas

import (
	"fmt"
	"image"
	"slices"
)

// rectAllocator owns the free and used rectangles of one backing store.
// At every call boundary free ∪ used tiles the store exactly.
//
// The free list is scanned linearly (first fit). That is fine for a few
// hundred live textures; heavier churn would want size-bucketed free lists.
type rectAllocator struct {
	w, h    int
	maxSize int
	free    []Rect
	used    map[image.Point]Rect
	store   *store
	growths int
}

func newRectAllocator(size, maxSize int) *rectAllocator {
	return &rectAllocator{
		w:       size,
		h:       size,
		maxSize: maxSize,
		free:    []Rect{{W: size, H: size}},
		used:    make(map[image.Point]Rect),
		store:   newStore(size, size),
	}
}

// requestSize returns a w×h rectangle from the first free rectangle that can
// hold it, growing the store once if none can.
func (ra *rectAllocator) requestSize(w, h int) (Rect, error) {
	if w <= 0 || h <= 0 {
		return Rect{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if r, ok := ra.take(w, h); ok {
		return r, nil
	}
	if err := ra.grow(w, h); err != nil {
		return Rect{}, err
	}
	if r, ok := ra.take(w, h); ok {
		return r, nil
	}
	return Rect{}, fmt.Errorf("%w: no room for %dx%d after growth", ErrAtlasExhausted, w, h)
}

func (ra *rectAllocator) take(w, h int) (Rect, bool) {
	for i, f := range ra.free {
		if f.W < w || f.H < h {
			continue
		}
		r, rem, n := splitRect(f, w, h)
		ra.free = slices.Replace(ra.free, i, i+1, rem[:n]...)
		ra.used[image.Pt(r.X, r.Y)] = r
		return r, true
	}
	return Rect{}, false
}

// release moves r from used to free. Rectangles that are not tracked, or
// whose size no longer matches the tracked entry, are ignored. Releasing the
// last used rectangle collapses the free list back to the whole page.
func (ra *rectAllocator) release(r Rect) bool {
	p := image.Pt(r.X, r.Y)
	if u, ok := ra.used[p]; !ok || u != r {
		return false
	}
	delete(ra.used, p)
	if len(ra.used) == 0 {
		ra.reset()
		return true
	}
	ra.free = append(ra.free, r)
	return true
}

// grow scales both dimensions by the smallest power of two that leaves room
// for a w×h strip next to and below the old bounds, then frees the added
// L-shaped area.
func (ra *rectAllocator) grow(w, h int) error {
	nw, nh := ra.w, ra.h
	for nw < ra.w+w || nh < ra.h+h {
		nw, nh = nw*2, nh*2
		if nw > ra.maxSize || nh > ra.maxSize {
			return fmt.Errorf("%w: %dx%d cannot grow to fit %dx%d within %d",
				ErrAtlasExhausted, ra.w, ra.h, w, h, ra.maxSize)
		}
	}
	ra.store.resize(nw, nh)
	_, rem, n := splitRect(Rect{W: nw, H: nh}, ra.w, ra.h)
	ra.free = append(ra.free, rem[:n]...)
	ra.w, ra.h = nw, nh
	ra.growths++
	return nil
}

// reset frees everything without shrinking the store.
func (ra *rectAllocator) reset() {
	clear(ra.used)
	ra.free = append(ra.free[:0], Rect{W: ra.w, H: ra.h})
}

func (ra *rectAllocator) freeArea() int {
	area := 0
	for _, r := range ra.free {
		area += r.Area()
	}
	return area
}

func (ra *rectAllocator) usedArea() int {
	area := 0
	for _, r := range ra.used {
		area += r.Area()
	}
	return area
}

// checkPartition verifies that free and used rectangles tile the store with
// no gaps or overlaps.
func (ra *rectAllocator) checkPartition() error {
	bounds := Rect{W: ra.w, H: ra.h}
	all := make([]Rect, 0, len(ra.free)+len(ra.used))
	all = append(all, ra.free...)
	for _, r := range ra.used {
		all = append(all, r)
	}
	area := 0
	for i, r := range all {
		if r.Empty() {
			return fmt.Errorf("dynatlas: empty rect %v", r)
		}
		if !bounds.Contains(r) {
			return fmt.Errorf("dynatlas: %v outside %v", r, bounds)
		}
		for _, o := range all[i+1:] {
			if r.Overlaps(o) {
				return fmt.Errorf("dynatlas: %v overlaps %v", r, o)
			}
		}
		area += r.Area()
	}
	if area != bounds.Area() {
		return fmt.Errorf("dynatlas: rects cover %d of %d pixels", area, bounds.Area())
	}
	return nil
}
