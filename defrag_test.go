package dynatlas

import (
	"testing"
	"time"
)

// steppingClock advances by step on every call, so a 1ns budget allows
// exactly one entry per cleanup call.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func freeArea(free []Rect) int {
	area := 0
	for _, r := range free {
		area += r.Area()
	}
	return area
}

func TestMergeRects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
		ok   bool
	}{
		{"stacked", Rect{X: 0, Y: 0, W: 8, H: 4}, Rect{X: 0, Y: 4, W: 8, H: 6}, Rect{X: 0, Y: 0, W: 8, H: 10}, true},
		{"stacked reversed", Rect{X: 0, Y: 4, W: 8, H: 6}, Rect{X: 0, Y: 0, W: 8, H: 4}, Rect{X: 0, Y: 0, W: 8, H: 10}, true},
		{"side by side", Rect{X: 0, Y: 2, W: 3, H: 5}, Rect{X: 3, Y: 2, W: 4, H: 5}, Rect{X: 0, Y: 2, W: 7, H: 5}, true},
		{"gap", Rect{X: 0, Y: 0, W: 8, H: 4}, Rect{X: 0, Y: 5, W: 8, H: 4}, Rect{}, false},
		{"different width", Rect{X: 0, Y: 0, W: 8, H: 4}, Rect{X: 0, Y: 4, W: 7, H: 4}, Rect{}, false},
	}
	for _, tt := range tests {
		got, ok := mergeRects(tt.a, tt.b)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("%s: merged = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReshapeStackedImprovesSquareness(t *testing.T) {
	top := Rect{X: 0, Y: 0, W: 4, H: 1}
	bot := Rect{X: 0, Y: 1, W: 2, H: 3}
	na, nb, ok := reshapeRects(top, bot)
	if !ok {
		t.Fatal("expected reshape")
	}
	if want := (Rect{X: 0, Y: 0, W: 2, H: 4}); na != want {
		t.Errorf("a = %v, want %v", na, want)
	}
	if want := (Rect{X: 2, Y: 0, W: 2, H: 1}); nb != want {
		t.Errorf("b = %v, want %v", nb, want)
	}
	if na.Overlaps(nb) {
		t.Error("reshaped rects overlap")
	}
	if na.Area()+nb.Area() != top.Area()+bot.Area() {
		t.Error("reshape changed area")
	}
	if squareness(na)+squareness(nb) >= squareness(top)+squareness(bot) {
		t.Error("reshape did not improve squareness")
	}

	// The reshaped pair is already the better cut; it must stay put.
	if _, _, ok := reshapeRects(na, nb); ok {
		t.Error("reshape should not flip back")
	}
}

func TestReshapeSideBySide(t *testing.T) {
	left := Rect{X: 0, Y: 0, W: 1, H: 4}
	right := Rect{X: 1, Y: 0, W: 3, H: 2}
	na, nb, ok := reshapeRects(left, right)
	if !ok {
		t.Fatal("expected reshape")
	}
	if want := (Rect{X: 0, Y: 0, W: 4, H: 2}); na != want {
		t.Errorf("a = %v, want %v", na, want)
	}
	if want := (Rect{X: 0, Y: 2, W: 1, H: 2}); nb != want {
		t.Errorf("b = %v, want %v", nb, want)
	}
}

func TestReshapeRightAligned(t *testing.T) {
	top := Rect{X: 0, Y: 0, W: 4, H: 1}
	bot := Rect{X: 2, Y: 1, W: 2, H: 3}
	na, nb, ok := reshapeRects(top, bot)
	if !ok {
		t.Fatal("expected reshape")
	}
	if na.Overlaps(nb) || na.Area()+nb.Area() != 10 {
		t.Errorf("bad reshape %v %v", na, nb)
	}
	if !(Rect{W: 4, H: 4}).Contains(na) || !(Rect{W: 4, H: 4}).Contains(nb) {
		t.Errorf("reshape escaped the L: %v %v", na, nb)
	}
}

func TestReshapeIgnoresUnalignedTouch(t *testing.T) {
	top := Rect{X: 0, Y: 0, W: 8, H: 1}
	mid := Rect{X: 2, Y: 1, W: 2, H: 6}
	if _, _, ok := reshapeRects(top, mid); ok {
		t.Error("T-shaped touch should not reshape")
	}
}

func TestCleanupMergesAdjacentHalves(t *testing.T) {
	d := defragmenter{now: steppingClock(time.Millisecond)}
	free := []Rect{{X: 16, Y: 0, W: 16, H: 32}, {X: 0, Y: 0, W: 16, H: 32}}
	for range 2 {
		free, _ = d.cleanup(free, time.Nanosecond)
	}
	if len(free) != 1 {
		t.Fatalf("free = %v, want one rect", free)
	}
	if want := (Rect{W: 32, H: 32}); free[0] != want {
		t.Errorf("merged = %v, want %v", free[0], want)
	}
}

func TestCleanupConvergesWithTinyBudget(t *testing.T) {
	d := defragmenter{now: steppingClock(time.Millisecond)}
	// Four released 16x16 quadrants, in release order.
	free := []Rect{
		{X: 0, Y: 0, W: 16, H: 16},
		{X: 16, Y: 0, W: 16, H: 16},
		{X: 16, Y: 16, W: 16, H: 16},
		{X: 0, Y: 16, W: 16, H: 16},
	}
	n := len(free)
	for i := 0; i < 4*n && len(free) > 1; i++ {
		var st DefragStats
		free, st = d.cleanup(free, time.Nanosecond)
		if st.Visited != 1 {
			t.Errorf("call %d visited %d entries, want 1", i, st.Visited)
		}
		if got := freeArea(free); got != 32*32 {
			t.Fatalf("call %d: free area = %d, want %d", i, got, 32*32)
		}
	}
	if len(free) != 1 || free[0] != (Rect{W: 32, H: 32}) {
		t.Errorf("free = %v, want single 32x32 rect", free)
	}
}

func TestCleanupSingleRectIsIdempotent(t *testing.T) {
	d := defragmenter{now: steppingClock(time.Millisecond)}
	free := []Rect{{W: 64, H: 64}}
	for range 5 {
		var st DefragStats
		free, st = d.cleanup(free, time.Second)
		if st.Changed() || st.Visited != 0 {
			t.Errorf("stats = %+v, want no work", st)
		}
	}
	if len(free) != 1 || free[0] != (Rect{W: 64, H: 64}) {
		t.Errorf("free = %v, want unchanged", free)
	}
}

func TestCleanupZeroBudgetDoesNothing(t *testing.T) {
	d := defragmenter{now: steppingClock(time.Millisecond)}
	free := []Rect{{X: 0, Y: 0, W: 4, H: 4}, {X: 4, Y: 0, W: 4, H: 4}}
	free, st := d.cleanup(free, 0)
	if len(free) != 2 || st.Visited != 0 {
		t.Errorf("free = %v, stats = %+v; want untouched", free, st)
	}
}

func TestCleanupClampsStaleCursor(t *testing.T) {
	d := defragmenter{cursor: 50, now: steppingClock(time.Millisecond)}
	free := []Rect{{X: 0, Y: 0, W: 4, H: 4}, {X: 10, Y: 10, W: 4, H: 4}, {X: 20, Y: 20, W: 4, H: 4}}
	free, st := d.cleanup(free, time.Nanosecond)
	if st.Visited != 1 {
		t.Errorf("Visited = %d, want 1", st.Visited)
	}
	if len(free) != 3 || freeArea(free) != 48 {
		t.Errorf("free = %v, want three untouched rects", free)
	}
}

func TestCleanupBubblesTowardOrigin(t *testing.T) {
	d := defragmenter{now: steppingClock(time.Millisecond)}
	far := Rect{X: 40, Y: 40, W: 4, H: 4}
	near := Rect{X: 0, Y: 0, W: 4, H: 4}
	free := []Rect{far, near}
	free, st := d.cleanup(free, time.Nanosecond)
	if st.Swaps != 1 {
		t.Errorf("Swaps = %d, want 1", st.Swaps)
	}
	if free[0] != near || free[1] != far {
		t.Errorf("free = %v, want near first", free)
	}
}

func TestCleanupPreservesFreeArea(t *testing.T) {
	a := newTestAtlas(128)
	var texs []Texture
	for i := range 40 {
		tex, err := a.Allocate(3+i%7, 2+i%11)
		if err != nil {
			t.Fatal(err)
		}
		texs = append(texs, tex)
	}
	for i, tex := range texs {
		if i%2 == 0 {
			tex.Release()
		}
	}
	before := a.Stats().FreeArea
	for range 50 {
		a.RunDefragmentation()
		if got := a.Stats().FreeArea; got != before {
			t.Fatalf("FreeArea = %d, want %d", got, before)
		}
		if err := a.CheckPartition(); err != nil {
			t.Fatal(err)
		}
	}
}
