package dynatlas

import "testing"

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"partial", Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"touching right edge", Rect{X: 10, Y: 0, W: 5, H: 10}, false},
		{"touching bottom edge", Rect{X: 0, Y: 10, W: 10, H: 5}, false},
		{"corner", Rect{X: 10, Y: 10, W: 1, H: 1}, false},
		{"far", Rect{X: 50, Y: 50, W: 1, H: 1}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.b.Overlaps(a); got != tt.want {
			t.Errorf("%s: reversed Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{W: 32, H: 32}
	if !outer.Contains(Rect{X: 16, Y: 16, W: 16, H: 16}) {
		t.Error("should contain bottom-right quadrant")
	}
	if outer.Contains(Rect{X: 16, Y: 16, W: 17, H: 16}) {
		t.Error("should not contain rect crossing the right edge")
	}
}

func TestSquareness(t *testing.T) {
	tests := []struct {
		r    Rect
		want float64
	}{
		{Rect{W: 8, H: 8}, 1},
		{Rect{W: 16, H: 4}, 4},
		{Rect{W: 4, H: 16}, 4},
		{Rect{W: 0, H: 16}, 0},
	}
	for _, tt := range tests {
		if got := squareness(tt.r); got != tt.want {
			t.Errorf("squareness(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestSplitRect(t *testing.T) {
	tests := []struct {
		name string
		f    Rect
		w, h int
		rem  []Rect
	}{
		{
			name: "perfect fit",
			f:    Rect{X: 4, Y: 4, W: 8, H: 8},
			w:    8, h: 8,
		},
		{
			name: "full width leaves strip below",
			f:    Rect{X: 4, Y: 4, W: 8, H: 8},
			w:    8, h: 3,
			rem: []Rect{{X: 4, Y: 7, W: 8, H: 5}},
		},
		{
			name: "full height leaves strip right",
			f:    Rect{X: 4, Y: 4, W: 8, H: 8},
			w:    2, h: 8,
			rem: []Rect{{X: 6, Y: 4, W: 6, H: 8}},
		},
		{
			name: "tie picks right column first",
			f:    Rect{W: 32, H: 32},
			w:    20, h: 20,
			rem: []Rect{{X: 20, Y: 0, W: 12, H: 32}, {X: 0, Y: 20, W: 20, H: 12}},
		},
		{
			name: "wide bottom row is squarer",
			f:    Rect{W: 64, H: 64},
			w:    10, h: 10,
			rem: []Rect{{X: 0, Y: 10, W: 64, H: 54}, {X: 10, Y: 0, W: 54, H: 10}},
		},
		{
			name: "tall right column is squarer",
			f:    Rect{W: 100, H: 40},
			w:    10, h: 30,
			rem: []Rect{{X: 10, Y: 0, W: 90, H: 40}, {X: 0, Y: 30, W: 10, H: 10}},
		},
	}
	for _, tt := range tests {
		out, rem, n := splitRect(tt.f, tt.w, tt.h)
		want := Rect{X: tt.f.X, Y: tt.f.Y, W: tt.w, H: tt.h}
		if out != want {
			t.Errorf("%s: allocated %v, want %v", tt.name, out, want)
		}
		if n != len(tt.rem) {
			t.Errorf("%s: %d remainders, want %d", tt.name, n, len(tt.rem))
			continue
		}
		area := out.Area()
		for i := range n {
			if rem[i] != tt.rem[i] {
				t.Errorf("%s: rem[%d] = %v, want %v", tt.name, i, rem[i], tt.rem[i])
			}
			if rem[i].Overlaps(out) {
				t.Errorf("%s: rem[%d] overlaps the allocation", tt.name, i)
			}
			area += rem[i].Area()
		}
		if area != tt.f.Area() {
			t.Errorf("%s: pieces cover %d, want %d", tt.name, area, tt.f.Area())
		}
	}
}
