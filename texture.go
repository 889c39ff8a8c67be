package dynatlas

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Texture is a handle to one sub-image of an Atlas. It is a small value;
// copies refer to the same space. After Release every copy goes stale and
// all operations on it become no-ops.
//
// Pixel coordinates are local: (0, 0) is the texture's top-left corner.
type Texture struct {
	atlas *Atlas
	id    textureID
}

// resolve returns the slot behind t, or nil if t is stale. Stale use is
// reported in debug mode.
func (t Texture) resolve(op string) *slot {
	if t.atlas == nil {
		return nil
	}
	s := t.atlas.slots.lookup(t.id)
	if s == nil {
		t.atlas.debugStale(op, t.id)
	}
	return s
}

// live returns the rectangle behind t when it owns space.
func (t Texture) live(op string) (Rect, bool) {
	s := t.resolve(op)
	if s == nil || s.state != slotLive {
		return Rect{}, false
	}
	return s.rect, true
}

// Atlas returns the owning atlas, or nil for the zero Texture.
func (t Texture) Atlas() *Atlas { return t.atlas }

// Valid reports whether t has not been released.
func (t Texture) Valid() bool {
	return t.atlas != nil && t.atlas.slots.lookup(t.id) != nil
}

// Pending reports whether t is waiting for Resolve.
func (t Texture) Pending() bool {
	if t.atlas == nil {
		return false
	}
	s := t.atlas.slots.lookup(t.id)
	return s != nil && s.state == slotPending
}

// Width returns the texture width, -1 while pending, or 0 once released.
func (t Texture) Width() int {
	w, _ := t.Size()
	return w
}

// Height returns the texture height, -1 while pending, or 0 once released.
func (t Texture) Height() int {
	_, h := t.Size()
	return h
}

// Size returns Width and Height.
func (t Texture) Size() (int, int) {
	if t.atlas == nil {
		return 0, 0
	}
	s := t.atlas.slots.lookup(t.id)
	switch {
	case s == nil:
		return 0, 0
	case s.state == slotPending:
		return -1, -1
	}
	return s.rect.W, s.rect.H
}

// Offset returns the position of the texture within the atlas page.
func (t Texture) Offset() (int, int) {
	r, _ := t.live("Offset")
	return r.X, r.Y
}

// Rect returns the atlas-space rectangle of the texture.
func (t Texture) Rect() Rect {
	r, _ := t.live("Rect")
	return r
}

// Resolve gives a pending texture w×h pixels of space.
func (t Texture) Resolve(w, h int) error {
	s := t.resolve("Resolve")
	if s == nil {
		return ErrStaleTexture
	}
	if s.state != slotPending {
		return ErrNotPending
	}
	r, err := t.atlas.allocRect(w, h)
	if err != nil {
		return err
	}
	// allocRect never touches the slot table, so s is still valid.
	t.atlas.slots.promote(s, r)
	return nil
}

// ResolveImage resolves a pending texture to the size of img and copies it in.
func (t Texture) ResolveImage(img image.Image) error {
	b := img.Bounds()
	if err := t.Resolve(b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("dynatlas: resolve %dx%d: %w", b.Dx(), b.Dy(), err)
	}
	t.WriteImage(img)
	return nil
}

// Release returns the texture's space to its atlas. Safe to call repeatedly.
func (t Texture) Release() {
	if t.atlas != nil {
		t.atlas.Release(t)
	}
}

// pixel translates local (x, y) to atlas space, reporting out-of-range
// coordinates in debug mode.
func (t Texture) pixel(op string, x, y int) (int, int, bool) {
	r, ok := t.live(op)
	if !ok {
		return 0, 0, false
	}
	if x < 0 || y < 0 || x >= r.W || y >= r.H {
		t.atlas.debugOutOfBounds(op, x, y, r)
		return 0, 0, false
	}
	return r.X + x, r.Y + y, true
}

// SetPixel writes a premultiplied color at (x, y).
func (t Texture) SetPixel(x, y int, c color.RGBA) {
	ax, ay, ok := t.pixel("SetPixel", x, y)
	if !ok {
		return
	}
	st := t.atlas.alloc.store
	st.pix.SetRGBA(ax, ay, c)
	st.dirty = true
}

// SetColor writes a straight-alpha Color at (x, y).
func (t Texture) SetColor(x, y int, c Color) {
	t.SetPixel(x, y, c.toRGBA())
}

// Pixel returns the premultiplied color at (x, y). Out-of-range or stale
// reads return transparent black.
func (t Texture) Pixel(x, y int) color.RGBA {
	ax, ay, ok := t.pixel("Pixel", x, y)
	if !ok {
		return color.RGBA{}
	}
	return t.atlas.alloc.store.pix.RGBAAt(ax, ay)
}

// FadePixel multiplies the pixel at (x, y) by alpha, clamped to [0, 1].
func (t Texture) FadePixel(x, y int, alpha float64) {
	ax, ay, ok := t.pixel("FadePixel", x, y)
	if !ok {
		return
	}
	t.atlas.alloc.store.scale(ax, ay, clamp01(alpha))
}

// Fill sets every pixel to c.
func (t Texture) Fill(c Color) {
	r, ok := t.live("Fill")
	if !ok {
		return
	}
	st := t.atlas.alloc.store
	xdraw.Draw(st.region(r), r.Image(), image.NewUniform(c.toRGBA()), image.Point{}, xdraw.Src)
	st.dirty = true
}

// Clear sets every pixel to transparent black.
func (t Texture) Clear() {
	if r, ok := t.live("Clear"); ok {
		t.atlas.alloc.store.clear(r)
	}
}

// WriteImage copies src into the texture with src's top-left at (0, 0).
// Pixels beyond the texture are dropped.
func (t Texture) WriteImage(src image.Image) {
	if r, ok := t.live("WriteImage"); ok {
		t.atlas.writeImage(r, src)
	}
}

// ToImage returns a copy of the texture's pixels with bounds at the origin.
func (t Texture) ToImage() *image.RGBA {
	r, ok := t.live("ToImage")
	if !ok {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	xdraw.Copy(out, image.Point{}, t.atlas.alloc.store.pix, r.Image(), xdraw.Src, nil)
	return out
}

func (t Texture) String() string {
	w, h := t.Size()
	var r Rect
	if t.atlas != nil {
		if s := t.atlas.slots.lookup(t.id); s != nil {
			r = s.rect
		}
	}
	return fmt.Sprintf("Texture(%d,%d %dx%d)", r.X, r.Y, w, h)
}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
