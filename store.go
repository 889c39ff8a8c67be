package dynatlas

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// store is the atlas backing store. The CPU buffer is authoritative; the
// ebiten page is a mirror re-uploaded lazily after writes.
type store struct {
	pix   *image.RGBA
	page  *ebiten.Image
	dirty bool
}

func newStore(w, h int) *store {
	return &store{pix: image.NewRGBA(image.Rect(0, 0, w, h)), dirty: true}
}

func (s *store) size() (int, int) {
	b := s.pix.Bounds()
	return b.Dx(), b.Dy()
}

// resize replaces the buffer with a larger one, keeping existing pixels at
// the same coordinates.
func (s *store) resize(w, h int) {
	next := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Copy(next, image.Point{}, s.pix, s.pix.Bounds(), xdraw.Src, nil)
	s.pix = next
	if s.page != nil {
		s.page.Deallocate()
		s.page = nil
	}
	s.dirty = true
}

// region returns a view of r sharing the backing buffer.
func (s *store) region(r Rect) *image.RGBA {
	return s.pix.SubImage(r.Image()).(*image.RGBA)
}

// clear zeroes r.
func (s *store) clear(r Rect) {
	for y := r.Y; y < r.Bottom(); y++ {
		off := s.pix.PixOffset(r.X, y)
		clear(s.pix.Pix[off : off+r.W*4])
	}
	s.dirty = true
}

// scale multiplies every channel of the premultiplied pixel at (x, y) by k.
func (s *store) scale(x, y int, k float64) {
	off := s.pix.PixOffset(x, y)
	p := s.pix.Pix[off : off+4 : off+4]
	for i := range p {
		p[i] = uint8(float64(p[i])*k + 0.5)
	}
	s.dirty = true
}

// rotate writes src rotated by angle (radians, clockwise on screen) into dst,
// centered, clipped to dst. Sampling is confined to src grown by margin
// pixels, so with margin 0 neighboring atlas content is never read and every
// source pixel, border included, is available to the copy.
func (s *store) rotate(src, dst Rect, angle float64, margin int, smooth bool) {
	sr := src.Image()
	if margin > 0 {
		sr = sr.Inset(-margin).Intersect(s.pix.Bounds())
	}
	sin, cos := math.Sincos(angle)
	scx := float64(src.X) + float64(src.W)/2
	scy := float64(src.Y) + float64(src.H)/2
	dcx := float64(dst.X) + float64(dst.W)/2
	dcy := float64(dst.Y) + float64(dst.H)/2
	s2d := f64.Aff3{
		cos, -sin, dcx - (cos*scx - sin*scy),
		sin, cos, dcy - (sin*scx + cos*scy),
	}
	var interp xdraw.Interpolator = xdraw.NearestNeighbor
	if smooth {
		interp = xdraw.BiLinear
	}
	interp.Transform(s.region(dst), s2d, s.pix, sr, xdraw.Src, nil)
	s.dirty = true
}

// ebitenPage returns the GPU mirror, uploading pending CPU writes first.
func (s *store) ebitenPage() *ebiten.Image {
	w, h := s.size()
	if s.page == nil {
		s.page = ebiten.NewImage(w, h)
		s.dirty = true
	}
	if s.dirty {
		s.page.WritePixels(s.pix.Pix)
		s.dirty = false
	}
	return s.page
}

// subPage returns the GPU mirror of r.
func (s *store) subPage(r Rect) *ebiten.Image {
	return s.ebitenPage().SubImage(r.Image()).(*ebiten.Image)
}

func (s *store) dispose() {
	if s.page != nil {
		s.page.Deallocate()
		s.page = nil
	}
}
