package dynatlas

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// DrawOpts controls how a texture is drawn onto a Canvas by DrawWith.
type DrawOpts struct {
	// X and Y are the draw position in pixels.
	X, Y float64
	// ScaleX and ScaleY are scale factors. Zero defaults to 1.0.
	ScaleX, ScaleY float64
	// Rotation is the rotation in radians (clockwise).
	Rotation float64
	// PivotX and PivotY are the transform origin for scale and rotation.
	PivotX, PivotY float64
	// Color is a multiplicative tint. Zero value defaults to white (no tint).
	Color Color
	// Alpha is the opacity multiplier. Zero defaults to 1.0 (fully opaque).
	Alpha float64
	// BlendMode selects the compositing operation.
	BlendMode BlendMode
}

// Draw draws the texture at (x, y) with normal blending.
func (t Texture) Draw(dst Canvas, x, y float64) {
	t.DrawWith(dst, DrawOpts{X: x, Y: y})
}

// DrawScaled draws the texture stretched to w×h at (x, y).
func (t Texture) DrawScaled(dst Canvas, x, y, w, h float64) {
	tw, th := t.Size()
	if tw <= 0 || th <= 0 {
		return
	}
	t.DrawWith(dst, DrawOpts{X: x, Y: y, ScaleX: w / float64(tw), ScaleY: h / float64(th)})
}

// DrawWith draws the texture with full transform, color, and alpha. Pending
// and released textures draw nothing.
func (t Texture) DrawWith(dst Canvas, opts DrawOpts) {
	r, ok := t.live("Draw")
	if !ok {
		return
	}
	var op ebiten.DrawImageOptions
	applyDrawOpts(&op, opts)
	dst.DrawImage(t.atlas.alloc.store.subPage(r), &op)
}

// Blit composites the texture onto a CPU image, scaled to fill dr.
func (t Texture) Blit(dst xdraw.Image, dr image.Rectangle) {
	r, ok := t.live("Blit")
	if !ok {
		return
	}
	src := t.atlas.alloc.store.pix
	if dr.Dx() == r.W && dr.Dy() == r.H {
		xdraw.Copy(dst, dr.Min, src, r.Image(), xdraw.Over, nil)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, dr, src, r.Image(), xdraw.Over, nil)
}

// applyDrawOpts configures an ebiten.DrawImageOptions from DrawOpts.
func applyDrawOpts(op *ebiten.DrawImageOptions, opts DrawOpts) {
	op.GeoM.Translate(-opts.PivotX, -opts.PivotY)
	sx, sy := opts.ScaleX, opts.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	op.GeoM.Scale(sx, sy)
	if opts.Rotation != 0 {
		op.GeoM.Rotate(opts.Rotation)
	}
	op.GeoM.Translate(opts.X+opts.PivotX, opts.Y+opts.PivotY)

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = 1
	}
	c := opts.Color
	if c == (Color{}) {
		c = ColorWhite
	}
	op.ColorScale.Scale(
		float32(c.R*c.A*alpha),
		float32(c.G*c.A*alpha),
		float32(c.B*c.A*alpha),
		float32(c.A*alpha),
	)
	op.Blend = opts.BlendMode.EbitenBlend()
}
