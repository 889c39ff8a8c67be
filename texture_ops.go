package dynatlas

import "math"

// Rotated returns a new texture holding t rotated by angle radians
// (clockwise on screen) about its center. The new texture is sized to the
// rotated bounding box, or to t's own size when keepSize is set, in which
// case the corners are clipped.
func (t Texture) Rotated(angle float64, keepSize bool) (Texture, error) {
	src, ok := t.live("Rotated")
	if !ok {
		return Texture{}, ErrStaleTexture
	}
	w, h := src.W, src.H
	if !keepSize {
		sin, cos := math.Abs(math.Sin(angle)), math.Abs(math.Cos(angle))
		fw, fh := float64(src.W), float64(src.H)
		// The epsilon keeps quarter turns from rounding up by a pixel.
		w = max(int(math.Ceil(fw*cos+fh*sin-1e-6)), 1)
		h = max(int(math.Ceil(fw*sin+fh*cos-1e-6)), 1)
	}
	out, err := t.atlas.Allocate(w, h)
	if err != nil {
		return Texture{}, err
	}
	dst, _ := out.live("Rotated")
	t.atlas.alloc.store.rotate(src, dst, angle, t.atlas.cfg.BoundMargin, t.atlas.cfg.SmoothRotate)
	return out, nil
}

// MaskCircle clears every pixel outside the ellipse inscribed in the texture.
// With antialias, pixels within feather pixels of the edge fade out along the
// configured easing curve instead of being cut hard. Returns t for chaining.
func (t Texture) MaskCircle(antialias bool, feather float64) Texture {
	r, ok := t.live("MaskCircle")
	if !ok {
		return t
	}
	rx, ry := float64(r.W)/2, float64(r.H)/2
	var band float64
	if antialias && feather > 0 {
		band = min(feather/min(rx, ry), 1)
	}
	inner := 1 - band
	st := t.atlas.alloc.store

	for y := range r.H {
		ny := (float64(y) + 0.5 - ry) / ry
		for x := range r.W {
			nx := (float64(x) + 0.5 - rx) / rx
			d2 := nx*nx + ny*ny
			if d2 > 1 {
				st.scale(r.X+x, r.Y+y, 0)
				continue
			}
			if band == 0 {
				continue
			}
			d := math.Sqrt(d2)
			if d <= inner {
				continue
			}
			p := float32((d - inner) / band)
			st.scale(r.X+x, r.Y+y, 1-clamp01(float64(t.atlas.feather(p, 0, 1, 1))))
		}
	}
	return t
}
