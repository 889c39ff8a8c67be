package dynatlas

import "image"

// Scope owns a group of textures and releases them together, typically with
// defer or when the owning scene, emitter or UI panel is torn down.
//
//	s := atlas.NewScope()
//	defer s.Close()
//	glow, err := s.Allocate(32, 32)
type Scope struct {
	atlas  *Atlas
	owned  []Texture
	closed bool
}

// NewScope creates an empty scope on a.
func (a *Atlas) NewScope() *Scope {
	return &Scope{atlas: a}
}

// Allocate allocates a texture owned by the scope.
func (s *Scope) Allocate(w, h int) (Texture, error) {
	t, err := s.atlas.Allocate(w, h)
	if err != nil {
		return Texture{}, err
	}
	return s.Adopt(t), nil
}

// AllocateImage allocates a texture holding img, owned by the scope.
func (s *Scope) AllocateImage(img image.Image) (Texture, error) {
	t, err := s.atlas.AllocateImage(img)
	if err != nil {
		return Texture{}, err
	}
	return s.Adopt(t), nil
}

// Adopt transfers ownership of t to the scope and returns it. Adopting into
// a closed scope releases t immediately.
func (s *Scope) Adopt(t Texture) Texture {
	if s.closed {
		t.Release()
		return t
	}
	s.owned = append(s.owned, t)
	return t
}

// Len returns the number of textures still owned by the scope.
func (s *Scope) Len() int {
	n := 0
	for _, t := range s.owned {
		if t.Valid() {
			n++
		}
	}
	return n
}

// Close releases every owned texture. Textures released earlier by other
// means are skipped. Safe to call more than once.
func (s *Scope) Close() {
	for _, t := range s.owned {
		t.Release()
	}
	s.owned = nil
	s.closed = true
}
