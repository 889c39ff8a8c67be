package dynatlas

import "errors"

var (
	// ErrAtlasExhausted is returned when growing the atlas would exceed
	// Config.MaxSize. It is the only error that aborts an allocation.
	ErrAtlasExhausted = errors.New("dynatlas: atlas exhausted")

	// ErrInvalidSize is returned for non-positive allocation sizes.
	ErrInvalidSize = errors.New("dynatlas: invalid texture size")

	// ErrStaleTexture is returned when a derived-texture operation is invoked
	// on a released, pending or zero Texture.
	ErrStaleTexture = errors.New("dynatlas: stale texture")

	// ErrNotPending is returned by Resolve on a texture that already has space.
	ErrNotPending = errors.New("dynatlas: texture is not pending")
)
