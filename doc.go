// Package dynatlas is a dynamic texture atlas for [Ebitengine] games.
//
// An [Atlas] is one growable page shared by every sprite, generated texture,
// glyph and render target in a game. It packs variably-sized sub-images into
// the page, grows the page when it runs out of room, reclaims space when a
// texture is released and defragments free space a little every frame.
//
// # Quick start
//
//	atlas := dynatlas.New(dynatlas.Config{})
//
//	spark, err := atlas.Allocate(16, 16)
//	if err != nil {
//		return err // dynatlas.ErrAtlasExhausted
//	}
//	spark.Fill(dynatlas.Color{R: 1, G: 0.8, B: 0.2, A: 1})
//	spark.MaskCircle(true, 3)
//
// In your game's Update, once per frame:
//
//	atlas.RunDefragmentation()
//
// and in Draw:
//
//	spark.Draw(screen, x, y)
//
// # Allocation
//
// Allocation is first-fit over the free list followed by a guillotine split
// of the chosen rectangle into at most two remainders, picking the squarer
// of the two possible cuts. When nothing fits, both page dimensions are
// doubled until the request fits beside and below the old content, which is
// copied unchanged. Growth fails with [ErrAtlasExhausted] only when it would
// pass [Config.MaxSize].
//
// # Ownership
//
// A [Texture] is a small value holding a slot id. [Texture.Release] (or
// [Atlas.Release]) frees its space; every copy of a released texture goes
// stale and further operations on it do nothing. Releasing twice is fine.
// Use a [Scope] to release a group of textures together, and
// [Atlas.NewPending] for images that are still loading.
//
// # Defragmentation
//
// Released space is returned unmerged. [Atlas.RunDefragmentation] resumes
// where the previous call stopped and joins free rectangles that share an
// edge. L-shaped pairs are re-cut when that makes them squarer. It stops
// when [Config.DefragBudget] is spent.
//
// # Debug mode
//
// [Atlas.SetDebugMode] logs out-of-range pixel access and use of released
// textures with a stack trace, and prints defragmentation stats to stderr.
// Outside debug mode those mistakes are silently ignored.
//
// [Ebitengine]: https://ebitengine.org
package dynatlas
