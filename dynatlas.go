package dynatlas

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	xdraw "golang.org/x/image/draw"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens when the color is written to the atlas.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// BlendMode selects a compositing operation for Texture.DrawWith.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// Canvas is anything a Texture can be drawn onto. *ebiten.Image satisfies it.
type Canvas interface {
	DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions)
}

// Atlas is a single growable page shared by every texture it hands out.
// It is not safe for concurrent use; call it from the game loop only.
type Atlas struct {
	cfg     Config
	alloc   *rectAllocator
	defrag  defragmenter
	slots   slotTable
	feather ease.TweenFunc
	debug   bool
	frame   uint64

	// placeholder is the shared 1×1 magenta texture returned for missing
	// sheet regions. Allocated on first use.
	placeholder Texture
}

// New creates an atlas. Zero Config fields take their defaults.
func New(cfg Config) *Atlas {
	cfg = cfg.withDefaults()
	a := &Atlas{
		cfg:     cfg,
		alloc:   newRectAllocator(cfg.InitialSize, cfg.MaxSize),
		feather: FeatherEases[cfg.FeatherEase],
		debug:   cfg.Debug,
	}
	a.defrag.now = time.Now
	return a
}

// Config returns the effective configuration.
func (a *Atlas) Config() Config { return a.cfg }

// SetDebugMode enables or disables debug mode. When enabled, out-of-bounds
// pixel access and use of released textures are logged with a stack trace,
// growth re-checks the partition invariant, and defragmentation stats are
// printed to stderr.
func (a *Atlas) SetDebugMode(enabled bool) {
	a.debug = enabled
}

// Size returns the current page dimensions.
func (a *Atlas) Size() (int, int) {
	return a.alloc.w, a.alloc.h
}

// Page returns the GPU page holding every texture, uploading pending pixel
// writes first. The image is replaced when the atlas grows, so do not keep
// it across allocations.
func (a *Atlas) Page() *ebiten.Image {
	return a.alloc.store.ebitenPage()
}

// Allocate reserves a w×h texture. The returned texture is cleared to
// transparent. The only error besides ErrInvalidSize is ErrAtlasExhausted.
func (a *Atlas) Allocate(w, h int) (Texture, error) {
	r, err := a.allocRect(w, h)
	if err != nil {
		return Texture{}, err
	}
	return Texture{atlas: a, id: a.slots.acquire(slotLive, r)}, nil
}

// AllocateImage allocates a texture the size of img and copies img into it.
func (a *Atlas) AllocateImage(img image.Image) (Texture, error) {
	b := img.Bounds()
	t, err := a.Allocate(b.Dx(), b.Dy())
	if err != nil {
		return Texture{}, err
	}
	t.WriteImage(img)
	return t, nil
}

// NewPending returns a texture with no space yet, for images that are still
// loading. Its Width and Height are -1 until Resolve is called.
func (a *Atlas) NewPending() Texture {
	return Texture{atlas: a, id: a.slots.acquire(slotPending, Rect{})}
}

// Release returns t's space to the atlas. Releasing a texture twice, or a
// texture from another atlas, does nothing.
func (a *Atlas) Release(t Texture) {
	if t.atlas != a {
		return
	}
	state, r := a.slots.retire(t.id)
	if state == slotLive {
		a.alloc.release(r)
	}
}

// Close releases every texture. Textures handed out earlier become stale.
func (a *Atlas) Close() {
	a.slots.each(func(id textureID, _ *slot) {
		a.slots.retire(id)
	})
	a.alloc.reset()
	a.alloc.store.clear(Rect{W: a.alloc.w, H: a.alloc.h})
	a.placeholder = Texture{}
}

// Dispose releases every texture and frees the GPU page. The atlas must not
// be used afterwards.
func (a *Atlas) Dispose() {
	a.Close()
	a.alloc.store.dispose()
}

// RunDefragmentation spends at most the configured budget coalescing free
// space. Call it exactly once per frame, from the game's Update.
func (a *Atlas) RunDefragmentation() DefragStats {
	var stats DefragStats
	a.alloc.free, stats = a.defrag.cleanup(a.alloc.free, a.cfg.DefragBudget)
	a.frame++
	a.debugLog(stats)
	return stats
}

// FreeRects returns a copy of the free list, in scan order.
func (a *Atlas) FreeRects() []Rect {
	return append([]Rect(nil), a.alloc.free...)
}

// CheckPartition verifies that free and used space tile the page exactly.
func (a *Atlas) CheckPartition() error {
	return a.alloc.checkPartition()
}

// Stats is a snapshot of atlas occupancy.
type Stats struct {
	Width, Height int
	FreeRects     int
	UsedRects     int
	FreeArea      int
	UsedArea      int
	Pending       int
	Growths       int
}

// Utilization returns the fraction of the page assigned to textures.
func (s Stats) Utilization() float64 {
	total := s.Width * s.Height
	if total == 0 {
		return 0
	}
	return float64(s.UsedArea) / float64(total)
}

// Stats returns current occupancy figures.
func (a *Atlas) Stats() Stats {
	return Stats{
		Width:     a.alloc.w,
		Height:    a.alloc.h,
		FreeRects: len(a.alloc.free),
		UsedRects: len(a.alloc.used),
		FreeArea:  a.alloc.freeArea(),
		UsedArea:  a.alloc.usedArea(),
		Pending:   a.slots.pending,
		Growths:   a.alloc.growths,
	}
}

func (a *Atlas) allocRect(w, h int) (Rect, error) {
	growths := a.alloc.growths
	r, err := a.alloc.requestSize(w, h)
	if err != nil {
		return Rect{}, err
	}
	if a.alloc.growths != growths {
		a.debugGrowth()
	}
	a.alloc.store.clear(r)
	return r, nil
}

// writeImage copies src into r, clipped to r.
func (a *Atlas) writeImage(r Rect, src image.Image) {
	st := a.alloc.store
	xdraw.Copy(st.region(r), image.Pt(r.X, r.Y), src, src.Bounds(), xdraw.Src, nil)
	st.dirty = true
}

func (a *Atlas) String() string {
	return fmt.Sprintf("Atlas(%dx%d, %d used, %d free)",
		a.alloc.w, a.alloc.h, len(a.alloc.used), len(a.alloc.free))
}
