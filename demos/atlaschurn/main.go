// atlaschurn allocates and releases hundreds of generated textures every
// second to stress the dynamic atlas: noise tiles, feathered orbs, and
// rotated copies of both. Each frame runs one defragmentation slice and the
// raw atlas page is shown on the right with live statistics.
//
// Pass -config to load atlas settings from a TOML file.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/dynatlas"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	windowTitle = "dynatlas — Churn Demo"
	screenW     = 1280
	screenH     = 720

	spawnPerFrame = 6
	maxLive       = 400
	lifeFrames    = 180
	previewSize   = 512.0
)

type sprite struct {
	tex      dynatlas.Texture
	x, y     float64
	dx, dy   float64
	age      int
	fade     *gween.Tween
	alpha    float64
	rotation float64
	spin     float64
}

type game struct {
	atlas   *dynatlas.Atlas
	rng     *rand.Rand
	sprites []*sprite
	burst   *dynatlas.Scope
	frame   int
	last    dynatlas.DefragStats
	failed  int
}

func newGame(cfg dynatlas.Config) *game {
	return &game{
		atlas: dynatlas.New(cfg),
		rng:   rand.New(rand.NewPCG(7, 11)),
	}
}

// spawnNoise fills a random-sized tile with colored noise.
func (g *game) spawnNoise() (dynatlas.Texture, error) {
	w, h := 4+g.rng.IntN(44), 4+g.rng.IntN(44)
	tex, err := g.atlas.Allocate(w, h)
	if err != nil {
		return dynatlas.Texture{}, err
	}
	base := color.RGBA{
		R: uint8(80 + g.rng.IntN(176)),
		G: uint8(80 + g.rng.IntN(176)),
		B: uint8(80 + g.rng.IntN(176)),
		A: 255,
	}
	for y := range h {
		for x := range w {
			k := 0.6 + 0.4*g.rng.Float64()
			tex.SetPixel(x, y, color.RGBA{
				R: uint8(float64(base.R) * k),
				G: uint8(float64(base.G) * k),
				B: uint8(float64(base.B) * k),
				A: 255,
			})
		}
	}
	return tex, nil
}

// spawnOrb makes a square tile with a feathered circular mask.
func (g *game) spawnOrb() (dynatlas.Texture, error) {
	s := 8 + g.rng.IntN(56)
	tex, err := g.atlas.Allocate(s, s)
	if err != nil {
		return dynatlas.Texture{}, err
	}
	tex.Fill(dynatlas.Color{R: g.rng.Float64(), G: g.rng.Float64(), B: 1, A: 1})
	return tex.MaskCircle(true, float64(s)/4), nil
}

func (g *game) spawn() {
	var (
		tex dynatlas.Texture
		err error
	)
	if g.rng.IntN(2) == 0 {
		tex, err = g.spawnNoise()
	} else {
		tex, err = g.spawnOrb()
	}
	if err != nil {
		g.failed++
		return
	}

	// Occasionally bake a rotated copy and drop the source.
	if g.rng.IntN(5) == 0 {
		rot, err := tex.Rotated(g.rng.Float64()*math.Pi, false)
		tex.Release()
		if err != nil {
			g.failed++
			return
		}
		tex = rot
	}

	sp := &sprite{
		tex:   tex,
		x:     g.rng.Float64() * (screenW - previewSize - 64),
		y:     g.rng.Float64() * (screenH - 64),
		dx:    (g.rng.Float64() - 0.5) * 2,
		dy:    (g.rng.Float64() - 0.5) * 2,
		spin:  (g.rng.Float64() - 0.5) * 0.05,
		alpha: 1,
	}
	sp.fade = gween.New(1, 0, float32(lifeFrames)/60, ease.InQuad)
	g.sprites = append(g.sprites, sp)
}

// spawnBurst fills a scope with short-lived sparks that all vanish together.
func (g *game) spawnBurst() {
	if g.burst != nil {
		g.burst.Close()
	}
	g.burst = g.atlas.NewScope()
	for range 24 {
		tex, err := g.burst.Allocate(3+g.rng.IntN(6), 3+g.rng.IntN(6))
		if err != nil {
			g.failed++
			return
		}
		tex.Fill(dynatlas.Color{R: 1, G: 0.8, B: 0.2, A: 1})
	}
}

func (g *game) Update() error {
	g.frame++

	for range spawnPerFrame {
		if len(g.sprites) < maxLive {
			g.spawn()
		}
	}
	if g.frame%90 == 0 {
		g.spawnBurst()
	}

	kept := g.sprites[:0]
	for _, sp := range g.sprites {
		sp.age++
		a, done := sp.fade.Update(1.0 / 60)
		sp.alpha = float64(a)
		sp.x += sp.dx
		sp.y += sp.dy
		sp.rotation += sp.spin
		if done || sp.age > lifeFrames {
			sp.tex.Release()
			continue
		}
		kept = append(kept, sp)
	}
	clear(g.sprites[len(kept):])
	g.sprites = kept

	g.last = g.atlas.RunDefragmentation()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 15, G: 15, B: 23, A: 255})

	for _, sp := range g.sprites {
		w, h := sp.tex.Size()
		sp.tex.DrawWith(screen, dynatlas.DrawOpts{
			X:        sp.x + float64(w)/2,
			Y:        sp.y + float64(h)/2,
			PivotX:   float64(w) / 2,
			PivotY:   float64(h) / 2,
			Rotation: sp.rotation,
			Alpha:    sp.alpha,
		})
	}

	// Raw page preview, scaled to fit.
	page := g.atlas.Page()
	pw, ph := g.atlas.Size()
	k := previewSize / float64(max(pw, ph))
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(screenW-previewSize-16, 16)
	screen.DrawImage(page, &op)

	st := g.atlas.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS %.0f  FPS %.0f\npage %dx%d  growths %d\nused %d (%.1f%%)  free rects %d\ndefrag visited %d merges %d flips %d swaps %d\nfailed allocations %d",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		st.Width, st.Height, st.Growths,
		st.UsedRects, st.Utilization()*100, st.FreeRects,
		g.last.Visited, g.last.Merges, g.last.Flips, g.last.Swaps,
		g.failed,
	))
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func main() {
	configPath := flag.String("config", "", "path to a TOML atlas config")
	debug := flag.Bool("debug", false, "enable atlas debug mode")
	flag.Parse()

	cfg := dynatlas.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = dynatlas.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	cfg.Debug = cfg.Debug || *debug

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(newGame(cfg)); err != nil {
		log.Fatal(err)
	}
}
