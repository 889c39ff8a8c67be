package dynatlas

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// debugLog prints defragmentation stats to stderr for frames where the pass
// changed something.
func (a *Atlas) debugLog(stats DefragStats) {
	if !a.debug || !stats.Changed() {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[dynatlas] frame %d defrag: visited %d | merges %d | flips %d | swaps %d | %v\n",
		a.frame, stats.Visited, stats.Merges, stats.Flips, stats.Swaps, stats.Elapsed)
}

// debugGrowth reports a page growth and re-checks the partition invariant,
// panicking if it no longer holds.
func (a *Atlas) debugGrowth() {
	if !a.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[dynatlas] grew to %dx%d (%d free rects)\n",
		a.alloc.w, a.alloc.h, len(a.alloc.free))
	if err := a.alloc.checkPartition(); err != nil {
		panic(fmt.Sprintf("dynatlas debug: partition broken after growth: %v", err))
	}
}

// debugOutOfBounds logs a pixel access outside the texture with the caller's
// stack. Silent outside debug mode.
func (a *Atlas) debugOutOfBounds(op string, x, y int, r Rect) {
	if !a.debug {
		return
	}
	log.Printf("dynatlas: %s(%d, %d) outside %dx%d texture at (%d, %d)\n%s",
		op, x, y, r.W, r.H, r.X, r.Y, debug.Stack())
}

// debugStale logs use of a released texture with the caller's stack.
func (a *Atlas) debugStale(op string, id textureID) {
	if !a.debug {
		return
	}
	log.Printf("dynatlas: %s on released texture (slot %d, gen %d)\n%s",
		op, id.index, id.gen, debug.Stack())
}
