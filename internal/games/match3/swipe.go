package match3

import (
	"math"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/engine"
)

// DetectSwipe turns a drag into a direction. dx grows to the right and dy
// grows upward, both measured in cells. Drags shorter than threshold are not
// swipes; otherwise the larger axis wins and a tie counts as vertical.
func DetectSwipe(dx, dy, threshold float64) (engine.Direction, bool) {
	mag := math.Hypot(dx, dy)
	if mag == 0 || mag < threshold {
		return engine.DirUp, false
	}

	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return engine.DirRight, true
		}
		return engine.DirLeft, true
	}
	if dy > 0 {
		return engine.DirUp, true
	}
	return engine.DirDown, true
}

// pointerPress remembers where a drag started.
type pointerPress struct {
	cell engine.Coord
	x, y int
}

// handlePointer turns press/release pairs into swipes or taps.
func (g *Game) handlePointer(ev core.PointerEvent) {
	switch ev.Kind {
	case core.PointerPress:
		if c, ok := g.cellAt(ev.X, ev.Y); ok {
			g.press = &pointerPress{cell: c, x: ev.X, y: ev.Y}
		} else {
			g.press = nil
		}

	case core.PointerRelease:
		p := g.press
		g.press = nil
		if p == nil {
			return
		}

		dx := float64(ev.X-p.x) / cellWidth
		dy := float64(p.y - ev.Y) // terminal rows grow downward
		if dir, ok := DetectSwipe(dx, dy, g.cfg.Input.SwipeThreshold); ok {
			g.selected = false
			g.cursor = p.cell
			g.trySwipe(p.cell, dir)
			return
		}
		g.tap(p.cell)
	}
}

// tap selects a cell, or swaps with the selection when it is a neighbour.
func (g *Game) tap(c engine.Coord) {
	if g.selected {
		if c == g.cursor {
			g.selected = false
			return
		}
		if dir, ok := adjacentDirection(g.cursor, c); ok {
			g.selected = false
			g.trySwipe(g.cursor, dir)
			return
		}
	}
	g.cursor = c
	g.selected = true
}

func adjacentDirection(from, to engine.Coord) (engine.Direction, bool) {
	for _, d := range engine.Directions {
		if from.Step(d) == to {
			return d, true
		}
	}
	return engine.DirUp, false
}
