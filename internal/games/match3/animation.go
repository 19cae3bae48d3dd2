package match3

import (
	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/engine"
)

// AnimationPhase represents what a frame is showing.
type AnimationPhase int

const (
	PhaseNone  AnimationPhase = iota
	PhaseSwap                 // tiles just exchanged
	PhaseFlash                // matched tiles blinking
	PhaseClear                // holes where matches were
	PhaseFall                 // columns compacted, before spawns
	PhaseSpawn                // new tiles in place
)

// frame is one still image of a cascade.
type frame struct {
	phase AnimationPhase
	types []engine.TileType // row-major, row 0 at the bottom
	flash map[engine.Coord]bool
	ticks int
}

// animator plays back the frames of a cascade result.
type animator struct {
	frames []frame
	idx    int
	left   int
}

// load queues the frames for res on a board width cells wide,
// replacing anything still playing.
func (a *animator) load(res engine.Result, cfg config.AnimationConfig, width int) {
	a.clear()

	if res.Swapped != nil {
		a.push(frame{phase: PhaseSwap, types: res.Swapped, ticks: cfg.SwapTicks})
	}
	for _, rd := range res.Rounds {
		flash := make(map[engine.Coord]bool, len(rd.Matched))
		for _, c := range rd.Matched {
			flash[c] = true
		}
		a.push(frame{phase: PhaseFlash, types: rd.Before, flash: flash, ticks: cfg.MatchTicks})
		a.push(frame{phase: PhaseClear, types: rd.Cleared, ticks: cfg.FallTicks / 2})
		if len(rd.Moves) > 0 {
			a.push(frame{phase: PhaseFall, types: applyMoves(rd.Cleared, rd.Moves, width), ticks: cfg.FallTicks})
		}
		if rd.Settled != nil {
			a.push(frame{phase: PhaseSpawn, types: rd.Settled, ticks: cfg.FallTicks})
		}
	}

	if len(a.frames) > 0 {
		a.left = a.frames[0].ticks
	}
}

func (a *animator) push(f frame) {
	if f.ticks <= 0 || f.types == nil {
		return
	}
	a.frames = append(a.frames, f)
}

// applyMoves replays compaction moves on a copy of a type snapshot.
func applyMoves(types []engine.TileType, moves []engine.Move, width int) []engine.TileType {
	out := append([]engine.TileType(nil), types...)
	if width <= 0 {
		return out
	}
	for _, m := range moves {
		from := m.From.Y*width + m.From.X
		to := m.To.Y*width + m.To.X
		if from < 0 || from >= len(out) || to < 0 || to >= len(out) {
			continue
		}
		out[to] = out[from]
		out[from] = engine.TypeNone
	}
	return out
}

// active reports whether frames remain.
func (a *animator) active() bool {
	return a.idx < len(a.frames)
}

// step advances one tick.
func (a *animator) step() {
	if !a.active() {
		return
	}
	a.left--
	if a.left <= 0 {
		a.idx++
		if a.active() {
			a.left = a.frames[a.idx].ticks
		}
	}
}

// current returns the frame on screen, if any.
func (a *animator) current() (frame, bool) {
	if !a.active() {
		return frame{}, false
	}
	return a.frames[a.idx], true
}

func (a *animator) clear() {
	a.frames = a.frames[:0]
	a.idx = 0
	a.left = 0
}
