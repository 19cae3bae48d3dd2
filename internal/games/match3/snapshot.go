package match3

import (
	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/engine"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateAnimating   GameStateType = "animating"
	StateRefilling   GameStateType = "refilling"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Mode     string // "classic" or "endless"
	Score    int
	Width    int
	Height   int
	Board    []engine.TileType // row-major, row 0 at the bottom
	Cursor   engine.Coord
	Selected bool
	Kinds    int // colors in play
	Stats    core.RunSummary
	State    GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.needsResume:
		state = StateRefilling
	case g.anim.active():
		state = StateAnimating
	}

	return Snapshot{
		Tick:     g.tick,
		Mode:     string(g.mode),
		Score:    g.score.Total(),
		Width:    g.board.Width(),
		Height:   g.board.Height(),
		Board:    g.board.Types(),
		Cursor:   g.cursor,
		Selected: g.selected,
		Kinds:    g.kinds,
		Stats:    g.stats,
		State:    state,
	}
}
