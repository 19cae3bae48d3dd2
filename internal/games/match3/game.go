// Package match3 is the playable match-3 game: it drives the cascade
// engine from platform input and renders the board with its animations.
package match3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/events"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/engine"
	"github.com/vovakirdan/match3-arcade/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic" // Game ends when no swap can match
	ModeEndless Mode = "endless" // Dead boards are reshuffled
)

// maxFillAttempts bounds the reshuffles spent looking for a playable board.
const maxFillAttempts = 20

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives engine diagnostics; silent unless SetLogger is called.
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger routes engine diagnostics to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements the match-3 game.
type Game struct {
	mode Mode
	cfg  config.Match3Config
	rng  *rand.Rand
	tick uint64
	log  *log.Logger

	board      *engine.Board
	engine     *engine.Engine
	bus        *events.Bus
	sub        *events.Subscription
	score      ScoreKeeper
	difficulty *config.DifficultyManager
	kinds      int

	cursor      engine.Coord
	selected    bool
	hint        *engine.Swap
	press       *pointerPress
	anim        animator
	stats       core.RunSummary
	needsResume bool

	// HUD feedback
	status      string
	statusTicks int
	popup       int // points shown next to the score
	popupTicks  int
	lastChain   int

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver bool
	paused   bool
	tooSmall bool
}

// New creates a new classic mode game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewEndless creates a new endless mode game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register("match3", func() registry.Game {
		return New()
	})
	registry.Register("match3_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "match3_endless"
	}
	return "match3"
}

// Description explains the mode in menus.
func (g *Game) Description() string {
	if g.mode == ModeEndless {
		return "Dead boards are reshuffled, play as long as you like"
	}
	return "The game ends when no swap can make a match"
}

// SetSessionLogger routes this game's engine diagnostics to l instead of
// the package logger. It takes effect on the next Reset.
func (g *Game) SetSessionLogger(l *log.Logger) {
	g.log = l
}

func (g *Game) logger() *log.Logger {
	if g.log != nil {
		return g.log
	}
	return logger
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Match-3 (Endless)"
	}
	return "Match-3"
}

// loadConfig resolves the config file and preset chosen on the CLI.
func loadConfig() config.Match3Config {
	cfg, err := config.LoadMatch3(configPath)
	if err != nil {
		logger.Warn("using default match3 config", "err", err)
		cfg = config.DefaultMatch3Config()
	}
	if difficultyPreset != "" {
		config.ApplyMatch3Preset(&cfg, difficultyPreset)
	}
	return cfg
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.ResetWithConfig(rc, loadConfig())
}

// ResetWithConfig restarts the game with an explicit match-3 config.
func (g *Game) ResetWithConfig(rc core.RuntimeConfig, cfg config.Match3Config) {
	if g.bus != nil {
		g.bus.Close()
	}

	g.cfg = cfg
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.tick = 0
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.gameOver = false
	g.paused = false
	g.selected = false
	g.hint = nil
	g.press = nil
	g.anim.clear()
	g.stats = core.RunSummary{}
	g.needsResume = false
	g.status = ""
	g.statusTicks = 0
	g.popup = 0
	g.popupTicks = 0
	g.lastChain = 0
	g.score.Reset()

	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.kinds = g.difficulty.Kinds(cfg.Tiles.Kinds, 0, 0)

	g.bus = events.NewBus()
	g.sub = g.bus.Subscribe(256)

	bias, err := engine.ParseBias(cfg.Cascade.SpawnBias)
	if err != nil {
		bias = engine.BiasUniform
	}

	g.board = engine.NewBoard(cfg.Board.Width, cfg.Board.Height)
	g.engine = engine.New(g.board, engine.Options{
		BasePoints:      cfg.Scoring.BasePoints,
		MaxCascadeDepth: cfg.Cascade.MaxDepth,
		SpawnRetries:    cfg.Spawn.Retries,
		Types:           engine.Palette(g.kinds),
		Bias:            bias,
		Rand:            rand.New(rand.NewSource(rc.Seed)),
		Spawner:         newSpawner(cfg.Spawn, rc.Seed),
		Score: engine.ScoreFunc(func(points int) {
			g.score.AddScore(points)
			g.bus.OnMatchResolved(points)
		}),
		Logger: g.logger(),
	})

	g.cursor = engine.C(g.board.Width()/2, g.board.Height()/2)
	g.fillPlayable()
	g.checkScreenSize()
}

// newSpawner picks the immediate spawner unless latency or failures are configured.
func newSpawner(cfg config.SpawnConfig, seed int64) engine.Spawner {
	if cfg.LatencyMS > 0 || cfg.FailureRate > 0 {
		return engine.NewAsyncSpawner(time.Duration(cfg.LatencyMS)*time.Millisecond, cfg.FailureRate, seed)
	}
	return engine.NewImmediateSpawner(1)
}

// fillPlayable fills the board and reshuffles until at least one swap can match.
func (g *Game) fillPlayable() {
	ctx := context.Background()
	if err := g.engine.Fill(ctx); err != nil {
		g.handleEngineError(err)
		return
	}
	for i := 0; i < maxFillAttempts && !engine.HasPossibleSwap(g.board); i++ {
		if err := g.engine.Reshuffle(ctx); err != nil {
			g.handleEngineError(err)
			return
		}
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	w, h := g.minScreenSize()
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Resize adapts to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return core.StepResult{State: g.State()}
	}

	g.drainEvents()
	if g.statusTicks > 0 {
		g.statusTicks--
		if g.statusTicks == 0 {
			g.status = ""
		}
	}

	// Finish showing the last cascade before accepting more input
	if g.anim.active() {
		g.anim.step()
		return core.StepResult{State: g.State()}
	}

	if g.needsResume {
		g.resume()
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)
	return core.StepResult{State: g.State()}
}

// handleInput applies one frame of keyboard and pointer input.
func (g *Game) handleInput(in core.InputFrame) {
	if in.Has(core.ActionBack) {
		g.selected = false
		g.hint = nil
	}
	if in.Has(core.ActionHint) {
		g.showHint()
	}

	for _, ev := range in.Pointer {
		g.handlePointer(ev)
	}

	if dir, ok := directionFromInput(in); ok {
		if g.selected {
			g.selected = false
			g.trySwipe(g.cursor, dir)
		} else {
			g.moveCursor(dir)
		}
	}

	if in.Has(core.ActionConfirm) {
		g.selected = !g.selected
	}
}

// directionFromInput maps arrow actions to a board direction.
// Screen up is board up because row 0 is drawn at the bottom.
func directionFromInput(in core.InputFrame) (engine.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return engine.DirUp, true
	case in.Has(core.ActionDown):
		return engine.DirDown, true
	case in.Has(core.ActionLeft):
		return engine.DirLeft, true
	case in.Has(core.ActionRight):
		return engine.DirRight, true
	}
	return engine.DirUp, false
}

func (g *Game) moveCursor(dir engine.Direction) {
	dx, dy := dir.Delta()
	g.cursor = engine.C(
		core.Clamp(g.cursor.X+dx, 0, g.board.Width()-1),
		core.Clamp(g.cursor.Y+dy, 0, g.board.Height()-1),
	)
}

// trySwipe hands a swipe to the engine and queues its animation.
func (g *Game) trySwipe(from engine.Coord, dir engine.Direction) {
	g.hint = nil
	res, err := g.engine.SwipeAt(context.Background(), from, dir)
	if err != nil && len(res.Rounds) == 0 {
		g.stats.Rejected++
		g.handleEngineError(err)
		return
	}

	g.stats.Swaps++
	g.cursor = res.To
	g.record(res)
	if err != nil {
		g.handleEngineError(err)
		return
	}
	g.afterCascade()
}

// resume retries spawns left pending by a failed refill.
func (g *Game) resume() {
	res, err := g.engine.Resume(context.Background())
	g.record(res)
	if err != nil {
		g.handleEngineError(err)
		return
	}
	g.needsResume = false
	g.afterCascade()
}

// record folds a cascade result into statistics, the HUD and the animation queue.
func (g *Game) record(res engine.Result) {
	foldResult(&g.stats, res)
	depth := res.Depth()
	if depth > 0 {
		g.lastChain = depth
	}

	g.anim.load(res, g.cfg.Animation, g.board.Width())
	publishResult(g.bus, res)
}

// afterCascade applies difficulty progression and handles dead boards.
func (g *Game) afterCascade() {
	if kinds := g.difficulty.Kinds(g.cfg.Tiles.Kinds, g.score.Total(), g.stats.Swaps); kinds != g.kinds {
		if err := g.engine.SetPalette(engine.Palette(kinds)); err == nil {
			g.kinds = kinds
			g.setStatus(fmt.Sprintf("%d colors in play", kinds))
		}
	}

	if engine.HasPossibleSwap(g.board) {
		return
	}
	if g.mode == ModeClassic {
		g.gameOver = true
		return
	}

	if err := g.engine.Reshuffle(context.Background()); err != nil {
		g.handleEngineError(err)
		return
	}
	for i := 0; i < maxFillAttempts && !engine.HasPossibleSwap(g.board); i++ {
		if err := g.engine.Reshuffle(context.Background()); err != nil {
			g.handleEngineError(err)
			return
		}
	}
	g.stats.Reshuffles++
	g.bus.Publish(events.BoardReshuffled{})
	g.setStatus("No moves left - board reshuffled")
}

// handleEngineError turns engine errors into HUD feedback.
func (g *Game) handleEngineError(err error) {
	switch {
	case errors.Is(err, engine.ErrOutOfBounds):
		g.setStatus("Can't swap off the board")
	case errors.Is(err, engine.ErrInvalidSwapTarget):
		g.setStatus("Nothing to swap with")
	case errors.Is(err, engine.ErrBusy):
		g.setStatus("Board is still settling")
	case errors.Is(err, engine.ErrSpawnFailure), errors.Is(err, engine.ErrUnstable):
		g.needsResume = true
		g.setStatus("Refilling...")
	default:
		g.logger().Error("unexpected engine error", "err", err)
		g.setStatus("Error: " + err.Error())
	}
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTicks = 120
}

// showHint highlights one productive swap, if any.
func (g *Game) showHint() {
	swaps := engine.PossibleSwaps(g.board)
	if len(swaps) == 0 {
		g.hint = nil
		return
	}
	s := swaps[g.rng.Intn(len(swaps))]
	g.hint = &s
}

// drainEvents consumes bus notifications for HUD effects.
func (g *Game) drainEvents() {
	if g.popupTicks > 0 {
		g.popupTicks--
		if g.popupTicks == 0 {
			g.popup = 0
		}
	}
	for _, evt := range g.sub.Drain() {
		if sc, ok := evt.(events.ScoreChanged); ok {
			g.popup += sc.Points
			g.popupTicks = 90
		}
	}
}

// Events returns a new subscription to this game's notifications.
// The subscription ends on the next Reset.
func (g *Game) Events(buffer int) *events.Subscription {
	return g.bus.Subscribe(buffer)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score.Total(),
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// RunSummary reports statistics for the current game.
func (g *Game) RunSummary() core.RunSummary {
	return g.stats
}

// Board exposes the live board for inspection; callers must not mutate it.
func (g *Game) Board() *engine.Board {
	return g.board
}
