package engine

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// State is the engine's position in the swap/resolve cycle.
type State int32

const (
	StateIdle State = iota
	StateAwaitingSwap
	StateMatching
	StateResolving
	StateStabilizing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAwaitingSwap:
		return "AwaitingSwap"
	case StateMatching:
		return "Matching"
	case StateResolving:
		return "Resolving"
	case StateStabilizing:
		return "Stabilizing"
	default:
		return "Unknown"
	}
}

const (
	// DefaultMaxCascadeDepth caps the number of match rounds per swipe.
	DefaultMaxCascadeDepth = 32
	// DefaultSpawnRetries is how often a failed spawn is re-requested.
	DefaultSpawnRetries = 3
)

// ScoreListener receives the points of each resolved match round.
// Points are an increment, never a running total.
type ScoreListener interface {
	OnMatchResolved(points int)
}

// ScoreFunc adapts a function to ScoreListener.
type ScoreFunc func(points int)

// OnMatchResolved implements ScoreListener.
func (f ScoreFunc) OnMatchResolved(points int) { f(points) }

// Disposer is told about every tile removed from the board.
type Disposer interface {
	DestroyVisual(t *Tile)
}

// DisposeFunc adapts a function to Disposer.
type DisposeFunc func(t *Tile)

// DestroyVisual implements Disposer.
func (f DisposeFunc) DestroyVisual(t *Tile) { f(t) }

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	BasePoints      int
	MaxCascadeDepth int
	SpawnRetries    int // negative disables retries

	Types []TileType // palette for spawns
	Bias  Bias
	Rand  *rand.Rand

	// Picker overrides Bias for cascade refills.
	Picker TypePicker

	Spawner  Spawner
	Score    ScoreListener
	Disposer Disposer
	Logger   *log.Logger
}

// DefaultOptions returns options for a six-color board with immediate spawns.
func DefaultOptions() Options {
	return Options{
		BasePoints:      DefaultBasePoints,
		MaxCascadeDepth: DefaultMaxCascadeDepth,
		SpawnRetries:    DefaultSpawnRetries,
		Types:           Palette(6),
		Bias:            BiasUniform,
	}
}

// Round describes one Matching → Resolving → Stabilizing pass.
type Round struct {
	Depth   int   // 1 for the match caused by the swap itself
	Runs    []Run // runs found by the scan
	Matched []Coord
	Points  int

	Before  []TileType // board as scanned
	Cleared []TileType // after matched tiles were removed
	Moves   []Move     // compaction moves
	Spawns  []SpawnRequest
	Settled []TileType // after spawned tiles were committed
}

// Result is everything that happened during one swipe or resume.
type Result struct {
	From, To  Coord
	Swapped   []TileType // board right after the swap
	Rounds    []Round
	Points    int
	Truncated bool // the depth cap stopped the cascade with runs left
}

// Depth is the number of rounds resolved.
func (r Result) Depth() int {
	return len(r.Rounds)
}

// TilesCleared is the number of tiles removed over all rounds.
func (r Result) TilesCleared() int {
	n := 0
	for _, rd := range r.Rounds {
		n += len(rd.Matched)
	}
	return n
}

// Engine resolves swipes on a Board into matches, refills and cascades.
// It must be driven from a single goroutine; concurrent calls while a
// cascade runs are rejected with ErrBusy.
type Engine struct {
	board  *Board
	opts   Options
	picker TypePicker
	filler TypePicker
	log    *log.Logger

	state       atomic.Int32
	pending     []SpawnRequest
	resumeDepth int
}

// New creates an engine that owns board.
func New(board *Board, opts Options) *Engine {
	if opts.BasePoints <= 0 {
		opts.BasePoints = DefaultBasePoints
	}
	if opts.MaxCascadeDepth <= 0 {
		opts.MaxCascadeDepth = DefaultMaxCascadeDepth
	}
	if opts.SpawnRetries < 0 {
		opts.SpawnRetries = 0
	}
	if len(opts.Types) == 0 {
		opts.Types = Palette(6)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	if opts.Spawner == nil {
		opts.Spawner = NewImmediateSpawner(1)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	picker := opts.Picker
	if picker == nil {
		picker = NewPicker(opts.Bias, opts.Rand, opts.Types)
	}

	return &Engine{
		board:  board,
		opts:   opts,
		picker: picker,
		filler: NewAvoidPicker(opts.Rand, opts.Types),
		log:    logger,
	}
}

// Board returns the board the engine owns. Callers must not mutate it.
func (e *Engine) Board() *Board {
	return e.board
}

// State returns the current state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Pending returns the spawn slots still awaiting a tile.
func (e *Engine) Pending() []SpawnRequest {
	return append([]SpawnRequest(nil), e.pending...)
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

func (e *Engine) acquire() error {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateAwaitingSwap)) {
		return ErrBusy
	}
	return nil
}

func (e *Engine) release() {
	e.setState(StateIdle)
}

// SetPalette changes the types used for future spawns.
func (e *Engine) SetPalette(types []TileType) error {
	if len(types) == 0 {
		return fmt.Errorf("set palette: empty palette")
	}
	if err := e.acquire(); err != nil {
		return fmt.Errorf("set palette: %w", err)
	}
	defer e.release()

	e.opts.Types = append([]TileType(nil), types...)
	if e.opts.Picker == nil {
		e.picker = NewPicker(e.opts.Bias, e.opts.Rand, e.opts.Types)
	}
	e.filler = NewAvoidPicker(e.opts.Rand, e.opts.Types)
	return nil
}

// Palette returns the types currently used for spawns.
func (e *Engine) Palette() []TileType {
	return append([]TileType(nil), e.opts.Types...)
}

// Swipe swaps t with its neighbour in dir and resolves the cascade.
// A swap that produces no match still stands.
func (e *Engine) Swipe(ctx context.Context, t *Tile, dir Direction) (Result, error) {
	if t == nil {
		return Result{}, fmt.Errorf("swipe: no tile: %w", ErrInvalidSwapTarget)
	}
	if err := e.acquire(); err != nil {
		return Result{}, fmt.Errorf("swipe tile %d %s: %w", t.id, dir, err)
	}
	defer e.release()

	if e.board.At(t.pos) != t {
		e.log.Debug("swipe rejected", "tile", t.id, "dir", dir, "reason", "stale tile")
		return Result{}, fmt.Errorf("swipe tile %d: %w", t.id, ErrStaleTile)
	}
	return e.swipe(ctx, t.pos, dir)
}

// SwipeAt is Swipe addressed by cell.
func (e *Engine) SwipeAt(ctx context.Context, from Coord, dir Direction) (Result, error) {
	if err := e.acquire(); err != nil {
		return Result{}, fmt.Errorf("swipe %s %s: %w", from, dir, err)
	}
	defer e.release()

	if !e.board.InBounds(from) {
		e.log.Debug("swipe rejected", "from", from, "dir", dir, "reason", "source out of bounds")
		return Result{}, fmt.Errorf("swipe %s %s: %w", from, dir, ErrOutOfBounds)
	}
	if e.board.At(from) == nil {
		e.log.Debug("swipe rejected", "from", from, "dir", dir, "reason", "empty source")
		return Result{}, fmt.Errorf("swipe %s %s: empty source: %w", from, dir, ErrInvalidSwapTarget)
	}
	return e.swipe(ctx, from, dir)
}

func (e *Engine) swipe(ctx context.Context, from Coord, dir Direction) (Result, error) {
	if len(e.pending) > 0 {
		return Result{}, fmt.Errorf("swipe %s %s: %d slots pending: %w", from, dir, len(e.pending), ErrUnstable)
	}

	to := from.Step(dir)
	if !e.board.InBounds(to) {
		e.log.Debug("swipe rejected", "from", from, "dir", dir, "reason", "target out of bounds")
		return Result{}, fmt.Errorf("swipe %s %s: target %s: %w", from, dir, to, ErrOutOfBounds)
	}
	if e.board.At(to) == nil {
		e.log.Debug("swipe rejected", "from", from, "dir", dir, "reason", "empty target")
		return Result{}, fmt.Errorf("swipe %s %s: empty target %s: %w", from, dir, to, ErrInvalidSwapTarget)
	}

	if err := e.board.Swap(from, to); err != nil {
		return Result{}, fmt.Errorf("swipe: %w", err)
	}

	res := Result{From: from, To: to, Swapped: e.board.Types()}
	err := e.cascade(ctx, &res, 1)
	return res, err
}

// Resume retries pending spawn slots left by a failed or cancelled
// stabilization, then continues the interrupted cascade.
func (e *Engine) Resume(ctx context.Context) (Result, error) {
	if err := e.acquire(); err != nil {
		return Result{}, fmt.Errorf("resume: %w", err)
	}
	defer e.release()

	var res Result
	if len(e.pending) == 0 {
		return res, nil
	}

	e.setState(StateStabilizing)
	if err := e.spawnAll(ctx, e.pending); err != nil {
		return res, fmt.Errorf("resume: %w", err)
	}
	e.verify()

	depth := e.resumeDepth
	if depth < 1 {
		depth = 1
	}
	err := e.cascade(ctx, &res, depth)
	return res, err
}

// Fill spawns a tile into every empty cell without forming runs.
// It does not resolve matches.
func (e *Engine) Fill(ctx context.Context) error {
	if err := e.acquire(); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	defer e.release()

	if len(e.pending) > 0 {
		return fmt.Errorf("fill: %w", ErrUnstable)
	}
	return e.fillEmpty(ctx)
}

// Reshuffle removes every tile and fills the board again.
func (e *Engine) Reshuffle(ctx context.Context) error {
	if err := e.acquire(); err != nil {
		return fmt.Errorf("reshuffle: %w", err)
	}
	defer e.release()

	if len(e.pending) > 0 {
		return fmt.Errorf("reshuffle: %w", ErrUnstable)
	}

	all := make([]Coord, 0, e.board.w*e.board.h)
	for y := 0; y < e.board.h; y++ {
		for x := 0; x < e.board.w; x++ {
			all = append(all, C(x, y))
		}
	}
	for _, t := range e.board.Clear(all) {
		e.dispose(t)
	}
	return e.fillEmpty(ctx)
}

func (e *Engine) fillEmpty(ctx context.Context) error {
	e.setState(StateStabilizing)

	var reqs []SpawnRequest
	for y := 0; y < e.board.h; y++ {
		for x := 0; x < e.board.w; x++ {
			c := C(x, y)
			if e.board.At(c) != nil || e.board.Reserved(c) != TypeNone {
				continue
			}
			t := e.filler.Pick(e.board, c)
			_ = e.board.Reserve(c, t)
			reqs = append(reqs, SpawnRequest{Coord: c, Type: t})
		}
	}

	e.resumeDepth = 1
	if err := e.spawnAll(ctx, reqs); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	e.verify()
	return nil
}

// cascade scans and resolves rounds starting at depth until a scan finds
// nothing or the depth cap is reached.
func (e *Engine) cascade(ctx context.Context, res *Result, depth int) error {
	for ; ; depth++ {
		e.setState(StateMatching)
		runs := Runs(e.board)
		if len(runs) == 0 {
			return nil
		}
		if depth > e.opts.MaxCascadeDepth {
			res.Truncated = true
			e.log.Warn("cascade truncated", "limit", e.opts.MaxCascadeDepth, "runs_left", len(runs))
			return nil
		}

		matches := matchSetOf(runs)
		e.setState(StateResolving)
		round := e.resolve(depth, runs, matches)

		e.setState(StateStabilizing)
		err := e.stabilize(ctx, &round, matches.Columns())
		res.Rounds = append(res.Rounds, round)
		res.Points += round.Points
		if err != nil {
			e.resumeDepth = depth + 1
			return err
		}
		e.verify()
	}
}

func (e *Engine) resolve(depth int, runs []Run, matches MatchSet) Round {
	coords := matches.Coords()
	round := Round{
		Depth:   depth,
		Runs:    runs,
		Matched: coords,
		Points:  matches.Points(e.opts.BasePoints),
		Before:  e.board.Types(),
	}

	if e.opts.Score != nil {
		e.opts.Score.OnMatchResolved(round.Points)
	}
	for _, t := range e.board.Clear(coords) {
		e.dispose(t)
	}
	round.Cleared = e.board.Types()
	return round
}

func (e *Engine) stabilize(ctx context.Context, round *Round, cols []int) error {
	for _, x := range cols {
		round.Moves = append(round.Moves, Compact(e.board, x)...)
	}

	var reqs []SpawnRequest
	for _, x := range cols {
		for _, c := range SpawnSlots(e.board, x) {
			t := e.picker.Pick(e.board, c)
			_ = e.board.Reserve(c, t)
			reqs = append(reqs, SpawnRequest{Coord: c, Type: t})
		}
	}
	round.Spawns = reqs

	err := e.spawnAll(ctx, reqs)
	round.Settled = e.board.Types()
	return err
}

// spawnAll issues every request, then waits for all of them in order
// before returning. Tiles are committed on the calling goroutine.
// Slots that could not be filled stay reserved and become pending.
func (e *Engine) spawnAll(ctx context.Context, reqs []SpawnRequest) error {
	reqs = append([]SpawnRequest(nil), reqs...)
	futures := make([]<-chan SpawnResult, len(reqs))
	for i, r := range reqs {
		futures[i] = e.opts.Spawner.RequestSpawn(ctx, r)
	}

	var failed []SpawnRequest
	var lastErr error
	for i, req := range reqs {
		tile, err := e.await(ctx, req, futures[i])
		if err != nil && ctx.Err() != nil {
			e.pending = append(failed, reqs[i:]...)
			e.log.Warn("spawn wait cancelled", "pending", len(e.pending))
			return fmt.Errorf("awaiting spawns: %w: %w", ErrSpawnFailure, ctx.Err())
		}
		if err != nil {
			failed = append(failed, req)
			lastErr = err
			continue
		}
		e.board.Set(req.Coord.X, req.Coord.Y, tile)
	}

	e.pending = failed
	if len(failed) > 0 {
		e.log.Warn("spawn failed", "slots", len(failed), "of", len(reqs), "err", lastErr)
		return fmt.Errorf("%d of %d slots (%v): %w", len(failed), len(reqs), lastErr, ErrSpawnFailure)
	}
	return nil
}

// await receives one spawn result, re-requesting up to SpawnRetries times.
func (e *Engine) await(ctx context.Context, req SpawnRequest, future <-chan SpawnResult) (*Tile, error) {
	for attempt := 0; ; attempt++ {
		var res SpawnResult
		select {
		case res = <-future:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if res.Err == nil && res.Tile != nil && res.Tile.kind == req.Type {
			return res.Tile, nil
		}
		err := res.Err
		if err == nil {
			err = fmt.Errorf("spawner returned %v for %s", res.Tile, req.Type)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt >= e.opts.SpawnRetries {
			return nil, err
		}

		e.log.Warn("spawn retry", "at", req.Coord, "type", req.Type, "attempt", attempt+1, "err", err)
		future = e.opts.Spawner.RequestSpawn(ctx, req)
	}
}

func (e *Engine) dispose(t *Tile) {
	if e.opts.Disposer != nil {
		e.opts.Disposer.DestroyVisual(t)
	}
}

// verify panics when the board's position bookkeeping is broken; that can
// only happen through a bug in this package.
func (e *Engine) verify() {
	if err := e.board.Verify(); err != nil {
		panic(fmt.Sprintf("match3: board invariant violated: %v", err))
	}
}
