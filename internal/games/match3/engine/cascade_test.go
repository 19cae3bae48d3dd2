package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// patternBoard fills a board with (x + 2y) mod 4 over four colors, which
// has no runs in any row or column and contains no red.
func patternBoard(w, h int) *Board {
	types := []TileType{TypeGreen, TypeBlue, TypeYellow, TypePurple}
	b := NewBoard(w, h)
	var id uint64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id++
			b.Set(x, y, NewTile(id, types[(x+2*y)%4]))
		}
	}
	return b
}

// fourInRowBoard is an 8x8 board where swiping (2,2) up completes a red
// run of four across row 3.
func fourInRowBoard() *Board {
	b := patternBoard(8, 8)
	for i, c := range []Coord{C(0, 3), C(1, 3), C(3, 3), C(2, 2)} {
		b.Set(c.X, c.Y, NewTile(uint64(1000+i), TypeRed))
	}
	return b
}

func avoidOptions(seed int64) Options {
	opts := DefaultOptions()
	opts.Picker = NewAvoidPicker(rand.New(rand.NewSource(seed)), Palette(5))
	opts.Spawner = NewImmediateSpawner(5000)
	return opts
}

type constPicker TileType

func (p constPicker) Pick(*Board, Coord) TileType { return TileType(p) }

// gateSpawner holds every spawn until release is closed.
type gateSpawner struct {
	requested chan struct{}
	release   chan struct{}
	next      atomic.Uint64
}

func newGateSpawner() *gateSpawner {
	return &gateSpawner{requested: make(chan struct{}, 1), release: make(chan struct{})}
}

func (s *gateSpawner) RequestSpawn(ctx context.Context, req SpawnRequest) <-chan SpawnResult {
	ch := make(chan SpawnResult, 1)
	select {
	case s.requested <- struct{}{}:
	default:
	}
	go func() {
		select {
		case <-s.release:
			ch <- SpawnResult{Tile: NewTile(9000+s.next.Add(1), req.Type)}
		case <-ctx.Done():
			ch <- SpawnResult{Err: ctx.Err()}
		}
	}()
	return ch
}

// flakySpawner fails its first failures requests.
type flakySpawner struct {
	failures int64
	calls    atomic.Int64
	next     atomic.Uint64
}

func (s *flakySpawner) RequestSpawn(_ context.Context, req SpawnRequest) <-chan SpawnResult {
	ch := make(chan SpawnResult, 1)
	if s.calls.Add(1) <= s.failures {
		ch <- SpawnResult{Err: ErrAssetUnavailable}
		return ch
	}
	ch <- SpawnResult{Tile: NewTile(7000+s.next.Add(1), req.Type)}
	return ch
}

func TestSwipeRunOfFour(t *testing.T) {
	b := fourInRowBoard()
	if runs := Runs(b); len(runs) != 0 {
		t.Fatalf("fixture has runs: %v", runs)
	}

	var scored []int
	opts := avoidOptions(1)
	opts.Score = ScoreFunc(func(p int) { scored = append(scored, p) })
	e := New(b, opts)

	res, err := e.SwipeAt(context.Background(), C(2, 2), DirUp)
	if err != nil {
		t.Fatalf("SwipeAt() error = %v", err)
	}
	if res.Points != 400 {
		t.Errorf("Points = %d, want 400", res.Points)
	}
	if res.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", res.Depth())
	}
	wantMatched := []Coord{C(0, 3), C(1, 3), C(2, 3), C(3, 3)}
	if !reflect.DeepEqual(res.Rounds[0].Matched, wantMatched) {
		t.Errorf("Matched = %v, want %v", res.Rounds[0].Matched, wantMatched)
	}
	if len(scored) != 1 || scored[0] != 400 {
		t.Errorf("OnMatchResolved calls = %v, want [400]", scored)
	}
	if got := len(res.Rounds[0].Spawns); got != 4 {
		t.Errorf("spawns = %d, want 4", got)
	}
	if !b.Full() {
		t.Error("board should be full after the cascade")
	}
	if FindMatches(b).Len() != 0 {
		t.Error("board should be stable after the cascade")
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %s, want Idle", e.State())
	}
	if err := b.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestSwipeOutOfBounds(t *testing.T) {
	b := fourInRowBoard()
	before := b.String()

	called := false
	opts := avoidOptions(1)
	opts.Score = ScoreFunc(func(int) { called = true })
	e := New(b, opts)

	_, err := e.SwipeAt(context.Background(), C(0, 4), DirLeft)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("SwipeAt() error = %v, want ErrOutOfBounds", err)
	}
	if b.String() != before {
		t.Error("rejected swipe must not change the board")
	}
	if called {
		t.Error("rejected swipe must not score")
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %s, want Idle", e.State())
	}

	if _, err := e.SwipeAt(context.Background(), C(8, 0), DirLeft); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SwipeAt() from outside error = %v, want ErrOutOfBounds", err)
	}
}

func TestSwipeWithoutMatchStands(t *testing.T) {
	b := patternBoard(8, 8)
	a, c := b.At(C(0, 0)), b.At(C(1, 0))
	e := New(b, avoidOptions(1))

	res, err := e.Swipe(context.Background(), a, DirRight)
	if err != nil {
		t.Fatalf("Swipe() error = %v", err)
	}
	if res.Points != 0 || res.Depth() != 0 {
		t.Errorf("Result = %d points, depth %d, want 0, 0", res.Points, res.Depth())
	}
	if b.At(C(1, 0)) != a || b.At(C(0, 0)) != c {
		t.Error("a swap without a match should stay in place")
	}
	if a.Position() != C(1, 0) || c.Position() != C(0, 0) {
		t.Errorf("positions = %s, %s, want (1,0), (0,0)", a.Position(), c.Position())
	}
}

func TestSwipeInvalidTargets(t *testing.T) {
	b := MustParseBoard(
		"RG.",
		"BYC",
	)
	e := New(b, DefaultOptions())
	ctx := context.Background()

	if _, err := e.SwipeAt(ctx, C(1, 1), DirRight); !errors.Is(err, ErrInvalidSwapTarget) {
		t.Errorf("swipe into empty cell error = %v, want ErrInvalidSwapTarget", err)
	}
	if _, err := e.SwipeAt(ctx, C(2, 1), DirDown); !errors.Is(err, ErrInvalidSwapTarget) {
		t.Errorf("swipe from empty cell error = %v, want ErrInvalidSwapTarget", err)
	}
	if _, err := e.Swipe(ctx, nil, DirUp); !errors.Is(err, ErrInvalidSwapTarget) {
		t.Errorf("swipe nil tile error = %v, want ErrInvalidSwapTarget", err)
	}
	if _, err := e.Swipe(ctx, NewTile(77, TypeRed), DirUp); !errors.Is(err, ErrStaleTile) {
		t.Errorf("swipe detached tile error = %v, want ErrStaleTile", err)
	}
	if b.String() != "RG.\nBYC" {
		t.Errorf("board changed to %q", b.String())
	}
}

func TestDisposerCalledPerTile(t *testing.T) {
	b := fourInRowBoard()
	seen := make(map[uint64]int)
	opts := avoidOptions(2)
	opts.Disposer = DisposeFunc(func(tile *Tile) { seen[tile.ID()]++ })
	e := New(b, opts)

	res, err := e.SwipeAt(context.Background(), C(2, 2), DirUp)
	if err != nil {
		t.Fatalf("SwipeAt() error = %v", err)
	}
	if len(seen) != res.TilesCleared() {
		t.Errorf("DestroyVisual saw %d tiles, want %d", len(seen), res.TilesCleared())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("DestroyVisual called %d times for tile %d", n, id)
		}
	}
}

func TestCascadeDepthCap(t *testing.T) {
	tests := []struct {
		name     string
		maxDepth int
	}{
		{"default cap", 0},
		{"single round", 1},
		{"five rounds", 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.MaxCascadeDepth = tc.maxDepth
			// Every refill lands four reds on the top row, so the cascade never ends.
			opts.Picker = constPicker(TypeRed)
			e := New(fourInRowBoard(), opts)

			res, err := e.SwipeAt(context.Background(), C(2, 2), DirUp)
			if err != nil {
				t.Fatalf("SwipeAt() error = %v", err)
			}

			want := tc.maxDepth
			if want == 0 {
				want = DefaultMaxCascadeDepth
			}
			if res.Depth() != want {
				t.Errorf("Depth() = %d, want %d", res.Depth(), want)
			}
			if !res.Truncated {
				t.Error("Truncated = false, want true")
			}
			if res.Points != want*400 {
				t.Errorf("Points = %d, want %d", res.Points, want*400)
			}
			if e.State() != StateIdle {
				t.Errorf("State() = %s, want Idle", e.State())
			}
		})
	}
}

func TestSwipeWhileBusy(t *testing.T) {
	spawner := newGateSpawner()

	opts := avoidOptions(1)
	opts.Spawner = spawner
	e := New(fourInRowBoard(), opts)
	held := e.Board().At(C(5, 5))

	done := make(chan error, 1)
	go func() {
		_, err := e.SwipeAt(context.Background(), C(2, 2), DirUp)
		done <- err
	}()

	select {
	case <-spawner.requested:
	case <-time.After(2 * time.Second):
		t.Fatal("cascade never requested a spawn")
	}

	if e.State() != StateStabilizing {
		t.Errorf("State() = %s, want Stabilizing", e.State())
	}
	if _, err := e.SwipeAt(context.Background(), C(5, 5), DirLeft); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent SwipeAt() error = %v, want ErrBusy", err)
	}
	_, err := e.Swipe(context.Background(), held, DirLeft)
	if !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Swipe() error = %v, want ErrBusy", err)
	} else if want := fmt.Sprintf("tile %d", held.ID()); !strings.Contains(err.Error(), want) {
		t.Errorf("Swipe() error = %q, want it to name %q", err, want)
	}

	close(spawner.release)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("first SwipeAt() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cascade did not finish after spawns were released")
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %s, want Idle", e.State())
	}
}

func TestSpawnRetry(t *testing.T) {
	opts := avoidOptions(1)
	opts.Spawner = &flakySpawner{failures: 2}
	b := fourInRowBoard()
	e := New(b, opts)

	res, err := e.SwipeAt(context.Background(), C(2, 2), DirUp)
	if err != nil {
		t.Fatalf("SwipeAt() error = %v, want retries to recover", err)
	}
	if res.Points != 400 {
		t.Errorf("Points = %d, want 400", res.Points)
	}
	if !b.Full() {
		t.Error("board should be full after retried spawns")
	}
}

func TestSpawnFailureAndResume(t *testing.T) {
	opts := avoidOptions(1)
	opts.SpawnRetries = -1
	opts.Spawner = &flakySpawner{failures: 4}
	b := fourInRowBoard()
	e := New(b, opts)
	ctx := context.Background()

	res, err := e.SwipeAt(ctx, C(2, 2), DirUp)
	if !errors.Is(err, ErrSpawnFailure) {
		t.Fatalf("SwipeAt() error = %v, want ErrSpawnFailure", err)
	}
	if res.Points != 400 {
		t.Errorf("Points = %d, want 400 for the round that resolved", res.Points)
	}
	if e.State() != StateIdle {
		t.Errorf("State() = %s, want Idle", e.State())
	}
	if got := len(e.Pending()); got != 4 {
		t.Fatalf("Pending() = %d slots, want 4", got)
	}
	for _, p := range e.Pending() {
		if b.Reserved(p.Coord) != p.Type {
			t.Errorf("slot %s reserved as %v, want %v", p.Coord, b.Reserved(p.Coord), p.Type)
		}
	}

	if _, err := e.SwipeAt(ctx, C(5, 5), DirLeft); !errors.Is(err, ErrUnstable) {
		t.Errorf("SwipeAt() with pending spawns error = %v, want ErrUnstable", err)
	}
	if err := e.Fill(ctx); !errors.Is(err, ErrUnstable) {
		t.Errorf("Fill() with pending spawns error = %v, want ErrUnstable", err)
	}

	if _, err := e.Resume(ctx); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if len(e.Pending()) != 0 {
		t.Errorf("Pending() after Resume = %v, want none", e.Pending())
	}
	if !b.Full() {
		t.Error("board should be full after Resume")
	}
	if len(b.ReservedCoords()) != 0 {
		t.Errorf("ReservedCoords() = %v, want none", b.ReservedCoords())
	}

	// Nothing left to do
	res, err = e.Resume(ctx)
	if err != nil || res.Depth() != 0 {
		t.Errorf("idle Resume() = depth %d, %v", res.Depth(), err)
	}
}

func TestSpawnWaitCancelled(t *testing.T) {
	spawner := newGateSpawner()
	defer close(spawner.release)

	opts := avoidOptions(1)
	opts.Spawner = spawner
	b := fourInRowBoard()
	e := New(b, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := e.SwipeAt(ctx, C(2, 2), DirUp)
		done <- err
	}()

	<-spawner.requested
	cancel()

	var err error
	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SwipeAt() did not return after cancel")
	}
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrSpawnFailure) {
		t.Errorf("SwipeAt() error = %v, want context.Canceled and ErrSpawnFailure", err)
	}
	if got := len(e.Pending()); got != 4 {
		t.Errorf("Pending() = %d slots, want 4", got)
	}
	if got := len(b.ReservedCoords()); got != 4 {
		t.Errorf("ReservedCoords() = %d, want 4", got)
	}
}

func TestFillProducesStableBoard(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		b := NewBoard(8, 8)
		opts := DefaultOptions()
		opts.Rand = rand.New(rand.NewSource(seed))
		opts.Types = Palette(3)
		e := New(b, opts)

		if err := e.Fill(context.Background()); err != nil {
			t.Fatalf("seed %d: Fill() error = %v", seed, err)
		}
		if !b.Full() {
			t.Errorf("seed %d: board not full", seed)
		}
		if runs := Runs(b); len(runs) != 0 {
			t.Errorf("seed %d: Fill() left runs %v", seed, runs)
		}
	}
}

func TestReshuffle(t *testing.T) {
	b := patternBoard(6, 6)
	disposed := 0
	opts := DefaultOptions()
	opts.Disposer = DisposeFunc(func(*Tile) { disposed++ })
	e := New(b, opts)

	if err := e.Reshuffle(context.Background()); err != nil {
		t.Fatalf("Reshuffle() error = %v", err)
	}
	if disposed != 36 {
		t.Errorf("disposed %d tiles, want 36", disposed)
	}
	if !b.Full() || len(Runs(b)) != 0 {
		t.Errorf("board after Reshuffle:\n%s", b)
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewSource(seed))
		opts := DefaultOptions()
		opts.Rand = rand.New(rand.NewSource(seed))
		opts.Bias = BiasUniform
		b := NewBoard(7, 9)
		e := New(b, opts)
		ctx := context.Background()

		if err := e.Fill(ctx); err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		total := 0
		for i := 0; i < 200; i++ {
			from := C(rng.Intn(b.Width()), rng.Intn(b.Height()))
			dir := Directions[rng.Intn(len(Directions))]
			res, err := e.SwipeAt(ctx, from, dir)
			if err != nil && !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("seed %d swipe %d: unexpected error %v", seed, i, err)
			}
			total += res.Points
			if res.Points%DefaultBasePoints != 0 {
				t.Errorf("Points = %d, not a multiple of %d", res.Points, DefaultBasePoints)
			}
			if !b.Full() {
				t.Fatalf("seed %d swipe %d: board has holes", seed, i)
			}
			if !res.Truncated && len(Runs(b)) != 0 {
				t.Fatalf("seed %d swipe %d: cascade ended with runs on the board", seed, i)
			}
			if err := b.Verify(); err != nil {
				t.Fatalf("seed %d swipe %d: Verify() = %v", seed, i, err)
			}
		}
		if total == 0 {
			t.Errorf("seed %d: 200 random swipes scored nothing", seed)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "Idle"},
		{StateAwaitingSwap, "AwaitingSwap"},
		{StateMatching, "Matching"},
		{StateResolving, "Resolving"},
		{StateStabilizing, "Stabilizing"},
		{State(99), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.s.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.s, got, tc.want)
		}
	}
}

func TestSetPalette(t *testing.T) {
	b := NewBoard(5, 5)
	opts := DefaultOptions()
	opts.Types = []TileType{TypeRed, TypeGreen, TypeBlue}
	e := New(b, opts)

	if err := e.SetPalette(nil); err == nil {
		t.Error("SetPalette(nil) should fail")
	}
	if err := e.SetPalette([]TileType{TypeYellow, TypePurple, TypeOrange}); err != nil {
		t.Fatalf("SetPalette() error = %v", err)
	}
	if got := e.Palette(); len(got) != 3 || got[0] != TypeYellow {
		t.Errorf("Palette() = %v, want the new palette", got)
	}

	if err := e.Fill(context.Background()); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	for _, tt := range b.Types() {
		if tt == TypeRed || tt == TypeGreen || tt == TypeBlue {
			t.Fatalf("Fill() used %v from the old palette", tt)
		}
	}
}
