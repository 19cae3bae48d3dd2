package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAssetUnavailable is what AsyncSpawner reports for an injected failure.
var ErrAssetUnavailable = errors.New("tile asset unavailable")

// SpawnRequest asks the spawn collaborator for a tile of Type at Coord.
// The engine reserves Coord on the board before issuing the request.
type SpawnRequest struct {
	Coord Coord
	Type  TileType
}

// SpawnResult completes a SpawnRequest.
type SpawnResult struct {
	Tile *Tile
	Err  error
}

// Spawner creates tiles on request. The returned channel must deliver
// exactly one result; it may do so from any goroutine.
type Spawner interface {
	RequestSpawn(ctx context.Context, req SpawnRequest) <-chan SpawnResult
}

// ImmediateSpawner resolves every request before returning.
type ImmediateSpawner struct {
	next atomic.Uint64
}

// NewImmediateSpawner creates a spawner whose first tile gets ID firstID.
func NewImmediateSpawner(firstID uint64) *ImmediateSpawner {
	s := &ImmediateSpawner{}
	if firstID > 0 {
		s.next.Store(firstID - 1)
	}
	return s
}

// RequestSpawn implements Spawner.
func (s *ImmediateSpawner) RequestSpawn(_ context.Context, req SpawnRequest) <-chan SpawnResult {
	ch := make(chan SpawnResult, 1)
	ch <- SpawnResult{Tile: NewTile(s.next.Add(1), req.Type)}
	return ch
}

// AsyncSpawner completes each request on its own goroutine after a random
// delay up to Latency, failing a FailureRate fraction of them.
type AsyncSpawner struct {
	latency     time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand

	next atomic.Uint64
}

// NewAsyncSpawner creates an AsyncSpawner. The seed drives both delays
// and injected failures.
func NewAsyncSpawner(latency time.Duration, failureRate float64, seed int64) *AsyncSpawner {
	return &AsyncSpawner{
		latency:     latency,
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// RequestSpawn implements Spawner. A cancelled context completes the
// request with the context error.
func (s *AsyncSpawner) RequestSpawn(ctx context.Context, req SpawnRequest) <-chan SpawnResult {
	ch := make(chan SpawnResult, 1)

	s.mu.Lock()
	fail := s.rng.Float64() < s.failureRate
	var delay time.Duration
	if s.latency > 0 {
		delay = time.Duration(s.rng.Int63n(int64(s.latency) + 1))
	}
	s.mu.Unlock()

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			ch <- SpawnResult{Err: ctx.Err()}
			return
		case <-timer.C:
		}

		if fail {
			ch <- SpawnResult{Err: fmt.Errorf("spawn %s at %s: %w", req.Type, req.Coord, ErrAssetUnavailable)}
			return
		}
		ch <- SpawnResult{Tile: NewTile(s.next.Add(1), req.Type)}
	}()

	return ch
}
