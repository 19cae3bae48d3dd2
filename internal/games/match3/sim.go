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
)

// maxResumes bounds how often a single swipe's refill is retried before
// the simulation gives up.
const maxResumes = 50

// SimOptions configures a headless run.
type SimOptions struct {
	Swipes      int
	Seed        int64
	Latency     time.Duration // per spawn
	FailureRate float64       // chance a spawn attempt fails
	Logger      *log.Logger
}

// SimReport is the outcome of a headless run.
type SimReport struct {
	Summary       core.RunSummary
	Score         int
	Resumes       int
	SpawnFailures int
	Events        int // bus events observed
	Duration      time.Duration
}

// Simulate plays opts.Swipes swipes with a seeded bot that always picks a
// productive swap. Spawns go through an AsyncSpawner so latency and
// failures exercise the engine's join barrier and resume path.
// Dead boards are reshuffled.
func Simulate(ctx context.Context, cfg config.Match3Config, opts SimOptions) (SimReport, error) {
	var rep SimReport
	if err := cfg.Validate(); err != nil {
		return rep, err
	}
	l := opts.Logger
	if l == nil {
		l = log.New(io.Discard)
	}
	bias, err := engine.ParseBias(cfg.Cascade.SpawnBias)
	if err != nil {
		return rep, err
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(opts.Seed))

	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(events.DefaultBuffer)

	var score ScoreKeeper
	board := engine.NewBoard(cfg.Board.Width, cfg.Board.Height)
	eng := engine.New(board, engine.Options{
		BasePoints:      cfg.Scoring.BasePoints,
		MaxCascadeDepth: cfg.Cascade.MaxDepth,
		SpawnRetries:    cfg.Spawn.Retries,
		Types:           engine.Palette(cfg.Tiles.Kinds),
		Bias:            bias,
		Rand:            rand.New(rand.NewSource(opts.Seed)),
		Spawner:         engine.NewAsyncSpawner(opts.Latency, opts.FailureRate, opts.Seed),
		Score: engine.ScoreFunc(func(points int) {
			score.AddScore(points)
			bus.OnMatchResolved(points)
		}),
		Logger: l,
	})

	drain := func() { rep.Events += len(sub.Drain()) }
	finish := func() SimReport {
		drain()
		rep.Score = score.Total()
		rep.Duration = time.Since(start)
		return rep
	}

	// settle retries pending slots until the board is whole again.
	settle := func(err error) error {
		for i := 0; errors.Is(err, engine.ErrSpawnFailure); i++ {
			rep.SpawnFailures++
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if i >= maxResumes {
				return fmt.Errorf("board still unstable after %d resumes: %w", maxResumes, err)
			}
			var res engine.Result
			res, err = eng.Resume(ctx)
			rep.Resumes++
			foldResult(&rep.Summary, res)
		}
		return err
	}

	if err := settle(eng.Fill(ctx)); err != nil {
		return finish(), fmt.Errorf("initial fill: %w", err)
	}

	stuck := 0
	for i := 0; i < opts.Swipes; i++ {
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		swaps := engine.PossibleSwaps(board)
		if len(swaps) == 0 {
			if stuck++; stuck > maxFillAttempts {
				return finish(), fmt.Errorf("no playable board after %d reshuffles", maxFillAttempts)
			}
			if err := settle(eng.Reshuffle(ctx)); err != nil {
				return finish(), fmt.Errorf("reshuffle: %w", err)
			}
			rep.Summary.Reshuffles++
			bus.Publish(events.BoardReshuffled{})
			i--
			continue
		}

		stuck = 0
		s := swaps[rng.Intn(len(swaps))]
		res, err := eng.SwipeAt(ctx, s.From, s.Dir)
		if err != nil && len(res.Rounds) == 0 && !errors.Is(err, engine.ErrSpawnFailure) {
			rep.Summary.Rejected++
			l.Debug("bot swipe rejected", "from", s.From, "dir", s.Dir, "err", err)
			drain()
			continue
		}
		rep.Summary.Swaps++
		foldResult(&rep.Summary, res)
		publishResult(bus, res)

		if err := settle(err); err != nil {
			return finish(), err
		}
		drain()
	}

	l.Info("simulation finished", "swipes", rep.Summary.Swaps, "score", score.Total(), "max_cascade", rep.Summary.MaxCascade)
	return finish(), nil
}

// publishResult announces each cleared round and then the finished cascade.
func publishResult(bus *events.Bus, res engine.Result) {
	for _, rd := range res.Rounds {
		bus.Publish(events.TilesCleared{Depth: rd.Depth, Count: len(rd.Matched)})
	}
	bus.Publish(events.CascadeFinished{
		Depth:     res.Depth(),
		Points:    res.Points,
		Cleared:   res.TilesCleared(),
		Truncated: res.Truncated,
	})
}

// foldResult adds a cascade result to run statistics.
func foldResult(s *core.RunSummary, res engine.Result) {
	if d := res.Depth(); d > s.MaxCascade {
		s.MaxCascade = d
	}
	s.TilesCleared += res.TilesCleared()
	if res.Truncated {
		s.Truncated++
	}
}
