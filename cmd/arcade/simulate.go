package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

// simulationGameID is the storage key for bot runs.
const simulationGameID = "match3_sim"

var (
	flagSimSwipes      int
	flagSimLatency     time.Duration
	flagSimFailureRate float64
	flagSimSave        bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let a bot play headless and report cascade statistics",
	Long: `Run a seeded bot that always picks a productive swap. Spawns go through
an asynchronous spawner, so --latency and --failure-rate exercise the
refill barrier and the resume path. Dead boards are reshuffled.

Examples:
  arcade simulate
  arcade simulate --swipes 1000 --seed 7
  arcade simulate --latency 2ms --failure-rate 0.2 --log-level warn
  arcade simulate --difficulty hard --save`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimSwipes, "swipes", 200, "Number of swipes the bot plays")
	simulateCmd.Flags().DurationVar(&flagSimLatency, "latency", 0, "Maximum delay per spawn (random up to this value)")
	simulateCmd.Flags().Float64Var(&flagSimFailureRate, "failure-rate", -1, "Chance a spawn attempt fails (default from config)")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the run in the scores database")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "simulate")
	if err != nil {
		return err
	}

	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		preset, _ := config.ParsePreset(flagDifficulty)
		config.ApplyMatch3Preset(&cfg, preset)
	}

	opts := match3.SimOptions{
		Swipes:      flagSimSwipes,
		Seed:        flagSeed,
		Latency:     flagSimLatency,
		FailureRate: flagSimFailureRate,
		Logger:      logger,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Latency == 0 {
		opts.Latency = time.Duration(cfg.Spawn.LatencyMS) * time.Millisecond
	}
	if opts.FailureRate < 0 {
		opts.FailureRate = cfg.Spawn.FailureRate
	}
	if opts.FailureRate >= 1 {
		return fmt.Errorf("--failure-rate must be below 1, got %.2f", opts.FailureRate)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rep, simErr := match3.Simulate(ctx, cfg, opts)
	printReport(cfg, opts, rep)
	if simErr != nil && ctx.Err() == nil {
		return fmt.Errorf("simulation: %w", simErr)
	}

	if flagSimSave && rep.Summary.Swaps > 0 {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()

		if _, err := store.SaveScore(simulationGameID, rep.Score); err != nil {
			return err
		}
		id, err := store.SaveRun(storage.NewRunRecord(simulationGameID, rep.Score, rep.Summary))
		if err != nil {
			return err
		}
		fmt.Printf("\nSaved run %s (arcade scores --run %s)\n", id, id)
	}

	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

func printReport(cfg config.Match3Config, opts match3.SimOptions, rep match3.SimReport) {
	s := rep.Summary
	fmt.Printf("Board %dx%d, %d colors, seed %d\n", cfg.Board.Width, cfg.Board.Height, cfg.Tiles.Kinds, opts.Seed)
	fmt.Println()
	fmt.Printf("  %-16s %d\n", "Swipes", s.Swaps)
	fmt.Printf("  %-16s %d\n", "Score", rep.Score)
	fmt.Printf("  %-16s %d\n", "Longest cascade", s.MaxCascade)
	fmt.Printf("  %-16s %d\n", "Tiles cleared", s.TilesCleared)
	fmt.Printf("  %-16s %d\n", "Truncated", s.Truncated)
	fmt.Printf("  %-16s %d\n", "Reshuffles", s.Reshuffles)
	fmt.Printf("  %-16s %d\n", "Rejected", s.Rejected)
	fmt.Printf("  %-16s %d\n", "Spawn failures", rep.SpawnFailures)
	fmt.Printf("  %-16s %d\n", "Resumes", rep.Resumes)
	fmt.Printf("  %-16s %d\n", "Events", rep.Events)
	fmt.Printf("  %-16s %s\n", "Duration", rep.Duration.Round(time.Millisecond))
	if s.Swaps > 0 {
		fmt.Printf("  %-16s %.1f\n", "Points/swipe", float64(rep.Score)/float64(s.Swaps))
	}
}
