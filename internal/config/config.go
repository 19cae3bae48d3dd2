// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import (
	"errors"
	"fmt"
)

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Board      BoardConfig      `yaml:"board"`
	Tiles      TilesConfig      `yaml:"tiles"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Cascade    CascadeConfig    `yaml:"cascade"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Input      InputConfig      `yaml:"input"`
	Animation  AnimationConfig  `yaml:"animation"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid size.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TilesConfig defines the palette.
type TilesConfig struct {
	Kinds int `yaml:"kinds"` // Number of tile colors in play (3..7)
}

// ScoringConfig defines how matches are scored.
type ScoringConfig struct {
	BasePoints int `yaml:"base_points"` // Points per matched tile
}

// CascadeConfig defines cascade resolution limits.
type CascadeConfig struct {
	MaxDepth  int    `yaml:"max_depth"`  // Match rounds allowed per swipe
	SpawnBias string `yaml:"spawn_bias"` // "uniform" or "avoid"
}

// SpawnConfig defines the tile spawner.
type SpawnConfig struct {
	Retries     int     `yaml:"retries"`
	LatencyMS   int     `yaml:"latency_ms"`   // Upper bound of simulated spawn latency
	FailureRate float64 `yaml:"failure_rate"` // Fraction of spawns that fail (0..1)
}

// InputConfig defines gesture recognition.
type InputConfig struct {
	SwipeThreshold float64 `yaml:"swipe_threshold"` // Minimum drag, in cells
}

// AnimationConfig defines how long cascade frames stay on screen.
type AnimationConfig struct {
	SwapTicks  int `yaml:"swap_ticks"`
	MatchTicks int `yaml:"match_ticks"`
	FallTicks  int `yaml:"fall_ticks"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "swaps", or "none"
	MaxAt int    `yaml:"max_at"` // Score/swaps at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ExtraKinds int `yaml:"extra_kinds"` // Colors added at max difficulty
}

const (
	minKinds     = 3
	maxKinds     = 7
	minBoardSide = 3
	maxBoardSide = 32
)

// Validate reports every unusable setting at once.
func (c Match3Config) Validate() error {
	var errs []error
	if c.Board.Width < minBoardSide || c.Board.Width > maxBoardSide {
		errs = append(errs, fmt.Errorf("board.width %d outside [%d, %d]", c.Board.Width, minBoardSide, maxBoardSide))
	}
	if c.Board.Height < minBoardSide || c.Board.Height > maxBoardSide {
		errs = append(errs, fmt.Errorf("board.height %d outside [%d, %d]", c.Board.Height, minBoardSide, maxBoardSide))
	}
	if c.Tiles.Kinds < minKinds || c.Tiles.Kinds > maxKinds {
		errs = append(errs, fmt.Errorf("tiles.kinds %d outside [%d, %d]", c.Tiles.Kinds, minKinds, maxKinds))
	}
	if c.Scoring.BasePoints <= 0 {
		errs = append(errs, fmt.Errorf("scoring.base_points must be positive, got %d", c.Scoring.BasePoints))
	}
	if c.Cascade.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("cascade.max_depth must be at least 1, got %d", c.Cascade.MaxDepth))
	}
	switch c.Cascade.SpawnBias {
	case "", "uniform", "avoid":
	default:
		errs = append(errs, fmt.Errorf("cascade.spawn_bias %q is not uniform or avoid", c.Cascade.SpawnBias))
	}
	if c.Spawn.Retries < 0 {
		errs = append(errs, fmt.Errorf("spawn.retries must not be negative, got %d", c.Spawn.Retries))
	}
	if c.Spawn.LatencyMS < 0 {
		errs = append(errs, fmt.Errorf("spawn.latency_ms must not be negative, got %d", c.Spawn.LatencyMS))
	}
	if c.Spawn.FailureRate < 0 || c.Spawn.FailureRate >= 1 {
		errs = append(errs, fmt.Errorf("spawn.failure_rate %.2f outside [0, 1)", c.Spawn.FailureRate))
	}
	if c.Input.SwipeThreshold <= 0 {
		errs = append(errs, fmt.Errorf("input.swipe_threshold must be positive, got %.2f", c.Input.SwipeThreshold))
	}
	if c.Animation.SwapTicks < 0 || c.Animation.MatchTicks < 0 || c.Animation.FallTicks < 0 {
		errs = append(errs, errors.New("animation ticks must not be negative"))
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "swaps":
	default:
		errs = append(errs, fmt.Errorf("difficulty.progression.type %q is not score, swaps or none", c.Difficulty.Progression.Type))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid match3 config: %w", errors.Join(errs...))
	}
	return nil
}
