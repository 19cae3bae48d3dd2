package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the default match-3 configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: BoardConfig{
			Width:  8,
			Height: 8,
		},
		Tiles: TilesConfig{
			Kinds: 6,
		},
		Scoring: ScoringConfig{
			BasePoints: 100,
		},
		Cascade: CascadeConfig{
			MaxDepth:  32,
			SpawnBias: "uniform",
		},
		Spawn: SpawnConfig{
			Retries: 3,
		},
		Input: InputConfig{
			SwipeThreshold: 1.0,
		},
		Animation: AnimationConfig{
			SwapTicks:  6,
			MatchTicks: 12,
			FallTicks:  8,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				ExtraKinds: 1,
			},
		},
	}
}
