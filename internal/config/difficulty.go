package config

import (
	"fmt"
	"math"
)

// DifficultyManager calculates dynamic game parameters based on progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none" && d.cfg.Progression.Type != ""
}

// Level returns the current difficulty level (0.0 to 1.0) based on score or swaps.
func (d *DifficultyManager) Level(score int, swaps int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "swaps":
		progress = float64(swaps) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Kinds returns how many tile colors should be in play.
// Colors are added as the level rises, never beyond maxKinds.
func (d *DifficultyManager) Kinds(baseKinds int, score int, swaps int) int {
	if !d.IsEnabled() {
		return baseKinds
	}
	level := d.Level(score, swaps)
	extra := int(math.Floor(level * float64(d.cfg.Scaling.ExtraKinds)))
	kinds := baseKinds + extra
	if kinds > maxKinds {
		kinds = maxKinds
	}
	return kinds
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name yields "normal".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// KindsForPreset returns the palette size for a difficulty preset.
// The fixed preset keeps whatever the config says.
func KindsForPreset(preset DifficultyPreset, configured int) int {
	switch preset {
	case DifficultyEasy:
		return 5
	case DifficultyNormal:
		return 6
	case DifficultyHard:
		return 7
	default:
		return configured
	}
}

// ApplyMatch3Preset modifies the config based on a difficulty preset.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	cfg.Tiles.Kinds = KindsForPreset(preset, cfg.Tiles.Kinds)
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Hard already uses every color; it tightens the cascade cap instead.
	if preset == DifficultyHard {
		cfg.Cascade.MaxDepth = min(cfg.Cascade.MaxDepth, 16)
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
