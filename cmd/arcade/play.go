package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/platform/tui"
	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game mode",
	Long: `Start playing the specified game mode.

Modes:
  match3          - Classic: the game ends when no swap can match
  match3_endless  - Endless: dead boards are reshuffled

Controls:
  Arrows/WASD/hjkl - Move cursor (or swap when a tile is selected)
  Enter/Space      - Select / deselect tile
  Mouse            - Drag a tile onto a neighbour, or click two neighbours
  ?                - Show a hint
  P                - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 5 colors, more colors join as the score rises
  normal - 6 colors
  hard   - 7 colors, shallower cascade cap
  fixed  - No progression, uses the config's palette

Examples:
  arcade play match3
  arcade play match3 --difficulty easy
  arcade play match3_endless --seed 42
  arcade play match3 --config ./my-match3.yaml
  arcade play match3 --log-level debug --log-file match3.log`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

var flagLogFile string

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write engine logs to this file")
}

// terminalConfig builds a runtime config from the current terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q (run 'arcade list' to see available games)", gameID)
	}

	// The alt screen owns stderr, so engine logs only go to --log-file
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		logger, err := newLogger(f, "match3")
		if err != nil {
			return err
		}
		match3.SetLogger(logger)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, terminalConfig())

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("running game: %w", runErr)
	}
	return nil
}
