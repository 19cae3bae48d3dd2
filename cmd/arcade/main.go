// arcade is a terminal match-3 game built around a cascade engine.
//
// Usage:
//
//	arcade list              - List available game modes
//	arcade play <game>       - Play a game mode
//	arcade menu              - Start menu to pick a mode interactively
//	arcade serve             - Start SSH server for remote play
//	arcade scores <game>     - Show high scores and cascade records
//	arcade simulate          - Let a bot play headless and report cascade stats
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/scores.db, env ARCADE_DB)
//	--config <path>       - Custom match3 config YAML (env ARCADE_CONFIG)
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/games/match3"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	// A missing .env is fine; the environment and flags still apply
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Match-3 Arcade - swap tiles and chain cascades in your terminal",
	Long: `Match-3 Arcade is a terminal match-3 game. Swap neighbouring tiles to
line up three or more of a kind; cleared tiles fall and refill, and new
lines clear again as cascades.

Available commands:
  list      - Show all game modes
  play      - Play a specific mode directly
  menu      - Interactive mode picker
  serve     - Start SSH server for remote play
  scores    - View high scores and cascade records
  simulate  - Run a headless bot and report cascade statistics

Examples:
  arcade list
  arcade play match3
  arcade play match3_endless --difficulty hard
  arcade menu
  arcade serve --ssh :2222
  arcade simulate --swipes 500 --latency 2ms --failure-rate 0.1`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalFlags,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database (env ARCADE_DB)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match3 config YAML (env ARCADE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Engine log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}

// applyGlobalFlags resolves environment overrides and hands game settings
// to the match3 package before any game is created.
func applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if v := os.Getenv("ARCADE_DB"); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv("ARCADE_CONFIG"); v != "" && !flags.Changed("config") {
		flagConfig = v
	}

	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	match3.SetConfigPath(flagConfig)
	match3.SetDifficultyPreset(flagDifficulty)
	return nil
}

// newLogger builds a logger writing to w at the level chosen by --log-level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}
