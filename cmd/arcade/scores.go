package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var (
	flagRuns  int
	flagRunID string
	flagClear bool
)

const dateLayout = "2006-01-02 15:04"

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores and cascade records",
	Long: `Without a game, print a summary of every mode that has been played.
With a game mode, display its top 10 high scores followed by the most
recent runs with their cascade statistics.

Bot runs recorded with 'arcade simulate --save' are listed under
` + simulationGameID + `.

Examples:
  arcade scores
  arcade scores match3
  arcade scores match3_endless --runs 20
  arcade scores match3 --clear
  arcade scores --run 5f0c3c9e-2f4b-4a53-9d43-0b8a4c1e7a21`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRuns, "runs", 5, "Number of recent runs to show")
	scoresCmd.Flags().StringVar(&flagRunID, "run", "", "Show a single run by its ID")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and runs of the game")
}

func runScores(_ *cobra.Command, args []string) error {
	if flagClear && len(args) == 0 {
		return fmt.Errorf("--clear needs a game mode")
	}

	var gameID, title string
	if len(args) == 1 {
		var err error
		gameID = args[0]
		if title, err = modeTitle(gameID); err != nil {
			return err
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagRunID != "":
		run, err := store.RunByID(flagRunID)
		if err != nil {
			return fmt.Errorf("retrieving run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("no run with id %q", flagRunID)
		}
		printRun(os.Stdout, run)
		return nil

	case flagClear:
		if err := store.ClearScores(gameID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Printf("Cleared scores and runs for %s.\n", title)
		return nil

	case gameID == "":
		stats, err := store.GetAllGamesStats()
		if err != nil {
			return fmt.Errorf("retrieving stats: %w", err)
		}
		printSummary(os.Stdout, stats)
		return nil
	}

	return printGameScores(os.Stdout, store, gameID, title)
}

// modeTitle resolves a game mode to its display title.
func modeTitle(gameID string) (string, error) {
	if gameID == simulationGameID {
		return "Match-3 (Simulated)", nil
	}
	if !registry.Exists(gameID) {
		return "", fmt.Errorf("unknown game %q (run 'arcade list' to see available games)", gameID)
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return "", fmt.Errorf("creating game: %w", err)
	}
	return game.Title(), nil
}

func printGameScores(w io.Writer, store *storage.Store, gameID, title string) error {
	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	runs, err := store.RecentRuns(gameID, flagRuns)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Fprintf(w, "High Scores - %s\n\n", title)

	if len(scores) == 0 && len(runs) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}

	if len(scores) > 0 {
		fmt.Fprintf(w, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
		fmt.Fprintf(w, "  %-4s  %-10s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			fmt.Fprintf(w, "  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format(dateLayout))
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Best: %d over %d games (avg %.0f)\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	if stats.BestCascade > 0 {
		fmt.Fprintf(w, "Longest cascade: %d\n", stats.BestCascade)
	}

	if len(runs) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent runs:")
	fmt.Fprintf(w, "  %-36s  %-8s  %-6s  %-7s  %-7s  %s\n", "ID", "Score", "Swaps", "Cascade", "Cleared", "Truncated")
	for _, r := range runs {
		fmt.Fprintf(w, "  %-36s  %-8d  %-6d  %-7d  %-7d  %d\n",
			r.ID, r.Score, r.Swaps, r.MaxCascade, r.TilesCleared, r.Truncated)
	}
	return nil
}

// printSummary lists one line per played mode, ordered by mode id.
func printSummary(w io.Writer, stats map[string]*storage.GameStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No games played yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(w, "%-16s  %-6s  %-8s  %-8s  %-7s  %s\n", "Mode", "Games", "Best", "Avg", "Cascade", "Last played")
	for _, id := range ids {
		s := stats[id]
		fmt.Fprintf(w, "%-16s  %-6d  %-8d  %-8.0f  %-7d  %s\n",
			id, s.GamesCount, s.HighScore, s.AvgScore, s.BestCascade, s.LastPlayed.Format(dateLayout))
	}
}

func printRun(w io.Writer, r *storage.RunRecord) {
	fmt.Fprintf(w, "Run %s\n", r.ID)
	fmt.Fprintf(w, "  Mode:          %s\n", r.GameID)
	fmt.Fprintf(w, "  Played:        %s\n", r.CreatedAt.Format(dateLayout))
	fmt.Fprintf(w, "  Score:         %d\n", r.Score)
	fmt.Fprintf(w, "  Swaps:         %d (%d rejected)\n", r.Swaps, r.Rejected)
	fmt.Fprintf(w, "  Longest chain: %d\n", r.MaxCascade)
	fmt.Fprintf(w, "  Tiles cleared: %d\n", r.TilesCleared)
	fmt.Fprintf(w, "  Truncated:     %d\n", r.Truncated)
	fmt.Fprintf(w, "  Reshuffles:    %d\n", r.Reshuffles)
}
