package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcaderank/internal/platform/tui"
	"github.com/vovakirdan/arcaderank/internal/registry"
	"github.com/vovakirdan/arcaderank/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show local high scores for a game",
	Long: `Display the top high scores for the specified game from the local
database. The Synced column shows which scores reached the leaderboard.

Examples:
  arcade scores snake
  arcade scores clicker --limit 25
  arcade scores snake --tui`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse all games in the interactive scoreboard")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	info, ok := registry.Lookup(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	a := mustApp()
	defer a.close()

	if flagScoresTUI {
		cfg := runtimeConfig()
		if err := tui.RunScoreboard(a.store, gameID, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	scores, err := a.store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		a.close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
		return
	}

	printScores(scores)

	fmt.Println()
	if stats, err := a.store.GetGameStats(gameID); err == nil {
		fmt.Printf("Best: %d  |  Games: %d  |  Synced: %d\n", stats.HighScore, stats.GamesCount, stats.Submitted)
	}
}

func printScores(scores []storage.ScoreEntry) {
	nameWidth := len("Player")
	for _, s := range scores {
		nameWidth = max(nameWidth, len(s.Player))
	}

	fmt.Printf("  %-4s  %-*s  %-8s  %-6s  %s\n", "Rank", nameWidth, "Player", "Score", "Synced", "Date")
	fmt.Printf("  %-4s  %-*s  %-8s  %-6s  %s\n", "----", nameWidth, "------", "-----", "------", "----")

	for i, entry := range scores {
		synced := "no"
		if entry.Submitted {
			synced = "yes"
		}
		dateStr := entry.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-*s  %-8d  %-6s  %s\n", i+1, nameWidth, entry.Player, entry.Score, synced, dateStr)
	}
}
