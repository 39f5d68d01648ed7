package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcaderank/internal/platform/tui"
	"github.com/vovakirdan/arcaderank/internal/registry"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Space/Enter          - Start a round (Space also clicks in Clicker Hero)
  Arrows/WASD/HJKL     - Steer the snake
  P                    - Pause
  R                    - Restart (after game over)
  Esc/B                - Pause, then leave
  Ctrl+S               - Save a text screenshot
  Q/Ctrl+C             - Quit

When you are logged in, every finished game is sent to the leaderboard
in the background. Scores are always kept in the local database.

Difficulty options:
  easy   - Slower snake, longer clicker round
  normal - Default settings
  hard   - Faster snake with a lower speed floor, shorter clicker round

Examples:
  arcade play snake
  arcade play snake --difficulty hard
  arcade play clicker
  arcade play snake --config ./my-snake.yaml --fps 30`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID, gameOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	a := mustApp()
	defer a.close()

	a.logger.Info("game started", "game", gameID, "difficulty", flagDifficulty)
	if err := tui.Run(game, a.services(), runtimeConfig()); err != nil {
		a.close()
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
