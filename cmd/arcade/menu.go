package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcaderank/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

The header shows who is logged in with their level and XP. From the menu
you can play a game, browse the global leaderboard or your local scores,
and log in, register or log out.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  R            - Refresh the dashboard
  Q            - Quit

Examples:
  arcade menu
  arcade menu --fps 30
  arcade menu --db ./scores.db --api https://arcade.example.com`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runMenu(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.close()

	if err := tui.RunSession(a.services(), runtimeConfig()); err != nil {
		a.close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
