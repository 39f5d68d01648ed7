package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcaderank/internal/platform/tui"
)

var flagPlain bool

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb", "top"},
	Short:   "Show the global leaderboard",
	Long: `Show every player ranked by XP. The top three get a crown and medals
and your own row is marked when you are logged in.

The interactive view is used on a terminal; --plain (or piping the
output) prints a text table instead.

Examples:
  arcade leaderboard
  arcade leaderboard --plain
  arcade leaderboard --api https://arcade.example.com`,
	Run: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain text table")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.close()

	me := ""
	if s, ok := a.auth.Current(); ok {
		me = s.UserID
	}

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		cfg := runtimeConfig()
		if err := tui.RunLeaderboard(a.client, me, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.APITimeout)
	defer cancel()
	entries, err := a.client.Leaderboard(ctx)
	if err != nil {
		a.logger.Error("leaderboard request failed", "error", err)
		cancel()
		a.close()
		fmt.Fprintf(os.Stderr, "Error: could not load the leaderboard from %s: %v\n", a.client.BaseURL(), err)
		os.Exit(1)
	}

	fmt.Println("Global Leaderboard")
	fmt.Println()
	fmt.Print(tui.FormatLeaderboard(entries, me))
}
