// arcade is a terminal arcade that ranks players on a shared backend.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu with games, leaderboard and account
//	arcade scores <game>     - Show local high scores for a game
//	arcade leaderboard       - Show the global leaderboard
//	arcade login             - Log in to earn XP
//	arcade register          - Create an account
//	arcade logout            - Forget the saved session
//	arcade whoami            - Show the logged-in player
//	arcade serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>     - Set frame rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.arcade/scores.db)
//	--api <url>      - Set backend URL (default: $ARCADE_API_URL)
//	--config <path>  - Custom game config YAML
//	--debug          - Verbose logging to ~/.arcade/arcade.log
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/arcaderank/internal/games/clicker"
	_ "github.com/vovakirdan/arcaderank/internal/games/snake"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagAPIURL string
	flagConfig string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "ArcadeRank - play retro games in your terminal and climb the leaderboard",
	Long: `ArcadeRank is a terminal arcade. Play Neon Snake or Clicker Hero,
log in, and every finished game earns XP on the global leaderboard.

Available commands:
  list         - Show all available games
  play         - Play a specific game directly
  menu         - Interactive menu with dashboard and leaderboard
  scores       - View local high scores
  leaderboard  - View the global leaderboard
  login        - Log in to your account
  register     - Create an account
  logout       - Log out
  whoami       - Show who is logged in
  serve        - Start SSH server for remote play

Settings are read from the environment or a .env file:
  ARCADE_API_URL      backend base URL
  ARCADE_API_TIMEOUT  request timeout (e.g. 10s)
  ARCADE_HOME         data directory (default ~/.arcade)

Examples:
  arcade list
  arcade play snake
  arcade menu
  arcade login
  arcade leaderboard
  arcade serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default: $ARCADE_HOME/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "Backend base URL (default: $ARCADE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(serveCmd)
}
