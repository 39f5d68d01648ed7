package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/auth"
	"github.com/vovakirdan/arcaderank/internal/platform/tui"
	"github.com/vovakirdan/arcaderank/internal/registry"
)

var (
	flagEmail         string
	flagUsername      string
	flagPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to earn XP",
	Long: `Log in to the ArcadeRank backend. The session is kept in the local
database until it expires or you log out.

Without flags an interactive form is shown. For scripts, pass --email and
pipe the password with --password-stdin.

Examples:
  arcade login
  echo "$PASSWORD" | arcade login --email neo@example.com --password-stdin`,
	Run: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an ArcadeRank account. Usernames are 3-20 letters, digits or
underscores; passwords are checked for strength before anything is sent.

Examples:
  arcade register
  echo "$PASSWORD" | arcade register --username neo --email neo@example.com --password-stdin`,
	Run: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Run:   runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in player, level and XP",
	Run:   runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
		c.Flags().BoolVar(&flagPasswordStdin, "password-stdin", false, "Read the password from stdin")
	}
	registerCmd.Flags().StringVar(&flagUsername, "username", "", "Username")
}

func readPassword() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.close()

	if !flagPasswordStdin {
		cfg := runtimeConfig()
		s, ok, err := tui.RunAuthForm(tui.FormLogin, a.auth, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			fail(a, err)
		}
		if ok {
			fmt.Printf("Logged in as %s.\n", s.Username)
		}
		return
	}

	password, err := readPassword()
	if err != nil {
		fail(a, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.APITimeout)
	defer cancel()

	s, err := a.auth.Login(ctx, flagEmail, password)
	if err != nil {
		fail(a, err)
	}
	fmt.Printf("Logged in as %s.\n", s.Username)
}

func runRegister(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.close()

	if !flagPasswordStdin {
		cfg := runtimeConfig()
		s, ok, err := tui.RunAuthForm(tui.FormRegister, a.auth, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			fail(a, err)
		}
		if ok {
			fmt.Printf("Logged in as %s.\n", s.Username)
		}
		return
	}

	password, err := readPassword()
	if err != nil {
		fail(a, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.APITimeout)
	defer cancel()

	if err := a.auth.Register(ctx, flagUsername, flagEmail, password); err != nil {
		fail(a, err)
	}
	fmt.Printf("Account %s created. Run 'arcade login' to start earning XP.\n", flagUsername)
}

func runLogout(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.close()

	s, ok := a.auth.Current()
	if err := a.auth.Logout(); err != nil {
		fail(a, err)
	}
	if ok {
		fmt.Printf("Logged out %s.\n", s.Username)
		return
	}
	fmt.Println("Not logged in.")
}

func runWhoami(_ *cobra.Command, _ []string) {
	a := mustApp()
	defer a.close()

	s, ok := a.auth.Current()
	if !ok {
		fmt.Println("Not logged in. Run 'arcade login'.")
	} else {
		fmt.Printf("User:     %s\n", s.Username)
		if !s.ExpiresAt.IsZero() {
			fmt.Printf("Session:  valid until %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.APITimeout)
		p, err := a.auth.Profile(ctx)
		cancel()
		if err != nil {
			a.logger.Warn("could not load profile", "error", err)
			fmt.Printf("Profile:  unavailable (%v)\n", err)
		} else {
			fmt.Printf("Level:    %d\n", p.Level)
			fmt.Printf("XP:       %d\n", p.XP)
		}
	}

	stats, err := a.store.GetAllGamesStats()
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Local games:")
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		st := stats[id]
		title := id
		if info, ok := registry.Lookup(id); ok {
			title = info.Title
		}
		fmt.Printf("  %-14s  %3d played  best %d  synced %d\n", title, st.GamesCount, st.HighScore, st.Submitted)
	}
}

// fail prints an account error in plain words and exits.
func fail(a *app, err error) {
	a.logger.Error("command failed", "error", err)
	a.close()

	var ve *auth.ValidationError
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		fmt.Fprintln(os.Stderr, "Error: wrong email or password.")
	case errors.Is(err, api.ErrAlreadyRegistered):
		fmt.Fprintln(os.Stderr, "Error: that username or email is already in use.")
	case errors.As(err, &ve):
		fmt.Fprintf(os.Stderr, "Error: %s\n", ve.Error())
	case errors.As(err, &se):
		fmt.Fprintf(os.Stderr, "Error: server said %q (HTTP %d)\n", se.Message, se.Code)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
