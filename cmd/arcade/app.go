package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/auth"
	"github.com/vovakirdan/arcaderank/internal/config"
	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/platform/tui"
	"github.com/vovakirdan/arcaderank/internal/registry"
	"github.com/vovakirdan/arcaderank/internal/scoring"
	"github.com/vovakirdan/arcaderank/internal/storage"
)

// app wires the client stack shared by the commands: settings, the log
// file, the local store, the backend client, the session and the score
// reporter.
type app struct {
	cfg      config.AppConfig
	logger   *log.Logger
	logFile  *os.File
	store    *storage.Store
	client   *api.Client
	auth     *auth.Manager
	reporter *scoring.Reporter
}

// newApp loads settings and restores the saved session. The TUI owns the
// terminal, so logs always go to the log file.
func newApp() (*app, error) {
	cfg, err := config.LoadApp()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}

	a := &app{cfg: cfg}
	a.logger = a.openLogger()

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = cfg.DBPath()
	}
	a.store, err = storage.Open(dbPath)
	if err != nil {
		a.close()
		return nil, err
	}

	a.client = api.New(cfg.APIURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(a.logger.WithPrefix("api")),
	)
	a.auth = auth.NewManager(a.store, a.client, a.logger.WithPrefix("auth"))
	if _, _, err := a.auth.Restore(); err != nil {
		a.logger.Warn("could not restore session", "error", err)
	}

	store := a.store
	a.reporter = scoring.NewReporter(a.client, a.logger.WithPrefix("score"),
		scoring.WithTimeout(cfg.APITimeout),
		scoring.WithHook(func(r scoring.Result) {
			if r.Err != nil || r.LocalID == 0 {
				return
			}
			if err := store.MarkSubmitted(r.LocalID); err != nil {
				a.logger.Warn("could not mark score submitted", "id", r.LocalID, "error", err)
			}
		}),
	)

	a.logger.Debug("arcade started", "api", cfg.APIURL, "db", dbPath)
	return a, nil
}

func (a *app) openLogger() *log.Logger {
	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           level,
	}

	path := a.cfg.LogPath()
	var out io.Writer = io.Discard
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			a.logFile = f
			out = f
		} else {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		}
	}
	return log.NewWithOptions(out, opts)
}

// services exposes the stack to the TUI.
func (a *app) services() *tui.Services {
	return &tui.Services{
		Store:         a.store,
		Auth:          a.auth,
		API:           a.client,
		Reporter:      a.reporter,
		Options:       gameOptions(),
		ScreenshotDir: filepath.Join(a.cfg.Home, "screenshots"),
		Logger:        a.logger,
	}
}

// close waits briefly for pending score submissions and releases files.
func (a *app) close() {
	if a.reporter != nil && !a.reporter.WaitTimeout(a.cfg.APITimeout) {
		a.logger.Warn("gave up waiting for score submission")
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// gameOptions are the factory options from the command line.
func gameOptions() registry.Options {
	return registry.Options{ConfigPath: flagConfig, Difficulty: flagDifficulty}
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
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

// mustApp builds the app or exits with the error.
func mustApp() *app {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}
