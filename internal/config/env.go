package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by LoadApp.
const (
	EnvAPIURL     = "ARCADE_API_URL"
	EnvAPITimeout = "ARCADE_API_TIMEOUT"
	EnvHome       = "ARCADE_HOME"
)

const (
	defaultAPIURL     = "http://localhost:3000"
	defaultAPITimeout = 10 * time.Second
)

// AppConfig holds client settings that are not tied to a single game.
type AppConfig struct {
	APIURL     string        // Base URL of the ArcadeRank backend
	APITimeout time.Duration // Per-request HTTP timeout
	Home       string        // Data directory (database, logs, configs)
}

// DBPath returns the default scores database path inside Home.
func (c AppConfig) DBPath() string {
	return filepath.Join(c.Home, "scores.db")
}

// LogPath returns the client log file path inside Home.
func (c AppConfig) LogPath() string {
	return filepath.Join(c.Home, "arcade.log")
}

// LoadApp reads application settings from the environment.
// Variables from the given .env files (default ./.env) are loaded first;
// a missing file is not an error, and variables already set in the
// process environment win.
func LoadApp(envFiles ...string) (AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := AppConfig{
		APIURL:     strings.TrimRight(getEnvWithDefault(EnvAPIURL, defaultAPIURL), "/"),
		APITimeout: defaultAPITimeout,
	}

	if raw, ok := os.LookupEnv(EnvAPITimeout); ok && raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("config: %s must be a duration: %w", EnvAPITimeout, err)
		}
		cfg.APITimeout = d
	}

	home := os.Getenv(EnvHome)
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("config: cannot resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, ".arcade")
	}
	cfg.Home = home

	return cfg, nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
