package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSnake loads Neon Snake configuration.
// Search order: customPath -> ~/.arcade/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg, err := load(customPath, "snake.yaml", defaultSnakeYAML, DefaultSnakeConfig())
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadClicker loads Clicker Hero configuration.
// Search order: customPath -> ~/.arcade/configs/clicker.yaml -> ./configs/clicker.yaml -> embedded default
func LoadClicker(customPath string) (ClickerConfig, error) {
	cfg, err := load(customPath, "clicker.yaml", defaultClickerYAML, DefaultClickerConfig())
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// load resolves one config file. Values missing from a file keep the
// hardcoded defaults because decoding starts from fallback.
func load[T any](customPath, filename string, embedded []byte, fallback T) (T, error) {
	if customPath != "" {
		cfg := fallback
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", filename)}
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		candidates = append([]string{userCfgPath}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := fallback
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	cfg := fallback
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return fallback, nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// Validate reports the first out-of-range setting. The interval floor may
// not exceed the starting interval, or the ramp would slow the snake down.
func (c SnakeConfig) Validate() error {
	switch {
	case c.Grid.Size < 3:
		return fmt.Errorf("config: snake grid size must be at least 3, got %d", c.Grid.Size)
	case c.Speed.InitialMS <= 0:
		return fmt.Errorf("config: snake initial_ms must be positive, got %d", c.Speed.InitialMS)
	case c.Speed.Factor <= 0 || c.Speed.Factor > 1:
		return fmt.Errorf("config: snake speed factor must be in (0, 1], got %g", c.Speed.Factor)
	case c.Speed.StepScore <= 0:
		return fmt.Errorf("config: snake step_score must be positive, got %d", c.Speed.StepScore)
	case c.Speed.MinMS < 0:
		return fmt.Errorf("config: snake min_ms must not be negative, got %d", c.Speed.MinMS)
	case c.Speed.MinMS > c.Speed.InitialMS:
		return fmt.Errorf("config: snake min_ms %d is above initial_ms %d", c.Speed.MinMS, c.Speed.InitialMS)
	case c.Food.Reward <= 0:
		return fmt.Errorf("config: snake food reward must be positive, got %d", c.Food.Reward)
	case c.Food.Placement != "any" && c.Food.Placement != "free":
		return fmt.Errorf("config: snake food placement must be \"any\" or \"free\", got %q", c.Food.Placement)
	}
	return nil
}

// Validate reports the first out-of-range setting.
func (c ClickerConfig) Validate() error {
	switch {
	case c.Countdown.Units <= 0:
		return fmt.Errorf("config: clicker countdown units must be positive, got %d", c.Countdown.Units)
	case c.Countdown.UnitMS <= 0:
		return fmt.Errorf("config: clicker unit_ms must be positive, got %d", c.Countdown.UnitMS)
	case c.Press.Points <= 0:
		return fmt.Errorf("config: clicker press points must be positive, got %d", c.Press.Points)
	}
	return nil
}

// ApplySnakePreset modifies the config based on a difficulty preset.
// Callers validate the result again, since a preset can move the starting
// interval below a configured floor. Fixed keeps the configured starting interval and disables the speed ramp.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.InitialMS = 200
	case DifficultyHard:
		cfg.Speed.InitialMS = 100
		if cfg.Speed.MinMS == 0 {
			cfg.Speed.MinMS = 40
		}
	case DifficultyFixed:
		cfg.Speed.Factor = 1.0
	}
}

// ApplyClickerPreset modifies the config based on a difficulty preset.
func ApplyClickerPreset(cfg *ClickerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Countdown.Units = 15
	case DifficultyHard:
		cfg.Countdown.Units = 5
	}
}
