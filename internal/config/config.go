// Package config provides YAML-based game configuration loading, difficulty
// presets, and environment-based application settings for the arcade client.
package config

import "time"

// SnakeConfig contains all configuration for the Neon Snake grid game.
type SnakeConfig struct {
	Grid  SnakeGrid  `yaml:"grid"`
	Speed SnakeSpeed `yaml:"speed"`
	Food  SnakeFood  `yaml:"food"`
}

// SnakeGrid defines the playfield.
type SnakeGrid struct {
	Size int `yaml:"size"` // Cells per side of the square grid
}

// SnakeSpeed defines the tick interval and its ramp.
type SnakeSpeed struct {
	InitialMS int     `yaml:"initial_ms"` // Tick interval at game start
	Factor    float64 `yaml:"factor"`     // Interval multiplier applied at each step
	StepScore int     `yaml:"step_score"` // Score multiple that triggers a speed-up
	MinMS     int     `yaml:"min_ms"`     // Interval floor, 0 = uncapped
}

// SnakeFood defines food reward and placement.
type SnakeFood struct {
	Reward    int    `yaml:"reward"`
	Placement string `yaml:"placement"` // "any" or "free"
}

// InitialInterval returns the starting tick interval.
func (s SnakeSpeed) InitialInterval() time.Duration {
	return time.Duration(s.InitialMS) * time.Millisecond
}

// MinInterval returns the interval floor (0 when uncapped).
func (s SnakeSpeed) MinInterval() time.Duration {
	return time.Duration(s.MinMS) * time.Millisecond
}

// ClickerConfig contains all configuration for the Clicker Hero timed game.
type ClickerConfig struct {
	Countdown ClickerCountdown `yaml:"countdown"`
	Press     ClickerPress     `yaml:"press"`
}

// ClickerCountdown defines the round length.
type ClickerCountdown struct {
	Units  int `yaml:"units"`   // Countdown start value
	UnitMS int `yaml:"unit_ms"` // Wall-clock length of one unit
}

// ClickerPress defines scoring per input event.
type ClickerPress struct {
	Points int `yaml:"points"`
}

// UnitDuration returns the wall-clock length of one countdown unit.
func (c ClickerCountdown) UnitDuration() time.Duration {
	return time.Duration(c.UnitMS) * time.Millisecond
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty converts a flag value into a preset. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return DifficultyNormal, false
	}
}
