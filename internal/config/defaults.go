package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/clicker.yaml
var defaultClickerYAML []byte

// DefaultSnakeConfig returns the default Neon Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: SnakeGrid{Size: 20},
		Speed: SnakeSpeed{
			InitialMS: 150,
			Factor:    0.95,
			StepScore: 50,
			MinMS:     0,
		},
		Food: SnakeFood{
			Reward:    10,
			Placement: "any",
		},
	}
}

// DefaultClickerConfig returns the default Clicker Hero configuration.
func DefaultClickerConfig() ClickerConfig {
	return ClickerConfig{
		Countdown: ClickerCountdown{Units: 10, UnitMS: 1000},
		Press:     ClickerPress{Points: 1},
	}
}
