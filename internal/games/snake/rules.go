package snake

import (
	"time"

	"github.com/vovakirdan/arcaderank/internal/config"
)

// FoodPlacement selects how a new food cell is chosen.
type FoodPlacement string

const (
	// PlacementAny picks uniformly over every grid cell, including cells
	// covered by the snake body.
	PlacementAny FoodPlacement = "any"
	// PlacementFree picks uniformly over cells not covered by the snake.
	PlacementFree FoodPlacement = "free"
)

// Rules are the tunable constants of one snake round.
type Rules struct {
	GridSize        int           // N for an N x N grid
	InitialInterval time.Duration // Tick interval at start
	FoodReward      int           // Score added per food eaten
	SpeedStep       int           // Every multiple of this score speeds the game up
	SpeedFactor     float64       // Interval multiplier per speed step
	MinInterval     time.Duration // Interval floor, 0 = uncapped
	Placement       FoodPlacement
}

// DefaultRules returns the stock Neon Snake rules.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultSnakeConfig())
}

// RulesFromConfig converts a loaded YAML config into rules.
func RulesFromConfig(cfg config.SnakeConfig) Rules {
	return Rules{
		GridSize:        cfg.Grid.Size,
		InitialInterval: cfg.Speed.InitialInterval(),
		FoodReward:      cfg.Food.Reward,
		SpeedStep:       cfg.Speed.StepScore,
		SpeedFactor:     cfg.Speed.Factor,
		MinInterval:     cfg.Speed.MinInterval(),
		Placement:       FoodPlacement(cfg.Food.Placement),
	}
}

// Start returns the spawn cell of the head, the middle of the grid.
func (r Rules) Start() Cell {
	return Cell{X: r.GridSize / 2, Y: r.GridSize / 2}
}
