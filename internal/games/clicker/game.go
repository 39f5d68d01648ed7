// Package clicker implements Clicker Hero, a timed counter game: press
// Space as many times as possible before the countdown runs out.
package clicker

import (
	"fmt"
	"time"

	"github.com/vovakirdan/arcaderank/internal/config"
	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/registry"
)

// Rules are the tunable constants of a clicker round.
type Rules struct {
	Units  int           // Countdown start value
	Unit   time.Duration // Wall-clock length of one countdown unit
	Points int           // Score per press
}

// DefaultRules returns the stock Clicker Hero rules: ten one-second units.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultClickerConfig())
}

// RulesFromConfig converts a loaded YAML config into rules.
func RulesFromConfig(cfg config.ClickerConfig) Rules {
	return Rules{
		Units:  cfg.Countdown.Units,
		Unit:   cfg.Countdown.UnitDuration(),
		Points: cfg.Press.Points,
	}
}

// warnUnits is the remaining time at which the timer turns red.
const warnUnits = 3

// Game implements registry.Game for Clicker Hero.
type Game struct {
	rules   Rules
	counter *Counter
	config  core.RuntimeConfig

	frames int
	sched  core.Scheduler
	paused bool
}

// New creates a clicker game with the given rules.
func New(rules Rules) *Game {
	return &Game{rules: rules}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "clicker"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Clicker Hero"
}

// Reset prepares an idle round.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.config = cfg
	g.counter = NewCounter(g.rules.Units, g.rules.Points)
	g.frames = 0
	g.sched.Reset(0)
	g.paused = false
}

// Step counts presses and runs the countdown.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	switch g.counter.Phase() {
	case PhaseIdle:
		if in.Has(core.ActionPress) || in.Has(core.ActionConfirm) {
			g.start()
		}
		return core.StepResult{State: g.State()}

	case PhaseOver:
		if in.Has(core.ActionRestart) {
			g.start()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Presses land before the countdown so a press in the final frame
	// still counts.
	for range in.Presses {
		g.counter.Press()
	}

	g.frames++
	if !g.sched.Due(g.config.FrameTime(g.frames), g.rules.Unit) {
		return core.StepResult{State: g.State()}
	}
	g.counter.Decrement()
	return core.StepResult{State: g.State(), Ticked: true}
}

func (g *Game) start() {
	g.counter.Start()
	g.frames = 0
	g.sched.Reset(0)
	g.paused = false
}

// Render draws the timer, the count and the prompt.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	box := core.Centered(dst.Width(), dst.Height(), 36, 11)
	dst.DrawBox(box, core.ColorMagenta)
	dst.DrawTextCenteredColor(box.Y+1, "CLICKER HERO", core.ColorBrightCyan)

	timerColor := core.ColorBrightYellow
	if g.counter.Remaining() <= warnUnits {
		timerColor = core.ColorBrightRed
	}

	switch g.counter.Phase() {
	case PhaseIdle:
		dst.DrawTextCentered(box.Y+4, fmt.Sprintf("You have %d seconds", g.counter.Units()))
		dst.DrawTextCentered(box.Y+6, "Press Space to start")

	case PhaseRunning:
		dst.DrawTextCenteredColor(box.Y+3, fmt.Sprintf("Time: %ds", g.counter.Remaining()), timerColor)
		dst.DrawTextCenteredColor(box.Y+5, fmt.Sprintf("Clicks: %d", g.counter.Count()), core.ColorBrightGreen)
		dst.DrawTextCentered(box.Y+7, "Mash Space!")
		if g.paused {
			dst.DrawTextCenteredColor(box.Y+9, "PAUSED - P to resume", core.ColorGray)
		}

	case PhaseOver:
		dst.DrawTextCenteredColor(box.Y+3, "Time's up!", core.ColorBrightRed)
		dst.DrawTextCenteredColor(box.Y+5, fmt.Sprintf("Final score: %d", g.counter.Count()), core.ColorBrightGreen)
		dst.DrawTextCentered(box.Y+7, "R to play again")
	}
}

// State returns the platform-facing game state.
func (g *Game) State() core.GameState {
	if g.counter == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.counter.Count(),
		Started:  g.counter.Phase() != PhaseIdle,
		GameOver: g.counter.Phase() == PhaseOver,
		Paused:   g.paused,
	}
}

// Counter exposes the underlying counter.
func (g *Game) Counter() *Counter {
	return g.counter
}

// LoadRules resolves the YAML config and applies the difficulty preset.
func LoadRules(opts registry.Options) (Rules, error) {
	preset, ok := config.ParseDifficulty(opts.Difficulty)
	if !ok {
		return Rules{}, fmt.Errorf("clicker: unknown difficulty %q", opts.Difficulty)
	}
	cfg, err := config.LoadClicker(opts.ConfigPath)
	if err != nil {
		return Rules{}, fmt.Errorf("clicker: %w", err)
	}
	config.ApplyClickerPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return Rules{}, fmt.Errorf("clicker: %s preset: %w", preset, err)
	}
	return RulesFromConfig(cfg), nil
}

func init() {
	registry.Register("clicker", "Clicker Hero", "Click as fast as you can in 10 seconds.",
		func(opts registry.Options) (registry.Game, error) {
			rules, err := LoadRules(opts)
			if err != nil {
				return nil, err
			}
			return New(rules), nil
		})
}
