// Package snake implements Neon Snake, the grid game of the arcade.
//
// The rules live in State, which advances one grid step per Tick and knows
// nothing about time. Game wraps a State for the platform: it counts frames,
// asks a core.Scheduler whether a tick is due at the state's current interval
// on the resulting frame clock, and draws the board into a core.Screen.
package snake

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/arcaderank/internal/config"
	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/registry"
)

// Visual characters for rendering
const (
	HeadChar = '@'
	BodyChar = 'o'
	FoodChar = '*'
)

// cellWidth is how many terminal columns one grid cell takes. Terminal
// cells are roughly twice as tall as they are wide.
const cellWidth = 2

// Game implements registry.Game for Neon Snake.
type Game struct {
	rules  Rules
	state  *State
	config core.RuntimeConfig

	frames int // Unpaused frames since the round started
	sched  core.Scheduler
	paused bool
	ticks  int
	last   Outcome
}

// New creates a snake game with the given rules.
func New(rules Rules) *Game {
	return &Game{rules: rules}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "snake"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Neon Snake"
}

// Reset seeds a fresh round and leaves it idle until the first press.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.config = cfg
	g.state = NewState(g.rules, rand.New(rand.NewSource(cfg.Seed)))
	g.frames = 0
	g.sched.Reset(0)
	g.paused = false
	g.ticks = 0
	g.last = Outcome{}
}

// Step advances the frame clock and runs at most one grid tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	switch g.state.Phase() {
	case PhaseIdle:
		if in.Has(core.ActionPress) || in.Has(core.ActionConfirm) || in.Last != core.ActionNone {
			g.start()
			g.steer(in)
		}
		return core.StepResult{State: g.State()}

	case PhaseGameOver:
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

	g.steer(in)

	g.frames++
	if !g.sched.Due(g.config.FrameTime(g.frames), g.state.Interval()) {
		return core.StepResult{State: g.State()}
	}

	g.last = g.state.Tick()
	g.ticks++
	return core.StepResult{State: g.State(), Ticked: true}
}

func (g *Game) start() {
	g.state.Start()
	g.frames = 0
	g.sched.Reset(0)
	g.paused = false
	g.ticks = 0
	g.last = Outcome{}
}

// steer forwards every direction pressed this frame in the order it arrived.
func (g *Game) steer(in core.InputFrame) {
	for _, a := range in.Dirs {
		g.state.SetPendingDirection(directionFor(a))
	}
}

func directionFor(a core.Action) Direction {
	switch a {
	case core.ActionUp:
		return Up
	case core.ActionDown:
		return Down
	case core.ActionLeft:
		return Left
	case core.ActionRight:
		return Right
	}
	return None
}

// Render draws the board, the HUD and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	n := g.rules.GridSize
	boardW := n*cellWidth + 2
	boardH := n + 2

	if dst.Width() < boardW || dst.Height() < boardH+1 {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("need %dx%d", boardW, boardH+1))
		return
	}

	board := core.NewRect((dst.Width()-boardW)/2, 1, boardW, boardH)
	dst.DrawBox(board, core.ColorMagenta)

	hud := fmt.Sprintf(" Neon Snake  Score: %d  Speed: %dms ", g.state.Score(), g.state.Interval().Milliseconds())
	dst.DrawTextColor(board.X, 0, hud, core.ColorBrightCyan)

	plot := func(c Cell, r rune, col core.Color) {
		x := board.X + 1 + c.X*cellWidth
		y := board.Y + 1 + c.Y
		dst.SetColor(x, y, r, col)
	}

	if g.state.Phase() != PhaseIdle {
		plot(g.state.Food(), FoodChar, core.ColorRose)
		segs := g.state.Segments()
		for i := len(segs) - 1; i >= 1; i-- {
			plot(segs[i], BodyChar, core.ColorGreen)
		}
		if len(segs) > 0 {
			plot(segs[0], HeadChar, core.ColorEmerald)
		}
	}

	switch {
	case g.state.Phase() == PhaseIdle:
		g.drawMessage(dst, board, "NEON SNAKE", "Press Space to start")
	case g.state.Phase() == PhaseGameOver:
		g.drawMessage(dst, board, "GAME OVER", fmt.Sprintf("Score: %d  |  R to restart", g.state.Score()))
	case g.paused:
		g.drawMessage(dst, board, "PAUSED", "Press P to resume")
	}
}

func (g *Game) drawMessage(dst *core.Screen, board core.Rect, title, subtitle string) {
	w := max(len(title), len(subtitle)) + 4
	box := core.NewRect(board.X+(board.W-w)/2, board.Y+(board.H-5)/2, w, 5)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextColor(box.X+(w-len(title))/2, box.Y+1, title, core.ColorBrightYellow)
	dst.DrawText(box.X+(w-len(subtitle))/2, box.Y+3, subtitle)
}

// State returns the platform-facing game state.
func (g *Game) State() core.GameState {
	if g.state == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.state.Score(),
		Started:  g.state.Phase() != PhaseIdle,
		GameOver: g.state.Phase() == PhaseGameOver,
		Paused:   g.paused,
	}
}

// Round exposes the underlying grid state.
func (g *Game) Round() *State {
	return g.state
}

// LastOutcome returns the result of the most recent tick.
func (g *Game) LastOutcome() Outcome {
	return g.last
}

// Ticks returns how many grid ticks have run since the last start.
func (g *Game) Ticks() int {
	return g.ticks
}

// LoadRules resolves the YAML config and applies the difficulty preset.
func LoadRules(opts registry.Options) (Rules, error) {
	preset, ok := config.ParseDifficulty(opts.Difficulty)
	if !ok {
		return Rules{}, fmt.Errorf("snake: unknown difficulty %q", opts.Difficulty)
	}
	cfg, err := config.LoadSnake(opts.ConfigPath)
	if err != nil {
		return Rules{}, fmt.Errorf("snake: %w", err)
	}
	config.ApplySnakePreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return Rules{}, fmt.Errorf("snake: %s preset: %w", preset, err)
	}
	return RulesFromConfig(cfg), nil
}

func init() {
	registry.Register("snake", "Neon Snake", "The classic snake game with a neon look.",
		func(opts registry.Options) (registry.Game, error) {
			rules, err := LoadRules(opts)
			if err != nil {
				return nil, err
			}
			return New(rules), nil
		})
}
