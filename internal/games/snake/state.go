package snake

import (
	"math/rand"
	"time"
)

// Phase is the lifecycle position of a round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// OutcomeKind tells the driver whether the loop keeps going.
type OutcomeKind int

const (
	Continue OutcomeKind = iota
	GameOver
)

// Cause names the collision that ended a round.
type Cause int

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
)

func (c Cause) String() string {
	switch c {
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	default:
		return "none"
	}
}

// Outcome is the result of one Tick.
type Outcome struct {
	Kind  OutcomeKind
	Cause Cause
	Score int  // Score after the tick (final score on GameOver)
	Ate   bool // Whether the head landed on food this tick
}

// State owns everything one round of the grid game mutates: the snake,
// the food, the live and pending directions, the tick interval, and the
// score. The loop driver and the input handler share a single *State.
type State struct {
	rules Rules
	rng   *rand.Rand

	phase    Phase
	snake    []Cell // Head at index 0
	food     Cell
	dir      Direction // Live direction, latched at the start of a tick
	pending  Direction // Last accepted directional intent
	interval time.Duration
	score    int
	cause    Cause
}

// NewState creates an idle round. Call Start to begin playing.
func NewState(rules Rules, rng *rand.Rand) *State {
	return &State{
		rules:    rules,
		rng:      rng,
		phase:    PhaseIdle,
		interval: rules.InitialInterval,
	}
}

// Start (re)initializes the round from scratch and enters PhaseRunning.
// It is both the Idle->Running and the GameOver->Running transition.
func (s *State) Start() {
	s.snake = []Cell{s.rules.Start()}
	s.dir = Right
	s.pending = Right
	s.interval = s.rules.InitialInterval
	s.score = 0
	s.cause = CauseNone
	s.food = s.spawnFood()
	s.phase = PhaseRunning
}

// SetPendingDirection records a directional intent for the next tick.
// Intents parallel to the live direction are ignored so the snake can
// never reverse into its own neck; the latest accepted intent wins.
func (s *State) SetPendingDirection(d Direction) {
	if d.IsZero() || d.Parallel(s.dir) {
		return
	}
	s.pending = d
}

// Tick advances the round by exactly one step.
func (s *State) Tick() Outcome {
	if s.phase != PhaseRunning {
		return s.outcome(false)
	}

	s.dir = s.pending
	if s.dir.IsZero() {
		return s.outcome(false)
	}

	head := s.snake[0].Add(s.dir)

	if !s.inBounds(head) {
		return s.end(CauseWall)
	}
	if s.occupied(head) {
		return s.end(CauseSelf)
	}

	s.snake = append(s.snake, Cell{})
	copy(s.snake[1:], s.snake)
	s.snake[0] = head

	if head != s.food {
		s.snake = s.snake[:len(s.snake)-1]
		return s.outcome(false)
	}

	before := s.score
	s.score += s.rules.FoodReward
	s.food = s.spawnFood()
	s.rampSpeed(before)
	return s.outcome(true)
}

// rampSpeed multiplies the interval once for every multiple of SpeedStep
// the score crossed on this tick.
func (s *State) rampSpeed(before int) {
	if s.rules.SpeedStep <= 0 {
		return
	}
	for range s.score/s.rules.SpeedStep - before/s.rules.SpeedStep {
		s.interval = time.Duration(float64(s.interval) * s.rules.SpeedFactor)
	}
	if s.rules.MinInterval > 0 && s.interval < s.rules.MinInterval {
		s.interval = s.rules.MinInterval
	}
}

func (s *State) end(cause Cause) Outcome {
	s.phase = PhaseGameOver
	s.cause = cause
	return s.outcome(false)
}

func (s *State) outcome(ate bool) Outcome {
	o := Outcome{Kind: Continue, Score: s.score, Ate: ate, Cause: s.cause}
	if s.phase == PhaseGameOver {
		o.Kind = GameOver
	}
	return o
}

func (s *State) inBounds(c Cell) bool {
	n := s.rules.GridSize
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

func (s *State) occupied(c Cell) bool {
	for _, seg := range s.snake {
		if seg == c {
			return true
		}
	}
	return false
}

// spawnFood picks the next food cell according to the placement rule.
func (s *State) spawnFood() Cell {
	n := s.rules.GridSize
	if s.rules.Placement != PlacementFree {
		return Cell{X: s.rng.Intn(n), Y: s.rng.Intn(n)}
	}

	free := make([]Cell, 0, n*n-len(s.snake))
	for y := range n {
		for x := range n {
			c := Cell{X: x, Y: y}
			if !s.occupied(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		// Board is full; the next move collides anyway.
		return Cell{X: s.rng.Intn(n), Y: s.rng.Intn(n)}
	}
	return free[s.rng.Intn(len(free))]
}

// Phase returns the lifecycle phase of the round.
func (s *State) Phase() Phase { return s.phase }

// Score returns the current score.
func (s *State) Score() int { return s.score }

// Interval returns the current tick interval.
func (s *State) Interval() time.Duration { return s.interval }

// Direction returns the live direction.
func (s *State) Direction() Direction { return s.dir }

// Pending returns the direction the next tick will latch.
func (s *State) Pending() Direction { return s.pending }

// Food returns the food cell.
func (s *State) Food() Cell { return s.food }

// Cause returns the collision that ended the round, if any.
func (s *State) Cause() Cause { return s.cause }

// Head returns the head cell. The snake is never empty after Start.
func (s *State) Head() Cell {
	if len(s.snake) == 0 {
		return Cell{}
	}
	return s.snake[0]
}

// Segments returns a copy of the snake, head first.
func (s *State) Segments() []Cell {
	out := make([]Cell, len(s.snake))
	copy(out, s.snake)
	return out
}

// Len returns the number of snake segments.
func (s *State) Len() int { return len(s.snake) }

// Rules returns the rules this round was created with.
func (s *State) Rules() Rules { return s.rules }
