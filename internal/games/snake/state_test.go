package snake

import (
	"math/rand"
	"testing"
	"time"
)

// newRunning returns a started state with the snake, food and direction
// replaced by the given values.
func newRunning(t *testing.T, rules Rules, body []Cell, food Cell, dir Direction) *State {
	t.Helper()
	s := NewState(rules, rand.New(rand.NewSource(1)))
	s.Start()
	s.snake = append([]Cell(nil), body...)
	s.food = food
	s.dir = dir
	s.pending = dir
	return s
}

func TestStartInitialState(t *testing.T) {
	s := NewState(DefaultRules(), rand.New(rand.NewSource(7)))
	if s.Phase() != PhaseIdle {
		t.Fatalf("new state phase = %v, expected idle", s.Phase())
	}

	s.Start()

	if s.Phase() != PhaseRunning {
		t.Errorf("phase = %v, expected running", s.Phase())
	}
	if got := s.Segments(); len(got) != 1 || got[0] != (Cell{10, 10}) {
		t.Errorf("snake = %v, expected [(10,10)]", got)
	}
	if s.Direction() != Right {
		t.Errorf("direction = %v, expected right", s.Direction())
	}
	if s.Interval() != 150*time.Millisecond {
		t.Errorf("interval = %v, expected 150ms", s.Interval())
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, expected 0", s.Score())
	}
	f := s.Food()
	if f.X < 0 || f.X >= 20 || f.Y < 0 || f.Y >= 20 {
		t.Errorf("food %v outside grid", f)
	}
}

func TestTickEatsFood(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{10, 10}}, Cell{11, 10}, Right)

	out := s.Tick()

	if out.Kind != Continue || !out.Ate {
		t.Fatalf("outcome = %+v, expected continue with food eaten", out)
	}
	want := []Cell{{11, 10}, {10, 10}}
	got := s.Segments()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("snake = %v, expected %v", got, want)
	}
	if s.Score() != 10 {
		t.Errorf("score = %d, expected 10", s.Score())
	}
	if s.Interval() != 150*time.Millisecond {
		t.Errorf("interval changed to %v before reaching a speed step", s.Interval())
	}
}

func TestTickMovesWithoutGrowing(t *testing.T) {
	body := []Cell{{5, 5}, {4, 5}, {3, 5}}
	s := newRunning(t, DefaultRules(), body, Cell{0, 0}, Right)

	out := s.Tick()

	if out.Kind != Continue || out.Ate {
		t.Fatalf("outcome = %+v, expected plain continue", out)
	}
	want := []Cell{{6, 5}, {5, 5}, {4, 5}}
	got := s.Segments()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snake = %v, expected %v", got, want)
		}
	}
	if len(got) != len(body) {
		t.Errorf("length = %d, expected %d", len(got), len(body))
	}
}

func TestTickWallCollision(t *testing.T) {
	tests := []struct {
		name string
		head Cell
		dir  Direction
	}{
		{"left edge", Cell{0, 0}, Left},
		{"top edge", Cell{5, 0}, Up},
		{"right edge", Cell{19, 7}, Right},
		{"bottom edge", Cell{3, 19}, Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRunning(t, DefaultRules(), []Cell{tt.head}, Cell{10, 10}, tt.dir)

			out := s.Tick()

			if out.Kind != GameOver || out.Cause != CauseWall {
				t.Errorf("outcome = %+v, expected wall game over", out)
			}
			if s.Phase() != PhaseGameOver {
				t.Errorf("phase = %v, expected game over", s.Phase())
			}
			if got := s.Segments(); len(got) != 1 || got[0] != tt.head {
				t.Errorf("snake moved on collision: %v", got)
			}
		})
	}
}

func TestTickSelfCollision(t *testing.T) {
	// Head at (5,5) heading up into its own body at (5,4).
	body := []Cell{{5, 5}, {6, 5}, {6, 4}, {5, 4}, {4, 4}}
	s := newRunning(t, DefaultRules(), body, Cell{0, 0}, Left)
	s.SetPendingDirection(Up)

	out := s.Tick()

	if out.Kind != GameOver || out.Cause != CauseSelf {
		t.Errorf("outcome = %+v, expected self game over", out)
	}
}

func TestTickIntoTailIsCollision(t *testing.T) {
	// A closed 2x2 loop: moving into the current tail cell ends the game.
	body := []Cell{{5, 5}, {5, 6}, {6, 6}, {6, 5}}
	s := newRunning(t, DefaultRules(), body, Cell{0, 0}, Left)
	s.dir = Up
	s.pending = Right

	out := s.Tick()

	if out.Kind != GameOver || out.Cause != CauseSelf {
		t.Errorf("outcome = %+v, expected self game over on tail cell", out)
	}
}

func TestSpeedRampAtStep(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{10, 10}}, Cell{11, 10}, Right)
	s.score = 40

	s.Tick()

	if s.Score() != 50 {
		t.Fatalf("score = %d, expected 50", s.Score())
	}
	want := time.Duration(float64(150*time.Millisecond) * 0.95)
	if s.Interval() != want {
		t.Errorf("interval = %v, expected %v", s.Interval(), want)
	}

	// 60 is not a multiple of the step; the interval holds.
	s.food = s.Head().Add(Right)
	s.Tick()
	if s.Interval() != want {
		t.Errorf("interval = %v after non-step score, expected %v", s.Interval(), want)
	}
}

func TestSpeedRampMinInterval(t *testing.T) {
	rules := DefaultRules()
	rules.MinInterval = 145 * time.Millisecond
	s := newRunning(t, rules, []Cell{{10, 10}}, Cell{11, 10}, Right)
	s.score = 40

	s.Tick()

	if s.Interval() != 145*time.Millisecond {
		t.Errorf("interval = %v, expected clamp at 145ms", s.Interval())
	}
}

func TestSpeedRampUncapped(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{0, 0}}, Cell{1, 0}, Right)

	prev := s.Interval()
	for i := range 15 {
		s.food = s.Head().Add(Down)
		s.SetPendingDirection(Down)
		if i%2 == 1 {
			s.food = s.Head().Add(Right)
			s.SetPendingDirection(Right)
		}
		s.Tick()
		if s.Interval() > prev {
			t.Fatalf("interval grew from %v to %v", prev, s.Interval())
		}
		prev = s.Interval()
	}
	if s.Score() != 150 {
		t.Fatalf("score = %d, expected 150", s.Score())
	}
	want := time.Duration(float64(time.Duration(float64(time.Duration(float64(150*time.Millisecond)*0.95))*0.95)) * 0.95)
	if s.Interval() != want {
		t.Errorf("interval = %v after three steps, expected %v", s.Interval(), want)
	}
}

func TestSetPendingDirectionAntiReversal(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{10, 10}, {9, 10}}, Cell{0, 0}, Right)

	s.SetPendingDirection(Left)
	if s.Pending() != Right {
		t.Errorf("reverse accepted: pending = %v", s.Pending())
	}

	s.SetPendingDirection(Right)
	if s.Pending() != Right {
		t.Errorf("same-axis input changed pending to %v", s.Pending())
	}

	s.SetPendingDirection(Up)
	s.SetPendingDirection(Down)
	if s.Pending() != Down {
		t.Errorf("last write should win, pending = %v", s.Pending())
	}

	s.Tick()
	if s.Head() != (Cell{10, 11}) {
		t.Errorf("head = %v, expected (10,11)", s.Head())
	}
}

func TestSetPendingDirectionIdempotent(t *testing.T) {
	a := newRunning(t, DefaultRules(), []Cell{{10, 10}}, Cell{0, 0}, Right)
	b := newRunning(t, DefaultRules(), []Cell{{10, 10}}, Cell{0, 0}, Right)

	a.SetPendingDirection(Up)
	b.SetPendingDirection(Up)
	b.SetPendingDirection(Up)

	if a.Pending() != b.Pending() {
		t.Errorf("repeat call changed result: %v vs %v", a.Pending(), b.Pending())
	}
}

func TestReversalWithinOneTickRejected(t *testing.T) {
	// Up is accepted, but the live direction is still Right, so a quick
	// Left cannot sneak through before the tick latches Up.
	s := newRunning(t, DefaultRules(), []Cell{{10, 10}, {9, 10}}, Cell{0, 0}, Right)

	s.SetPendingDirection(Up)
	s.SetPendingDirection(Left)

	if s.Pending() != Up {
		t.Errorf("pending = %v, expected up", s.Pending())
	}
}

func TestZeroDirectionIsNoOp(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{10, 10}}, Cell{11, 10}, None)

	out := s.Tick()

	if out.Kind != Continue {
		t.Errorf("outcome = %+v, expected continue", out)
	}
	if s.Head() != (Cell{10, 10}) || s.Score() != 0 {
		t.Errorf("state changed with zero direction: head %v score %d", s.Head(), s.Score())
	}

	s.SetPendingDirection(None)
	if !s.Pending().IsZero() {
		t.Errorf("zero input should be ignored, pending = %v", s.Pending())
	}
}

func TestTickAfterGameOverIsInert(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{0, 0}}, Cell{10, 10}, Left)
	s.Tick()

	before := s.Segments()
	out := s.Tick()

	if out.Kind != GameOver || out.Score != 0 {
		t.Errorf("outcome = %+v, expected repeated game over", out)
	}
	if after := s.Segments(); after[0] != before[0] {
		t.Errorf("snake moved after game over")
	}
}

func TestRestartReinitializes(t *testing.T) {
	s := newRunning(t, DefaultRules(), []Cell{{10, 10}}, Cell{11, 10}, Right)
	s.score = 40
	s.Tick()
	s.dir, s.pending = Up, Up
	s.snake = []Cell{{4, 0}}
	s.Tick()
	if s.Phase() != PhaseGameOver {
		t.Fatalf("setup: phase = %v", s.Phase())
	}

	s.Start()

	if s.Phase() != PhaseRunning || s.Score() != 0 || s.Len() != 1 {
		t.Errorf("restart kept old state: phase %v score %d len %d", s.Phase(), s.Score(), s.Len())
	}
	if s.Interval() != 150*time.Millisecond || s.Direction() != Right || s.Cause() != CauseNone {
		t.Errorf("restart kept interval %v dir %v cause %v", s.Interval(), s.Direction(), s.Cause())
	}
}

func TestFreePlacementAvoidsBody(t *testing.T) {
	rules := DefaultRules()
	rules.GridSize = 4
	rules.Placement = PlacementFree

	s := NewState(rules, rand.New(rand.NewSource(3)))
	s.Start()
	// Fill all but one cell with the body.
	s.snake = s.snake[:0]
	for y := range 4 {
		for x := range 4 {
			if x == 3 && y == 3 {
				continue
			}
			s.snake = append(s.snake, Cell{x, y})
		}
	}

	for range 20 {
		if f := s.spawnFood(); f != (Cell{3, 3}) {
			t.Fatalf("food at %v, expected the only free cell (3,3)", f)
		}
	}
}

func TestSameSeedSameFood(t *testing.T) {
	a := NewState(DefaultRules(), rand.New(rand.NewSource(99)))
	b := NewState(DefaultRules(), rand.New(rand.NewSource(99)))
	a.Start()
	b.Start()

	for range 10 {
		if a.Food() != b.Food() {
			t.Fatalf("food diverged: %v vs %v", a.Food(), b.Food())
		}
		a.food = a.spawnFood()
		b.food = b.spawnFood()
	}
}

// TestRandomPlayInvariants drives many rounds with random input and checks
// bounds, length and score invariants after every tick.
func TestRandomPlayInvariants(t *testing.T) {
	dirs := []Direction{Up, Down, Left, Right}
	input := rand.New(rand.NewSource(2024))

	for round := range 50 {
		rules := DefaultRules()
		if round%2 == 1 {
			rules.Placement = PlacementFree
		}
		s := NewState(rules, rand.New(rand.NewSource(int64(round))))
		s.Start()

		for range 500 {
			if input.Intn(3) == 0 {
				s.SetPendingDirection(dirs[input.Intn(len(dirs))])
			}
			prevLen, prevScore := s.Len(), s.Score()
			out := s.Tick()

			if s.Len() == 0 {
				t.Fatal("snake became empty")
			}
			if s.Score() < prevScore {
				t.Fatalf("score decreased from %d to %d", prevScore, s.Score())
			}
			for _, c := range s.Segments() {
				if c.X < 0 || c.X >= rules.GridSize || c.Y < 0 || c.Y >= rules.GridSize {
					t.Fatalf("segment %v outside grid", c)
				}
			}
			switch {
			case out.Kind == GameOver:
				if s.Len() != prevLen {
					t.Fatalf("length changed on game over")
				}
			case out.Ate:
				if s.Len() != prevLen+1 || s.Score() != prevScore+rules.FoodReward {
					t.Fatalf("eat: len %d->%d score %d->%d", prevLen, s.Len(), prevScore, s.Score())
				}
			default:
				if s.Len() != prevLen {
					t.Fatalf("move: len %d->%d", prevLen, s.Len())
				}
			}
			if out.Kind == GameOver {
				break
			}
		}
	}
}
