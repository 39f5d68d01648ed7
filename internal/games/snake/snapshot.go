package snake

import "time"

// Snapshot is a read-only copy of a round for renderers outside the
// core.Screen pipeline.
type Snapshot struct {
	GridSize int           `json:"gridSize"`
	Phase    string        `json:"phase"`
	Snake    []Cell        `json:"snake"`
	Food     Cell          `json:"food"`
	Dir      Direction     `json:"direction"`
	Score    int           `json:"score"`
	Interval time.Duration `json:"interval"`
	Paused   bool          `json:"paused"`
}

// Snapshot captures the current round.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		GridSize: g.rules.GridSize,
		Paused:   g.paused,
	}
	if g.state == nil {
		s.Phase = PhaseIdle.String()
		s.Interval = g.rules.InitialInterval
		return s
	}
	s.Phase = g.state.Phase().String()
	s.Snake = g.state.Segments()
	s.Food = g.state.Food()
	s.Dir = g.state.Direction()
	s.Score = g.state.Score()
	s.Interval = g.state.Interval()
	return s
}
