package snake

import "fmt"

// Cell is an integer coordinate on the square grid.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell one step away in direction d.
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a unit vector along one grid axis, or the zero vector
// before the first move.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// The four movement directions. Y grows downward.
var (
	None  = Direction{}
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// IsZero reports whether d is the zero vector.
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// Parallel reports whether d and o share the same non-zero axis.
func (d Direction) Parallel(o Direction) bool {
	return (d.DX != 0 && o.DX != 0) || (d.DY != 0 && o.DY != 0)
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case None:
		return "none"
	default:
		return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
	}
}
