package clicker

// Phase is the lifecycle position of a clicker round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Counter is the timed counter state machine. It knows nothing about
// wall-clock time; the caller decrements it once per countdown unit.
type Counter struct {
	units  int // Countdown start value
	points int // Score per accepted press

	phase     Phase
	remaining int
	count     int
}

// NewCounter creates an idle counter.
func NewCounter(units, points int) *Counter {
	return &Counter{units: units, points: points, remaining: units}
}

// Start begins a fresh round with a full countdown and a zero count.
func (c *Counter) Start() {
	c.phase = PhaseRunning
	c.remaining = c.units
	c.count = 0
}

// Press counts one input event. Presses outside a running round, or once
// the countdown has reached zero, are ignored.
func (c *Counter) Press() bool {
	if c.phase != PhaseRunning || c.remaining <= 0 {
		return false
	}
	c.count += c.points
	return true
}

// Decrement removes one countdown unit and reports whether the round just
// ended.
func (c *Counter) Decrement() bool {
	if c.phase != PhaseRunning {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.phase = PhaseOver
	return true
}

// Phase returns the lifecycle phase.
func (c *Counter) Phase() Phase { return c.phase }

// Remaining returns the countdown units left.
func (c *Counter) Remaining() int { return c.remaining }

// Count returns the current (or final) count.
func (c *Counter) Count() int { return c.count }

// Units returns the countdown start value.
func (c *Counter) Units() int { return c.units }
