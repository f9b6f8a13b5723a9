package gesture

import "time"

// Default debounce timing.
const (
	DefaultConfirmFrames = 5
	DefaultCooldown      = 300 * time.Millisecond
	DefaultClickSuppress = 300 * time.Millisecond
)

// Phase is the observable state of the debounce machine.
type Phase int

const (
	// PhaseIdle means no V-shape frames are being accumulated.
	PhaseIdle Phase = iota
	// PhaseAccumulating means one or more consecutive V-shape frames were seen.
	PhaseAccumulating
	// PhaseConfirmed means ConfirmNavigate fired on the last step.
	PhaseConfirmed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Timing configures the debounce machine.
type Timing struct {
	ConfirmFrames int           // consecutive V-shape frames required to confirm
	Cooldown      time.Duration // minimum gap between two confirms
	ClickSuppress time.Duration // window after a click during which pinches are ignored
}

// DefaultTiming returns the default debounce timing.
func DefaultTiming() Timing {
	return Timing{
		ConfirmFrames: DefaultConfirmFrames,
		Cooldown:      DefaultCooldown,
		ClickSuppress: DefaultClickSuppress,
	}
}

// State is the cross-frame memory of the debounce machine.
// Zero times mean "never".
type State struct {
	ConsecutiveVMatches int
	LastConfirmedAt     time.Time
	SuppressedUntil     time.Time
}

// Machine converts per-frame matches into confirmed events. Confirms need
// several consecutive V-shape frames and respect a cooldown; clicks fire on
// the first pinch frame and then suppress further clicks briefly.
//
// A Machine is owned by a single goroutine.
type Machine struct {
	timing Timing
	state  State
	phase  Phase
}

// NewMachine creates a machine in the idle phase.
func NewMachine(timing Timing) *Machine {
	return &Machine{timing: timing}
}

// Step applies one frame. present is false when no hand was detected, in
// which case kind is ignored.
func (m *Machine) Step(kind MatchKind, present bool, now time.Time) Event {
	if !present {
		kind = NoMatch
	}

	switch kind {
	case VShapeMatch:
		m.state.ConsecutiveVMatches++
		if m.state.ConsecutiveVMatches >= m.timing.ConfirmFrames && m.cooledDown(now) {
			m.state.ConsecutiveVMatches = 0
			m.state.LastConfirmedAt = now
			m.phase = PhaseConfirmed
			return ConfirmNavigate
		}
		m.phase = PhaseAccumulating
		return None

	case PinchMatch:
		m.state.ConsecutiveVMatches = 0
		m.phase = PhaseIdle
		if now.Before(m.state.SuppressedUntil) {
			return None
		}
		m.state.SuppressedUntil = now.Add(m.timing.ClickSuppress)
		return Click

	default:
		m.state.ConsecutiveVMatches = 0
		m.phase = PhaseIdle
		return None
	}
}

func (m *Machine) cooledDown(now time.Time) bool {
	if m.state.LastConfirmedAt.IsZero() {
		return true
	}
	return now.Sub(m.state.LastConfirmedAt) > m.timing.Cooldown
}

// Reset returns the machine to its initial idle state, clearing counters,
// the confirm cooldown and click suppression.
func (m *Machine) Reset() {
	m.state = State{}
	m.phase = PhaseIdle
}

// State returns a copy of the machine's state.
func (m *Machine) State() State {
	return m.state
}

// Phase returns the machine's current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}
