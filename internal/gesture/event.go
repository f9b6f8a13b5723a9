// Package gesture turns per-frame hand geometry into debounced user actions.
package gesture

import "fmt"

// MatchKind is the single-frame geometric classification of a hand.
type MatchKind int

const (
	// NoMatch means neither gesture's geometry holds this frame.
	NoMatch MatchKind = iota
	// VShapeMatch means index and middle fingers form a raised V.
	VShapeMatch
	// PinchMatch means index and middle fingertips are touching.
	PinchMatch
)

func (k MatchKind) String() string {
	switch k {
	case NoMatch:
		return "no-match"
	case VShapeMatch:
		return "v-shape-match"
	case PinchMatch:
		return "pinch-match"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a confirmed user action. At most one is emitted per frame.
type Event int

const (
	None Event = iota
	Click
	ConfirmNavigate
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case Click:
		return "click"
	case ConfirmNavigate:
		return "confirm-navigate"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// ParseEvent parses the string form of an event.
func ParseEvent(s string) (Event, error) {
	switch s {
	case "none":
		return None, nil
	case "click":
		return Click, nil
	case "confirm-navigate":
		return ConfirmNavigate, nil
	}
	return None, fmt.Errorf("unknown gesture event %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
