// Package cursor maps tracked fingertip positions onto an output surface.
package cursor

// Position is a point on the output surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Projector scales source-frame coordinates to output-surface coordinates.
//
// The result is not clamped: a fingertip outside the source frame projects
// outside the surface, and callers that need an on-surface cursor must clamp
// it themselves.
type Projector struct {
	source  Size
	surface Size
}

// NewProjector creates a projector. source must be the size of the frame the
// landmarks were computed against.
func NewProjector(source, surface Size) Projector {
	return Projector{source: source, surface: surface}
}

// Project maps a source-frame point onto the surface.
func (p Projector) Project(x, y float64) Position {
	return Position{
		X: x / p.source.Width * p.surface.Width,
		Y: y / p.source.Height * p.surface.Height,
	}
}

// Clamp restricts pos to the surface bounds.
func (p Projector) Clamp(pos Position) Position {
	return Position{
		X: clamp(pos.X, 0, p.surface.Width),
		Y: clamp(pos.Y, 0, p.surface.Height),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
