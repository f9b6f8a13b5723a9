package gesture

import (
	"fmt"

	"github.com/ayusman/gesteasy/internal/geometry"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, bounds included.
// NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Thresholds holds the geometric bands used to classify a frame.
// Distances are in source-frame pixels and depend on camera resolution.
type Thresholds struct {
	IndexAngle    Range   // degrees, index tip around the wrist
	MiddleAngle   Range   // degrees, middle tip around the wrist
	VDistance     Range   // index-middle spread for a V
	PinchDistance float64 // index-middle distance below which a pinch is detected
}

// DefaultThresholds returns bands tuned for a 640x480 source frame.
func DefaultThresholds() Thresholds {
	return Thresholds{
		IndexAngle:    Range{Min: -110, Max: -90},
		MiddleAngle:   Range{Min: -100, Max: -80},
		VDistance:     Range{Min: 40, Max: 100},
		PinchDistance: 30,
	}
}

// Classify returns the match kind for one frame's measurements.
//
// The V-shape rule is checked first: a frame that satisfies both rules is a
// V-shape, so a confirm gesture is never masked by a pinch. The pinch rule
// ignores angles entirely.
func (t Thresholds) Classify(indexAngle, middleAngle, fingerDistance float64) MatchKind {
	if t.IndexAngle.Contains(indexAngle) &&
		t.MiddleAngle.Contains(middleAngle) &&
		t.VDistance.Contains(fingerDistance) {
		return VShapeMatch
	}
	if fingerDistance < t.PinchDistance {
		return PinchMatch
	}
	return NoMatch
}

// ClassifySample classifies a geometry sample.
func (t Thresholds) ClassifySample(s geometry.Sample) MatchKind {
	return t.Classify(s.AngleIndexFromWrist, s.AngleMiddleFromWrist, s.DistanceIndexMiddle)
}
