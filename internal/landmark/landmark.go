// Package landmark defines the hand landmark types produced by the landmark source.
package landmark

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrMalformed is returned when landmark data does not describe a complete hand.
var ErrMalformed = errors.New("malformed landmarks")

// Point3D represents a point in the source frame's pixel space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Finite reports whether X and Y are usable numbers. Z is not checked
// because no gesture depends on depth.
func (p Point3D) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Hand is the fixed set of 21 landmarks detected for one hand in one frame.
// A Hand is treated as immutable once produced.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FromPoints builds a Hand from a variable-length point list, as delivered
// by external landmark sources. Anything other than exactly 21 points is
// rejected with ErrMalformed.
func FromPoints(points []Point3D, handedness string, score float64) (Hand, error) {
	if len(points) != NumLandmarks {
		return Hand{}, fmt.Errorf("%w: got %d points, want %d", ErrMalformed, len(points), NumLandmarks)
	}

	h := Hand{Handedness: handedness, Score: score}
	copy(h.Points[:], points)
	return h, nil
}

// Wrist returns the wrist landmark.
func (h *Hand) Wrist() Point3D { return h.Points[Wrist] }

// IndexTip returns the index fingertip landmark.
func (h *Hand) IndexTip() Point3D { return h.Points[IndexTip] }

// MiddleTip returns the middle fingertip landmark.
func (h *Hand) MiddleTip() Point3D { return h.Points[MiddleTip] }

// First returns the first detected hand, or nil when none were detected.
// Only a single hand is ever tracked.
func First(hands []Hand) *Hand {
	if len(hands) == 0 {
		return nil
	}
	h := hands[0]
	return &h
}
