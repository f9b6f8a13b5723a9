// Package geometry computes the inter-landmark measurements gestures are built on.
package geometry

import (
	"math"

	"github.com/ayusman/gesteasy/internal/landmark"
)

// Sample is the per-frame geometry derived from one hand.
type Sample struct {
	DistanceIndexMiddle  float64 `json:"distance_index_middle"`
	AngleIndexFromWrist  float64 `json:"angle_index_from_wrist"`
	AngleMiddleFromWrist float64 `json:"angle_middle_from_wrist"`
}

// Distance returns the Euclidean distance between a and b in the image plane.
// Z is ignored; estimated depth is too noisy for these gestures.
func Distance(a, b landmark.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleFromReference returns the polar angle of p around ref in degrees,
// in the range (-180, 180]. Image Y grows downward, so a finger pointing
// straight up from the wrist is at -90.
func AngleFromReference(p, ref landmark.Point3D) float64 {
	deg := math.Atan2(p.Y-ref.Y, p.X-ref.X) * 180 / math.Pi
	// atan2 yields -180 for (-x, -0); fold it onto +180.
	if deg == -180 {
		deg = 180
	}
	return deg
}

// Measure computes the geometry sample for a hand.
func Measure(h *landmark.Hand) Sample {
	wrist := h.Wrist()
	index := h.IndexTip()
	middle := h.MiddleTip()

	return Sample{
		DistanceIndexMiddle:  Distance(index, middle),
		AngleIndexFromWrist:  AngleFromReference(index, wrist),
		AngleMiddleFromWrist: AngleFromReference(middle, wrist),
	}
}
