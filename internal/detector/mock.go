package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesteasy/internal/landmark"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []landmark.Hand
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []landmark.Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has run.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]landmark.Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixtures below are right hands, palm toward the camera, in the pixel
// space of a 640x480 frame. Y grows downward.

// VShapeLandmarks returns a hand with index and middle fingers raised in a V.
// Index points at about -100 degrees and middle at about -88 degrees from
// the wrist, with the tips about 46px apart.
func VShapeLandmarks() landmark.Hand {
	h := landmark.Hand{Handedness: "Right", Score: 0.95}

	h.Points[landmark.Wrist] = landmark.Point3D{X: 320, Y: 420}

	// Thumb folded across the palm
	h.Points[landmark.ThumbCMC] = landmark.Point3D{X: 350, Y: 400}
	h.Points[landmark.ThumbMCP] = landmark.Point3D{X: 365, Y: 370}
	h.Points[landmark.ThumbIP] = landmark.Point3D{X: 350, Y: 345}
	h.Points[landmark.ThumbTip] = landmark.Point3D{X: 325, Y: 335}

	h.Points[landmark.IndexMCP] = landmark.Point3D{X: 305, Y: 330}
	h.Points[landmark.IndexPIP] = landmark.Point3D{X: 297, Y: 285}
	h.Points[landmark.IndexDIP] = landmark.Point3D{X: 290, Y: 245}
	h.Points[landmark.IndexTip] = landmark.Point3D{X: 281.8, Y: 203.3}

	h.Points[landmark.MiddleMCP] = landmark.Point3D{X: 325, Y: 328}
	h.Points[landmark.MiddlePIP] = landmark.Point3D{X: 326, Y: 280}
	h.Points[landmark.MiddleDIP] = landmark.Point3D{X: 327, Y: 240}
	h.Points[landmark.MiddleTip] = landmark.Point3D{X: 327.7, Y: 200.1}

	// Ring and pinky curled
	h.Points[landmark.RingMCP] = landmark.Point3D{X: 343, Y: 335}
	h.Points[landmark.RingPIP] = landmark.Point3D{X: 347, Y: 315}
	h.Points[landmark.RingDIP] = landmark.Point3D{X: 342, Y: 330}
	h.Points[landmark.RingTip] = landmark.Point3D{X: 337, Y: 345}

	h.Points[landmark.PinkyMCP] = landmark.Point3D{X: 358, Y: 345}
	h.Points[landmark.PinkyPIP] = landmark.Point3D{X: 362, Y: 330}
	h.Points[landmark.PinkyDIP] = landmark.Point3D{X: 357, Y: 342}
	h.Points[landmark.PinkyTip] = landmark.Point3D{X: 352, Y: 355}

	return h
}

// PinchLandmarks returns a hand with index and middle fingertips touching,
// about 13px apart.
func PinchLandmarks() landmark.Hand {
	h := landmark.Hand{Handedness: "Right", Score: 0.93}

	h.Points[landmark.Wrist] = landmark.Point3D{X: 320, Y: 420}

	h.Points[landmark.ThumbCMC] = landmark.Point3D{X: 350, Y: 400}
	h.Points[landmark.ThumbMCP] = landmark.Point3D{X: 368, Y: 372}
	h.Points[landmark.ThumbIP] = landmark.Point3D{X: 372, Y: 345}
	h.Points[landmark.ThumbTip] = landmark.Point3D{X: 370, Y: 320}

	h.Points[landmark.IndexMCP] = landmark.Point3D{X: 305, Y: 330}
	h.Points[landmark.IndexPIP] = landmark.Point3D{X: 302, Y: 290}
	h.Points[landmark.IndexDIP] = landmark.Point3D{X: 301, Y: 258}
	h.Points[landmark.IndexTip] = landmark.Point3D{X: 300, Y: 230}

	h.Points[landmark.MiddleMCP] = landmark.Point3D{X: 325, Y: 328}
	h.Points[landmark.MiddlePIP] = landmark.Point3D{X: 320, Y: 288}
	h.Points[landmark.MiddleDIP] = landmark.Point3D{X: 315, Y: 258}
	h.Points[landmark.MiddleTip] = landmark.Point3D{X: 312, Y: 236}

	h.Points[landmark.RingMCP] = landmark.Point3D{X: 343, Y: 335}
	h.Points[landmark.RingPIP] = landmark.Point3D{X: 347, Y: 315}
	h.Points[landmark.RingDIP] = landmark.Point3D{X: 342, Y: 330}
	h.Points[landmark.RingTip] = landmark.Point3D{X: 337, Y: 345}

	h.Points[landmark.PinkyMCP] = landmark.Point3D{X: 358, Y: 345}
	h.Points[landmark.PinkyPIP] = landmark.Point3D{X: 362, Y: 330}
	h.Points[landmark.PinkyDIP] = landmark.Point3D{X: 357, Y: 342}
	h.Points[landmark.PinkyTip] = landmark.Point3D{X: 352, Y: 355}

	return h
}

// OpenPalmLandmarks returns a hand with all fingers spread. It matches
// neither gesture.
func OpenPalmLandmarks() landmark.Hand {
	h := landmark.Hand{Handedness: "Right", Score: 0.95}

	h.Points[landmark.Wrist] = landmark.Point3D{X: 320, Y: 420}

	// Thumb extended to the side
	h.Points[landmark.ThumbCMC] = landmark.Point3D{X: 360, Y: 405}
	h.Points[landmark.ThumbMCP] = landmark.Point3D{X: 395, Y: 380}
	h.Points[landmark.ThumbIP] = landmark.Point3D{X: 425, Y: 355}
	h.Points[landmark.ThumbTip] = landmark.Point3D{X: 450, Y: 330}

	h.Points[landmark.IndexMCP] = landmark.Point3D{X: 350, Y: 320}
	h.Points[landmark.IndexPIP] = landmark.Point3D{X: 368, Y: 270}
	h.Points[landmark.IndexDIP] = landmark.Point3D{X: 385, Y: 228}
	h.Points[landmark.IndexTip] = landmark.Point3D{X: 400, Y: 190}

	h.Points[landmark.MiddleMCP] = landmark.Point3D{X: 322, Y: 315}
	h.Points[landmark.MiddlePIP] = landmark.Point3D{X: 325, Y: 255}
	h.Points[landmark.MiddleDIP] = landmark.Point3D{X: 328, Y: 210}
	h.Points[landmark.MiddleTip] = landmark.Point3D{X: 330, Y: 170}

	h.Points[landmark.RingMCP] = landmark.Point3D{X: 295, Y: 322}
	h.Points[landmark.RingPIP] = landmark.Point3D{X: 285, Y: 265}
	h.Points[landmark.RingDIP] = landmark.Point3D{X: 277, Y: 220}
	h.Points[landmark.RingTip] = landmark.Point3D{X: 270, Y: 180}

	h.Points[landmark.PinkyMCP] = landmark.Point3D{X: 270, Y: 335}
	h.Points[landmark.PinkyPIP] = landmark.Point3D{X: 248, Y: 290}
	h.Points[landmark.PinkyDIP] = landmark.Point3D{X: 233, Y: 255}
	h.Points[landmark.PinkyTip] = landmark.Point3D{X: 220, Y: 220}

	return h
}
