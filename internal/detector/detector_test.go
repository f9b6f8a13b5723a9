package detector

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/gesteasy/internal/geometry"
	"github.com/ayusman/gesteasy/internal/gesture"
	"github.com/ayusman/gesteasy/internal/landmark"
)

const epsilon = 1e-6

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]landmark.Hand{VShapeLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("counts calls", func(t *testing.T) {
		mock := NewMockDetector()
		mock.Detect(nil)
		mock.Detect(nil)

		if mock.Calls() != 2 {
			t.Errorf("expected 2 calls, got %d", mock.Calls())
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestFixtures_Classify(t *testing.T) {
	thresholds := gesture.DefaultThresholds()

	tests := []struct {
		name string
		hand landmark.Hand
		want gesture.MatchKind
	}{
		{"v shape", VShapeLandmarks(), gesture.VShapeMatch},
		{"pinch", PinchLandmarks(), gesture.PinchMatch},
		{"open palm", OpenPalmLandmarks(), gesture.NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := geometry.Measure(&tt.hand)
			got := thresholds.ClassifySample(sample)
			if got != tt.want {
				t.Errorf("expected %v, got %v (sample %+v)", tt.want, got, sample)
			}
		})
	}
}

func TestVShapeLandmarks_Geometry(t *testing.T) {
	h := VShapeLandmarks()
	sample := geometry.Measure(&h)

	if math.Abs(sample.AngleIndexFromWrist-(-100)) > 0.1 {
		t.Errorf("expected index angle near -100, got %f", sample.AngleIndexFromWrist)
	}
	if math.Abs(sample.AngleMiddleFromWrist-(-88)) > 0.1 {
		t.Errorf("expected middle angle near -88, got %f", sample.AngleMiddleFromWrist)
	}
	if math.Abs(sample.DistanceIndexMiddle-46) > 0.5 {
		t.Errorf("expected tip distance near 46, got %f", sample.DistanceIndexMiddle)
	}
}

func TestFixtures_InsideFrame(t *testing.T) {
	for _, h := range []landmark.Hand{VShapeLandmarks(), PinchLandmarks(), OpenPalmLandmarks()} {
		for i, p := range h.Points {
			if p.X < 0 || p.X > 640 || p.Y < 0 || p.Y > 480 {
				t.Errorf("point %d (%+v) outside 640x480 frame", i, p)
			}
		}
	}
}

func TestDecodeResponse(t *testing.T) {
	point := `{"x":0.5,"y":0.25,"z":0.0}`
	full := "[" + point
	for i := 1; i < landmark.NumLandmarks; i++ {
		full += "," + point
	}
	full += "]"

	t.Run("scales to pixel space", func(t *testing.T) {
		line := []byte(`{"hands":[{"points":` + full + `,"handedness":"Left","score":0.8}]}` + "\n")

		hands, err := decodeResponse(line, 640, 480, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}

		tip := hands[0].IndexTip()
		if math.Abs(tip.X-320) > epsilon || math.Abs(tip.Y-120) > epsilon {
			t.Errorf("expected tip at (320,120), got (%f,%f)", tip.X, tip.Y)
		}
		if hands[0].Handedness != "Left" {
			t.Errorf("expected handedness Left, got %s", hands[0].Handedness)
		}
	})

	t.Run("drops malformed hands", func(t *testing.T) {
		line := []byte(`{"hands":[{"points":[` + point + `],"handedness":"Right","score":0.9},` +
			`{"points":` + full + `,"handedness":"Left","score":0.7}]}`)

		hands, err := decodeResponse(line, 640, 480, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" {
			t.Errorf("expected the complete hand to survive, got %s", hands[0].Handedness)
		}
	})

	t.Run("limits to max hands", func(t *testing.T) {
		hand := `{"points":` + full + `,"handedness":"Right","score":0.9}`
		line := []byte(`{"hands":[` + hand + "," + hand + "]}")

		hands, err := decodeResponse(line, 640, 480, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := decodeResponse([]byte(`{"hands":[]}`), 640, 480, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := decodeResponse([]byte(`{"hands":[],"error":"model missing"}`), 640, 480, 1)
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := decodeResponse([]byte("not json"), 640, 480, 1)
		if err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := NewMediaPipeDetector(DefaultConfig())
	if !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("expected ErrScriptNotFound, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxHands != 1 {
		t.Errorf("expected MaxHands 1, got %d", cfg.MaxHands)
	}
}
