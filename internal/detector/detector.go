// Package detector provides landmark sources that turn camera frames into hands.
package detector

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesteasy/internal/landmark"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hands in the
	// frame's pixel space. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]landmark.Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// IdleTimeout stops the inference process after this long without frames.
	IdleTimeout time.Duration

	// ScriptPath overrides the inference script lookup.
	ScriptPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
