package pipeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ayusman/gesteasy/internal/filter"
	"github.com/ayusman/gesteasy/internal/gesture"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// Default frame and surface sizes.
const (
	DefaultSourceWidth   = 640
	DefaultSourceHeight  = 480
	DefaultSurfaceWidth  = 1920
	DefaultSurfaceHeight = 1080
)

// Config holds every tunable of the landmark-to-intent pipeline.
type Config struct {
	// Axis smoothing
	ProcessNoise             float64
	MeasurementNoise         float64
	SeedFromFirstMeasurement bool

	// Classification bands, in source-frame pixels and degrees
	Thresholds gesture.Thresholds

	// Debounce
	ConfirmFrames   int
	ConfirmCooldown time.Duration
	ClickSuppress   time.Duration

	// Projection
	SourceWidth   int
	SourceHeight  int
	SurfaceWidth  int
	SurfaceHeight int
}

// DefaultConfig returns a Config with the tuned default values.
func DefaultConfig() Config {
	timing := gesture.DefaultTiming()
	return Config{
		ProcessNoise:     filter.DefaultProcessNoise,
		MeasurementNoise: filter.DefaultMeasurementNoise,
		Thresholds:       gesture.DefaultThresholds(),
		ConfirmFrames:    timing.ConfirmFrames,
		ConfirmCooldown:  timing.Cooldown,
		ClickSuppress:    timing.ClickSuppress,
		SourceWidth:      DefaultSourceWidth,
		SourceHeight:     DefaultSourceHeight,
		SurfaceWidth:     DefaultSurfaceWidth,
		SurfaceHeight:    DefaultSurfaceHeight,
	}
}

// Validate checks every value and returns a descriptive error wrapping
// ErrInvalidConfig for the first one out of range. Values are never clamped.
func (c Config) Validate() error {
	if !(c.ProcessNoise >= 0) || math.IsInf(c.ProcessNoise, 0) {
		return invalid("process noise must be a finite non-negative number, got %g", c.ProcessNoise)
	}
	if !(c.MeasurementNoise > 0) || math.IsInf(c.MeasurementNoise, 0) {
		return invalid("measurement noise must be a finite positive number, got %g", c.MeasurementNoise)
	}

	if err := validAngleRange("index angle", c.Thresholds.IndexAngle); err != nil {
		return err
	}
	if err := validAngleRange("middle angle", c.Thresholds.MiddleAngle); err != nil {
		return err
	}
	d := c.Thresholds.VDistance
	if !(d.Min >= 0) || !(d.Max >= d.Min) || math.IsInf(d.Max, 0) {
		return invalid("v distance range %s must be finite, non-negative and ordered", d)
	}
	if !(c.Thresholds.PinchDistance > 0) || math.IsInf(c.Thresholds.PinchDistance, 0) {
		return invalid("pinch distance must be a finite positive number, got %g", c.Thresholds.PinchDistance)
	}

	if c.ConfirmFrames < 1 {
		return invalid("confirm frames must be at least 1, got %d", c.ConfirmFrames)
	}
	if c.ConfirmCooldown < 0 {
		return invalid("confirm cooldown must not be negative, got %s", c.ConfirmCooldown)
	}
	if c.ClickSuppress < 0 {
		return invalid("click suppression must not be negative, got %s", c.ClickSuppress)
	}

	if c.SourceWidth <= 0 || c.SourceHeight <= 0 {
		return invalid("source frame size must be positive, got %dx%d", c.SourceWidth, c.SourceHeight)
	}
	if c.SurfaceWidth <= 0 || c.SurfaceHeight <= 0 {
		return invalid("surface size must be positive, got %dx%d", c.SurfaceWidth, c.SurfaceHeight)
	}

	return nil
}

// Timing returns the debounce timing portion of the config.
func (c Config) Timing() gesture.Timing {
	return gesture.Timing{
		ConfirmFrames: c.ConfirmFrames,
		Cooldown:      c.ConfirmCooldown,
		ClickSuppress: c.ClickSuppress,
	}
}

func validAngleRange(name string, r gesture.Range) error {
	if !(r.Min > -180 && r.Min <= 180) || !(r.Max > -180 && r.Max <= 180) {
		return invalid("%s range %s must lie within (-180, 180]", name, r)
	}
	if r.Min > r.Max {
		return invalid("%s range %s is inverted", name, r)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
