// Package filter provides scalar smoothing for noisy per-axis measurements.
package filter

import "math"

// Default noise parameters for fingertip tracking.
const (
	DefaultProcessNoise     = 0.1
	DefaultMeasurementNoise = 0.01
)

// State is the recursive estimate held by one Kalman filter.
type State struct {
	Estimate         float64
	ErrorCovariance  float64
	ProcessNoise     float64
	MeasurementNoise float64
}

// Kalman is a one-dimensional Kalman filter modelling a random walk.
// It is not safe for concurrent use; each axis owns its own instance.
type Kalman struct {
	state  State
	seed   bool
	seeded bool
}

// NewKalman creates a filter with estimate 0 and error covariance 1.
func NewKalman(processNoise, measurementNoise float64) *Kalman {
	return &Kalman{
		state: State{
			Estimate:         0,
			ErrorCovariance:  1,
			ProcessNoise:     processNoise,
			MeasurementNoise: measurementNoise,
		},
	}
}

// SeedFromFirst makes the first finite measurement become the estimate
// directly instead of being blended with the zero initial estimate.
func (k *Kalman) SeedFromFirst() *Kalman {
	k.seed = true
	return k
}

// Update folds a measurement into the estimate and returns the new estimate.
// Non-finite measurements are skipped and the previous estimate is returned.
func (k *Kalman) Update(measurement float64) float64 {
	if math.IsNaN(measurement) || math.IsInf(measurement, 0) {
		return k.state.Estimate
	}

	if k.seed && !k.seeded {
		k.seeded = true
		k.state.Estimate = measurement
		return k.state.Estimate
	}

	// Predict
	p := k.state.ErrorCovariance + k.state.ProcessNoise

	// Correct
	gain := p / (p + k.state.MeasurementNoise)
	k.state.Estimate += gain * (measurement - k.state.Estimate)
	k.state.ErrorCovariance = (1 - gain) * p

	return k.state.Estimate
}

// Value returns the current estimate.
func (k *Kalman) Value() float64 {
	return k.state.Estimate
}

// State returns a copy of the filter state.
func (k *Kalman) State() State {
	return k.state
}
