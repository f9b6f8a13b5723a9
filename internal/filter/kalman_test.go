package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKalman_InitialState(t *testing.T) {
	k := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise)

	s := k.State()
	assert.Equal(t, 0.0, s.Estimate)
	assert.Equal(t, 1.0, s.ErrorCovariance)
	assert.Equal(t, 0.1, s.ProcessNoise)
	assert.Equal(t, 0.01, s.MeasurementNoise)
}

func TestKalman_SingleUpdate(t *testing.T) {
	k := NewKalman(0.1, 0.01)

	// p = 1.1, gain = 1.1/1.11
	got := k.Update(100)
	gain := 1.1 / 1.11
	assert.InDelta(t, gain*100, got, 1e-9)
	assert.InDelta(t, (1-gain)*1.1, k.State().ErrorCovariance, 1e-12)
}

func TestKalman_ConvergesOnConstantInput(t *testing.T) {
	const m = 320.0
	k := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise)

	prevErr := math.Abs(m - k.Value())
	prevCov := k.State().ErrorCovariance
	prevEst := k.Value()

	for i := 0; i < 50; i++ {
		est := k.Update(m)
		cov := k.State().ErrorCovariance

		assert.GreaterOrEqual(t, est, prevEst, "estimate must move monotonically toward m (step %d)", i)
		assert.LessOrEqual(t, est, m, "estimate must not overshoot (step %d)", i)

		curErr := math.Abs(m - est)
		assert.LessOrEqual(t, curErr, prevErr, "error must not grow (step %d)", i)

		if i < 5 {
			assert.Less(t, cov, prevCov, "covariance must strictly decrease early on (step %d)", i)
		} else {
			// Allow for rounding jitter once the floor is reached.
			assert.LessOrEqual(t, cov, prevCov+1e-15, "covariance must not grow (step %d)", i)
		}

		prevErr, prevCov, prevEst = curErr, cov, est
	}

	assert.InDelta(t, m, k.Value(), 1e-6)

	// Steady-state floor: P = (P+Q)R / (P+Q+R)
	p := k.State().ErrorCovariance
	floor := (p + DefaultProcessNoise) * DefaultMeasurementNoise / (p + DefaultProcessNoise + DefaultMeasurementNoise)
	assert.InDelta(t, floor, p, 1e-9)
}

func TestKalman_SkipsNonFinite(t *testing.T) {
	inputs := []float64{10, 12, 11}

	clean := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise)
	var cleanOut []float64
	for _, v := range inputs {
		cleanOut = append(cleanOut, clean.Update(v))
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		k := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise)
		out := []float64{
			k.Update(inputs[0]),
			k.Update(inputs[1]),
		}
		before := k.State()

		skipped := k.Update(bad)
		require.False(t, math.IsNaN(skipped))
		assert.Equal(t, out[1], skipped, "non-finite input must return previous estimate")
		assert.Equal(t, before, k.State(), "non-finite input must not touch state")

		after := k.Update(inputs[2])
		assert.Equal(t, cleanOut[2], after, "filter must resume as if the bad sample never arrived")
	}
}

func TestKalman_SeedFromFirst(t *testing.T) {
	k := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise).SeedFromFirst()

	assert.Equal(t, 0.0, k.Update(math.NaN()), "NaN must not count as the seed")
	assert.Equal(t, 250.0, k.Update(250))
	assert.Equal(t, 1.0, k.State().ErrorCovariance)

	next := k.Update(260)
	assert.Greater(t, next, 250.0)
	assert.Less(t, next, 260.0)
}

func TestKalman_IndependentInstances(t *testing.T) {
	x := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise)
	y := NewKalman(DefaultProcessNoise, DefaultMeasurementNoise)

	x.Update(500)
	x.Update(500)

	assert.Equal(t, 0.0, y.Value())
	assert.Equal(t, 1.0, y.State().ErrorCovariance)
}
