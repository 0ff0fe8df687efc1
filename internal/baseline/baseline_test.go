package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplemaker/wav2phh/internal/testutil"
)

// =============================================================================
// MovingAverage
// =============================================================================

func TestMovingAverage_ColdStart(t *testing.T) {
	const (
		length = 20
		v      = 0.004
	)
	avg, err := NewMovingAverage(length)
	require.NoError(t, err)

	for i := 1; i <= length; i++ {
		got := avg.Update(v)
		assert.InDelta(t, float64(i)*v/length, got, testutil.DefaultTolerance, "call %d", i)
	}

	// Saturated: further identical values keep the mean at v.
	for range 3 * length {
		assert.InDelta(t, v, avg.Update(v), testutil.DefaultTolerance)
	}
}

func TestMovingAverage_Eviction(t *testing.T) {
	avg, err := NewMovingAverage(3)
	require.NoError(t, err)

	avg.Update(3)
	avg.Update(6)
	assert.InDelta(t, 6.0, avg.Update(9), testutil.DefaultTolerance)
	// Evicts 3.
	assert.InDelta(t, 7.0, avg.Update(6), testutil.DefaultTolerance)
	// Evicts 6.
	assert.InDelta(t, 5.0, avg.Update(0), testutil.DefaultTolerance)
	assert.InDelta(t, 5.0, avg.Mean(), testutil.DefaultTolerance)
	assert.Equal(t, 3, avg.Len())
}

func TestMovingAverage_Reset(t *testing.T) {
	avg, err := NewMovingAverage(4)
	require.NoError(t, err)

	for range 10 {
		avg.Update(1)
	}
	avg.Reset()

	fresh, err := NewMovingAverage(4)
	require.NoError(t, err)
	for _, v := range []float64{0.5, 0.25, 1, 2, 3} {
		assert.InDelta(t, fresh.Update(v), avg.Update(v), testutil.DefaultTolerance)
	}
}

func TestMovingAverage_InvalidLength(t *testing.T) {
	_, err := NewMovingAverage(0)
	assert.Error(t, err)
}

// =============================================================================
// Estimator
// =============================================================================

func newTestEstimator(t *testing.T) *Estimator {
	t.Helper()
	est, err := NewEstimator(Params{DiffThresh: 0.005, RelThresh: 0.01, Length: 4})
	require.NoError(t, err)
	return est
}

func TestEstimator_Gating(t *testing.T) {
	tests := []struct {
		name    string
		n0, n1  float64
		updates bool
	}{
		{"quiet", 0.004, 0.005, true},
		{"steep_edge", 0.004, 0.02, false},
		{"above_absolute", 0.02, 0.021, false},
		{"diff_above_threshold", 0.004, 0.0095, false},
		{"negative_quiet", -0.002, -0.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := newTestEstimator(t)
			got := est.Estimate(tt.n0, tt.n1)
			if tt.updates {
				assert.InDelta(t, tt.n0/4, got, testutil.DefaultTolerance)
			} else {
				assert.Zero(t, got, "baseline must hold its previous value")
			}
		})
	}
}

func TestEstimator_HoldsLastValue(t *testing.T) {
	est := newTestEstimator(t)

	for range 4 {
		est.Estimate(0.008, 0.008)
	}
	held := est.Value()
	assert.InDelta(t, 0.008, held, testutil.DefaultTolerance)

	// A pulse passes by without moving the baseline.
	for _, pair := range [][2]float64{{0.008, 0.3}, {0.3, 0.6}, {0.6, 0.2}, {0.2, 0.05}} {
		assert.Equal(t, held, est.Estimate(pair[0], pair[1]))
	}
}

func TestEstimator_Reset(t *testing.T) {
	est := newTestEstimator(t)
	for range 8 {
		est.Estimate(0.006, 0.006)
	}
	est.Reset()

	assert.Zero(t, est.Value())
	assert.InDelta(t, 0.001/4, est.Estimate(0.001, 0.001), testutil.DefaultTolerance)
}

func TestNewEstimator_Invalid(t *testing.T) {
	_, err := NewEstimator(Params{DiffThresh: -1, RelThresh: 0.01, Length: 4})
	assert.Error(t, err)
	_, err = NewEstimator(Params{DiffThresh: 0.005, RelThresh: 0.01, Length: 0})
	assert.Error(t, err)
}
