package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/simd/f64"
)

func TestComputeFrequencyResponse_DCGain(t *testing.T) {
	table, err := NewKernelTable(KernelParams{Factor: 7, HalfWidth: 15})
	require.NoError(t, err)

	impulse := table.Impulse()
	response := ComputeFrequencyResponse(impulse, 256)

	require.NotEmpty(t, response.Magnitude)
	assert.InDelta(t, f64.Sum(impulse), response.Magnitude[0], 1e-9, "DC magnitude is the coefficient sum")
	assert.InDelta(t, 0.0, response.Frequencies[0], 1e-15)
	assert.InDelta(t, 0.5, response.Frequencies[len(response.Frequencies)-1], 1e-12)
}

func TestComputeFrequencyResponse_KaiserStopband(t *testing.T) {
	const factor = 4
	table, err := NewKernelTable(KernelParams{Factor: factor, HalfWidth: 32, Taper: TaperKaiser, Beta: 8})
	require.NoError(t, err)

	response := ComputeFrequencyResponse(table.Impulse(), 4096)
	dc := response.Magnitude[0]

	// DC gain of the interpolation kernel is close to k.
	assert.InDelta(t, float64(factor), dc, 0.01)

	for i, f := range response.Frequencies {
		if f < 0.25 {
			continue
		}
		db := MagnitudeDB(response.Magnitude[i] / dc)
		assert.Less(t, db, -60.0, "stopband leak at f=%.4f: %.1f dB", f, db)
	}
}

func TestMagnitudeDB(t *testing.T) {
	assert.InDelta(t, 0.0, MagnitudeDB(1.0), 1e-12)
	assert.InDelta(t, -20.0, MagnitudeDB(0.1), 1e-12)
	assert.InDelta(t, -200.0, MagnitudeDB(0), 1e-12, "clamped at the floor")
}
