package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplemaker/wav2phh/internal/testutil"
)

func TestKernelParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  KernelParams
		wantErr bool
	}{
		{"default", KernelParams{Factor: 7, HalfWidth: 15}, false},
		{"kaiser", KernelParams{Factor: 4, HalfWidth: 32, Taper: TaperKaiser, Beta: 8}, false},
		{"single_tap", KernelParams{Factor: 1, HalfWidth: 1}, false},
		{"zero_factor", KernelParams{Factor: 0, HalfWidth: 15}, true},
		{"factor_too_large", KernelParams{Factor: 65, HalfWidth: 15}, true},
		{"zero_half_width", KernelParams{Factor: 7, HalfWidth: 0}, true},
		{"negative_beta", KernelParams{Factor: 7, HalfWidth: 15, Taper: TaperKaiser, Beta: -1}, true},
		{"unknown_taper", KernelParams{Factor: 7, HalfWidth: 15, Taper: Taper(9)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKernelTable_Values(t *testing.T) {
	table, err := NewKernelTable(KernelParams{Factor: 7, HalfWidth: 15})
	require.NoError(t, err)

	assert.Equal(t, 7*14, table.Support())
	values := table.Values()
	require.Len(t, values, 7*14+1)

	assert.InDelta(t, 1.0, values[0], testutil.KernelTolerance, "f[0] must be 1")
	for u, v := range values {
		x := math.Pi * float64(u) / 7.0
		want := 1.0
		if u != 0 {
			want = math.Sin(x) / x
		}
		assert.InDelta(t, want, v, testutil.KernelTolerance, "f[%d]", u)
	}

	// Zero crossings at multiples of k.
	for j := 1; j < 15; j++ {
		assert.InDelta(t, 0.0, table.At(7*j), 1e-15, "f[%d·k]", j)
	}
}

func TestKernelTable_AtOutsideSupport(t *testing.T) {
	table, err := NewKernelTable(KernelParams{Factor: 4, HalfWidth: 3})
	require.NoError(t, err)

	assert.Equal(t, 8, table.Support())
	assert.Equal(t, table.At(3), table.At(-3), "kernel must be even")
	assert.Zero(t, table.At(9))
	assert.Zero(t, table.At(-9))
	assert.NotZero(t, table.At(7))
}

func TestKernelTable_Impulse(t *testing.T) {
	table, err := NewKernelTable(KernelParams{Factor: 3, HalfWidth: 5})
	require.NoError(t, err)

	impulse := table.Impulse()
	require.Len(t, impulse, 2*table.Support()+1)
	testutil.AssertSymmetric(t, impulse, testutil.KernelTolerance)
	testutil.AssertCenterIsMax(t, impulse)
}

func TestKernelTable_KaiserTaper(t *testing.T) {
	rect, err := NewKernelTable(KernelParams{Factor: 5, HalfWidth: 10})
	require.NoError(t, err)
	tapered, err := NewKernelTable(KernelParams{Factor: 5, HalfWidth: 10, Taper: TaperKaiser, Beta: 6})
	require.NoError(t, err)

	assert.Equal(t, TaperKaiser, tapered.Taper())
	assert.InDelta(t, 1.0, tapered.At(0), testutil.KernelTolerance, "taper keeps the center tap")

	// The taper only shrinks magnitudes, more so towards the edge.
	support := rect.Support()
	for u := 1; u <= support; u++ {
		assert.LessOrEqual(t, math.Abs(tapered.At(u)), math.Abs(rect.At(u))+testutil.KernelTolerance, "u=%d", u)
	}
	edgeRatio := tapered.At(support-2) / rect.At(support-2)
	nearRatio := tapered.At(2) / rect.At(2)
	assert.Less(t, edgeRatio, nearRatio)
}

func TestKernelTable_SingleTap(t *testing.T) {
	table, err := NewKernelTable(KernelParams{Factor: 6, HalfWidth: 1, Taper: TaperKaiser, Beta: 5})
	require.NoError(t, err)

	assert.Equal(t, 0, table.Support())
	assert.Equal(t, []float64{1.0}, table.Values())
	assert.Zero(t, table.At(1))
}

func BenchmarkNewKernelTable(b *testing.B) {
	params := KernelParams{Factor: 7, HalfWidth: 15, Taper: TaperKaiser, Beta: 8}
	for b.Loop() {
		_, _ = NewKernelTable(params)
	}
}
