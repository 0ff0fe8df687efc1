package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplemaker/wav2phh/internal/testutil"
)

const (
	windowTolerance = 1e-10

	testWindowLength11 = 11
	testWindowLength21 = 21
	testWindowLength51 = 51
	testBeta5          = 5.0
	testBeta8          = 8.0
	testBeta10         = 10.0
)

// TestKaiserWindow_Symmetry verifies that Kaiser window is symmetric.
func TestKaiserWindow_Symmetry(t *testing.T) {
	tests := []struct {
		name   string
		length int
		beta   float64
	}{
		{"length_11_beta_5", testWindowLength11, testBeta5},
		{"length_21_beta_8", testWindowLength21, testBeta8},
		{"length_51_beta_10", testWindowLength51, testBeta10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := KaiserWindow(tt.length, tt.beta)

			assert.Len(t, window, tt.length, "window length mismatch")
			testutil.AssertSymmetric(t, window, windowTolerance)
		})
	}
}

// TestKaiserWindow_CenterTap verifies that center tap is maximum.
func TestKaiserWindow_CenterTap(t *testing.T) {
	window := KaiserWindow(testWindowLength21, testBeta8)

	testutil.AssertCenterIsMax(t, window)
	assert.InDelta(t, 1.0, window[testWindowLength21/2], windowTolerance,
		"center value should be ~1.0")
}

// TestKaiserWindow_EdgeCases tests edge cases.
func TestKaiserWindow_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"zero_length", 0, 0},
		{"negative_length", -1, 0},
		{"length_one", 1, 1},
		{"length_two", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := KaiserWindow(tt.length, testBeta5)
			assert.Len(t, window, tt.want, "window length mismatch")
			if tt.want == 1 {
				assert.InDelta(t, 1.0, window[0], windowTolerance)
			}
		})
	}
}

// TestKaiserWindow_BetaZeroIsRectangular checks that β = 0 leaves all weights at one.
func TestKaiserWindow_BetaZeroIsRectangular(t *testing.T) {
	for _, w := range KaiserWindow(testWindowLength11, 0) {
		assert.InDelta(t, 1.0, w, windowTolerance)
	}
}

func TestParseTaper(t *testing.T) {
	tests := []struct {
		in      string
		want    Taper
		wantErr bool
	}{
		{"rectangular", TaperRectangular, false},
		{"none", TaperRectangular, false},
		{"", TaperRectangular, false},
		{"kaiser", TaperKaiser, false},
		{"hann", TaperRectangular, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTaper(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in == "rectangular" || tt.in == "kaiser" {
				assert.Equal(t, tt.in, got.String())
			}
		})
	}
}
