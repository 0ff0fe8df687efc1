// Package filter builds the band-limited reconstruction kernel used to
// recover pulse peaks between samples, and provides tools to inspect it.
package filter

import (
	"fmt"
	"math"

	"github.com/samplemaker/wav2phh/internal/mathutil"
)

const (
	// Window normalization
	windowNormalizationFactor = 2.0

	// Largest accepted Kaiser β; beyond this the taper collapses onto the center tap
	maxKaiserBeta = 40.0
)

// Taper selects the window applied to the cardinal-sine kernel.
type Taper int

const (
	// TaperRectangular truncates the kernel without weighting.
	TaperRectangular Taper = iota

	// TaperKaiser weights the kernel with a Kaiser window spanning its support.
	TaperKaiser
)

// String returns the lowercase taper name.
func (t Taper) String() string {
	switch t {
	case TaperRectangular:
		return "rectangular"
	case TaperKaiser:
		return "kaiser"
	default:
		return fmt.Sprintf("taper(%d)", int(t))
	}
}

// ParseTaper maps a name back to a Taper.
func ParseTaper(name string) (Taper, error) {
	switch name {
	case "rectangular", "rect", "none", "":
		return TaperRectangular, nil
	case "kaiser":
		return TaperKaiser, nil
	default:
		return TaperRectangular, fmt.Errorf("unknown taper %q", name)
	}
}

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
//	w[n] = I₀(β·sqrt(1 - ((n - α)/α)²)) / I₀(β),  α = (length-1)/2
//
// The window peaks at 1.0 in the center and is symmetric: w[i] = w[length-1-i].
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1.0
		return window
	}

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		arg := beta * math.Sqrt(math.Max(0, 1.0-x*x))
		window[n] = mathutil.BesselI0(arg) / i0Beta
	}

	return window
}

// applyTaper weights the one-sided kernel values[u], u in [0, L], with the
// right half of a Kaiser window of length 2L+1.
func applyTaper(values []float64, beta float64) {
	support := len(values) - 1
	window := KaiserWindow(2*support+1, beta)
	for u := range values {
		values[u] *= window[support+u]
	}
}
