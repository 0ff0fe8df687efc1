package filter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	defaultResponsePoints = 1024
	minMagnitude          = 1e-10 // Avoid log(0)
	dbMultiplier          = 20.0  // 20*log10 for magnitude
)

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (cycles per sample, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates the response of an FIR filter with a
// real FFT of the zero-padded coefficients. The transform size is the next
// power of two holding both the coefficients and fftSize points.
func ComputeFrequencyResponse(coeffs []float64, fftSize int) FilterResponse {
	if fftSize <= 0 {
		fftSize = defaultResponsePoints
	}
	n := nextPowerOf2(max(fftSize, len(coeffs)))

	padded := make([]float64, n)
	copy(padded, coeffs)

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, padded)

	response := FilterResponse{
		Frequencies: make([]float64, len(spectrum)),
		Magnitude:   make([]float64, len(spectrum)),
		Phase:       make([]float64, len(spectrum)),
	}
	for i, c := range spectrum {
		response.Frequencies[i] = fft.Freq(i)
		response.Magnitude[i] = cmplx.Abs(c)
		response.Phase[i] = cmplx.Phase(c)
	}
	return response
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
