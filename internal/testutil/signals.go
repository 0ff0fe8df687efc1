package testutil

import "math"

// PulseShape places one Gaussian pulse on a zero baseline.
type PulseShape struct {
	Peak      int     // Sample index of the pulse maximum
	Amplitude float64 // Height above the baseline
	Sigma     float64 // Gaussian width in samples
}

// PulseTrain renders Gaussian pulses on top of a constant baseline. Pulses
// peak exactly on a sample, so a band-limited reconstruction of an isolated
// pulse has its maximum at that sample.
func PulseTrain(length int, baseline float64, pulses []PulseShape) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = baseline
	}
	for _, p := range pulses {
		reach := int(math.Ceil(8 * p.Sigma))
		lo := max(p.Peak-reach, 0)
		hi := min(p.Peak+reach, length-1)
		for n := lo; n <= hi; n++ {
			d := float64(n - p.Peak)
			out[n] += p.Amplitude * math.Exp(-d*d/(2*p.Sigma*p.Sigma))
		}
	}
	return out
}

// EvenlySpaced returns pulse shapes spaced `spacing` samples apart, starting
// at `first`, one per amplitude.
func EvenlySpaced(first, spacing int, sigma float64, amplitudes []float64) []PulseShape {
	shapes := make([]PulseShape, len(amplitudes))
	for i, a := range amplitudes {
		shapes[i] = PulseShape{Peak: first + i*spacing, Amplitude: a, Sigma: sigma}
	}
	return shapes
}

// Sine returns length samples of (peakToPeak/2)·sin(2π·freq·(n+shift)),
// freq in cycles per sample, shift in samples.
func Sine(length int, peakToPeak, freq, shift float64) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = peakToPeak / 2 * math.Sin(2*math.Pi*freq*(float64(n)+shift))
	}
	return out
}

// Ramp returns the sequence 0, 1, 2, ... length-1, useful for tracking
// sample identity through buffers.
func Ramp(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
