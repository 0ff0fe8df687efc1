package engine

import (
	"fmt"
	"math"
)

// Rounding selects how an amplitude is mapped to a histogram channel.
type Rounding int

const (
	// RoundingCompatible narrows bins·amplitude to float32 before rounding
	// half away from zero, as histograms recorded by earlier tools did.
	RoundingCompatible Rounding = iota

	// RoundingFullPrecision rounds bins·amplitude in float64.
	RoundingFullPrecision
)

// String returns the rounding mode name.
func (r Rounding) String() string {
	switch r {
	case RoundingCompatible:
		return "compatible"
	case RoundingFullPrecision:
		return "full"
	default:
		return fmt.Sprintf("rounding(%d)", int(r))
	}
}

// Quantize maps a reconstructed amplitude in [0, 1) onto a channel index in
// [0, bins). Results outside that range, including NaN input, are returned
// as -1 or bins so the caller can drop them.
func Quantize(amplitude float64, bins int, rounding Rounding) int {
	x := float64(bins) * amplitude
	if rounding == RoundingCompatible {
		x = float64(float32(x))
	}

	switch {
	case math.IsNaN(x):
		return -1
	case x >= float64(bins):
		return bins
	case x <= -1:
		return -1
	}

	if x < 0 {
		return int(x - 0.5)
	}
	return int(x + 0.5)
}
