package histogram

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a histogram in channel units.
type Summary struct {
	Total  uint64  // Events counted
	Mean   float64 // Count-weighted mean channel
	StdDev float64 // Count-weighted standard deviation of the channel
	Peak   int     // Channel with the highest count (first on ties)
}

// Summarize computes count-weighted statistics over the channels.
func Summarize(counts []uint64) Summary {
	var s Summary
	if len(counts) == 0 {
		return s
	}

	channels := make([]float64, len(counts))
	weights := make([]float64, len(counts))
	for i, c := range counts {
		channels[i] = float64(i)
		weights[i] = float64(c)
		s.Total += c
	}
	s.Peak = floats.MaxIdx(weights)

	if s.Total == 0 {
		return s
	}
	s.Mean = stat.Mean(channels, weights)
	if s.Total > 1 {
		s.StdDev = stat.StdDev(channels, weights)
	}
	return s
}
