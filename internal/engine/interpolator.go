// Package engine implements pulse detection and sub-sample peak
// reconstruction over the streaming window.
package engine

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"

	"github.com/samplemaker/wav2phh/internal/filter"
)

// Interpolator upsamples short segments by an integer factor k with the
// truncated cardinal-sine kernel:
//
//	y[m] = Σ_n (x[n] - offset) · f(m - k·n),  m = 0 .. k·(len(x)-1)
//
// The kernel is rearranged into a polyphase bank. Writing m = q·k + p, output
// phase p only ever touches kernel taps f(|j·k + p|) for source distances
// j = q - n in [-(N-1), N-1], so each output sample is one contiguous dot
// product against a reversed phase vector.
//
// An Interpolator owns scratch memory and is not safe for concurrent use.
type Interpolator struct {
	factor    int
	halfWidth int // N
	center    int // N-1, index of j = 0 in a phase vector

	// phases[p][i] = f((center-i)·k + p); i runs over source samples
	// from q-(N-1) to q+(N-1).
	phases [][]float64

	shifted []float64
}

// NewInterpolator builds the phase bank from a kernel table.
func NewInterpolator(table *filter.KernelTable) *Interpolator {
	k := table.Factor()
	n := table.HalfWidth()
	center := n - 1
	taps := 2*n - 1

	phases := make([][]float64, k)
	for p := range k {
		phases[p] = make([]float64, taps)
		for i := range taps {
			phases[p][i] = table.At((center-i)*k + p)
		}
	}

	return &Interpolator{
		factor:    k,
		halfWidth: n,
		center:    center,
		phases:    phases,
	}
}

// Factor returns the upsampling ratio k.
func (ip *Interpolator) Factor() int { return ip.factor }

// OutputLen returns the number of reconstructed samples for numSrc inputs.
func (ip *Interpolator) OutputLen(numSrc int) int {
	if numSrc < 1 {
		return 0
	}
	return ip.factor*(numSrc-1) + 1
}

// Upsample reconstructs src at k times its rate into dst, growing dst when
// it is too small, and returns dst[:OutputLen(len(src))]. A non-zero offset
// is subtracted from every source sample first.
func (ip *Interpolator) Upsample(dst, src []float64, offset float64) []float64 {
	numSrc := len(src)
	numDst := ip.OutputLen(numSrc)
	if cap(dst) < numDst {
		dst = make([]float64, numDst)
	}
	dst = dst[:numDst]
	if numSrc == 0 {
		return dst
	}

	if offset != 0 {
		if cap(ip.shifted) < numSrc {
			ip.shifted = make([]float64, numSrc)
		}
		shifted := ip.shifted[:numSrc]
		for i, v := range src {
			shifted[i] = v - offset
		}
		src = shifted
	}

	last := numSrc - 1
	for m := range numDst {
		q, p := m/ip.factor, m%ip.factor
		lo := max(q-ip.center, 0)
		hi := min(q+ip.center, last) + 1
		base := ip.center - q
		dst[m] = f64.DotProductUnsafe(src[lo:hi], ip.phases[p][base+lo:base+hi])
	}
	return dst
}

// SIMDInfo returns the SIMD implementation backing the dot products.
func (ip *Interpolator) SIMDInfo() string {
	return cpu.Info()
}
