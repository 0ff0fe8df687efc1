package filter

import (
	"fmt"

	"github.com/samplemaker/wav2phh/internal/mathutil"
)

const (
	minUpsampleFactor = 1
	maxUpsampleFactor = 64
	minHalfWidth      = 1
	maxHalfWidth      = 512
)

// KernelParams describes a reconstruction kernel.
type KernelParams struct {
	// Factor is the integer upsampling ratio k.
	Factor int

	// HalfWidth is the number of source samples N on each side of the
	// center (center included) that the kernel reaches.
	HalfWidth int

	// Taper weights the truncated kernel. Rectangular leaves it untouched.
	Taper Taper

	// Beta is the Kaiser β; only used with TaperKaiser.
	Beta float64
}

// Validate checks if kernel parameters are valid.
func (p *KernelParams) Validate() error {
	if p.Factor < minUpsampleFactor || p.Factor > maxUpsampleFactor {
		return fmt.Errorf("upsample factor %d out of range [%d, %d]", p.Factor, minUpsampleFactor, maxUpsampleFactor)
	}
	if p.HalfWidth < minHalfWidth || p.HalfWidth > maxHalfWidth {
		return fmt.Errorf("kernel half width %d out of range [%d, %d]", p.HalfWidth, minHalfWidth, maxHalfWidth)
	}
	switch p.Taper {
	case TaperRectangular:
	case TaperKaiser:
		if p.Beta < 0 || p.Beta > maxKaiserBeta {
			return fmt.Errorf("kaiser beta %g out of range [0, %g]", p.Beta, maxKaiserBeta)
		}
	default:
		return fmt.Errorf("unknown taper %d", int(p.Taper))
	}
	return nil
}

// KernelTable is a precomputed one-sided cardinal-sine lookup
//
//	f[u] = sin(π·u/k) / (π·u/k),  u in [0, k·(N-1)],  f[0] = 1
//
// optionally tapered. The kernel is even, so f(-u) = f(u). Outside the
// support it is zero. A table is immutable once built and safe to share.
type KernelTable struct {
	factor    int
	halfWidth int
	taper     Taper
	values    []float64
}

// NewKernelTable builds the table for the given parameters.
func NewKernelTable(params KernelParams) (*KernelTable, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	support := params.Factor * (params.HalfWidth - 1)
	values := make([]float64, support+1)
	k := float64(params.Factor)
	for u := range values {
		values[u] = mathutil.Sinc(float64(u) / k)
	}

	if params.Taper == TaperKaiser && support > 0 {
		applyTaper(values, params.Beta)
	}

	return &KernelTable{
		factor:    params.Factor,
		halfWidth: params.HalfWidth,
		taper:     params.Taper,
		values:    values,
	}, nil
}

// Factor returns the upsampling ratio k.
func (t *KernelTable) Factor() int { return t.factor }

// HalfWidth returns N, the reach of the kernel in source samples.
func (t *KernelTable) HalfWidth() int { return t.halfWidth }

// Taper returns the window the table was built with.
func (t *KernelTable) Taper() Taper { return t.taper }

// Support returns the largest |u| with a nonzero entry, k·(N-1).
func (t *KernelTable) Support() int { return len(t.values) - 1 }

// At returns the kernel value at upsampled offset u, or zero outside the support.
func (t *KernelTable) At(u int) float64 {
	if u < 0 {
		u = -u
	}
	if u >= len(t.values) {
		return 0
	}
	return t.values[u]
}

// Values returns a copy of the one-sided table f[0..Support()].
func (t *KernelTable) Values() []float64 {
	out := make([]float64, len(t.values))
	copy(out, t.values)
	return out
}

// Impulse returns the two-sided kernel f[-L..L] as an FIR impulse response
// at the upsampled rate, length 2·Support()+1.
func (t *KernelTable) Impulse() []float64 {
	support := t.Support()
	out := make([]float64, 2*support+1)
	for i := range out {
		out[i] = t.At(i - support)
	}
	return out
}
