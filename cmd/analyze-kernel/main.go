// Command analyze-kernel prints the phase gains and frequency response of
// the sinc reconstruction kernel.
//
// Usage:
//
//	analyze-kernel
//	analyze-kernel -k 7 -half 22 -taper kaiser -beta 8
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/samplemaker/wav2phh/internal/filter"
	"github.com/samplemaker/wav2phh/internal/mathutil"
)

const (
	defaultFactor    = 7
	defaultHalfWidth = 15
	defaultPoints    = 4096

	// Image band starts this far above the source Nyquist, in source bandwidths
	imageGuard = 1.5
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	factor := flag.Int("k", defaultFactor, "Upsampling factor")
	half := flag.Int("half", defaultHalfWidth, "Kernel half size in source samples")
	taperName := flag.String("taper", filter.TaperRectangular.String(), "Kernel taper: rectangular, kaiser")
	beta := flag.Float64("beta", 0, "Kaiser beta (0 derives one from -atten)")
	atten := flag.Float64("atten", 80, "Target stopband attenuation in dB when -beta is 0")
	points := flag.Int("points", defaultPoints, "FFT size")
	flag.Parse()

	taper, err := filter.ParseTaper(*taperName)
	if err != nil {
		return err
	}
	if taper == filter.TaperKaiser && *beta == 0 {
		*beta = mathutil.KaiserBeta(*atten)
	}

	table, err := filter.NewKernelTable(filter.KernelParams{
		Factor:    *factor,
		HalfWidth: *half,
		Taper:     taper,
		Beta:      *beta,
	})
	if err != nil {
		return err
	}

	fmt.Println("=== Kernel ===")
	fmt.Printf("  Factor:    %d\n", table.Factor())
	fmt.Printf("  HalfWidth: %d\n", table.HalfWidth())
	fmt.Printf("  Taper:     %s", table.Taper())
	if taper == filter.TaperKaiser {
		fmt.Printf(" (beta %.3f, ~%.0f dB sidelobes)", *beta, mathutil.KaiserAttenuation(*beta))
	}
	fmt.Println()
	fmt.Printf("  Support:   %d output samples each side\n", table.Support())

	fmt.Println("\nDC gain per phase:")
	for p := range table.Factor() {
		fmt.Printf("  Phase %2d: %.10f\n", p, phaseGain(table, p))
	}

	impulse := table.Impulse()
	resp := filter.ComputeFrequencyResponse(impulse, *points)
	dc := resp.Magnitude[0]

	nyquist := 0.5 / float64(table.Factor())
	fmt.Printf("\n=== Response (normalized to DC %.6f) ===\n", dc)
	for _, f := range []float64{0.25, 0.5, 0.75, 0.9, 1.0, imageGuard, 2.0} {
		fmt.Printf("  %.2f x Nyquist: %8.2f dB\n", f, filter.MagnitudeDB(magnitudeAt(resp, f*nyquist)/dc))
	}

	worst := math.Inf(-1)
	for i, f := range resp.Frequencies {
		if f >= imageGuard*nyquist {
			worst = math.Max(worst, filter.MagnitudeDB(resp.Magnitude[i]/dc))
		}
	}
	fmt.Printf("\nWorst image rejection above %.2f x Nyquist: %.2f dB\n", imageGuard, worst)
	return nil
}

// phaseGain sums the taps one output phase applies to the source samples.
func phaseGain(table *filter.KernelTable, phase int) float64 {
	k := table.Factor()
	var sum float64
	for u := phase - table.Support(); u <= table.Support(); u += k {
		sum += table.At(u)
	}
	return sum
}

// magnitudeAt returns the magnitude of the bin nearest to freq.
func magnitudeAt(resp filter.FilterResponse, freq float64) float64 {
	best := 0
	for i, f := range resp.Frequencies {
		if math.Abs(f-freq) < math.Abs(resp.Frequencies[best]-freq) {
			best = i
		}
	}
	return resp.Magnitude[best]
}
