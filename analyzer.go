package wav2phh

import (
	"context"
	"errors"
	"fmt"

	"github.com/samplemaker/wav2phh/internal/baseline"
	"github.com/samplemaker/wav2phh/internal/engine"
	"github.com/samplemaker/wav2phh/internal/filter"
	"github.com/samplemaker/wav2phh/internal/histogram"
	"github.com/samplemaker/wav2phh/internal/pipeline"
)

// Pulse is one accepted pulse. Sample indices count from the first sample
// of the stream.
type Pulse struct {
	Start     int64   // First sample of the extracted segment
	Peak      int64   // Sample index of the raw maximum
	Stop      int64   // One past the last sample of the segment
	Width     int     // Segment length without the look-back margins
	Amplitude float64 // Peak-to-peak amplitude of the reconstruction
	Channel   int     // Histogram channel, possibly out of range
	Counted   bool    // False when the channel fell outside the histogram
}

// Stats counts detector outcomes of a run.
type Stats struct {
	Triggers uint64 // Rising edges above the trigger threshold
	Accepted uint64 // Candidates that passed the glitch filter
	Glitches uint64 // Candidates rejected by the glitch filter
	Dropped  uint64 // Accepted pulses whose channel was out of range
}

// Progress is a snapshot delivered while a run is in flight.
type Progress struct {
	// Counts is a copy of the histogram. The receiver may keep it.
	Counts []uint64

	// Percent is the share of the stream consumed so far, 0-100.
	Percent float64
}

// Hooks receives run events. Nil fields are skipped. Hooks are called on
// the goroutine that called Run.
type Hooks struct {
	// OnProgress is called whenever progress advanced by more than one
	// percentage point, and once at completion.
	OnProgress func(Progress)

	// OnPulse is called for every pulse that passed the glitch filter.
	OnPulse func(Pulse)
}

// Result is the outcome of a run.
type Result struct {
	Counts   []uint64 // Histogram, one entry per channel
	Stats    Stats    // Detector statistics
	Consumed int64    // Samples read from the source
}

// Info provides information about the analyzer configuration.
type Info struct {
	// Preset is the detection preset in effect.
	Preset Preset

	// UpsampleFactor is the reconstruction ratio.
	UpsampleFactor int

	// KernelTaps is the number of kernel coefficients applied per output sample.
	KernelTaps int

	// Taper names the kernel weighting.
	Taper string

	// WindowLen is the resident window size in samples.
	WindowLen int

	// Bins is the histogram resolution.
	Bins int

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// Analyzer turns a sample stream into a pulse-height histogram. An analyzer
// can run any number of streams, one at a time. It is not safe for
// concurrent use.
type Analyzer struct {
	config   Config
	table    *filter.KernelTable
	interp   *engine.Interpolator
	window   *pipeline.Window
	hist     *histogram.Accumulator
	detector *engine.Detector
}

// New creates an analyzer from config. The config is copied; later changes
// to it have no effect.
func New(config *Config) (*Analyzer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := config.resolved()
	d := cfg.Detection

	table, err := filter.NewKernelTable(filter.KernelParams{
		Factor:    d.UpsampleFactor,
		HalfWidth: d.WindowHalfSize,
		Taper:     cfg.Taper,
		Beta:      cfg.KaiserBeta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	interp := engine.NewInterpolator(table)

	window, err := pipeline.NewWindow(pipeline.WindowParams{
		Low:  cfg.WindowLow,
		High: cfg.WindowHigh,
		Gain: d.SoftGain,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	hist, err := histogram.New(cfg.Bins)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	est, err := baseline.NewEstimator(baseline.Params{
		DiffThresh: d.BaselineDiffThresh,
		RelThresh:  d.BaselineRelThresh,
		Length:     d.MovingAverageLength,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	detector, err := engine.NewDetector(engine.DetectorParams{
		TriggerThresh: d.TriggerThresh,
		NumPast:       d.NumPast,
		MinGlitch:     d.MinGlitchWidth,
		MaxGlitch:     d.MaxGlitchWidth,
		LookBehind:    d.lookBehind(),
		Rounding:      cfg.Rounding,
	}, est, interp, hist)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Analyzer{
		config:   cfg,
		table:    table,
		interp:   interp,
		window:   window,
		hist:     hist,
		detector: detector,
	}, nil
}

// Config returns the resolved configuration.
func (a *Analyzer) Config() Config { return a.config }

// Reset clears the histogram, the baseline and the statistics. Run resets
// on entry, so calling Reset is only needed to discard a finished result.
func (a *Analyzer) Reset() {
	a.detector.Reset()
	a.window.Reset(nil)
}

// Run analyzes src until it is exhausted, ctx is done or an error occurs.
// On error the partial result accumulated so far is returned along with it.
// Cancellation is checked once per window refill.
func (a *Analyzer) Run(ctx context.Context, src Source, hooks *Hooks) (*Result, error) {
	if src == nil {
		return nil, errors.New("source is nil")
	}
	if hooks == nil {
		hooks = &Hooks{}
	}

	a.detector.Reset()
	a.window.Reset(src)

	var onPulse func(engine.Pulse)
	if hooks.OnPulse != nil {
		onPulse = func(p engine.Pulse) { hooks.OnPulse(Pulse(p)) }
	}

	if err := ctx.Err(); err != nil {
		return a.result(), err
	}
	if err := a.window.Fill(); err != nil {
		return a.result(), fmt.Errorf("reading source: %w", err)
	}

	for {
		done, err := a.detector.Scan(a.window, onPulse)
		if err != nil {
			return a.result(), err
		}
		if done {
			break
		}

		a.report(hooks, a.window.Percent())

		if err := ctx.Err(); err != nil {
			return a.result(), err
		}

		shift, err := a.window.Refill()
		a.detector.Rebase(shift)
		if err != nil {
			return a.result(), fmt.Errorf("reading source: %w", err)
		}
	}

	if hooks.OnProgress != nil {
		hooks.OnProgress(Progress{Counts: a.hist.Snapshot(), Percent: percentComplete})
	}
	return a.result(), nil
}

// report emits a progress snapshot when the stream advanced far enough.
func (a *Analyzer) report(hooks *Hooks, percent float64) {
	if !a.hist.Advance(percent) || hooks.OnProgress == nil {
		return
	}
	hooks.OnProgress(Progress{Counts: a.hist.Snapshot(), Percent: percent})
}

func (a *Analyzer) result() *Result {
	return &Result{
		Counts:   a.hist.Snapshot(),
		Stats:    a.Stats(),
		Consumed: a.window.Consumed(),
	}
}

// Histogram returns a copy of the current counts.
func (a *Analyzer) Histogram() []uint64 { return a.hist.Snapshot() }

// Stats returns the detector statistics of the current run.
func (a *Analyzer) Stats() Stats { return Stats(a.detector.Stats()) }

// GetInfo returns information about the analyzer configuration.
func (a *Analyzer) GetInfo() Info {
	taps := 2*a.table.HalfWidth() - 1
	window := a.window.Len()
	mem := int64(window+len(a.table.Values())+a.hist.Bins()) * 8
	mem += int64(a.interp.OutputLen(a.config.Detection.MaxGlitchWidth+2*a.config.Detection.NumPast)) * 8
	mem += int64(a.interp.Factor()*taps) * 8

	return Info{
		Preset:         a.config.Detection.Preset,
		UpsampleFactor: a.interp.Factor(),
		KernelTaps:     taps,
		Taper:          a.table.Taper().String(),
		WindowLen:      window,
		Bins:           a.hist.Bins(),
		MemoryUsage:    mem,
		SIMDType:       a.interp.SIMDInfo(),
	}
}
