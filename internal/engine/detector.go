package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samplemaker/wav2phh/internal/baseline"
	"github.com/samplemaker/wav2phh/internal/histogram"
	"github.com/samplemaker/wav2phh/internal/pipeline"
)

// DetectorParams configures triggering and the glitch filter.
type DetectorParams struct {
	TriggerThresh float64 // Rise above baseline that arms the trigger
	NumPast       int     // Samples kept before the trigger, and mirrored after the peak
	MinGlitch     int     // Widths <= MinGlitch are rejected
	MaxGlitch     int     // Widths >= MaxGlitch are rejected
	LookBehind    int     // First cursor position; >= NumPast
	Rounding      Rounding
}

// Validate checks if detector parameters are valid.
func (p *DetectorParams) Validate() error {
	if p.NumPast < 0 {
		return fmt.Errorf("look-back count must be non-negative, got %d", p.NumPast)
	}
	if p.MinGlitch < 0 || p.MaxGlitch <= p.MinGlitch+1 {
		return fmt.Errorf("glitch band (%d, %d) admits no width", p.MinGlitch, p.MaxGlitch)
	}
	if p.LookBehind < p.NumPast {
		return fmt.Errorf("initial cursor %d precedes look-back count %d", p.LookBehind, p.NumPast)
	}
	if p.Rounding != RoundingCompatible && p.Rounding != RoundingFullPrecision {
		return fmt.Errorf("unknown rounding mode %d", int(p.Rounding))
	}
	return nil
}

// Pulse is one accepted pulse in stream coordinates.
type Pulse struct {
	Start     int64   // First sample of the extracted segment
	Peak      int64   // Sample index of the raw maximum
	Stop      int64   // One past the last sample of the segment
	Width     int     // Segment length without the look-back margins
	Amplitude float64 // max - min of the reconstruction
	Channel   int     // Histogram channel, possibly out of range
	Counted   bool    // False when the channel was out of range
}

// Stats counts detector outcomes since the last Reset.
type Stats struct {
	Triggers uint64 // Rising edges above the trigger threshold
	Accepted uint64 // Candidates that passed the glitch filter
	Glitches uint64 // Candidates rejected by the glitch filter
	Dropped  uint64 // Accepted pulses whose channel was out of range
}

// Detector scans the window for pulses. The state that survives between
// scans is the cursor, the baseline and the histogram.
//
// The cursor always refers to the window's current layout; after a refill
// the caller shifts it with Rebase. An accepted pulse is completed within
// one scan, so its start and stop never straddle a refill. Only a glitch
// edge may span refills, and it keeps no samples behind it.
type Detector struct {
	params   DetectorParams
	baseline *baseline.Estimator
	interp   *Interpolator
	hist     *histogram.Accumulator

	cursor   int
	climbing bool // Following an over-wide edge across a refill
	recon    []float64
	stats    Stats
}

// NewDetector wires the detector to its collaborators.
func NewDetector(params DetectorParams, est *baseline.Estimator, interp *Interpolator, hist *histogram.Accumulator) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		params:   params,
		baseline: est,
		interp:   interp,
		hist:     hist,
		cursor:   params.LookBehind,
		recon:    make([]float64, interp.OutputLen(params.MaxGlitch+2*params.NumPast)),
	}, nil
}

// Reset rewinds the cursor and clears baseline, histogram and statistics.
func (d *Detector) Reset() {
	d.cursor = d.params.LookBehind
	d.climbing = false
	d.baseline.Reset()
	d.hist.Clear()
	d.stats = Stats{}
}

// Cursor returns the scan position in window coordinates.
func (d *Detector) Cursor() int { return d.cursor }

// Rebase shifts the cursor after the window moved by shift samples.
func (d *Detector) Rebase(shift int) { d.cursor -= shift }

// Stats returns the outcome counters.
func (d *Detector) Stats() Stats { return d.stats }

// Scan advances the cursor until the window needs a refill or the data
// runs out. It reports done once the stream has been exhausted. Accepted
// pulses are counted into the histogram and passed to onPulse when it is
// not nil.
//
// Candidates are classified by width as soon as the peak is known, so a
// glitch never needs its mirrored stop to be resident. An edge that climbs
// past the window once it is already too wide is followed across refills.
func (d *Detector) Scan(w *pipeline.Window, onPulse func(Pulse)) (done bool, err error) {
	s := w.Samples()

	if d.climbing {
		peak := d.walk(s, d.cursor)
		if peak+1 >= len(s) {
			d.cursor = peak
			return w.EOF(), nil
		}
		d.climbing = false
		d.stats.Glitches++
		d.cursor = peak + 1
	}

	for !w.NeedsRefill(d.cursor) {
		m := d.cursor
		if m+1 >= len(s) {
			return true, nil
		}

		base := d.baseline.Estimate(s[m], s[m+1])
		if s[m] >= s[m+1] || s[m+1]-base <= d.params.TriggerThresh {
			d.cursor++
			continue
		}
		d.stats.Triggers++

		start := m - d.params.NumPast
		if start < 0 {
			return false, d.overrun(w, BoundLookBehind, start, m)
		}

		peak := d.walk(s, m+1)
		if peak+1 >= len(s) {
			if w.EOF() {
				d.cursor = len(s)
				return true, nil
			}
			if d.width(start, peak) >= d.params.MaxGlitch {
				d.climbing = true
				d.cursor = peak
				return false, nil
			}
			return false, d.overrun(w, BoundPeak, peak+1, m)
		}

		width := d.width(start, peak)
		if width <= d.params.MinGlitch || width >= d.params.MaxGlitch {
			d.stats.Glitches++
			d.cursor = peak + 1
			continue
		}

		stop := 2*peak - start
		if stop > len(s) {
			if w.EOF() {
				d.cursor = len(s)
				return true, nil
			}
			return false, d.overrun(w, BoundStop, stop, m)
		}

		pulse := d.measure(s[start:stop])
		pulse.Start = w.Offset() + int64(start)
		pulse.Peak = w.Offset() + int64(peak)
		pulse.Stop = w.Offset() + int64(stop)
		pulse.Width = width
		if onPulse != nil {
			onPulse(pulse)
		}
		d.cursor = peak
	}
	return false, nil
}

// walk follows a rising edge from i and returns the last index before the
// signal stops rising, or the last resident index.
func (d *Detector) walk(s []float64, i int) int {
	for i+1 < len(s) && s[i] < s[i+1] {
		i++
	}
	return i
}

// width is the pulse width implied by a start and peak: the mirrored
// extent without the look-back margins.
func (d *Detector) width(start, peak int) int {
	return 2*(peak-start) - 2*d.params.NumPast
}

// measure reconstructs a segment, takes its peak-to-peak amplitude and
// counts it.
func (d *Detector) measure(segment []float64) Pulse {
	d.recon = d.interp.Upsample(d.recon, segment, 0)
	amplitude := floats.Max(d.recon) - floats.Min(d.recon)
	channel := Quantize(amplitude, d.hist.Bins(), d.params.Rounding)

	d.stats.Accepted++
	counted := d.hist.Increment(channel)
	if !counted {
		d.stats.Dropped++
	}
	return Pulse{Amplitude: amplitude, Channel: channel, Counted: counted}
}

func (d *Detector) overrun(w *pipeline.Window, bound Bound, index, trigger int) error {
	return &OverrunError{
		Bound:    bound,
		Index:    w.Offset() + int64(index),
		Trigger:  w.Offset() + int64(trigger),
		Resident: len(w.Samples()),
	}
}
