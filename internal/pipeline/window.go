// Package pipeline holds the streaming window that feeds the pulse detector.
//
// The window keeps a contiguous slice of the stream resident: `low` samples
// are loaded fresh on every refill and `high` samples are carried over from
// the previous fill, so look-back and look-ahead never cross a seam.
//
//	+-----------------+-----------------------------+
//	|  high (carried) |        low (fresh)          |
//	+-----------------+-----------------------------+
//	0               high                      low+high
//
// The cursor may advance up to low+high/2 before the window must be rehomed;
// a refill moves buf[low:low+high] to the head and shifts indices by low.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/tphakala/simd/f64"
)

// Reader supplies normalized samples. Read returns io.EOF once the stream is
// exhausted; Frames reports the total stream length, or 0 when unknown.
type Reader interface {
	Read(dst []float64) (int, error)
	Frames() int64
}

// WindowParams sizes the window.
type WindowParams struct {
	Low  int     // Fresh samples per refill
	High int     // Samples carried over between refills
	Gain float64 // Soft gain applied to every loaded sample
}

// Validate checks if window parameters are valid.
func (p *WindowParams) Validate() error {
	if p.Low < minLow {
		return fmt.Errorf("window low size %d below minimum %d", p.Low, minLow)
	}
	if p.High < minHigh {
		return fmt.Errorf("window high size %d below minimum %d", p.High, minHigh)
	}
	if p.Low+p.High > maxTotal {
		return fmt.Errorf("window size %d exceeds maximum %d", p.Low+p.High, maxTotal)
	}
	if p.Gain <= 0 || math.IsInf(p.Gain, 0) || math.IsNaN(p.Gain) {
		return fmt.Errorf("soft gain must be positive and finite, got %g", p.Gain)
	}
	return nil
}

// Window is the resident slice of the sample stream. It is not safe for
// concurrent use.
type Window struct {
	low, high int
	threshold int
	gain      float64

	src      Reader
	buf      []float64
	valid    int   // resident samples in buf
	offset   int64 // stream index of buf[0]
	consumed int64 // samples pulled from src
	total    int64
	eof      bool
}

// NewWindow allocates a window. Attach a source with Reset before Fill.
func NewWindow(params WindowParams) (*Window, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Window{
		low:       params.Low,
		high:      params.High,
		threshold: params.Low + params.High/2,
		gain:      params.Gain,
		buf:       make([]float64, params.Low+params.High),
	}, nil
}

// Reset detaches the previous source and attaches src.
func (w *Window) Reset(src Reader) {
	w.src = src
	w.valid = 0
	w.offset = 0
	w.consumed = 0
	w.total = 0
	w.eof = false
	if src != nil {
		w.total = src.Frames()
	}
}

// Fill performs the initial load of low+high samples. A stream shorter than
// that leaves the window partially filled and at end of stream.
func (w *Window) Fill() error {
	if w.src == nil {
		return errors.New("window has no source")
	}
	n, err := w.load(w.buf)
	w.valid = n
	return err
}

// Refill rehomes the window: the trailing high samples move to the head and
// up to low fresh samples are appended. It returns the index shift the
// caller must subtract from any cursor into Samples. At end of stream it
// does nothing and returns 0.
func (w *Window) Refill() (int, error) {
	if w.eof {
		return 0, nil
	}
	copy(w.buf, w.buf[w.low:w.low+w.high])
	n, err := w.load(w.buf[w.high:])
	w.valid = w.high + n
	w.offset += int64(w.low)
	return w.low, err
}

// load reads into dst until it is full or the stream ends and applies the
// soft gain to what was read.
func (w *Window) load(dst []float64) (int, error) {
	filled := 0
	empty := 0
	for filled < len(dst) {
		n, err := w.src.Read(dst[filled:])
		filled += n
		if errors.Is(err, io.EOF) {
			w.eof = true
			break
		}
		if err != nil {
			w.consumed += int64(filled)
			return filled, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				w.consumed += int64(filled)
				return filled, io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	if w.gain != 1.0 && filled > 0 {
		f64.Scale(dst[:filled], dst[:filled], w.gain)
	}
	w.consumed += int64(filled)
	return filled, nil
}

// Samples returns the resident samples. The slice is only valid until the
// next Refill.
func (w *Window) Samples() []float64 { return w.buf[:w.valid] }

// NeedsRefill reports whether the cursor has reached the rehome threshold
// while more stream data exists.
func (w *Window) NeedsRefill(cursor int) bool {
	return !w.eof && cursor >= w.threshold
}

// Threshold returns the cursor position that triggers a refill.
func (w *Window) Threshold() int { return w.threshold }

// Offset returns the stream index of Samples()[0].
func (w *Window) Offset() int64 { return w.offset }

// Consumed returns the number of samples pulled from the source so far.
func (w *Window) Consumed() int64 { return w.consumed }

// EOF reports whether the source has been exhausted.
func (w *Window) EOF() bool { return w.eof }

// Len returns the window capacity, low+high.
func (w *Window) Len() int { return len(w.buf) }

// Percent returns consumed/total as a percentage, or 0 when the source did
// not declare its length.
func (w *Window) Percent() float64 {
	if w.total <= 0 {
		return 0
	}
	p := float64(w.consumed) * percentScale / float64(w.total)
	return math.Min(p, percentScale)
}
