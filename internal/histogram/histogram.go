// Package histogram accumulates quantized pulse amplitudes into a fixed
// number of channels and persists them.
package histogram

import "fmt"

// Threshold, in percent points, that progress must exceed before a new
// report is due.
const reportStep = 1.0

// Accumulator holds one counter per channel. Out-of-range indices are
// dropped and counted separately. It is not safe for concurrent use.
type Accumulator struct {
	counts  []uint64
	dropped uint64
	percent float64 // last reported progress
}

// New creates an accumulator with the given number of channels.
func New(bins int) (*Accumulator, error) {
	if bins < 1 {
		return nil, fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}
	return &Accumulator{counts: make([]uint64, bins)}, nil
}

// Clear zeroes every channel, the drop counter and the progress bookkeeping.
func (a *Accumulator) Clear() {
	clear(a.counts)
	a.dropped = 0
	a.percent = 0
}

// Increment counts one event in channel index. It reports false, and only
// bumps the drop counter, when index falls outside [0, Bins()).
func (a *Accumulator) Increment(index int) bool {
	if index < 0 || index >= len(a.counts) {
		a.dropped++
		return false
	}
	a.counts[index]++
	return true
}

// Bins returns the number of channels.
func (a *Accumulator) Bins() int { return len(a.counts) }

// Count returns the count of one channel.
func (a *Accumulator) Count(index int) uint64 { return a.counts[index] }

// Snapshot returns a copy of all channel counts.
func (a *Accumulator) Snapshot() []uint64 {
	out := make([]uint64, len(a.counts))
	copy(out, a.counts)
	return out
}

// Total returns the number of counted events.
func (a *Accumulator) Total() uint64 {
	var total uint64
	for _, c := range a.counts {
		total += c
	}
	return total
}

// Dropped returns the number of out-of-range events since the last Clear.
func (a *Accumulator) Dropped() uint64 { return a.dropped }

// Advance records progress and reports whether it moved by more than one
// percent point since the last report.
func (a *Accumulator) Advance(percent float64) bool {
	if percent-a.percent > reportStep {
		a.percent = percent
		return true
	}
	return false
}

// Percent returns the last reported progress.
func (a *Accumulator) Percent() float64 { return a.percent }
