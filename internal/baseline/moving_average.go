// Package baseline tracks the slowly drifting floor that pulses ride on.
package baseline

import "fmt"

// MovingAverage is a fixed-capacity running mean over the last N values.
//
// Slots start at zero and the mean is always taken over the full capacity,
// so the first N-1 results are biased toward zero.
type MovingAverage struct {
	data []float64
	pos  int
	sum  float64
}

// NewMovingAverage creates a tracker over the last length values.
func NewMovingAverage(length int) (*MovingAverage, error) {
	if length < 1 {
		return nil, fmt.Errorf("moving average length must be positive, got %d", length)
	}
	return &MovingAverage{data: make([]float64, length)}, nil
}

// Update replaces the oldest value with v and returns the new mean.
func (m *MovingAverage) Update(v float64) float64 {
	m.sum += v - m.data[m.pos]
	m.data[m.pos] = v
	m.pos++
	if m.pos == len(m.data) {
		m.pos = 0
	}
	return m.sum / float64(len(m.data))
}

// Mean returns the current mean without updating.
func (m *MovingAverage) Mean() float64 {
	return m.sum / float64(len(m.data))
}

// Len returns the capacity.
func (m *MovingAverage) Len() int {
	return len(m.data)
}

// Reset zeroes every slot.
func (m *MovingAverage) Reset() {
	clear(m.data)
	m.pos = 0
	m.sum = 0
}
