package baseline

import (
	"fmt"
	"math"
)

// Params configures the baseline gate.
type Params struct {
	DiffThresh float64 // Max |n0 - n1| for a sample to count as quiet
	RelThresh  float64 // n0 must stay below this to count as quiet
	Length     int     // Moving-average capacity
}

// Estimator feeds quiet samples into a moving average and holds the last
// estimate while the signal is busy.
//
// A pair (n0, n1) is quiet when |n0 - n1| < DiffThresh and n0 < RelThresh.
type Estimator struct {
	params Params
	avg    *MovingAverage
	value  float64
}

// NewEstimator creates an estimator with a zero baseline.
func NewEstimator(params Params) (*Estimator, error) {
	if params.DiffThresh < 0 || math.IsNaN(params.DiffThresh) {
		return nil, fmt.Errorf("baseline differential threshold must be non-negative, got %g", params.DiffThresh)
	}
	if math.IsNaN(params.RelThresh) {
		return nil, fmt.Errorf("baseline absolute threshold is NaN")
	}
	avg, err := NewMovingAverage(params.Length)
	if err != nil {
		return nil, err
	}
	return &Estimator{params: params, avg: avg}, nil
}

// Estimate updates the baseline from an adjacent pair and returns it.
func (e *Estimator) Estimate(n0, n1 float64) float64 {
	if math.Abs(n0-n1) < e.params.DiffThresh && n0 < e.params.RelThresh {
		e.value = e.avg.Update(n0)
	}
	return e.value
}

// Value returns the current baseline.
func (e *Estimator) Value() float64 {
	return e.value
}

// Reset returns the estimator to its zero state.
func (e *Estimator) Reset() {
	e.avg.Reset()
	e.value = 0
}
