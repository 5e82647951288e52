// Package ema implements an exponential moving average bucket with a running
// variance estimate.
package ema

import "math"

// Bucket is an O(1) streaming estimator. Recent samples weigh more, so
// pushing the same values in a different order yields different results.
type Bucket struct {
	Alpha float64
	Avg   float64 // NaN until the first Push
	Var   float64
	Std   float64
	Min   float64

	onChange func()
}

// New creates a bucket with decay constant alpha, which is expected to lie
// in (0, 1) and is not checked.
func New(alpha float64) *Bucket {
	return &Bucket{
		Alpha: alpha,
		Avg:   math.NaN(),
	}
}

// Initialized reports whether at least one value was pushed.
func (b *Bucket) Initialized() bool {
	return !math.IsNaN(b.Avg)
}

// Push folds v into the estimate.
func (b *Bucket) Push(v float64) {
	if !b.Initialized() {
		b.Avg = v
		b.Min = v
		b.Var = 0
		b.Std = 0
	} else {
		beta := 1 - b.Alpha
		d := v - b.Avg
		b.Var = beta * (b.Var + b.Alpha*d*d)
		b.Avg = beta*b.Avg + b.Alpha*v
		b.Std = math.Sqrt(b.Var)
		if v < b.Min {
			b.Min = v
		}
	}

	if b.onChange != nil {
		b.onChange()
	}
}

func (b *Bucket) SetOnChange(fn func()) {
	b.onChange = fn
}
