package widget

import (
	"github.com/sanspareilsmyn/perfmon/internal/ema"
)

// EMA shows the running average, deviation and minimum of an EMA bucket.
type EMA struct {
	Base
	unit   string
	bucket *ema.Bucket
}

func NewEMA(name, unit string, b *ema.Bucket, sched Scheduler) *EMA {
	w := &EMA{unit: unit, bucket: b}
	w.Base = newBase(name, sched, true, 3, 0, w.view)
	w.Invalidate()
	return w
}

func (w *EMA) view() view {
	if !w.bucket.Initialized() {
		return view{lines: []string{"avg:  -", "std:  -", "min:  -"}}
	}
	return view{lines: []string{
		"avg:  " + formatValue(w.bucket.Avg, false) + w.unit,
		"std:  " + formatValue(w.bucket.Std, false) + w.unit,
		"min:  " + formatValue(w.bucket.Min, false) + w.unit,
	}}
}
