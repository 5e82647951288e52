// Package samples implements the fixed-capacity sample window backing every
// graphed monitor.
package samples

// Result holds the aggregate values of a window's current contents.
type Result struct {
	Min  float64
	Max  float64
	Mean float64
	Last float64
}

// Window is a ring buffer keeping the last Cap() samples in arrival order.
type Window struct {
	samples []float64
	i       int // slot of the most recent sample, -1 when empty
}

// NewWindow creates a window holding at most capacity samples.
// capacity must be positive.
func NewWindow(capacity int) *Window {
	return &Window{
		samples: make([]float64, 0, capacity),
		i:       -1,
	}
}

// Add records v as the newest sample, overwriting the oldest one when full.
func (w *Window) Add(v float64) {
	w.i = (w.i + 1) % cap(w.samples)
	if w.i == len(w.samples) {
		w.samples = append(w.samples, v)
		return
	}
	w.samples[w.i] = v
}

func (w *Window) Len() int { return len(w.samples) }

func (w *Window) Cap() int { return cap(w.samples) }

// Each visits the samples from oldest to newest.
func (w *Window) Each(visit func(i int, v float64)) {
	n := len(w.samples)
	for k := 0; k < n; k++ {
		visit(k, w.samples[(w.i+1+k)%n])
	}
}

// Values returns a copy of the samples from oldest to newest.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, len(w.samples))
	w.Each(func(_ int, v float64) {
		out = append(out, v)
	})
	return out
}

// Aggregate computes min, max, mean and last in a single pass.
// An empty window yields the zero Result.
func (w *Window) Aggregate() Result {
	n := len(w.samples)
	if n == 0 {
		return Result{}
	}

	min := w.samples[0]
	max := min
	sum := 0.0
	for _, v := range w.samples {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	return Result{
		Min:  min,
		Max:  max,
		Mean: sum / float64(n),
		Last: w.samples[w.i],
	}
}
