package samples

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestWindowWrapsAroundKeepingArrivalOrder(t *testing.T) {
	w := NewWindow(3)
	for _, v := range []float64{10, 20, 30, 40} {
		w.Add(v)
	}

	if got, want := w.Values(), []float64{20, 30, 40}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	want := Result{Min: 20, Max: 40, Mean: 30, Last: 40}
	if got := w.Aggregate(); got != want {
		t.Fatalf("Aggregate() = %+v, want %+v", got, want)
	}
}

func TestWindowEmptyAggregateIsZero(t *testing.T) {
	w := NewWindow(5)
	if got := w.Aggregate(); got != (Result{}) {
		t.Fatalf("Aggregate() on empty window = %+v, want zero", got)
	}
	visited := 0
	w.Each(func(int, float64) { visited++ })
	if visited != 0 {
		t.Errorf("Each visited %d samples of an empty window", visited)
	}
}

func TestWindowPartiallyFilled(t *testing.T) {
	w := NewWindow(4)
	w.Add(3)
	w.Add(1)

	if w.Len() != 2 || w.Cap() != 4 {
		t.Fatalf("Len/Cap = %d/%d, want 2/4", w.Len(), w.Cap())
	}
	var idx []int
	var vals []float64
	w.Each(func(i int, v float64) {
		idx = append(idx, i)
		vals = append(vals, v)
	})
	if !reflect.DeepEqual(idx, []int{0, 1}) || !reflect.DeepEqual(vals, []float64{3, 1}) {
		t.Errorf("Each visited %v/%v, want [0 1]/[3 1]", idx, vals)
	}
	if got := w.Aggregate(); got != (Result{Min: 1, Max: 3, Mean: 2, Last: 1}) {
		t.Errorf("Aggregate() = %+v", got)
	}
}

func TestWindowLastValuesAfterOverflow(t *testing.T) {
	const capacity = 7
	rng := rand.New(rand.NewSource(1))

	for _, n := range []int{capacity + 1, 2 * capacity, 5*capacity + 3} {
		w := NewWindow(capacity)
		var all []float64
		for k := 0; k < n; k++ {
			v := rng.Float64()*200 - 100
			all = append(all, v)
			w.Add(v)

			agg := w.Aggregate()
			if agg.Last != v {
				t.Fatalf("n=%d step %d: Last = %v, want %v", n, k, agg.Last, v)
			}
			if agg.Min > agg.Mean || agg.Mean > agg.Max {
				t.Fatalf("n=%d step %d: min <= mean <= max violated: %+v", n, k, agg)
			}
		}
		if got, want := w.Values(), all[n-capacity:]; !reflect.DeepEqual(got, want) {
			t.Errorf("n=%d: Values() = %v, want %v", n, got, want)
		}
	}
}

func TestWindowEachIsRestartable(t *testing.T) {
	w := NewWindow(2)
	w.Add(1)
	w.Add(2)
	w.Add(3)
	first := w.Values()
	second := w.Values()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two iterations differ: %v vs %v", first, second)
	}
}
