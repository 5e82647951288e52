package widget

import (
	"strconv"

	"github.com/sanspareilsmyn/perfmon/internal/counter"
)

// Counter prints "name: value" on a single row.
type Counter struct {
	Base
	counter counter.Counter
}

func NewCounter(name string, c counter.Counter, sched Scheduler) *Counter {
	w := &Counter{counter: c}
	w.Base = newBase(name, sched, false, 1, 0, w.view)
	w.Invalidate()
	return w
}

func (w *Counter) view() view {
	return view{lines: []string{w.name + ": " + strconv.FormatInt(w.counter.Value(), 10)}}
}
