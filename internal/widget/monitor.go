package widget

import (
	"github.com/sanspareilsmyn/perfmon/internal/samples"
)

// DefaultGraphRows is the graph height used when none is configured.
const DefaultGraphRows = 3

// Monitor shows the aggregate of a sample window and graphs its contents.
type Monitor struct {
	Base
	flags  Flags
	unit   string
	window *samples.Window
}

// NewMonitor creates a monitor widget and schedules its first sync.
func NewMonitor(name, unit string, flags Flags, window *samples.Window, graphRows int, sched Scheduler) *Monitor {
	m := &Monitor{
		flags:  flags,
		unit:   unit,
		window: window,
	}

	textRows := 0
	for _, f := range []Flags{HideMin, HideMax, HideMean, HideLast} {
		if !flags.Has(f) {
			textRows++
		}
	}
	if flags.Has(HideGraph) {
		graphRows = 0
	} else if graphRows <= 0 {
		graphRows = DefaultGraphRows
	}

	m.Base = newBase(name, sched, true, textRows, graphRows, m.view)
	m.Invalidate()
	return m
}

func (m *Monitor) Flags() Flags { return m.flags }

func (m *Monitor) Window() *samples.Window { return m.window }

func (m *Monitor) view() view {
	result := m.window.Aggregate()
	round := m.flags.Has(RoundValues)

	var v view
	if !m.flags.Has(HideMin) {
		v.lines = append(v.lines, "min:  "+formatValue(result.Min, round)+m.unit)
	}
	if !m.flags.Has(HideMax) {
		v.lines = append(v.lines, "max:  "+formatValue(result.Max, round)+m.unit)
	}
	if !m.flags.Has(HideMean) {
		v.lines = append(v.lines, "mean: "+formatValue(result.Mean, round)+m.unit)
	}
	if !m.flags.Has(HideLast) {
		v.lines = append(v.lines, "last: "+formatValue(result.Last, round)+m.unit)
	}
	if !m.flags.Has(HideGraph) {
		v.graph = m.window.Values()
		v.max = result.Max
	}
	return v
}
