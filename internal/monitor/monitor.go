// Package monitor owns every registered bucket and the frame scheduler that
// redraws them. A Monitor is created at init and torn down with Close; all of
// its methods must run on the loop goroutine.
package monitor

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/perfmon/internal/counter"
	"github.com/sanspareilsmyn/perfmon/internal/ema"
	"github.com/sanspareilsmyn/perfmon/internal/profiler"
	"github.com/sanspareilsmyn/perfmon/internal/samples"
	"github.com/sanspareilsmyn/perfmon/internal/scheduler"
	"github.com/sanspareilsmyn/perfmon/internal/widget"
)

const (
	DefaultMaxSamples = 100
	ProfilerUnit      = "ms"
)

// Runtime is the event loop a Monitor is driven by.
type Runtime interface {
	Now() time.Duration
	AfterFunc(d time.Duration, fn func())
	RequestFrame(fn func(now time.Duration))
}

// Display is a surface that is presented once per frame.
type Display interface {
	widget.Surface
	Show()
}

// Monitor is the name -> bucket registry. Entries are never removed.
type Monitor struct {
	rt      Runtime
	sched   *scheduler.Scheduler
	column  *widget.Column
	display Display
	logger  *zap.Logger

	maxSamples  int
	graphRows   int
	columnWidth int
	heapBytes   func() uint64

	entries map[string]*entry
	order   []*entry
	sinks   []Sink
	closed  bool
}

type entry struct {
	name     string
	kind     Kind
	unit     string
	widget   widget.Widget
	series   *Series
	profiler *profiler.Session
	counter  counter.Counter
	ema      *ema.Bucket
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithDisplay draws widgets on d in a column of the given width.
func WithDisplay(d Display, width int) Option {
	return func(m *Monitor) {
		m.display = d
		m.columnWidth = width
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

// WithMaxSamples sets the window capacity of series and profilers.
func WithMaxSamples(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.maxSamples = n
		}
	}
}

func WithGraphRows(n int) Option {
	return func(m *Monitor) { m.graphRows = n }
}

func WithSink(s Sink) Option {
	return func(m *Monitor) { m.sinks = append(m.sinks, s) }
}

// WithHeapReader replaces the runtime heap probe used by the memory monitor.
func WithHeapReader(fn func() uint64) Option {
	return func(m *Monitor) { m.heapBytes = fn }
}

// New creates a Monitor driven by rt.
func New(rt Runtime, opts ...Option) *Monitor {
	m := &Monitor{
		rt:         rt,
		sched:      scheduler.New(rt),
		logger:     zap.NewNop(),
		maxSamples: DefaultMaxSamples,
		graphRows:  widget.DefaultGraphRows,
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}

	var surface widget.Surface
	if m.display != nil {
		surface = m.display
	}
	m.column = widget.NewColumn(surface, m.columnWidth)
	m.sched.OnFlush(m.present)

	m.logger.Debug("Monitor initialized",
		zap.Int("max_samples", m.maxSamples),
		zap.Bool("display", m.display != nil),
		zap.Int("sinks", len(m.sinks)),
	)
	return m
}

// Scheduler exposes the frame scheduler shared by all widgets.
func (m *Monitor) Scheduler() *scheduler.Scheduler { return m.sched }

// AddSink registers s to receive readings after every flushed frame.
func (m *Monitor) AddSink(s Sink) {
	m.sinks = append(m.sinks, s)
}

// NewSeries registers a sample window the host feeds directly.
func (m *Monitor) NewSeries(name, unit string, flags widget.Flags) (*Series, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	window := samples.NewWindow(m.maxSamples)
	s := &Series{
		window: window,
		widget: widget.NewMonitor(name, unit, flags, window, m.graphRows, m.sched),
	}
	m.register(&entry{name: name, kind: KindSeries, unit: unit, widget: s.widget, series: s})
	return s, nil
}

// NewProfiler registers a profiler session measuring in milliseconds.
func (m *Monitor) NewProfiler(name string) (*profiler.Session, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	p := profiler.New(m.rt, m.maxSamples)
	w := widget.NewMonitor(name, ProfilerUnit, 0, p.Window(), m.graphRows, m.sched)
	p.SetOnChange(w.Invalidate)
	m.register(&entry{name: name, kind: KindProfiler, unit: ProfilerUnit, widget: w, profiler: p})
	return p, nil
}

// NewCounter registers a monotonic counter.
func (m *Monitor) NewCounter(name string) (*counter.Basic, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	c := counter.NewBasic()
	m.registerCounter(name, KindCounter, c)
	return c, nil
}

// NewSlidingCounter registers a counter whose contributions expire after interval.
func (m *Monitor) NewSlidingCounter(name string, interval time.Duration) (*counter.Sliding, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	c := counter.NewSliding(interval, m.rt)
	m.registerCounter(name, KindSliding, c)
	return c, nil
}

// NewEMA registers an exponential moving average bucket.
func (m *Monitor) NewEMA(name, unit string, alpha float64) (*ema.Bucket, error) {
	if err := m.checkName(name); err != nil {
		return nil, err
	}
	b := ema.New(alpha)
	w := widget.NewEMA(name, unit, b, m.sched)
	b.SetOnChange(w.Invalidate)
	m.register(&entry{name: name, kind: KindEMA, unit: unit, widget: w, ema: b})
	return b, nil
}

func (m *Monitor) registerCounter(name string, kind Kind, c counter.Counter) {
	w := widget.NewCounter(name, c, m.sched)
	c.SetOnChange(w.Invalidate)
	m.register(&entry{name: name, kind: kind, widget: w, counter: c})
}

func (m *Monitor) checkName(name string) error {
	if m.closed {
		return ErrClosed
	}
	if _, exists := m.entries[name]; exists {
		m.logger.Error("Duplicate bucket registration", zap.String("name", name))
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

func (m *Monitor) register(e *entry) {
	m.entries[e.name] = e
	m.order = append(m.order, e)
	m.column.Add(e.widget)
	m.logger.Debug("Bucket registered",
		zap.String("name", e.name),
		zap.String("kind", string(e.kind)),
	)
}

// StartProfile starts the named profiler. Unknown names are ignored.
func (m *Monitor) StartProfile(name string) {
	if e, ok := m.entries[name]; ok && e.profiler != nil {
		e.profiler.Start()
	}
}

// EndProfile ends the named profiler. Unknown names are ignored.
func (m *Monitor) EndProfile(name string) {
	if e, ok := m.entries[name]; ok && e.profiler != nil {
		e.profiler.End()
	}
}

// Count increments the named counter by one.
func (m *Monitor) Count(name string) {
	m.CountN(name, 1)
}

// CountN adds amount to the named counter. Unknown names are ignored.
func (m *Monitor) CountN(name string, amount int64) {
	if e, ok := m.entries[name]; ok && e.counter != nil {
		e.counter.Add(amount)
	}
}

// Push feeds v to the named EMA bucket. Unknown names are ignored.
func (m *Monitor) Push(name string, v float64) {
	if e, ok := m.entries[name]; ok && e.ema != nil {
		e.ema.Push(v)
	}
}

// Sample adds v to the named series. Unknown names are ignored.
func (m *Monitor) Sample(name string, v float64) {
	if e, ok := m.entries[name]; ok && e.series != nil {
		e.series.Add(v)
	}
}

// Names lists registered buckets in registration order.
func (m *Monitor) Names() []string {
	names := make([]string, len(m.order))
	for i, e := range m.order {
		names[i] = e.name
	}
	return names
}

// Readings pulls the current state of every bucket in registration order.
func (m *Monitor) Readings() []Reading {
	out := make([]Reading, 0, len(m.order))
	for _, e := range m.order {
		r := Reading{Name: e.name, Kind: e.kind, Unit: e.unit}
		switch {
		case e.series != nil:
			fillAggregate(&r, e.series.window.Aggregate())
		case e.profiler != nil:
			fillAggregate(&r, e.profiler.Window().Aggregate())
		case e.counter != nil:
			r.Value = e.counter.Value()
		case e.ema != nil:
			if e.ema.Initialized() {
				r.Avg, r.Std, r.Min = e.ema.Avg, e.ema.Std, e.ema.Min
			}
		}
		out = append(out, r)
	}
	return out
}

func fillAggregate(r *Reading, res samples.Result) {
	r.Min, r.Max, r.Mean, r.Last = res.Min, res.Max, res.Mean, res.Last
}

// Resize re-lays the widgets out after the display changed size.
func (m *Monitor) Resize() {
	m.column.Relayout()
}

// Close stops the samplers and detaches sinks. Registered buckets keep
// working but nothing new can be registered.
func (m *Monitor) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.sinks = nil
	m.logger.Debug("Monitor closed", zap.Int("buckets", len(m.order)))
}

// present runs after every flushed frame.
func (m *Monitor) present() {
	if m.display != nil {
		m.display.Show()
	}
	if len(m.sinks) == 0 {
		return
	}
	readings := m.Readings()
	for _, s := range m.sinks {
		s.Export(readings)
	}
}
