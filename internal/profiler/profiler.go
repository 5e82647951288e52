// Package profiler measures start/end spans and records their durations.
package profiler

import (
	"time"

	"github.com/sanspareilsmyn/perfmon/internal/samples"
)

// Clock supplies the monotonic time spans are measured with.
type Clock interface {
	Now() time.Duration
}

const notRunning = time.Duration(-1)

// Session records the elapsed milliseconds of each Start/End pair into its
// sample window.
type Session struct {
	clock    Clock
	window   *samples.Window
	start    time.Duration
	onChange func()
}

// New creates a session keeping the last maxSamples durations.
func New(clock Clock, maxSamples int) *Session {
	return &Session{
		clock:  clock,
		window: samples.NewWindow(maxSamples),
		start:  notRunning,
	}
}

// Start marks the beginning of a span. A pending start is overwritten.
func (s *Session) Start() {
	s.start = s.clock.Now()
}

// End closes the pending span. Without a pending Start it does nothing.
func (s *Session) End() {
	if s.start == notRunning {
		return
	}
	elapsed := s.clock.Now() - s.start
	s.start = notRunning
	s.window.Add(float64(elapsed) / float64(time.Millisecond))

	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Session) Running() bool { return s.start != notRunning }

func (s *Session) Window() *samples.Window { return s.window }

func (s *Session) SetOnChange(fn func()) { s.onChange = fn }
