package loop

import (
	"sort"
	"time"
)

// Manual is a virtual loop driven explicitly by tests. Time only moves on
// Advance and frames only fire on Frame.
type Manual struct {
	now      time.Duration
	seq      uint64
	timers   []manualTimer
	frames   []func(now time.Duration)
	requests int
}

type manualTimer struct {
	when time.Duration
	seq  uint64
	fn   func()
}

// NewManual returns a virtual loop positioned at time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Now() time.Duration { return m.now }

// Post runs fn immediately; the caller is already on the virtual loop.
func (m *Manual) Post(fn func()) bool {
	fn()
	return true
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := manualTimer{when: m.now + d, seq: m.seq, fn: fn}
	i := sort.Search(len(m.timers), func(i int) bool {
		return m.timers[i].when > t.when
	})
	m.timers = append(m.timers, manualTimer{})
	copy(m.timers[i+1:], m.timers[i:])
	m.timers[i] = t
}

func (m *Manual) RequestFrame(fn func(now time.Duration)) {
	m.requests++
	m.frames = append(m.frames, fn)
}

// Advance moves time forward by d, firing due timers in time order. Timers
// armed by a callback fire in the same call when they fall inside the span.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now + d)
}

// AdvanceTo moves time forward to t.
func (m *Manual) AdvanceTo(t time.Duration) {
	for len(m.timers) > 0 && m.timers[0].when <= t {
		next := m.timers[0]
		m.timers = m.timers[1:]
		m.now = next.when
		next.fn()
	}
	if t > m.now {
		m.now = t
	}
}

// Frame runs every callback requested before the call and returns how many ran.
func (m *Manual) Frame() int {
	callbacks := m.frames
	m.frames = nil
	for _, fn := range callbacks {
		fn(m.now)
	}
	return len(callbacks)
}

// Timers reports how many timers are armed.
func (m *Manual) Timers() int { return len(m.timers) }

// FrameRequests reports how many frame callbacks were ever requested.
func (m *Manual) FrameRequests() int { return m.requests }
