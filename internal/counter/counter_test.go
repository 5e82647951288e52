package counter

import (
	"testing"
	"time"

	"github.com/sanspareilsmyn/perfmon/internal/loop"
)

var (
	_ Counter = (*Basic)(nil)
	_ Counter = (*Sliding)(nil)
)

func TestBasicIgnoresNonPositiveAmounts(t *testing.T) {
	c := NewBasic()
	calls := 0
	c.SetOnChange(func() { calls++ })

	c.Add(0)
	c.Add(-5)
	if c.Value() != 0 || calls != 0 {
		t.Fatalf("non-positive amounts changed state: value=%d calls=%d", c.Value(), calls)
	}

	c.Inc()
	c.Add(4)
	if c.Value() != 5 || calls != 2 {
		t.Fatalf("value=%d calls=%d, want 5 and 2", c.Value(), calls)
	}
}

func TestBasicWithoutObserver(t *testing.T) {
	c := NewBasic()
	c.Inc()
	if c.Value() != 1 {
		t.Fatalf("value = %d, want 1", c.Value())
	}
}

func TestSlidingExpiresAfterInterval(t *testing.T) {
	clock := loop.NewManual()
	c := NewSliding(100*time.Millisecond, clock)

	c.Inc()
	clock.AdvanceTo(50 * time.Millisecond)
	c.Inc()
	if c.Value() != 2 {
		t.Fatalf("value at t=50 = %d, want 2", c.Value())
	}

	clock.AdvanceTo(120 * time.Millisecond)
	if c.Value() != 1 {
		t.Fatalf("value at t=120 = %d, want 1", c.Value())
	}
	assertIdleIffZero(t, c)

	clock.AdvanceTo(160 * time.Millisecond)
	if c.Value() != 0 {
		t.Fatalf("value at t=160 = %d, want 0", c.Value())
	}
	if c.Active() || clock.Timers() != 0 {
		t.Errorf("drained counter should be idle with no timer, active=%v timers=%d", c.Active(), clock.Timers())
	}
	assertIdleIffZero(t, c)
}

func TestSlidingKeepsSingleTimer(t *testing.T) {
	clock := loop.NewManual()
	c := NewSliding(time.Second, clock)

	for i := 0; i < 1000; i++ {
		c.Inc()
		clock.Advance(time.Millisecond)
	}
	if clock.Timers() != 1 {
		t.Fatalf("armed timers = %d, want 1", clock.Timers())
	}
	// The entry added at t=0 expired on the final step.
	if c.Value() != 999 {
		t.Fatalf("value = %d, want 999", c.Value())
	}

	clock.Advance(500 * time.Millisecond)
	if clock.Timers() != 1 {
		t.Fatalf("armed timers after partial expiry = %d, want 1", clock.Timers())
	}
	clock.Advance(time.Second)
	if c.Value() != 0 || clock.Timers() != 0 {
		t.Fatalf("value=%d timers=%d after full expiry", c.Value(), clock.Timers())
	}
	assertIdleIffZero(t, c)
}

func TestSlidingWeightedContributions(t *testing.T) {
	clock := loop.NewManual()
	c := NewSliding(100*time.Millisecond, clock)

	c.Add(3)
	c.Add(0)
	c.Add(-2)
	clock.AdvanceTo(10 * time.Millisecond)
	c.Add(4)
	if c.Value() != 7 {
		t.Fatalf("value = %d, want 7", c.Value())
	}

	clock.AdvanceTo(100 * time.Millisecond)
	if c.Value() != 4 {
		t.Fatalf("value at t=100 = %d, want 4", c.Value())
	}
	clock.AdvanceTo(110 * time.Millisecond)
	if c.Value() != 0 {
		t.Fatalf("value at t=110 = %d, want 0", c.Value())
	}
	assertIdleIffZero(t, c)
}

func TestSlidingNotifiesOnExpiryPass(t *testing.T) {
	clock := loop.NewManual()
	c := NewSliding(100*time.Millisecond, clock)
	calls := 0
	c.SetOnChange(func() { calls++ })

	c.Inc()
	clock.AdvanceTo(50 * time.Millisecond)
	c.Inc()
	if calls != 2 {
		t.Fatalf("calls after two increments = %d", calls)
	}

	clock.AdvanceTo(100 * time.Millisecond)
	if calls != 3 {
		t.Fatalf("calls after first expiry = %d, want 3", calls)
	}
	clock.AdvanceTo(150 * time.Millisecond)
	if calls != 4 {
		t.Fatalf("calls after second expiry = %d, want 4", calls)
	}
}

// earlyTimer lets a test fire armed callbacks at any time it chooses.
type earlyTimer struct {
	now     time.Duration
	pending []func()
	delays  []time.Duration
}

func (e *earlyTimer) Now() time.Duration { return e.now }

func (e *earlyTimer) AfterFunc(d time.Duration, fn func()) {
	e.pending = append(e.pending, fn)
	e.delays = append(e.delays, d)
}

func (e *earlyTimer) fire() {
	fn := e.pending[0]
	e.pending = e.pending[1:]
	e.delays = e.delays[1:]
	fn()
}

func TestSlidingEarlyPassStillNotifies(t *testing.T) {
	timer := &earlyTimer{}
	c := NewSliding(100*time.Millisecond, timer)
	calls := 0
	c.SetOnChange(func() { calls++ })

	c.Inc()
	calls = 0

	// The armed pass runs at t=60, before the head is due at t=100.
	timer.now = 60 * time.Millisecond
	timer.fire()
	if c.Value() != 1 || calls != 1 {
		t.Fatalf("early pass: value=%d calls=%d, want 1 and 1", c.Value(), calls)
	}
	if len(timer.pending) != 1 || timer.delays[0] != 40*time.Millisecond {
		t.Fatalf("early pass should re-arm once for the remaining 40ms, pending=%v", timer.delays)
	}
	assertIdleIffZero(t, c)

	timer.now = 100 * time.Millisecond
	timer.fire()
	if c.Value() != 0 || len(timer.pending) != 0 {
		t.Fatalf("value=%d pending=%d after the head expired", c.Value(), len(timer.pending))
	}
	assertIdleIffZero(t, c)
}

func assertIdleIffZero(t *testing.T, c *Sliding) {
	t.Helper()
	if c.Active() != (c.Value() != 0) {
		t.Errorf("active=%v with value=%d", c.Active(), c.Value())
	}
}

func TestSlidingRestartsAfterIdle(t *testing.T) {
	clock := loop.NewManual()
	c := NewSliding(10*time.Millisecond, clock)

	c.Inc()
	clock.Advance(20 * time.Millisecond)
	if c.Active() {
		t.Fatal("counter should be idle")
	}

	c.Inc()
	if !c.Active() || clock.Timers() != 1 {
		t.Fatalf("counter should re-arm on idle->active, timers=%d", clock.Timers())
	}
	clock.Advance(10 * time.Millisecond)
	if c.Value() != 0 {
		t.Errorf("value = %d, want 0", c.Value())
	}
}

func TestCeilMillisecond(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, 0},
		{time.Millisecond, time.Millisecond},
		{time.Millisecond + 1, 2 * time.Millisecond},
		{1500 * time.Microsecond, 2 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := ceilMillisecond(tt.in); got != tt.want {
			t.Errorf("ceilMillisecond(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDequeCompacts(t *testing.T) {
	var q deque[int]
	for i := 0; i < 100; i++ {
		q.PushBack(i)
	}
	for i := 0; i < 90; i++ {
		if got := q.PopFront(); got != i {
			t.Fatalf("PopFront() = %d, want %d", got, i)
		}
	}
	if q.Len() != 10 || q.Front() != 90 {
		t.Fatalf("Len=%d Front=%d, want 10 and 90", q.Len(), q.Front())
	}
	if len(q.items) > 60 {
		t.Errorf("dead prefix was not reclaimed, backing len = %d", len(q.items))
	}
}
