package counter

import "time"

// Sliding counts contributions made during the last Interval. Each
// contribution expires Interval after it was added.
//
// The counter is idle while its queue is empty and active otherwise; an
// active counter has exactly one expiry pass armed, for the earliest entry.
type Sliding struct {
	interval time.Duration
	timer    Timer
	value    int64
	entries  deque[entry]
	onChange func()
}

type entry struct {
	expiry time.Duration
	amount int64
}

func NewSliding(interval time.Duration, timer Timer) *Sliding {
	return &Sliding{
		interval: interval,
		timer:    timer,
	}
}

func (c *Sliding) Interval() time.Duration { return c.interval }

func (c *Sliding) Value() int64 { return c.value }

// Active reports whether any contribution is still waiting to expire.
func (c *Sliding) Active() bool { return c.entries.Len() > 0 }

func (c *Sliding) Inc() { c.Add(1) }

func (c *Sliding) Add(amount int64) {
	if amount <= 0 {
		return
	}
	if c.entries.Len() == 0 {
		c.timer.AfterFunc(c.interval, c.expire)
	}
	c.entries.PushBack(entry{expiry: c.timer.Now() + c.interval, amount: amount})
	c.value += amount
	c.notify()
}

func (c *Sliding) SetOnChange(fn func()) { c.onChange = fn }

// expire drops every entry whose expiry has passed and re-arms itself for
// the next one. It notifies even when nothing expired.
func (c *Sliding) expire() {
	now := c.timer.Now()

	for c.entries.Len() > 0 {
		head := c.entries.Front()
		if now < head.expiry {
			c.timer.AfterFunc(ceilMillisecond(head.expiry-now), c.expire)
			break
		}
		c.entries.PopFront()
		c.value -= head.amount
	}
	if c.entries.Len() == 0 {
		c.entries.Reset()
	}

	c.notify()
}

func (c *Sliding) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

func ceilMillisecond(d time.Duration) time.Duration {
	return (d + time.Millisecond - 1) / time.Millisecond * time.Millisecond
}
