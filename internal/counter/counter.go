// Package counter provides event counters shown by counter widgets.
package counter

import "time"

// Counter is the capability shared by every counter variant.
type Counter interface {
	Value() int64
	// Inc adds one.
	Inc()
	// Add adds amount; amounts <= 0 are ignored.
	Add(amount int64)
	SetOnChange(fn func())
}

// Timer is the time source sliding counters expire against.
type Timer interface {
	Now() time.Duration
	AfterFunc(d time.Duration, fn func())
}

// Basic is a monotonic counter.
type Basic struct {
	value    int64
	onChange func()
}

func NewBasic() *Basic {
	return &Basic{}
}

func (c *Basic) Value() int64 { return c.value }

func (c *Basic) Inc() { c.Add(1) }

func (c *Basic) Add(amount int64) {
	if amount <= 0 {
		return
	}
	c.value += amount
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Basic) SetOnChange(fn func()) { c.onChange = fn }
