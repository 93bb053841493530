package clock

import (
	"sync"
	"time"
)

// FakeClock is a deterministic Clock for tests. Time moves only when
// Advance is called, and AfterFunc callbacks run synchronously inside
// Advance in deadline order (registration order for equal deadlines).
//
// Callbacks may register new timers; a timer registered while Advance is
// running fires in the same Advance if its deadline is still within the
// target. Do not call Advance from inside a callback.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	seq     uint64
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	seq      uint64
	callback func()
	stopped  bool
	fired    bool
}

// Fake returns a FakeClock initialized to the given time.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		panic("clock: non-positive duration for AfterFunc")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	w := &fakeWaiter{deadline: c.current.Add(d), seq: c.seq, callback: f}
	c.waiters = append(c.waiters, w)

	return &Timer{stopFunc: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if w.stopped || w.fired {
			return false
		}
		w.stopped = true
		return true
	}}
}

// Advance moves the clock forward by d, stopping at every pending
// deadline on the way so each callback observes Now() equal to its own
// deadline.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		w := c.nextExpired(target)
		if w == nil {
			break
		}
		w.callback()
	}

	c.mu.Lock()
	if c.current.Before(target) {
		c.current = target
	}
	c.mu.Unlock()
}

// nextExpired pops the earliest live waiter due at or before target and
// moves the clock to its deadline. Returns nil when none is due.
func (c *FakeClock) nextExpired(target time.Time) *fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	best := -1
	live := c.waiters[:0]
	for _, w := range c.waiters {
		if w.stopped || w.fired {
			continue
		}
		live = append(live, w)
	}
	c.waiters = live

	for i, w := range c.waiters {
		if w.deadline.After(target) {
			continue
		}
		if best < 0 || w.deadline.Before(c.waiters[best].deadline) ||
			(w.deadline.Equal(c.waiters[best].deadline) && w.seq < c.waiters[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}

	w := c.waiters[best]
	w.fired = true
	c.waiters = append(c.waiters[:best], c.waiters[best+1:]...)
	if w.deadline.After(c.current) {
		c.current = w.deadline
	}
	return w
}

// PendingCount returns the number of timers that have neither fired nor
// been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			n++
		}
	}
	return n
}
