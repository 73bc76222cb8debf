package signal

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback created by Clock.AfterFunc.
type Timer interface {
	// Stop cancels the callback.
	//
	// Returns:
	//   - bool: true if the call stopped the timer, false if it had already fired or been stopped
	Stop() bool
}

// Clock abstracts wall time so debouncing can be driven deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f in its own goroutine (or synchronously, for manual clocks) once d has elapsed.
	//
	// Parameters:
	//   - d: the delay
	//   - f: the callback
	//
	// Returns:
	//   - Timer: a handle that can cancel the callback
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock returns the Clock backed by the time package.
//
// Returns:
//   - Clock: the real-time clock
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock whose time only moves when Advance is called. Timers fire synchronously
// inside Advance, in deadline order. Used for replaying input deterministically.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	f        func()
	done     bool
}

var _ Clock = &ManualClock{}

// NewManualClock creates a manual clock starting at start.
//
// Parameters:
//   - start: the initial time
//
// Returns:
//   - *ManualClock: the clock
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every timer whose deadline is reached.
// Callbacks run without the clock lock held and may arm new timers.
//
// Parameters:
//   - d: how far to move the clock
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		next.done = true
		c.now = next.deadline
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.compact()
	c.mu.Unlock()
}

// nextDue returns the earliest live timer due at or before target. Caller holds c.mu.
func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
	for _, t := range c.timers {
		if t.done {
			continue
		}
		if t.deadline.After(target) {
			return nil
		}
		return t
	}
	return nil
}

// compact drops finished timers. Caller holds c.mu.
func (c *ManualClock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(c.timers); i++ {
		c.timers[i] = nil
	}
	c.timers = live
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}
