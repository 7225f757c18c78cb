// Package fakeclock provides a manually advanced clock for timer driven code.
package fakeclock

import (
	"sort"
	"sync"
	"time"
)

type (
	Clock struct {
		mu      sync.Mutex
		now     time.Duration
		seq     int
		pending []*timer
	}
	timer struct {
		c       *Clock
		at      time.Duration
		seq     int
		f       func()
		stopped bool
		fired   bool
	}
)

func New() *Clock {
	return &Clock{}
}

// AfterFunc registers f to be called once the clock was advanced by d.
func (c *Clock) AfterFunc(d time.Duration, f func()) interface{ Stop() bool } {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Elapsed returns the total time the clock was advanced by.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers which have neither fired nor been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// NextIn returns the delay until the next pending timer fires.
func (c *Clock) NextIn() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.nextLocked()
	if t == nil {
		return 0, false
	}
	return t.at - c.now, true
}

// Advance moves the clock forward by d and runs every timer due up to then,
// including timers scheduled by the callbacks themselves. Callbacks run on the
// calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		t := c.nextLocked()
		if t == nil || t.at > target {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.at
		t.fired = true
		c.mu.Unlock()
		t.f()
	}
}

// RunAll fires timers until none are pending and returns the time advanced.
func (c *Clock) RunAll() time.Duration {
	start := c.Elapsed()
	for {
		d, ok := c.NextIn()
		if !ok {
			return c.Elapsed() - start
		}
		c.Advance(d)
	}
}

func (c *Clock) nextLocked() *timer {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.pending = live
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].at != live[j].at {
			return live[i].at < live[j].at
		}
		return live[i].seq < live[j].seq
	})
	return live[0]
}
