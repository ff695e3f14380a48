package playback

import (
	"sync"
	"time"
)

// Clock is a pausable wall-clock TimeSource used when no external player
// reports a position.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	base    float64
	started time.Time
	running bool
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Position() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position(), nil
}

func (c *Clock) position() float64 {
	if !c.running {
		return c.base
	}
	return c.base + c.now().Sub(c.started).Seconds()
}

func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.started = c.now()
	c.running = true
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.base = c.position()
	c.running = false
}

// Toggle flips between playing and paused and reports whether it is now playing.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()

	if running {
		c.Pause()
	} else {
		c.Play()
	}
	return !running
}

// Seek moves the position by delta seconds, never below zero.
func (c *Clock) Seek(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.position() + delta
	if pos < 0 {
		pos = 0
	}
	c.base = pos
	if c.running {
		c.started = c.now()
	}
}
