package shell

import (
	"context"
	"sync"
	"time"
)

// Clock publishes wall-clock time for the taskbar.
type Clock struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	current time.Time
}

// NewClock returns a clock ticking every interval; zero means one second.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	c := &Clock{interval: interval, now: time.Now}
	c.current = c.now()
	return c
}

// Now returns the last published time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Display formats the last published time as the taskbar shows it.
func (c *Clock) Display() string {
	return c.Now().Format("15:04:05")
}

// Run ticks until ctx is cancelled. Each tick is also sent to onTick when it
// is non-nil.
func (c *Clock) Run(ctx context.Context, onTick func(time.Time)) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := c.now()
			c.mu.Lock()
			c.current = t
			c.mu.Unlock()
			if onTick != nil {
				onTick(t)
			}
		}
	}
}
