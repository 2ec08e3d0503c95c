package debounce

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of events into a single trailing callback.
// Every Trigger cancels the pending timer and reschedules it, so within a
// burst the last event wins and fn runs once, one window after the burst
// ends.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer that invokes fn one window after the most
// recent Trigger.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger records an event, restarting the pending window if one is open.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()
	fn()
}

// Stop cancels any pending callback. The debouncer ignores further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Cooldown suppresses repeated triggers per key within a fixed window. The
// first trigger for a key is accepted and opens the window; triggers inside
// it are rejected; after it elapses the key is eligible again.
type Cooldown struct {
	mu       sync.Mutex
	window   time.Duration
	accepted map[string]time.Time
}

// NewCooldown creates a per-key cooldown with the given window.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window, accepted: make(map[string]time.Time)}
}

// Allow reports whether a trigger for key is accepted, recording the
// acceptance time when it is.
func (c *Cooldown) Allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if last, ok := c.accepted[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.accepted[key] = now
	return true
}

// Forget drops the recorded acceptance for key.
func (c *Cooldown) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.accepted, key)
}

// Reset drops every recorded acceptance.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accepted = make(map[string]time.Time)
}
