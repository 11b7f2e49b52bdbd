// Package lookup finds a vehicle from a partially typed plate or VIN and
// reports whether the intake form should be auto-filled.
package lookup

import (
	"sync"
	"time"
)

// DefaultDelay is how long input must be idle before a search fires.
const DefaultDelay = 800 * time.Millisecond

// Debouncer runs the most recently triggered function once input has been
// quiet for the delay. At most one timer is pending.
type Debouncer struct {
	delay time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer. A non-positive delay uses DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending call and schedules fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
