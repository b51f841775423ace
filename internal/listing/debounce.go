package listing

import (
	"sync"
	"time"
)

// Debouncer delivers the last value it was given once no new value arrived
// for the configured delay. Superseded values are dropped, never delivered.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	deliver func(value string)
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling deliver on its own goroutine
func NewDebouncer(delay time.Duration, deliver func(value string)) *Debouncer {
	return &Debouncer{delay: delay, deliver: deliver}
}

// Trigger restarts the quiet period with a new value
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A newer Trigger may have raced with this timer firing
		current := seq == d.seq && !d.stopped
		d.mu.Unlock()

		if current {
			d.deliver(value)
		}
	})
}

// Cancel drops the pending value, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending value and ignores every later Trigger
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
