// Package notify holds the single transient notification shown to the user.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notification stays up unless told otherwise
const DefaultDuration = 5 * time.Second

// Notification is one toast message
type Notification struct {
	ID       uuid.UUID     `json:"id"`
	Message  string        `json:"message"`
	Kind     Kind          `json:"kind"`
	Duration time.Duration `json:"duration"`
	ShownAt  time.Time     `json:"shownAt"`
}

// Notifier is what services need to raise a notification
type Notifier interface {
	Show(message string, kind Kind) Notification
}

// Center keeps at most one active notification. Showing a new one replaces
// the current one and restarts the expiry timer.
type Center struct {
	mu       sync.Mutex
	duration time.Duration
	current  *Notification
	timer    *time.Timer
}

// NewCenter creates an empty notification slot
func NewCenter(duration time.Duration) *Center {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Center{duration: duration}
}

// Show replaces the active notification
func (c *Center) Show(message string, kind Kind) Notification {
	return c.ShowFor(message, kind, c.duration)
}

// ShowFor replaces the active notification with one expiring after d
func (c *Center) ShowFor(message string, kind Kind, d time.Duration) Notification {
	if d <= 0 {
		d = c.duration
	}
	n := Notification{
		ID:       uuid.New(),
		Message:  message,
		Kind:     kind,
		Duration: d,
		ShownAt:  time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.current = &n
	c.timer = time.AfterFunc(d, func() { c.expire(n.ID) })
	return n
}

// Current returns the active notification, if any
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Hide dismisses the active notification
func (c *Center) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}

// expire clears the slot unless a newer notification took it over
func (c *Center) expire(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.ID == id {
		c.current = nil
		c.timer = nil
	}
}
