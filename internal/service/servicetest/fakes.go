package servicetest

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/stay-reservation/internal/queue"
)

// Clock is a settable clock.
type Clock struct {
    mu  sync.Mutex
    now time.Time
}

// NewClock returns a Clock stopped at now.
func NewClock(now time.Time) *Clock { return &Clock{now: now} }

func (c *Clock) Now() time.Time {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.now = c.now.Add(d)
}

// Dispatcher records notifications.  When Err is set every Notify fails
// with it after recording the attempt.
type Dispatcher struct {
    mu   sync.Mutex
    sent []queue.Notification
    Err  error
}

func (d *Dispatcher) Notify(_ context.Context, n queue.Notification) error {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.sent = append(d.sent, n)
    return d.Err
}

// Sent returns a copy of the recorded notifications.
func (d *Dispatcher) Sent() []queue.Notification {
    d.mu.Lock()
    defer d.mu.Unlock()
    return append([]queue.Notification(nil), d.sent...)
}
