// Package notify implements the transient on-screen notifications
// ("toasts"). Each notification lives independently for a fixed
// duration and removes itself; there is no queue and no back-pressure,
// so overlapping notifications simply coexist.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible. The screens all
// share this one constant.
const DefaultTTL = 3 * time.Second

// Severity styles a notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Notification is one transient message. Once expired it is gone for
// good; callers wanting the same text again push a new one.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	// TTLMillis tells the screen how long to keep the toast up.
	TTLMillis int64 `json:"ttl_ms"`
}

// Center creates notifications, expires them, and streams them to
// subscribers (the SSE endpoint).
type Center struct {
	ttl time.Duration

	mu          sync.Mutex
	active      map[string]Notification
	subscribers map[chan Notification]struct{}
}

// NewCenter creates a notification center. A non-positive ttl falls
// back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:         ttl,
		active:      make(map[string]Notification),
		subscribers: make(map[chan Notification]struct{}),
	}
}

// Push creates a notification, broadcasts it to subscribers and arms
// its expiry timer. It never blocks and cannot be cancelled.
func (c *Center) Push(message string, severity Severity) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
		TTLMillis: c.ttl.Milliseconds(),
	}

	c.mu.Lock()
	c.active[n.ID] = n
	for ch := range c.subscribers {
		select {
		case ch <- n:
		default:
			// Slow subscriber; the toast is transient anyway.
		}
	}
	c.mu.Unlock()

	time.AfterFunc(c.ttl, func() { c.expire(n.ID) })
	return n
}

// Active returns the notifications currently on screen, for rendering
// into a freshly loaded page.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.active))
	for _, n := range c.active {
		out = append(out, n)
	}
	return out
}

// Subscribe returns a channel receiving every notification pushed after
// this call.
func (c *Center) Subscribe() chan Notification {
	ch := make(chan Notification, 8)
	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (c *Center) Unsubscribe(ch chan Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.subscribers[ch]; !ok {
		return
	}
	delete(c.subscribers, ch)
	close(ch)
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	delete(c.active, id)
	c.mu.Unlock()
}
