// Package notify shows toasts to connected clients. Each toast expires on its
// own timer; several can be visible at once.
package notify

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("toast not found")

// subscriberBuffer is the event backlog kept per subscriber; events beyond it
// are dropped for that subscriber.
const subscriberBuffer = 64

// Center tracks visible toasts and fans events out to subscribers.
type Center struct {
	mu     sync.RWMutex
	toasts map[string]*Toast
	subs   map[string]map[chan Event]struct{}
}

func NewCenter() *Center {
	return &Center{
		toasts: make(map[string]*Toast),
		subs:   make(map[string]map[chan Event]struct{}),
	}
}

// Notify shows message to client and schedules its removal after d. A zero
// or negative d uses DefaultDuration.
func (c *Center) Notify(client, message string, sev Severity, d time.Duration) Toast {
	if d <= 0 {
		d = DefaultDuration
	}
	sev = ParseSeverity(string(sev))
	t := &Toast{
		ID:        uuid.New().String(),
		Client:    client,
		Message:   message,
		Severity:  sev,
		Class:     sev.Class(),
		Icon:      sev.Icon(),
		Duration:  d,
		DelayMS:   d.Milliseconds(),
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.toasts[t.ID] = t
	t.timer = time.AfterFunc(d, func() { c.expire(t.ID) })
	snapshot := *t
	c.publishLocked(client, Event{Type: Shown, Toast: snapshot})
	c.mu.Unlock()
	return snapshot
}

// Dismiss removes one of client's toasts before its duration elapses.
// Toasts of other clients are reported as not found.
func (c *Center) Dismiss(client, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.toasts[id]
	if !ok || t.Client != client {
		return ErrNotFound
	}
	t.timer.Stop()
	c.removeLocked(t)
	return nil
}

// Active returns the client's visible toasts, oldest first.
func (c *Center) Active(client string) []Toast {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]Toast, 0)
	for _, t := range c.toasts {
		if t.Client == client {
			list = append(list, *t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

// Subscribe registers a channel receiving the client's events. The returned
// cancel function unregisters and closes it.
func (c *Center) Subscribe(client string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	c.mu.Lock()
	if c.subs[client] == nil {
		c.subs[client] = make(map[chan Event]struct{})
	}
	c.subs[client][ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[client], ch)
			if len(c.subs[client]) == 0 {
				delete(c.subs, client)
			}
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.toasts[id]; ok {
		c.removeLocked(t)
	}
}

// removeLocked drops t and tells subscribers. Caller must hold c.mu.
func (c *Center) removeLocked(t *Toast) {
	delete(c.toasts, t.ID)
	c.publishLocked(t.Client, Event{Type: Hidden, Toast: *t})
}

// publishLocked never blocks: a full subscriber misses the event. Caller
// must hold c.mu.
func (c *Center) publishLocked(client string, ev Event) {
	for ch := range c.subs[client] {
		select {
		case ch <- ev:
		default:
		}
	}
}
