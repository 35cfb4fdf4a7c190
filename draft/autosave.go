package draft

import (
	"context"
	"time"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultRestoreDelay = 500 * time.Millisecond
)

// Autosaver periodically saves a snapshot of the form.
type Autosaver struct {
	Store     *Store
	Namespace string
	Interval  time.Duration

	// Snapshot returns the current form. ok=false skips the tick, e.g. when
	// the page has no title input.
	Snapshot func() (r Record, ok bool)

	// OnSaved, when set, runs after each successful save.
	OnSaved func(Record)
}

// Run ticks until ctx is done.
func (a *Autosaver) Run(ctx context.Context) {
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.Tick(ctx)
		}
	}
}

// Tick saves once if the snapshot is worth keeping. Failures are logged and
// reported as false.
func (a *Autosaver) Tick(ctx context.Context) bool {
	r, ok := a.Snapshot()
	if !ok || !r.Worth() {
		return false
	}
	r.Timestamp = a.Store.Now().UnixMilli()
	if err := a.Store.Save(ctx, a.Namespace, r); err != nil {
		a.Store.log.Warn("autosave failed", "namespace", a.Namespace, "error", err)
		return false
	}
	if a.OnSaved != nil {
		a.OnSaved(r)
	}
	return true
}

// Offer waits delay, then calls offer with the namespace's draft if a fresh
// one exists. It returns false when ctx ends first or there is nothing to
// offer.
func (s *Store) Offer(ctx context.Context, ns string, delay time.Duration, offer func(Record)) bool {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
	}

	r, ok := s.Load(ctx, ns)
	if !ok {
		return false
	}
	offer(r)
	return true
}
