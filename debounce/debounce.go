// Package debounce delays a callback until calls have stopped for a while.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recent function passed to Do once Wait has elapsed
// without another call. At most one call is pending at any time.
type Debouncer struct {
	Wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New returns a Debouncer with the given wait.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{Wait: wait}
}

// Do schedules fn, cancelling any call still pending.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.Wait, func() {
		d.mu.Lock()
		stale := gen != d.gen
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Stop cancels the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// SearchWait is the delay applied to search-as-you-type inputs.
const SearchWait = 300 * time.Millisecond

// Func returns a function that debounces calls to fn with the given wait.
// The argument of the last call wins.
func Func[T any](wait time.Duration, fn func(T)) func(T) {
	d := New(wait)
	return func(v T) {
		d.Do(func() { fn(v) })
	}
}
