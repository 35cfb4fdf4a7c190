package debounce_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"docbuilder/debounce"
)

func TestOnlyLastCallRuns(t *testing.T) {
	d := debounce.New(30 * time.Millisecond)

	var (
		calls atomic.Int32
		last  atomic.Int32
		done  = make(chan struct{}, 1)
	)
	for i := 1; i <= 5; i++ {
		d.Do(func() {
			calls.Add(1)
			last.Store(int32(i))
			done <- struct{}{}
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 1 || last.Load() != 5 {
		t.Fatalf("calls=%d last=%d, want 1 and 5", calls.Load(), last.Load())
	}
}

func TestStop(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)
	var ran atomic.Bool
	d.Do(func() { ran.Store(true) })
	if !d.Stop() {
		t.Fatal("Stop should report a pending call")
	}
	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatal("stopped call ran")
	}
	if d.Stop() {
		t.Fatal("nothing should be pending")
	}
}

func TestSpacedCallsAllRun(t *testing.T) {
	d := debounce.New(10 * time.Millisecond)
	var wg sync.WaitGroup
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		wg.Add(1)
		d.Do(func() {
			calls.Add(1)
			wg.Done()
		})
		time.Sleep(40 * time.Millisecond)
	}
	wg.Wait()
	if calls.Load() != 3 {
		t.Fatalf("calls=%d, want 3", calls.Load())
	}
}

func TestFunc(t *testing.T) {
	got := make(chan string, 4)
	search := debounce.Func(20*time.Millisecond, func(q string) { got <- q })
	search("c")
	search("co")
	search("con")

	select {
	case q := <-got:
		if q != "con" {
			t.Fatalf("got %q, want con", q)
		}
	case <-time.After(time.Second):
		t.Fatal("no call")
	}
	select {
	case q := <-got:
		t.Fatalf("unexpected extra call %q", q)
	case <-time.After(50 * time.Millisecond):
	}
}
