package fs

import (
	"sync"
	"time"

	"github.com/aretw0/codenotes/pkg/core"
)

// debouncer collapses events for the same file into one delivery after delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

// add schedules fn(e), replacing any pending delivery for e.File.
func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[e.File]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[e.File] == timer {
			delete(d.timers, e.File)
		}
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn(e)
		}
	})
	d.timers[e.File] = timer
}

// stopAndWait drops pending deliveries and waits, up to timeout, for running ones.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
