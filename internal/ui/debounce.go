package ui

import (
	"sync"
	"time"
)

// debouncer runs the latest function triggered under a key once the key
// has been quiet for delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]*time.Timer)}
}

// Trigger schedules fn under key, replacing a pending run of the same key.
func (d *debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.schedule(key, fn)
}

// schedule must be called with d.mu held.
func (d *debouncer) schedule(key string, fn func()) {
	if t, ok := d.pending[key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		// A newer timer may have replaced this one while it waited for the lock.
		if d.pending[key] == timer {
			delete(d.pending, key)
		}
		d.mu.Unlock()

		fn()
	})
	d.pending[key] = timer
}

// Stop cancels pending runs and waits for running ones to return.
func (d *debouncer) Stop() {
	d.mu.Lock()
	for key, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
