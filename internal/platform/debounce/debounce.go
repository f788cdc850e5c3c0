// Package debounce coalesces bursts of save requests into one write.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs a job once the trigger stream has been quiet for window.
// A failed run stays pending, so the next Trigger or Flush retries it.
type Debouncer struct {
	window time.Duration
	run    func(context.Context) error
	onErr  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool

	runMu sync.Mutex
}

// New returns a Debouncer. A window <= 0 makes every Trigger run inline.
// onErr receives failures of timer-driven runs and may be nil.
func New(window time.Duration, run func(context.Context) error, onErr func(error)) *Debouncer {
	return &Debouncer{window: window, run: run, onErr: onErr}
}

// Trigger marks the job pending and restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	d.pending = true
	if d.closed || d.window <= 0 {
		d.mu.Unlock()
		d.fire()
		return
	}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.fire)
	} else {
		d.timer.Reset(d.window)
	}
	d.mu.Unlock()
}

// Flush runs a pending job immediately and cancels the timer.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return nil
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	if err := d.run(ctx); err != nil {
		d.mu.Lock()
		d.pending = true
		d.mu.Unlock()
		return err
	}
	return nil
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Close stops the timer and flushes. Triggers after Close run inline.
func (d *Debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	return d.Flush(ctx)
}

func (d *Debouncer) fire() {
	if err := d.Flush(context.Background()); err != nil && d.onErr != nil {
		d.onErr(err)
	}
}
