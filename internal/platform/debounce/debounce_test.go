package debounce_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tempo/internal/platform/debounce"
)

func TestBurstCoalescesIntoOneRun(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	done := make(chan struct{}, 4)
	d := debounce.New(30*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		done <- struct{}{}
		return nil
	}, nil)

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced run never happened")
	}
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected one coalesced run, got %d", got)
	}
	if d.Pending() {
		t.Fatalf("nothing should be pending after the run")
	}
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	d := debounce.New(time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	}, nil)

	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("flush with nothing pending: %v", err)
	}
	if runs.Load() != 0 {
		t.Fatalf("flush must not run when nothing is pending")
	}
	d.Trigger()
	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if runs.Load() != 1 {
		t.Fatalf("expected flush to run the job once, got %d", runs.Load())
	}
}

func TestFailedRunStaysPending(t *testing.T) {
	t.Parallel()
	fail := true
	d := debounce.New(time.Hour, func(context.Context) error {
		if fail {
			return errors.New("disk full")
		}
		return nil
	}, nil)

	d.Trigger()
	if err := d.Flush(context.Background()); err == nil {
		t.Fatalf("expected flush error")
	}
	if !d.Pending() {
		t.Fatalf("failed job must stay pending")
	}
	fail = false
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if d.Pending() {
		t.Fatalf("close must flush the retried job")
	}
}

func TestTimerFailuresReachErrorHook(t *testing.T) {
	t.Parallel()
	errs := make(chan error, 1)
	d := debounce.New(10*time.Millisecond, func(context.Context) error {
		return errors.New("locked")
	}, func(err error) { errs <- err })

	d.Trigger()
	select {
	case err := <-errs:
		if err.Error() != "locked" {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("error hook never called")
	}
}

func TestTriggerAfterCloseRunsInline(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	d := debounce.New(time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	}, nil)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	d.Trigger()
	if runs.Load() != 1 {
		t.Fatalf("expected inline run after close, got %d", runs.Load())
	}
}
