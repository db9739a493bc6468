// Package autosave schedules cancelable delayed work and coalesces bursts of
// edits into a single save.
package autosave

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	taskPending int32 = iota
	taskFired
	taskCanceled
)

// Task is a handle to an action scheduled with Schedule.
type Task struct {
	timer *time.Timer
	state atomic.Int32
}

// Schedule runs action once after delay unless the task is canceled first.
func Schedule(delay time.Duration, action func()) *Task {
	t := &Task{}
	t.timer = time.AfterFunc(delay, func() {
		if t.state.CompareAndSwap(taskPending, taskFired) {
			action()
		}
	})
	return t
}

// Cancel prevents the action from running. It reports false when the action
// has already started or the task was canceled before.
func (t *Task) Cancel() bool {
	if !t.state.CompareAndSwap(taskPending, taskCanceled) {
		return false
	}
	t.timer.Stop()
	return true
}

// Debouncer delays action until no Trigger has happened for the configured
// delay, then calls it with the most recent value.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	action  func(T)
	task    *Task
	value   T
	pending bool

	// run serializes calls to action
	run sync.Mutex
}

// NewDebouncer creates a debouncer calling action at most once per burst.
func NewDebouncer[T any](delay time.Duration, action func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:  delay,
		action: action,
	}
}

// Trigger records v as the latest value and restarts the delay.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.task != nil {
		d.task.Cancel()
	}
	d.value = v
	d.pending = true
	d.task = Schedule(d.delay, d.fire)
}

// Flush cancels the pending delay and runs the action now. It reports whether
// there was anything to run.
func (d *Debouncer[T]) Flush() bool {
	v, ok := d.take()
	if !ok {
		return false
	}
	d.call(v)
	return true
}

// Stop discards the pending value without running the action.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
	d.pending = false
}

// Pending reports whether a value is waiting to be saved.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) fire() {
	if v, ok := d.take(); ok {
		d.call(v)
	}
}

// take claims the pending value. Only one of a racing timer and Flush wins.
func (d *Debouncer[T]) take() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if !d.pending {
		return zero, false
	}
	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
	v := d.value
	d.value = zero
	d.pending = false
	return v, true
}

func (d *Debouncer[T]) call(v T) {
	d.run.Lock()
	defer d.run.Unlock()
	d.action(v)
}
