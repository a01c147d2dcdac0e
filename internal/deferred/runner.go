// Package deferred runs delayed, cancellable tasks keyed by record id. It
// backs the undo windows (intern removal) and the simulated call-connect
// delay: a destructive effect is scheduled, and cancelling before the delay
// elapses discards it.
package deferred

import (
	"sync"
	"time"
)

// Runner schedules at most one pending task per key. Scheduling a new task
// for a key cancels the one already pending, so a superseded timer can never
// fire against stale state.
type Runner struct {
	mu     sync.Mutex
	timers map[string]*task
	closed bool
}

type task struct {
	timer *time.Timer
}

func NewRunner() *Runner {
	return &Runner{timers: make(map[string]*task)}
}

// Schedule runs fn after delay unless the key is cancelled first. The task
// is deregistered before fn runs, so fn may re-schedule the same key.
func (r *Runner) Schedule(key string, delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if prev, ok := r.timers[key]; ok {
		prev.timer.Stop()
	}
	tk := &task{}
	tk.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		// A superseded timer finds a different task registered under its
		// key and must not run or deregister it.
		live := r.timers[key] == tk
		if live {
			delete(r.timers, key)
		}
		r.mu.Unlock()
		if live {
			fn()
		}
	})
	r.timers[key] = tk
}

// Cancel stops the pending task for key, reporting whether one was pending.
// Cancelling an absent or already-fired key is a no-op.
func (r *Runner) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	tk, ok := r.timers[key]
	if !ok {
		return false
	}
	delete(r.timers, key)
	tk.timer.Stop()
	return true
}

// Pending reports whether a task is scheduled for key.
func (r *Runner) Pending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[key]
	return ok
}

// Close cancels everything and rejects further scheduling. Used on shutdown
// so unmount-style teardown cannot leave timers mutating dead state.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for key, tk := range r.timers {
		tk.timer.Stop()
		delete(r.timers, key)
	}
}
