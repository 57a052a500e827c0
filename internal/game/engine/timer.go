package engine

import (
	"sync"
	"time"
)

// TickTimer fires a callback after a configurable duration unless stopped.
// The zero value is stopped; Reset arms it. It is safe for concurrent use.
type TickTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// Reset cancels any pending callback and arms the timer with a new duration and callback.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called after duration from now unless Stop is called first.
func (t *TickTimer) Reset(duration time.Duration, onFire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.stopped = false
	var armed *time.Timer
	armed = time.AfterFunc(duration, func() {
		t.mu.Lock()
		live := !t.stopped && t.timer == armed
		t.mu.Unlock()
		if live {
			onFire()
		}
	})
	t.timer = armed
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns, unless it was already running.
func (t *TickTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
