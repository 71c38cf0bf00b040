package tracker

import (
	"sync"
	"time"
)

// TickTask runs a function on a fixed cadence in its own goroutine. The
// first tick fires immediately on Start, then every interval. Ticks of the
// same task never overlap: the next tick is scheduled only after the
// previous callback has returned.
//
// A suspended task keeps ticking but skips the callback, so Suspend takes
// effect for every tick after the call returns. ResumeNow re-enables the
// callback and fires one tick immediately before returning to the normal
// cadence, which is how the tracker reopens a session as soon as the user
// comes back.
type TickTask struct {
	interval time.Duration
	fn       func()

	mu        sync.Mutex
	suspended bool
	started   bool
	stopped   bool

	kick chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewTickTask creates a task that is not yet running.
func NewTickTask(interval time.Duration, fn func()) *TickTask {
	return &TickTask{
		interval: interval,
		fn:       fn,
		kick:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the task goroutine. Calling Start twice is a no-op.
func (t *TickTask) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.loop()
}

func (t *TickTask) loop() {
	defer close(t.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-t.quit:
			return
		case <-timer.C:
			if !t.isSuspended() {
				t.fn()
			}
			timer.Reset(t.interval)
		case <-t.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(0)
		}
	}
}

// Stop halts the task and waits for any in-flight callback to finish.
// Safe to call more than once and before Start.
func (t *TickTask) Stop() {
	t.mu.Lock()
	if t.stopped {
		started := t.started
		t.mu.Unlock()
		// done is only closed by the loop goroutine; don't wait for a
		// loop that never ran
		if started {
			<-t.done
		}
		return
	}
	t.stopped = true
	started := t.started
	t.mu.Unlock()

	close(t.quit)
	if started {
		<-t.done
	}
}

// Suspend keeps the task ticking but skips its callback.
func (t *TickTask) Suspend() {
	t.mu.Lock()
	t.suspended = true
	t.mu.Unlock()
}

// Resume re-enables the callback on the normal cadence.
func (t *TickTask) Resume() {
	t.mu.Lock()
	t.suspended = false
	t.mu.Unlock()
}

// ResumeNow re-enables the callback and fires a tick immediately.
func (t *TickTask) ResumeNow() {
	t.Resume()
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

func (t *TickTask) isSuspended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suspended
}
