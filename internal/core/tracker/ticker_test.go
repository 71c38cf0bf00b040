package tracker

import (
	"testing"
	"time"
)

func waitTick(t *testing.T, ticks <-chan struct{}) {
	t.Helper()
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}
}

func TestTickTaskFiresImmediatelyOnStart(t *testing.T) {
	ticks := make(chan struct{}, 1)
	task := NewTickTask(time.Hour, func() { ticks <- struct{}{} })
	task.Start()
	defer task.Stop()

	waitTick(t, ticks)
}

func TestTickTaskSuspendSkipsCallback(t *testing.T) {
	ticks := make(chan struct{}, 16)
	task := NewTickTask(10*time.Millisecond, func() { ticks <- struct{}{} })
	task.Start()
	defer task.Stop()

	waitTick(t, ticks)
	task.Suspend()

	// Drain anything already in flight, then expect silence
	time.Sleep(50 * time.Millisecond)
	for len(ticks) > 0 {
		<-ticks
	}
	select {
	case <-ticks:
		t.Error("suspended task should not invoke its callback")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTickTaskResumeNowFiresImmediately(t *testing.T) {
	ticks := make(chan struct{}, 1)
	task := NewTickTask(time.Hour, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	task.Start()
	defer task.Stop()

	waitTick(t, ticks)

	// With an hour-long cadence, only ResumeNow can produce another tick
	task.Suspend()
	task.ResumeNow()
	waitTick(t, ticks)
}

func TestTickTaskStopWaitsForInflightTick(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	started := make(chan struct{}, 1)
	task := NewTickTask(time.Hour, func() {
		started <- struct{}{}
		<-release
		close(finished)
	})
	task.Start()

	<-started
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	task.Stop()

	// Stop must not return until the callback has
	select {
	case <-finished:
	default:
		t.Fatal("Stop() returned before the in-flight tick finished")
	}
}

func TestTickTaskStopIsIdempotent(t *testing.T) {
	task := NewTickTask(time.Hour, func() {})
	task.Start()
	task.Stop()
	task.Stop()
}

func TestTickTaskStopBeforeStart(t *testing.T) {
	task := NewTickTask(time.Hour, func() {})

	// Neither call may wait on the loop goroutine, which never ran
	done := make(chan struct{})
	go func() {
		task.Stop()
		task.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() on a never-started task did not return")
	}
}
