package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// fakeStore records session lifecycle calls in memory
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	opened    []*models.Session
	closed    []int64
	failOpen  bool
	failClose bool
}

func (f *fakeStore) OpenSession(applicationTitle, windowTitle string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOpen {
		return nil, errors.New("store unavailable")
	}
	f.nextID++
	s := &models.Session{
		ID:               f.nextID,
		ApplicationTitle: applicationTitle,
		WindowTitle:      windowTitle,
		StartTime:        time.Now().UTC(),
	}
	f.opened = append(f.opened, s)
	return s, nil
}

func (f *fakeStore) CloseSession(session *models.Session) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClose {
		return nil, errors.New("store unavailable")
	}
	end := time.Now().UTC()
	session.EndTime = &end
	f.closed = append(f.closed, session.ID)
	return session, nil
}

type fakeActivity struct {
	activity *models.Activity
	err      error
	block    chan struct{} // when set, Sample waits for the channel to close
}

func (f *fakeActivity) Sample(ctx context.Context) (*models.Activity, error) {
	if f.block != nil {
		<-f.block
	}
	return f.activity, f.err
}

type fakeIdle struct {
	idle time.Duration
	ok   bool
}

func (f *fakeIdle) Sample(ctx context.Context) (time.Duration, bool, error) {
	return f.idle, f.ok, nil
}

// newTestTracker builds a tracker with tasks wired but not started, so
// tests can drive the checks directly without timers.
func newTestTracker(activity *fakeActivity, idle *fakeIdle, store *fakeStore) *Tracker {
	tr := New(Config{}, activity, idle, store, nil)
	tr.activityTask = NewTickTask(tr.cfg.ActivityInterval, func() {})
	tr.inactivityTask = NewTickTask(tr.cfg.InactivityInterval, func() {})
	return tr
}

func TestRepeatedIdenticalSamplesCreateOneSession(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	tr := newTestTracker(activity, &fakeIdle{}, store)

	for i := 0; i < 5; i++ {
		tr.checkActivity(context.Background())
	}

	if len(store.opened) != 1 {
		t.Fatalf("opened %d sessions, want 1", len(store.opened))
	}
	if len(store.closed) != 0 {
		t.Errorf("closed %d sessions, want 0", len(store.closed))
	}
	if tr.current == nil || tr.current.ID != 1 {
		t.Errorf("current = %+v, want session 1", tr.current)
	}
}

func TestFocusChangeRotatesSession(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	tr := newTestTracker(activity, &fakeIdle{}, store)

	tr.checkActivity(context.Background())
	activity.activity = &models.Activity{ApplicationTitle: "Browser", WindowTitle: "news"}
	tr.checkActivity(context.Background())

	if len(store.closed) != 1 || store.closed[0] != 1 {
		t.Fatalf("closed = %v, want [1]", store.closed)
	}
	if len(store.opened) != 2 {
		t.Fatalf("opened %d sessions, want 2", len(store.opened))
	}

	old := store.opened[0]
	if old.EndTime == nil {
		t.Fatal("rotated session should have an end timestamp")
	}
	if old.EndTime.Before(old.StartTime) {
		t.Errorf("end %v before start %v", old.EndTime, old.StartTime)
	}
	if tr.current == nil || tr.current.ID != 2 || tr.current.EndTime != nil {
		t.Errorf("current = %+v, want open session 2", tr.current)
	}
}

func TestNoSampleIsNoop(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(&fakeActivity{}, &fakeIdle{}, store)

	tr.checkActivity(context.Background())

	if len(store.opened) != 0 {
		t.Errorf("opened %d sessions on nil sample, want 0", len(store.opened))
	}
}

func TestIdleAboveThresholdClosesSession(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	idle := &fakeIdle{idle: 31 * time.Second, ok: true}
	tr := newTestTracker(activity, idle, store)

	tr.checkActivity(context.Background())
	tr.checkInactivity(context.Background())

	if len(store.closed) != 1 {
		t.Fatalf("closed %d sessions, want 1", len(store.closed))
	}
	if tr.current != nil {
		t.Error("current should be cleared after inactivity closure")
	}
	if !tr.inactive {
		t.Error("tracker should be inactive")
	}
	if !tr.activityTask.isSuspended() {
		t.Error("activity task should be suspended")
	}

	// A second reading above the threshold is a no-op
	tr.checkInactivity(context.Background())
	if len(store.closed) != 1 {
		t.Errorf("closed %d sessions after repeat idle tick, want 1", len(store.closed))
	}
}

func TestIdleReturnResumesWithoutOpening(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	idle := &fakeIdle{idle: 31 * time.Second, ok: true}
	tr := newTestTracker(activity, idle, store)

	tr.checkActivity(context.Background())
	tr.checkInactivity(context.Background())

	idle.idle = 2 * time.Second
	tr.checkInactivity(context.Background())

	if tr.inactive {
		t.Error("tracker should be active again")
	}
	if tr.activityTask.isSuspended() {
		t.Error("activity task should be resumed")
	}
	// The transition itself opens nothing; the next activity tick does
	if len(store.opened) != 1 {
		t.Errorf("opened %d sessions, want 1", len(store.opened))
	}
	if tr.current != nil {
		t.Error("current should stay empty until the next activity tick")
	}
}

// An activity tick that is already past the task's suspension check when
// the inactivity transition runs must not open a session afterwards: the
// state machine ignores focus changes while inactive.
func TestInFlightActivityTickHonorsInactiveState(t *testing.T) {
	store := &fakeStore{}
	gate := make(chan struct{})
	activity := &fakeActivity{
		activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"},
		block:    gate,
	}
	idle := &fakeIdle{idle: 31 * time.Second, ok: true}
	tr := newTestTracker(activity, idle, store)

	// The tick is in flight, blocked in its source sample, while the
	// inactivity transition completes
	done := make(chan struct{})
	go func() {
		tr.checkActivity(context.Background())
		close(done)
	}()

	tr.checkInactivity(context.Background())

	close(gate)
	<-done

	if len(store.opened) != 0 {
		t.Fatalf("opened %d sessions while inactive, want 0", len(store.opened))
	}
	if tr.current != nil {
		t.Errorf("current = %+v, want none while inactive", tr.current)
	}
	if !tr.inactive {
		t.Error("tracker should still be inactive")
	}

	// Returning from idle hands session creation back to the normal path
	idle.idle = 2 * time.Second
	tr.checkInactivity(context.Background())
	tr.checkActivity(context.Background())
	if len(store.opened) != 1 {
		t.Errorf("opened %d sessions after returning from idle, want 1", len(store.opened))
	}
}

func TestUnknownIdleReadingIsNoop(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(&fakeActivity{}, &fakeIdle{ok: false}, store)

	tr.checkInactivity(context.Background())

	if tr.inactive {
		t.Error("unknown idle reading must not transition state")
	}
}

func TestCloseFailureLeavesStateUnchanged(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	tr := newTestTracker(activity, &fakeIdle{}, store)

	tr.checkActivity(context.Background())
	store.failClose = true
	activity.activity = &models.Activity{ApplicationTitle: "Browser", WindowTitle: "news"}
	tr.checkActivity(context.Background())

	if tr.current == nil || tr.current.ID != 1 {
		t.Errorf("current = %+v, want unchanged session 1", tr.current)
	}
	if len(store.opened) != 1 {
		t.Errorf("opened %d sessions, want 1 (failed tick must not open)", len(store.opened))
	}

	// Next tick retries once the store is back
	store.failClose = false
	tr.checkActivity(context.Background())
	if tr.current == nil || tr.current.ID != 2 {
		t.Errorf("current = %+v, want session 2 after retry", tr.current)
	}
}

func TestInactiveTransitionRollsBackOnCloseFailure(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	idle := &fakeIdle{idle: 31 * time.Second, ok: true}
	tr := newTestTracker(activity, idle, store)

	tr.checkActivity(context.Background())
	store.failClose = true
	tr.checkInactivity(context.Background())

	if tr.inactive {
		t.Error("failed tick must not transition to inactive")
	}
	if tr.current == nil {
		t.Error("failed tick must not clear the open session")
	}
	if tr.activityTask.isSuspended() {
		t.Error("suspension must be rolled back when the close fails")
	}
}

func TestShutdownClosesOpenSession(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	tr := newTestTracker(activity, &fakeIdle{}, store)

	tr.checkActivity(context.Background())
	tr.Shutdown()

	if len(store.closed) != 1 {
		t.Fatalf("closed %d sessions, want 1", len(store.closed))
	}
	if tr.current != nil {
		t.Error("current should be cleared on shutdown")
	}

	// Idempotent with nothing open
	tr.Shutdown()
	if len(store.closed) != 1 {
		t.Errorf("closed %d sessions after repeat shutdown, want 1", len(store.closed))
	}
}

// Full inactivity round trip: focus opens A, going idle closes A and
// suspends polling, coming back resumes polling, and the next activity
// tick opens B.
func TestInactivityRoundTrip(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	idle := &fakeIdle{}
	tr := newTestTracker(activity, idle, store)

	tr.checkActivity(context.Background())
	if tr.current == nil || tr.current.ID != 1 {
		t.Fatalf("current = %+v, want session 1", tr.current)
	}

	idle.idle, idle.ok = 31*time.Second, true
	tr.checkInactivity(context.Background())
	if !tr.inactive || tr.current != nil {
		t.Fatal("expected inactive state with no open session")
	}
	if store.opened[0].EndTime == nil {
		t.Fatal("session A should be closed")
	}

	idle.idle = 2 * time.Second
	tr.checkInactivity(context.Background())
	if tr.inactive {
		t.Fatal("expected active state")
	}

	tr.checkActivity(context.Background())
	if tr.current == nil || tr.current.ID != 2 {
		t.Fatalf("current = %+v, want session 2", tr.current)
	}
	if tr.current.EndTime != nil {
		t.Error("session B should be open")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	activity := &fakeActivity{activity: &models.Activity{ApplicationTitle: "Editor", WindowTitle: "file.txt"}}
	tr := New(Config{
		ActivityInterval:   10 * time.Millisecond,
		InactivityInterval: 10 * time.Millisecond,
	}, activity, &fakeIdle{}, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	// Let at least one activity tick land
	deadline := time.After(2 * time.Second)
	for {
		store.mu.Lock()
		opened := len(store.opened)
		store.mu.Unlock()
		if opened > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no session opened before deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.closed) == 0 {
		t.Error("open session should be closed on shutdown")
	}
}
