// Package tracker drives the activity session lifecycle: it polls the
// focused window on a cadence, rotates sessions when focus changes, closes
// the open session when the user goes idle, and reopens tracking when they
// come back.
package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
	"github.com/wkallhof/activity-tracker/internal/core/source"
)

// Default cadences and the idle hysteresis threshold.
const (
	DefaultActivityInterval    = 10 * time.Second
	DefaultInactivityInterval  = 5 * time.Second
	DefaultInactivityThreshold = 30 * time.Second
	DefaultScreenshotInterval  = 45 * time.Second
)

// SessionStore persists session lifecycle transitions.
type SessionStore interface {
	OpenSession(applicationTitle, windowTitle string) (*models.Session, error)
	CloseSession(session *models.Session) (*models.Session, error)
}

// ScreenshotTaker captures and persists a screenshot for an open session.
type ScreenshotTaker interface {
	Capture(ctx context.Context, sessionID int64) error
}

// Config holds the tracker cadences. Zero values fall back to the
// defaults; ScreenshotInterval only matters when a ScreenshotTaker is set.
type Config struct {
	ActivityInterval    time.Duration
	InactivityInterval  time.Duration
	InactivityThreshold time.Duration
	ScreenshotInterval  time.Duration
}

func (c Config) withDefaults() Config {
	if c.ActivityInterval <= 0 {
		c.ActivityInterval = DefaultActivityInterval
	}
	if c.InactivityInterval <= 0 {
		c.InactivityInterval = DefaultInactivityInterval
	}
	if c.InactivityThreshold <= 0 {
		c.InactivityThreshold = DefaultInactivityThreshold
	}
	if c.ScreenshotInterval <= 0 {
		c.ScreenshotInterval = DefaultScreenshotInterval
	}
	return c
}

// Tracker owns the current-session state machine. All mutation of the
// open-session reference and the inactivity flag happens under one mutex,
// so the two check callbacks can never observe each other half way through
// a transition.
type Tracker struct {
	cfg      Config
	activity source.ActivitySource
	idle     source.IdleSource
	store    SessionStore
	shots    ScreenshotTaker // nil disables screenshot capture

	mu       sync.Mutex
	current  *models.Session
	inactive bool

	activityTask   *TickTask
	inactivityTask *TickTask
	screenshotTask *TickTask
}

// New creates a tracker. shots may be nil to disable screenshots.
func New(cfg Config, activity source.ActivitySource, idle source.IdleSource, store SessionStore, shots ScreenshotTaker) *Tracker {
	return &Tracker{
		cfg:      cfg.withDefaults(),
		activity: activity,
		idle:     idle,
		store:    store,
		shots:    shots,
	}
}

// Run starts the periodic checks and blocks until ctx is cancelled. On
// shutdown the tasks are stopped first (in-flight ticks finish, no new
// ticks fire) and any open session is closed and persisted synchronously.
func (t *Tracker) Run(ctx context.Context) error {
	t.activityTask = NewTickTask(t.cfg.ActivityInterval, func() { t.checkActivity(ctx) })
	t.inactivityTask = NewTickTask(t.cfg.InactivityInterval, func() { t.checkInactivity(ctx) })

	t.activityTask.Start()
	t.inactivityTask.Start()

	if t.shots != nil {
		t.screenshotTask = NewTickTask(t.cfg.ScreenshotInterval, func() { t.checkScreenshot(ctx) })
		t.screenshotTask.Start()
	}

	log.Printf("tracker started (activity every %s, idle check every %s, threshold %s)",
		t.cfg.ActivityInterval, t.cfg.InactivityInterval, t.cfg.InactivityThreshold)

	<-ctx.Done()

	log.Printf("tracker shutting down")
	t.activityTask.Stop()
	t.inactivityTask.Stop()
	if t.screenshotTask != nil {
		t.screenshotTask.Stop()
	}

	t.Shutdown()
	return nil
}

// Shutdown closes any open session. Idempotent; a persistence failure is
// logged but never blocks exit.
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}

	log.Printf("saving open session before exit")
	if _, err := t.store.CloseSession(t.current); err != nil {
		log.Printf("failed to close session %d on shutdown: %v", t.current.ID, err)
	}
	t.current = nil
}

// checkActivity samples the focused window and evolves the session state:
// same window means no-op, a change closes the old session (if any) and
// opens a new one.
func (t *Tracker) checkActivity(ctx context.Context) {
	activity, err := t.activity.Sample(ctx)
	if err != nil {
		log.Printf("activity sample failed: %v", err)
		return
	}
	if activity == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// A tick that passed the task's suspension check before the inactivity
	// transition ran can still land here; focus changes are ignored while
	// inactive
	if t.inactive {
		return
	}

	// Same window still focused; nothing to record
	if t.current != nil && t.current.Matches(*activity) {
		return
	}

	// Close before open: the old session must never stay open once a new
	// one exists
	if t.current != nil {
		if _, err := t.store.CloseSession(t.current); err != nil {
			log.Printf("failed to close session %d: %v", t.current.ID, err)
			return
		}
		t.current = nil
	}

	session, err := t.store.OpenSession(activity.ApplicationTitle, activity.WindowTitle)
	if err != nil {
		log.Printf("failed to open session: %v", err)
		return
	}
	t.current = session

	log.Printf("%d %s : %s", session.ID, session.ApplicationTitle, session.WindowTitle)
}

// checkInactivity applies the idle hysteresis: crossing above the
// threshold suspends activity polling and closes the open session;
// dropping back to or below it resumes polling with an immediate tick.
func (t *Tracker) checkInactivity(ctx context.Context) {
	idle, ok, err := t.idle.Sample(ctx)
	if err != nil {
		log.Printf("idle sample failed: %v", err)
		return
	}
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case idle > t.cfg.InactivityThreshold && !t.inactive:
		t.activityTask.Suspend()
		if t.screenshotTask != nil {
			t.screenshotTask.Suspend()
		}
		if t.current != nil {
			if _, err := t.store.CloseSession(t.current); err != nil {
				// Contain the failure to this tick: undo the suspension
				// and leave the state machine where it was
				log.Printf("failed to close session %d: %v", t.current.ID, err)
				t.activityTask.Resume()
				if t.screenshotTask != nil {
					t.screenshotTask.Resume()
				}
				return
			}
			t.current = nil
		}
		t.inactive = true
		log.Printf("user has become inactive")

	case idle <= t.cfg.InactivityThreshold && t.inactive:
		// The next activity tick opens the session, not this transition
		t.activityTask.ResumeNow()
		if t.screenshotTask != nil {
			t.screenshotTask.ResumeNow()
		}
		t.inactive = false
		log.Printf("user has become active")
	}
}

// checkScreenshot captures a screenshot for the open session, if any.
func (t *Tracker) checkScreenshot(ctx context.Context) {
	t.mu.Lock()
	current := t.current
	t.mu.Unlock()

	if current == nil {
		return
	}

	if err := t.shots.Capture(ctx, current.ID); err != nil {
		log.Printf("screenshot capture failed: %v", err)
		return
	}
	log.Printf("screenshot taken")
}
