package models

import (
	"errors"
	"time"
)

// Activity is a sampled foreground window: which application has focus
// and what its window title is.
type Activity struct {
	ApplicationTitle string
	WindowTitle      string
}

// Session represents one contiguous interval during which a single
// application/window held focus. EndTime is nil while the session is open.
type Session struct {
	ID               int64        `json:"id" yaml:"id"`
	ApplicationTitle string       `json:"application_title" yaml:"application_title"`
	WindowTitle      string       `json:"window_title" yaml:"window_title"`
	StartTime        time.Time    `json:"start_time" yaml:"start_time"`
	EndTime          *time.Time   `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Categories       []string     `json:"categories,omitempty" yaml:"categories,omitempty"`
	Screenshots      []Screenshot `json:"screenshots,omitempty" yaml:"screenshots,omitempty"`
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.ApplicationTitle == "" {
		return errors.New("application_title is required")
	}
	return nil
}

// Open reports whether the session is still running (no end timestamp)
func (s *Session) Open() bool {
	return s.EndTime == nil
}

// Duration returns the recorded length of the session, or the elapsed time
// so far when the session is still open.
func (s *Session) Duration() time.Duration {
	if s.EndTime == nil {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Matches reports whether the session records the given activity pair.
// Used by the tracker to detect that the same window is still focused.
func (s *Session) Matches(a Activity) bool {
	return s.ApplicationTitle == a.ApplicationTitle && s.WindowTitle == a.WindowTitle
}

// SearchRequest filters session history. Text matches a case-insensitive
// substring of application or window title; empty text matches everything.
// Start/End bound the session start timestamp (inclusive) when the
// corresponding Has flag is set.
type SearchRequest struct {
	Text     string
	Start    time.Time
	HasStart bool
	End      time.Time
	HasEnd   bool
}
