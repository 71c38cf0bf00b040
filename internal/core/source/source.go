// Package source samples the operating environment: which window has focus
// and how long the user has been idle. Samples come from small shell
// scripts so the commands can be swapped per platform or overridden in
// configuration.
package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// ActivitySource reports the currently focused application/window.
// A nil Activity with nil error means no sample was available this time,
// which callers treat as a benign skip.
type ActivitySource interface {
	Sample(ctx context.Context) (*models.Activity, error)
}

// IdleSource reports how long the user has been idle. ok is false when the
// reading is unavailable or unparseable.
type IdleSource interface {
	Sample(ctx context.Context) (idle time.Duration, ok bool, err error)
}

// ScriptActivitySource samples focus by running a script that prints
// "ApplicationTitle, WindowTitle" on one line.
type ScriptActivitySource struct {
	Runner Runner
	Script string
}

// NewActivitySource returns a script-backed activity source using the
// platform default script when script is empty.
func NewActivitySource(runner Runner, script string) *ScriptActivitySource {
	if script == "" {
		script = defaultActivityScript
	}
	return &ScriptActivitySource{Runner: runner, Script: script}
}

func (s *ScriptActivitySource) Sample(ctx context.Context) (*models.Activity, error) {
	if s.Script == "" {
		return nil, nil
	}

	out, err := s.Runner.Run(ctx, s.Script)
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}

	// Window titles may themselves contain commas, so only split once
	parts := strings.SplitN(out, ",", 2)
	activity := &models.Activity{ApplicationTitle: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		activity.WindowTitle = strings.TrimSpace(parts[1])
	}
	if activity.ApplicationTitle == "" {
		return nil, nil
	}
	return activity, nil
}

// ScriptIdleSource samples idleness by running a script that prints the
// idle time in seconds as a decimal number.
type ScriptIdleSource struct {
	Runner Runner
	Script string
}

// NewIdleSource returns a script-backed idle source using the platform
// default script when script is empty.
func NewIdleSource(runner Runner, script string) *ScriptIdleSource {
	if script == "" {
		script = defaultIdleScript
	}
	return &ScriptIdleSource{Runner: runner, Script: script}
}

func (s *ScriptIdleSource) Sample(ctx context.Context) (time.Duration, bool, error) {
	if s.Script == "" {
		return 0, false, nil
	}

	out, err := s.Runner.Run(ctx, s.Script)
	if err != nil {
		return 0, false, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, false, nil
	}

	seconds, err := strconv.ParseFloat(out, 64)
	if err != nil {
		// Unparseable readings are treated the same as no reading
		return 0, false, nil
	}
	return time.Duration(seconds * float64(time.Second)), true, nil
}
