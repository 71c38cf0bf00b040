package source

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes a shell script and returns its stdout.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// BashRunner runs scripts through bash -c.
type BashRunner struct{}

// Run executes the script and returns its standard output. Stderr is
// captured into the returned error on failure.
func (BashRunner) Run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "/bin/bash", "-c", script)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("script failed: %s: %w", exitErr.Stderr, err)
		}
		return "", fmt.Errorf("script failed: %w", err)
	}
	return string(out), nil
}
