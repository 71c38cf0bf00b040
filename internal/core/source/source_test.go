package source

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRunner returns canned output instead of shelling out
type fakeRunner struct {
	out string
	err error
}

func (r fakeRunner) Run(ctx context.Context, script string) (string, error) {
	return r.out, r.err
}

func TestActivitySourceSample(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantApp string
		wantWin string
		wantNil bool
	}{
		{name: "app and window", out: "Editor, file.txt\n", wantApp: "Editor", wantWin: "file.txt"},
		{name: "window title with comma", out: "Editor, notes, draft.txt", wantApp: "Editor", wantWin: "notes, draft.txt"},
		{name: "app only", out: "Finder\n", wantApp: "Finder", wantWin: ""},
		{name: "empty output", out: "   \n", wantNil: true},
		{name: "no output", out: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &ScriptActivitySource{Runner: fakeRunner{out: tt.out}, Script: "true"}
			activity, err := src.Sample(context.Background())
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if tt.wantNil {
				if activity != nil {
					t.Fatalf("Sample() = %+v, want nil", activity)
				}
				return
			}
			if activity == nil {
				t.Fatal("Sample() = nil, want activity")
			}
			if activity.ApplicationTitle != tt.wantApp {
				t.Errorf("ApplicationTitle = %q, want %q", activity.ApplicationTitle, tt.wantApp)
			}
			if activity.WindowTitle != tt.wantWin {
				t.Errorf("WindowTitle = %q, want %q", activity.WindowTitle, tt.wantWin)
			}
		})
	}
}

func TestActivitySourceSampleError(t *testing.T) {
	src := &ScriptActivitySource{Runner: fakeRunner{err: errors.New("boom")}, Script: "true"}
	if _, err := src.Sample(context.Background()); err == nil {
		t.Error("Sample() should propagate runner errors")
	}
}

func TestIdleSourceSample(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		want   time.Duration
		wantOK bool
	}{
		{name: "whole seconds", out: "31\n", want: 31 * time.Second, wantOK: true},
		{name: "fractional seconds", out: "2.5", want: 2500 * time.Millisecond, wantOK: true},
		{name: "zero", out: "0", want: 0, wantOK: true},
		{name: "garbage", out: "not-a-number", wantOK: false},
		{name: "empty", out: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &ScriptIdleSource{Runner: fakeRunner{out: tt.out}, Script: "true"}
			idle, ok, err := src.Sample(context.Background())
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Sample() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && idle != tt.want {
				t.Errorf("Sample() = %v, want %v", idle, tt.want)
			}
		})
	}
}
