package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the tracker's operational parameters. Everything has a
// default; the config file only needs the keys being overridden.
type Config struct {
	ActivityCheckSeconds       int    `toml:"activity_check_seconds"`
	InactivityCheckSeconds     int    `toml:"inactivity_check_seconds"`
	InactivityThresholdSeconds int    `toml:"inactivity_threshold_seconds"`
	ScreenshotSeconds          int    `toml:"screenshot_seconds"`
	ScreenshotsEnabled         bool   `toml:"screenshots_enabled"`
	ActivityScript             string `toml:"activity_script"`
	IdleScript                 string `toml:"idle_script"`
	ScreenshotScript           string `toml:"screenshot_script"`
}

func defaults() *Config {
	return &Config{
		ActivityCheckSeconds:       10,
		InactivityCheckSeconds:     5,
		InactivityThresholdSeconds: 30,
		ScreenshotSeconds:          45,
	}
}

// Load reads config from ~/.config/activity-tracker/config.toml, falling
// back to defaults when the file or home directory is unavailable.
func Load() (*Config, error) {
	cfg := defaults()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}

	tomlPath := filepath.Join(home, ".config", "activity-tracker", "config.toml")
	if _, err := os.Stat(tomlPath); err != nil {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ActivityInterval() time.Duration {
	return time.Duration(c.ActivityCheckSeconds) * time.Second
}

func (c *Config) InactivityInterval() time.Duration {
	return time.Duration(c.InactivityCheckSeconds) * time.Second
}

func (c *Config) InactivityThreshold() time.Duration {
	return time.Duration(c.InactivityThresholdSeconds) * time.Second
}

func (c *Config) ScreenshotInterval() time.Duration {
	return time.Duration(c.ScreenshotSeconds) * time.Second
}
