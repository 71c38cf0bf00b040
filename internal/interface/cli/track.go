package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/config"
	"github.com/wkallhof/activity-tracker/internal/core/db"
	"github.com/wkallhof/activity-tracker/internal/core/screenshot"
	"github.com/wkallhof/activity-tracker/internal/core/source"
	"github.com/wkallhof/activity-tracker/internal/core/tracker"
)

var trackConfigPath string

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run the activity tracker in the foreground",
	Long: `Run the tracker loop until interrupted.

Every activity check samples the focused application and window and opens
or rotates the current session. Every inactivity check reads the system
idle time; past the threshold the open session is closed and polling is
suspended until the user comes back.

Cadences and sampling scripts come from the config file
(~/.config/activity-tracker/config.toml by default). Stop with Ctrl-C;
the open session is closed before exit.`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringVar(&trackConfigPath, "config", "", "Config file path (default ~/.config/activity-tracker/config.toml)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if trackConfigPath != "" {
		cfg, err = config.LoadFile(trackConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	runner := &source.BashRunner{}
	activity := source.NewActivitySource(runner, cfg.ActivityScript)
	idle := source.NewIdleSource(runner, cfg.IdleScript)

	var shots tracker.ScreenshotTaker
	if cfg.ScreenshotsEnabled {
		shots = screenshot.NewService(runner, database, cfg.ScreenshotScript)
	}

	t := tracker.New(tracker.Config{
		ActivityInterval:    cfg.ActivityInterval(),
		InactivityInterval:  cfg.InactivityInterval(),
		InactivityThreshold: cfg.InactivityThreshold(),
		ScreenshotInterval:  cfg.ScreenshotInterval(),
	}, activity, idle, database, shots)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("tracking to %s (activity every %s, inactivity threshold %s)",
		dbPath, cfg.ActivityInterval(), cfg.InactivityThreshold())

	return t.Run(ctx)
}
