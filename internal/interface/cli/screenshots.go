package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/db"
)

var screenshotsDir string

var screenshotsCmd = &cobra.Command{
	Use:   "screenshots",
	Short: "Export captured screenshots to disk",
	Long: `Write every stored screenshot out as a JPEG file, named by session id
and capture time.

Example:
  activity-tracker screenshots --dir ./captures`,
	RunE: runScreenshots,
}

func init() {
	rootCmd.AddCommand(screenshotsCmd)
	screenshotsCmd.Flags().StringVar(&screenshotsDir, "dir", ".", "Directory to write screenshots into")
}

func runScreenshots(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.SessionsWithScreenshots()
	if err != nil {
		return fmt.Errorf("failed to load screenshots: %w", err)
	}

	if err := os.MkdirAll(screenshotsDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	for _, s := range sessions {
		for _, shot := range s.Screenshots {
			name := fmt.Sprintf("session-%d-%s.jpg", s.ID, shot.CreateDate.Format("20060102-150405"))
			if err := os.WriteFile(filepath.Join(screenshotsDir, name), shot.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			written++
		}
	}

	if written == 0 {
		fmt.Println("No screenshots recorded. Enable them with screenshots_enabled in the config file.")
		return nil
	}

	fmt.Printf("Wrote %d screenshot(s) to %s\n", written, screenshotsDir)
	return nil
}
