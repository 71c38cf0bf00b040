package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/db"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Display statistics about the recorded activity log.

Shows session and category counts, the tracked date range, the most
recorded application, and storage info.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("Activity Statistics")
	fmt.Println("===================")
	fmt.Println()
	fmt.Printf("Total Sessions:    %d\n", stats.TotalSessions)
	fmt.Printf("Open Sessions:     %d\n", stats.OpenSessions)
	fmt.Printf("Categories:        %d\n", stats.TotalCategories)
	fmt.Printf("Screenshots:       %d\n", stats.TotalScreenshots)
	fmt.Println()

	if stats.TotalSessions > 0 {
		if !stats.FirstActivity.IsZero() {
			fmt.Printf("First Activity:    %s (%s)\n",
				stats.FirstActivity.Format("Jan 2, 2006 3:04 PM"), humanize.Time(stats.FirstActivity))
		}
		if !stats.LastActivity.IsZero() {
			fmt.Printf("Latest Activity:   %s (%s)\n",
				stats.LastActivity.Format("Jan 2, 2006 3:04 PM"), humanize.Time(stats.LastActivity))
		}
		fmt.Println()

		if stats.TopApplication != "" {
			fmt.Printf("Top Application:\n")
			fmt.Printf("  Title:    %s\n", stats.TopApplication)
			fmt.Printf("  Sessions: %d\n", stats.TopApplicationCount)
			fmt.Println()
		}
	}

	fileInfo, err := os.Stat(dbPath)
	if err != nil {
		return fmt.Errorf("failed to stat database file: %w", err)
	}

	fmt.Printf("Database Location: %s\n", dbPath)
	fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(fileInfo.Size())))

	return nil
}
