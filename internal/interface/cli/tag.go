package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/db"
	"github.com/wkallhof/activity-tracker/internal/core/models"
)

var tagCmd = &cobra.Command{
	Use:   "tag <category> <session-id>...",
	Short: "Tag sessions with a category",
	Long: `Tag one or more sessions with a category. The category is matched by
title (case-insensitive). Tagging is idempotent: sessions that already
carry the category are skipped.

Examples:
  activity-tracker tag Work 12
  activity-tracker tag research 4 7 19`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	sessionIDs := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q", arg)
		}
		sessionIDs = append(sessionIDs, id)
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	category, err := findCategoryByTitle(database, args[0])
	if err != nil {
		return err
	}

	if len(sessionIDs) == 1 {
		if err := database.TagSession(sessionIDs[0], category.ID); err != nil {
			return fmt.Errorf("failed to tag session: %w", err)
		}
	} else {
		if err := database.TagSessions(sessionIDs, category.ID); err != nil {
			return fmt.Errorf("failed to tag sessions: %w", err)
		}
	}

	fmt.Printf("Tagged %d session(s) with %s\n", len(sessionIDs), category.Title)
	return nil
}

func findCategoryByTitle(database *db.DB, title string) (*models.Category, error) {
	categories, err := database.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	for _, c := range categories {
		if strings.EqualFold(c.Title, title) {
			return &c, nil
		}
	}

	return nil, fmt.Errorf("no category named %q (create it with 'activity-tracker category create')", title)
}
