package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/db"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories for tagging sessions",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories",
	RunE:  runCategoryList,
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new category",
	Long: `Create a category for tagging sessions.

Titles are matched case-insensitively; creating "work" when "Work"
already exists is rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoryCreate,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category and its session tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryDelete,
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	categories, err := database.ListCategories()
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if len(categories) == 0 {
		fmt.Println("No categories yet. Create one with 'activity-tracker category create <title>'.")
		return nil
	}

	for _, c := range categories {
		fmt.Printf("[%d] %s (created %s)\n", c.ID, c.Title, humanize.Time(c.CreateDate))
	}

	return nil
}

func runCategoryCreate(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	category, err := database.CreateCategory(strings.TrimSpace(args[0]))
	if err != nil {
		if errors.Is(err, db.ErrDuplicateCategory) {
			return fmt.Errorf("category %q already exists (titles are case-insensitive)", args[0])
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	fmt.Printf("Created category [%d] %s\n", category.ID, category.Title)
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid category id %q", args[0])
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	if err := database.DeleteCategory(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	fmt.Printf("Deleted category %d\n", id)
	return nil
}
