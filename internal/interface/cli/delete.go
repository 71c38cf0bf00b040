package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/db"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>...",
	Short: "Delete sessions and their category tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q", arg)
		}
		ids = append(ids, id)
	}

	if !deleteForce {
		fmt.Printf("Delete %d session(s)? [y/N] ", len(ids))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	if err := database.DeleteSessions(ids); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	fmt.Printf("Deleted %d session(s)\n", len(ids))
	return nil
}
