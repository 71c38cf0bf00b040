package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/cmd/activity-tracker/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server that lets an AI assistant
search your activity log, list categories, tag sessions, and read stats.

Configure in the assistant's MCP config:
  {
    "mcpServers": {
      "activity-tracker": {
        "command": "activity-tracker",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(dbPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
