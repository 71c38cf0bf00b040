package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wkallhof/activity-tracker/internal/core/db"
	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// SearchSessionsArgs defines arguments for the search_sessions tool
type SearchSessionsArgs struct {
	Query      string `json:"query,omitempty"`
	AfterDate  string `json:"after_date,omitempty"`
	BeforeDate string `json:"before_date,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// TagSessionArgs defines arguments for the tag_session tool
type TagSessionArgs struct {
	SessionID int64  `json:"session_id"`
	Category  string `json:"category"`
}

// SessionResult represents a session in tool output
type SessionResult struct {
	ID               int64    `json:"id"`
	ApplicationTitle string   `json:"application_title"`
	WindowTitle      string   `json:"window_title,omitempty"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time,omitempty"`
	DurationSeconds  int      `json:"duration_seconds"`
	Categories       []string `json:"categories,omitempty"`
}

// StartServer starts the MCP server over stdio
func StartServer(dbPath string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	s := server.NewMCPServer(
		"ActivityTracker",
		"1.0.0",
	)

	searchTool := mcp.NewTool("search_sessions",
		mcp.WithDescription("Search recorded activity sessions by application or window title, optionally bounded by a date range. Returns sessions with their categories."),
		mcp.WithString("query",
			mcp.Description("Search term matched against application and window titles")),
		mcp.WithString("after_date",
			mcp.Description("Only sessions starting after this date (ISO 8601 format, e.g. '2025-01-01')")),
		mcp.WithString("before_date",
			mcp.Description("Only sessions starting before this date (ISO 8601 format)")),
		mcp.WithNumber("limit",
			mcp.Description("Max number of sessions to return (default: 25)")),
	)
	s.AddTool(searchTool, makeSearchSessionsHandler(database))

	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List all categories available for tagging sessions"),
	)
	s.AddTool(categoriesTool, makeListCategoriesHandler(database))

	tagTool := mcp.NewTool("tag_session",
		mcp.WithDescription("Tag a session with a category. The category is matched by title (case-insensitive) and must already exist. Tagging is idempotent."),
		mcp.WithNumber("session_id",
			mcp.Required(),
			mcp.Description("ID of the session to tag")),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category title to apply")),
	)
	s.AddTool(tagTool, makeTagSessionHandler(database))

	statsTool := mcp.NewTool("get_stats",
		mcp.WithDescription("Get summary statistics about the recorded activity log"),
	)
	s.AddTool(statsTool, makeGetStatsHandler(database))

	return server.ServeStdio(s)
}

func makeSearchSessionsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SearchSessionsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 25
		}

		req := models.SearchRequest{Text: args.Query}
		if args.AfterDate != "" {
			t, err := parseISODate(args.AfterDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid after_date: %v", err)), nil
			}
			req.Start = t
			req.HasStart = true
		}
		if args.BeforeDate != "" {
			t, err := parseISODate(args.BeforeDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid before_date: %v", err)), nil
			}
			req.End = t
			req.HasEnd = true
		}

		sessions, err := database.SearchSessions(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		if len(sessions) > limit {
			sessions = sessions[:limit]
		}

		results := make([]SessionResult, 0, len(sessions))
		for _, s := range sessions {
			result := SessionResult{
				ID:               s.ID,
				ApplicationTitle: s.ApplicationTitle,
				WindowTitle:      s.WindowTitle,
				StartTime:        s.StartTime.Format(time.RFC3339),
				DurationSeconds:  int(s.Duration().Seconds()),
				Categories:       s.Categories,
			}
			if s.EndTime != nil {
				result.EndTime = s.EndTime.Format(time.RFC3339)
			}
			results = append(results, result)
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"sessions": results,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeListCategoriesHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := database.ListCategories()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		type categoryResult struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		}

		results := make([]categoryResult, 0, len(categories))
		for _, c := range categories {
			results = append(results, categoryResult{ID: c.ID, Title: c.Title})
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"categories": results,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeTagSessionHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args TagSessionArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		categories, err := database.ListCategories()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		var category *models.Category
		for _, c := range categories {
			if strings.EqualFold(c.Title, args.Category) {
				category = &c
				break
			}
		}
		if category == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no category named %q", args.Category)), nil
		}

		if err := database.TagSession(args.SessionID, category.ID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to tag session: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(`{"tagged": true, "session_id": %d, "category": %q}`,
			args.SessionID, category.Title)), nil
	}
}

func makeGetStatsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := database.GetStats()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		result := map[string]interface{}{
			"total_sessions":    stats.TotalSessions,
			"open_sessions":     stats.OpenSessions,
			"total_categories":  stats.TotalCategories,
			"total_screenshots": stats.TotalScreenshots,
		}
		if !stats.FirstActivity.IsZero() {
			result["first_activity"] = stats.FirstActivity.Format(time.RFC3339)
		}
		if !stats.LastActivity.IsZero() {
			result["last_activity"] = stats.LastActivity.Format(time.RFC3339)
		}
		if stats.TopApplication != "" {
			result["top_application"] = stats.TopApplication
			result["top_application_sessions"] = stats.TopApplicationCount
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

// parseISODate accepts a date or full RFC3339 timestamp
func parseISODate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse %q", s)
}
