package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"
	"github.com/wkallhof/activity-tracker/internal/core/db"
	"github.com/wkallhof/activity-tracker/internal/core/export"
	"github.com/wkallhof/activity-tracker/internal/core/models"
)

var (
	searchAfter    string
	searchBefore   string
	searchFormat   string
	searchTemplate string
	searchOutput   string
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search recorded activity sessions",
	Long: `Search activity sessions by application or window title, optionally
bounded by a date range. Dates accept natural language.

Examples:
  activity-tracker search safari
  activity-tracker search "pull request" --after yesterday
  activity-tracker search --after "last monday" --before "today at 9am"
  activity-tracker search safari --format json --output sessions.json
  activity-tracker search --template report.mustache`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "Only sessions starting after this date")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "Only sessions starting before this date")
	searchCmd.Flags().StringVar(&searchFormat, "format", "", "Export format: json, yaml, md")
	searchCmd.Flags().StringVar(&searchTemplate, "template", "", "Render results through a mustache template file")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Write output to file instead of stdout")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of sessions to display (text output only)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := models.SearchRequest{Text: strings.Join(args, " ")}

	if searchAfter != "" {
		t, err := parseDate(searchAfter)
		if err != nil {
			return fmt.Errorf("invalid --after date: %w", err)
		}
		req.Start = t
		req.HasStart = true
	}

	if searchBefore != "" {
		t, err := parseDate(searchBefore)
		if err != nil {
			return fmt.Errorf("invalid --before date: %w", err)
		}
		req.End = t
		req.HasEnd = true
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.SearchSessions(req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	// Structured output when a format or template was requested
	if searchFormat != "" || searchTemplate != "" {
		var exporter export.Exporter
		if searchTemplate != "" {
			tmpl, err := os.ReadFile(searchTemplate)
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}
			exporter = &export.TemplateExporter{Template: string(tmpl)}
		} else {
			exporter, err = export.NewExporter(searchFormat)
			if err != nil {
				return err
			}
		}

		out := os.Stdout
		if searchOutput != "" {
			f, err := os.Create(searchOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()
			out = f
		}

		return exporter.Export(sessions, out)
	}

	// Plain text output
	if len(sessions) == 0 {
		if req.Text != "" {
			fmt.Printf("No sessions found for: %s\n", req.Text)
		} else {
			fmt.Println("No sessions found. Run 'activity-tracker track' to start recording.")
		}
		return nil
	}

	fmt.Printf("Found %d session(s)\n\n", len(sessions))

	for i, s := range sessions {
		if i >= searchLimit {
			fmt.Printf("... and %d more sessions (use --limit to see more)\n", len(sessions)-searchLimit)
			break
		}

		title := s.ApplicationTitle
		if s.WindowTitle != "" {
			title += " - " + s.WindowTitle
		}
		fmt.Printf("[%d] %s\n", s.ID, title)
		fmt.Printf("    Started:  %s\n", humanize.Time(s.StartTime))
		if s.EndTime != nil {
			fmt.Printf("    Duration: %s\n", s.Duration().Round(time.Second))
		} else {
			fmt.Printf("    Duration: %s (still open)\n", s.Duration().Round(time.Second))
		}
		if len(s.Categories) > 0 {
			fmt.Printf("    Tags:     %s\n", strings.Join(s.Categories, ", "))
		}
		fmt.Println()
	}

	return nil
}

// parseDate tries natural language first, then common date formats
func parseDate(s string) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	if result, err := w.Parse(s, time.Now()); err == nil && result != nil {
		return result.Time, nil
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"01/02/2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse %q", s)
}
