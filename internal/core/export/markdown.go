package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// MarkdownExporter renders sessions as a readable markdown log
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(sessions []models.Session, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Activity Log\n\n%d sessions\n\n", len(sessions)); err != nil {
		return err
	}

	for _, s := range sessions {
		title := s.ApplicationTitle
		if s.WindowTitle != "" {
			title += " - " + s.WindowTitle
		}
		if _, err := fmt.Fprintf(w, "## %s\n\n", title); err != nil {
			return err
		}

		end := "open"
		if s.EndTime != nil {
			end = s.EndTime.Format(time.RFC3339)
		}
		if _, err := fmt.Fprintf(w, "- Start: %s\n- End: %s\n- Duration: %s\n",
			s.StartTime.Format(time.RFC3339), end, s.Duration().Round(time.Second)); err != nil {
			return err
		}

		if len(s.Categories) > 0 {
			if _, err := fmt.Fprintf(w, "- Categories: %s\n", strings.Join(s.Categories, ", ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
