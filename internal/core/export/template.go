package export

import (
	"io"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// TemplateExporter renders sessions through a user-supplied mustache
// template. The template receives {{#sessions}}...{{/sessions}} with
// id, application_title, window_title, start_time, end_time, duration
// and categories available inside the section.
type TemplateExporter struct {
	Template string
}

func (e *TemplateExporter) Export(sessions []models.Session, w io.Writer) error {
	views := make([]map[string]interface{}, 0, len(sessions))
	for _, s := range sessions {
		end := ""
		if s.EndTime != nil {
			end = s.EndTime.Format(time.RFC3339)
		}
		views = append(views, map[string]interface{}{
			"id":                s.ID,
			"application_title": s.ApplicationTitle,
			"window_title":      s.WindowTitle,
			"start_time":        s.StartTime.Format(time.RFC3339),
			"end_time":          end,
			"duration":          s.Duration().Round(time.Second).String(),
			"categories":        strings.Join(s.Categories, ", "),
		})
	}

	out, err := mustache.Render(e.Template, map[string]interface{}{
		"count":    len(sessions),
		"sessions": views,
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

func (e *TemplateExporter) Extension() string {
	return "txt"
}
