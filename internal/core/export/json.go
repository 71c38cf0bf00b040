package export

import (
	"encoding/json"
	"io"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// JSONExporter exports sessions as indented JSON
type JSONExporter struct{}

func (e *JSONExporter) Export(sessions []models.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sessions)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
