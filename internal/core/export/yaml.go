package export

import (
	"io"

	"github.com/wkallhof/activity-tracker/internal/core/models"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

func (e *YAMLExporter) Export(sessions []models.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(sessions)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
