package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// YAMLExporter exports the collection in YAML format.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(items []models.Item, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(exportRecords(items))
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
