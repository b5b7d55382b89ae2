// Package export renders the local collection mirror to portable formats.
// It complements the server-side CSV endpoint with offline-friendly output.
package export

import (
	"fmt"
	"io"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(items []models.Item, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, csv, md)", format)
	}
}
