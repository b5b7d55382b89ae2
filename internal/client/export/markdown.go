package export

import (
	"fmt"
	"io"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// MarkdownExporter renders the collection as a human-readable document
// grouped by shelf and case.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(items []models.Item, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Collection (%d games)\n", len(items)); err != nil {
		return err
	}

	for _, shelf := range models.GroupByShelf(items) {
		if _, err := fmt.Fprintf(w, "\n## Shelf %s\n", shelf.Shelf); err != nil {
			return err
		}
		for _, c := range shelf.Cases {
			if _, err := fmt.Fprintf(w, "\n### Case %s\n\n", c.Case); err != nil {
				return err
			}
			for _, item := range c.Items {
				name := item.GameName
				if name == "" {
					name = models.UnknownGameName
				}
				if _, err := fmt.Fprintf(w, "- %s\n", name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
