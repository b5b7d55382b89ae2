package export

import (
	"encoding/json"
	"io"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// JSONExporter exports the collection in JSON format (pretty-printed).
type JSONExporter struct{}

func (e *JSONExporter) Export(items []models.Item, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(exportRecords(items))
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}

// record is the flat row shape shared by the structured exporters. Images
// stay out of exports: they are bulky and live server-side anyway.
type record struct {
	ID        string `json:"id" yaml:"id"`
	GameName  string `json:"game_name" yaml:"game_name"`
	GameID    string `json:"game_id" yaml:"game_id"`
	Shelf     string `json:"shelf" yaml:"shelf"`
	Case      string `json:"case" yaml:"case"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

func exportRecords(items []models.Item) []record {
	sorted := make([]models.Item, len(items))
	copy(sorted, items)
	models.SortItems(sorted)

	out := make([]record, 0, len(sorted))
	for _, item := range sorted {
		out = append(out, record{
			ID:        string(item.ID),
			GameName:  item.GameName,
			GameID:    item.GameID,
			Shelf:     item.Shelf,
			Case:      item.Case,
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}
