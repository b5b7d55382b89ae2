package export

import (
	"encoding/csv"
	"io"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// CSVExporter exports the collection as CSV with a header row, mirroring
// the columns of the server's export-csv endpoint.
type CSVExporter struct{}

func (e *CSVExporter) Export(items []models.Item, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "game_name", "game_id", "shelf", "case", "created_at"}); err != nil {
		return err
	}
	for _, r := range exportRecords(items) {
		if err := cw.Write([]string{r.ID, r.GameName, r.GameID, r.Shelf, r.Case, r.CreatedAt}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format.
func (e *CSVExporter) Extension() string {
	return "csv"
}
