package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

func sampleItems() []models.Item {
	return []models.Item{
		{ID: "2", GameName: "Azul", Image: "data:image/jpeg;base64,xxx", GameID: "-1", Shelf: "10", Case: "1", CreatedAt: "2026-01-02"},
		{ID: "1", GameName: "Catan", Image: "data:image/jpeg;base64,yyy", GameID: "13", Shelf: "2", Case: "1", CreatedAt: "2026-01-01"},
	}
}

func TestNewExporter(t *testing.T) {
	for format, ext := range map[string]string{
		"json":     "json",
		"yaml":     "yaml",
		"csv":      "csv",
		"md":       "md",
		"markdown": "md",
	} {
		e, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, e.Extension())
	}

	_, err := NewExporter("xml")
	assert.Error(t, err)
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVExporter{}).Export(sampleItems(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,game_name,game_id,shelf,case,created_at", lines[0])
	// Shelf 2 sorts before shelf 10.
	assert.Equal(t, "1,Catan,13,2,1,2026-01-01", lines[1])
	assert.Equal(t, "2,Azul,-1,10,1,2026-01-02", lines[2])
}

func TestJSONExporter_OmitsImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(sampleItems(), &buf))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Catan", rows[0]["game_name"])
	assert.NotContains(t, buf.String(), "base64", "image payloads never leak into exports")
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(sampleItems(), &buf))

	var rows []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Catan", rows[0]["game_name"])
	assert.Equal(t, "Azul", rows[1]["game_name"])
}

func TestMarkdownExporter_GroupsByShelfAndCase(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(sampleItems(), &buf))

	out := buf.String()
	assert.Contains(t, out, "# Collection (2 games)")
	assert.Contains(t, out, "## Shelf 2")
	assert.Contains(t, out, "## Shelf 10")
	assert.Contains(t, out, "### Case 1")
	assert.Contains(t, out, "- Catan")
	assert.Less(t, strings.Index(out, "## Shelf 2"), strings.Index(out, "## Shelf 10"))
}
