package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	out, err := exporter.Render(Dataset{
		Headers: []string{"date", "title"},
		Rows:    [][]string{{"2024-06-05", "放課後ティータイム"}},
	})
	require.NoError(t, err)

	body := string(out)
	assert.True(t, strings.HasPrefix(body, "\uFEFF"), "expected UTF-8 BOM prefix")
	assert.Contains(t, body, "date,title\n")
	assert.Contains(t, body, "2024-06-05,放課後ティータイム\n")
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{
		Headers: []string{"date", "title"},
		Rows:    [][]string{{"2024-06-05"}},
	})
	require.Error(t, err)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
