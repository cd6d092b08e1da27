package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"ID", "Title"},
		Rows: []map[string]string{
			{"ID": "1", "Title": "Water outage, building B"},
			{"ID": "2", "Title": "Sports day"},
		},
	}

	payload, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Title", lines[0])
	assert.Equal(t, `1,"Water outage, building B"`, lines[1])
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Metric", "Value"},
		Rows:    []map[string]string{{"Metric": "Total notices", "Value": "12"}},
	}

	payload, err := NewPDFExporter().Render(data, "Notice Board Statistics")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
	assert.NotEmpty(t, payload)
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}
