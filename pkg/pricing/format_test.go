package pricing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/costscope/pkg/models"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{0.001234, "$0.0012340"},
		{0.5, "$0.5000"},
		{12.3456789, "$12.3457"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatCurrency(tc.in))
	}
}

func TestWriteCSV(t *testing.T) {
	costs := []models.ModelCost{
		{
			Model:     models.ModelInfo{ID: "m1", Name: "Model One"},
			Breakdown: models.CostBreakdown{InputCost: 1, OutputCost: 2, TotalCost: 3},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, costs, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Model,Total Cost,Input Cost,Output Cost,Storage Cost,Cached", lines[0])
	assert.Equal(t, "Model One,3.000000,1.000000,2.000000,0.000000,Yes", lines[1])
}
