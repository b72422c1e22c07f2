package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/costscope/pkg/models"
)

func sampleCalls() []models.APICallRecord {
	return []models.APICallRecord{
		{Model: "gemini-2.5-pro", Cost: 6, NetworkCost: 0, FeatureTags: []string{"chat", "beta"}},
		{Model: "gemini-2.5-flash", Cost: 1, NetworkCost: 1},
		{Model: "gemini-2.5-pro", Cost: 2, FeatureTags: []string{"search"}},
	}
}

func TestChargebackByModelTier(t *testing.T) {
	r := GenerateChargebackReport("ml", sampleCalls(), false)

	assert.Equal(t, "ml", r.TeamName)
	assert.Equal(t, CurrentPeriod(time.Now()), r.Period)
	assert.InDelta(t, 10, r.TotalCost, 1e-9)
	assert.InDelta(t, 10.0/30, r.DailyAverage, 1e-9)

	require.Len(t, r.Breakdown, 2)
	assert.Equal(t, CategoryPremium, r.Breakdown[0].Category)
	assert.InDelta(t, 8, r.Breakdown[0].Cost, 1e-9)
	assert.InDelta(t, 80, r.Breakdown[0].Percentage, 1e-9)
	assert.Equal(t, CategoryStandard, r.Breakdown[1].Category)
	assert.InDelta(t, 20, r.Breakdown[1].Percentage, 1e-9)
}

func TestChargebackByFeature(t *testing.T) {
	r := GenerateChargebackReport("ml", sampleCalls(), true)

	require.Len(t, r.Breakdown, 3)
	assert.Equal(t, "chat", r.Breakdown[0].Category)
	assert.InDelta(t, 6, r.Breakdown[0].Cost, 1e-9)
	// Equal costs fall back to byte order of the name.
	assert.Equal(t, CategoryStandard, r.Breakdown[1].Category)
	assert.Equal(t, "search", r.Breakdown[2].Category)
}

func TestChargebackEmpty(t *testing.T) {
	r := GenerateChargebackReport("ml", nil, true)
	assert.Zero(t, r.TotalCost)
	assert.Empty(t, r.Breakdown)
	assert.Zero(t, r.DailyAverage)
}
