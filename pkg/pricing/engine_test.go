package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/costscope/pkg/models"
)

func proSheet() models.PriceSheet {
	return models.PriceSheet{
		InputPricePerMillion:          3.50,
		OutputPricePerMillion:         10.50,
		CachedInputPricePerMillion:    models.Price(0.875),
		CacheStoragePerMillionPerHour: models.Price(4.50),
	}
}

func TestComputeCostTextOnly(t *testing.T) {
	b := ComputeCost(proSheet(), models.UsageProfile{
		InputUnits:   1_000_000,
		OutputUnits:  500_000,
		RequestCount: 1,
	})

	assert.Equal(t, 3.5, b.InputCost)
	assert.Equal(t, 5.25, b.OutputCost)
	assert.Zero(t, b.ImageGenerationCost)
	assert.Zero(t, b.VideoGenerationCost)
	assert.Zero(t, b.StorageCost)
	assert.Equal(t, 8.75, b.TotalCost)
}

func TestComputeCostCachedTier(t *testing.T) {
	tests := []struct {
		name      string
		sheet     models.PriceSheet
		caching   bool
		wantInput float64
	}{
		{name: "cached price used", sheet: proSheet(), caching: true, wantInput: 0.875},
		{name: "caching disabled", sheet: proSheet(), caching: false, wantInput: 3.5},
		{
			name:      "no cached price falls back",
			sheet:     models.PriceSheet{InputPricePerMillion: 3.5, OutputPricePerMillion: 10.5},
			caching:   true,
			wantInput: 3.5,
		},
		{
			name:      "no cached price without caching",
			sheet:     models.PriceSheet{InputPricePerMillion: 3.5, OutputPricePerMillion: 10.5},
			caching:   false,
			wantInput: 3.5,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := ComputeCost(tc.sheet, models.UsageProfile{
				InputUnits:     1_000_000,
				RequestCount:   1,
				CachingEnabled: tc.caching,
			})
			assert.Equal(t, tc.wantInput, b.InputCost)
		})
	}
}

func TestComputeCostStorageNotScaled(t *testing.T) {
	b := ComputeCost(proSheet(), models.UsageProfile{
		InputUnits:        1_000_000,
		RequestCount:      3,
		CachingEnabled:    true,
		CacheStorageHours: 2,
	})

	assert.Equal(t, 2.625, b.InputCost)
	assert.Equal(t, 9.0, b.StorageCost)
	assert.Equal(t, 11.625, b.TotalCost)
}

func TestComputeCostStorageZeroWithoutCaching(t *testing.T) {
	for _, hours := range []float64{0, 1, 24, 1000} {
		b := ComputeCost(proSheet(), models.UsageProfile{
			InputUnits:        5_000_000,
			RequestCount:      1,
			CacheStorageHours: hours,
		})
		assert.Zero(t, b.StorageCost, "hours=%v", hours)
	}
}

func TestComputeCostStorageAbsentPrice(t *testing.T) {
	sheet := models.PriceSheet{
		InputPricePerMillion:       3.5,
		CachedInputPricePerMillion: models.Price(0.875),
	}
	b := ComputeCost(sheet, models.UsageProfile{
		InputUnits:        1_000_000,
		RequestCount:      1,
		CachingEnabled:    true,
		CacheStorageHours: 10,
	})
	assert.Zero(t, b.StorageCost)
}

func TestEffectiveInputUnits(t *testing.T) {
	got := EffectiveInputUnits(models.UsageProfile{
		InputUnits:   100,
		AudioMinutes: 1,
		VideoMinutes: 2,
	})
	assert.Equal(t, float64(100+1920+2*15480), got)
}

func TestComputeCostMediaFoldedIntoInput(t *testing.T) {
	sheet := models.PriceSheet{InputPricePerMillion: 1_000_000}
	b := ComputeCost(sheet, models.UsageProfile{AudioMinutes: 1, RequestCount: 1})
	assert.InDelta(t, float64(AudioUnitsPerMinute), b.InputCost, 1e-6)
}

func TestComputeCostImagesAndVideoPlaceholder(t *testing.T) {
	sheet := models.PriceSheet{
		PricePerImage:       models.Price(0.04),
		PricePerSecondVideo: models.Price(0.15),
	}
	b := ComputeCost(sheet, models.UsageProfile{GeneratedImages: 3, VideoMinutes: 5, RequestCount: 2})

	assert.InDelta(t, 0.24, b.ImageGenerationCost, 1e-12)
	assert.Zero(t, b.VideoGenerationCost)
}

func TestComputeCostImagesWithoutPrice(t *testing.T) {
	b := ComputeCost(models.PriceSheet{}, models.UsageProfile{GeneratedImages: 10, RequestCount: 1})
	assert.Zero(t, b.ImageGenerationCost)
	assert.Zero(t, b.TotalCost)
}

func TestComputeCostScalesEachLineItem(t *testing.T) {
	sheet := models.PriceSheet{
		InputPricePerMillion:  0.075,
		OutputPricePerMillion: 0.30,
		PricePerImage:         models.Price(0.035),
	}
	usage := models.UsageProfile{InputUnits: 1234, OutputUnits: 567, GeneratedImages: 2, RequestCount: 1}
	one := ComputeCost(sheet, usage)

	usage.RequestCount = 7
	seven := ComputeCost(sheet, usage)

	assert.Equal(t, one.InputCost*7, seven.InputCost)
	assert.Equal(t, one.OutputCost*7, seven.OutputCost)
	assert.Equal(t, one.ImageGenerationCost*7, seven.ImageGenerationCost)
}

func TestComputeCostTotalIsSumOfLineItems(t *testing.T) {
	sheets := []models.PriceSheet{
		proSheet(),
		{InputPricePerMillion: 0.0375, OutputPricePerMillion: 0.15, CachedInputPricePerMillion: models.Price(0.01), CacheStoragePerMillionPerHour: models.Price(1)},
		{PricePerImage: models.Price(0.045)},
		{InputPricePerMillion: 0.025},
	}
	usages := []models.UsageProfile{
		{InputUnits: 1000, OutputUnits: 500, RequestCount: 1},
		{InputUnits: 12345, OutputUnits: 6789, AudioMinutes: 1.5, VideoMinutes: 0.25, RequestCount: 13, CachingEnabled: true, CacheStorageHours: 3.3},
		{GeneratedImages: 9, RequestCount: 101},
		{InputUnits: 999_999_999, OutputUnits: 1, RequestCount: 1_000, CachingEnabled: true, CacheStorageHours: 0.1},
	}

	for _, s := range sheets {
		for _, u := range usages {
			b := ComputeCost(s, u)
			sum := b.InputCost + b.OutputCost + b.ImageGenerationCost + b.VideoGenerationCost + b.StorageCost
			require.Equal(t, sum, b.TotalCost)
			assert.GreaterOrEqual(t, b.InputCost, 0.0)
			assert.GreaterOrEqual(t, b.OutputCost, 0.0)
			assert.GreaterOrEqual(t, b.ImageGenerationCost, 0.0)
			assert.GreaterOrEqual(t, b.StorageCost, 0.0)
			assert.GreaterOrEqual(t, b.TotalCost, 0.0)
		}
	}
}

func TestComputeCostIdempotent(t *testing.T) {
	usage := models.UsageProfile{InputUnits: 4321, OutputUnits: 1234, AudioMinutes: 0.7, RequestCount: 5, CachingEnabled: true, CacheStorageHours: 1.25}
	assert.Equal(t, ComputeCost(proSheet(), usage), ComputeCost(proSheet(), usage))
}

func TestEstimateUnitsFromWordCount(t *testing.T) {
	tests := []struct {
		words int64
		want  int64
	}{
		{0, 0},
		{1, 2},
		{7, 10},
		{100, 135},
		{1000, 1350},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, EstimateUnitsFromWordCount(tc.words), "words=%d", tc.words)
	}
}

func TestCostFromTokens(t *testing.T) {
	got := CostFromTokens(proSheet(), 1_000_000, 1_000_000)
	assert.Equal(t, 14.0, got)
}

func TestCompareModelsPreservesOrder(t *testing.T) {
	catalog := []models.ModelInfo{
		{ID: "a", Pricing: models.PriceSheet{InputPricePerMillion: 1}},
		{ID: "b", Pricing: models.PriceSheet{InputPricePerMillion: 2}},
	}
	got := CompareModels(catalog, models.UsageProfile{InputUnits: 1_000_000, RequestCount: 1})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Model.ID)
	assert.Equal(t, 1.0, got[0].Breakdown.TotalCost)
	assert.Equal(t, "b", got[1].Model.ID)
	assert.Equal(t, 2.0, got[1].Breakdown.TotalCost)
}
