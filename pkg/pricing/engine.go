// Package pricing turns a usage profile and a model price sheet into a cost
// breakdown. Every function is pure and safe for concurrent use.
//
// The engine trusts its inputs: negative or non-finite quantities are not
// rejected and flow through the arithmetic unchanged. Callers clamp.
package pricing

import (
	"math"

	"github.com/pario-ai/costscope/pkg/models"
)

// Token equivalents billed per minute of media input.
const (
	AudioUnitsPerMinute = 32 * 60
	VideoUnitsPerMinute = 258 * 60
)

// WordsToUnitsRatio approximates token-equivalent units per English word.
const WordsToUnitsRatio = 1.35

const unitsPerMillion = 1_000_000

// ComputeCost prices usage against sheet.
//
// Per-request line items are scaled individually by usage.RequestCount so a
// scaled breakdown sums to the total. Cache storage is billed once for the
// residency period and is not scaled. Video generation is reserved and always
// zero, even when the sheet carries a per-second video price.
func ComputeCost(sheet models.PriceSheet, usage models.UsageProfile) models.CostBreakdown {
	effectiveUnits := EffectiveInputUnits(usage)

	inputPrice := sheet.InputPricePerMillion
	if usage.CachingEnabled && sheet.CachedInputPricePerMillion != nil {
		inputPrice = *sheet.CachedInputPricePerMillion
	}

	inputCost := effectiveUnits / unitsPerMillion * inputPrice
	outputCost := float64(usage.OutputUnits) / unitsPerMillion * sheet.OutputPricePerMillion
	imageCost := float64(usage.GeneratedImages) * valueOr(sheet.PricePerImage, 0)
	videoCost := 0.0

	var storageCost float64
	if usage.CachingEnabled && sheet.CacheStoragePerMillionPerHour != nil {
		storageCost = effectiveUnits / unitsPerMillion * *sheet.CacheStoragePerMillionPerHour * usage.CacheStorageHours
	}

	n := float64(usage.RequestCount)
	b := models.CostBreakdown{
		InputCost:           inputCost * n,
		OutputCost:          outputCost * n,
		ImageGenerationCost: imageCost * n,
		VideoGenerationCost: videoCost * n,
		StorageCost:         storageCost,
	}
	b.TotalCost = b.InputCost + b.OutputCost + b.ImageGenerationCost + b.VideoGenerationCost + b.StorageCost
	return b
}

// EffectiveInputUnits folds audio and video minutes into text input units.
func EffectiveInputUnits(usage models.UsageProfile) float64 {
	return float64(usage.InputUnits) +
		usage.AudioMinutes*AudioUnitsPerMinute +
		usage.VideoMinutes*VideoUnitsPerMinute
}

// EstimateUnitsFromWordCount converts a word count into token-equivalent units.
func EstimateUnitsFromWordCount(words int64) int64 {
	return int64(math.Ceil(float64(words) * WordsToUnitsRatio))
}

// CostFromTokens prices an already-completed call from its reported prompt and
// completion units, using standard (uncached) input pricing.
func CostFromTokens(sheet models.PriceSheet, promptUnits, completionUnits int64) float64 {
	b := ComputeCost(sheet, models.UsageProfile{
		InputUnits:   promptUnits,
		OutputUnits:  completionUnits,
		RequestCount: 1,
	})
	return b.TotalCost
}

// CompareModels prices the same usage against each model, preserving order.
func CompareModels(catalog []models.ModelInfo, usage models.UsageProfile) []models.ModelCost {
	out := make([]models.ModelCost, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, models.ModelCost{Model: m, Breakdown: ComputeCost(m.Pricing, usage)})
	}
	return out
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
