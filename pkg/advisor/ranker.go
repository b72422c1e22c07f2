// Package advisor ranks cost optimization recommendations against observed
// API call statistics.
package advisor

import (
	"cmp"
	"math"
	"slices"

	"github.com/pario-ai/costscope/pkg/models"
)

// Thresholds above which a recommendation is promoted to priority 0.
const (
	FailureRateThreshold = 0.05
	AvgRetriesThreshold  = 1.5
)

// Caps on the savings percentage assigned to promoted recommendations.
const (
	maxErrorHandlingSavings = 45
	maxDedupSavings         = 40
)

// potentialSavingsTop is how many leading recommendations CalculatePotentialSavings sums.
const potentialSavingsTop = 3

// SummarizeCalls aggregates call statistics. An empty input yields a zero summary.
func SummarizeCalls(stats []models.CallStat) models.CallSummary {
	if len(stats) == 0 {
		return models.CallSummary{}
	}
	var failures, retries int
	var latency int64
	for _, s := range stats {
		if !s.Success {
			failures++
		}
		retries += s.RetryCount
		latency += s.LatencyMs
	}
	n := float64(len(stats))
	return models.CallSummary{
		Count:        len(stats),
		FailureRate:  float64(failures) / n,
		AvgRetries:   float64(retries) / n,
		AvgLatencyMs: float64(latency) / n,
	}
}

// GenerateRecommendations returns the recommendation catalog ordered by
// priority. When stats are supplied, high failure rates promote the
// error-handling recommendation and frequent retries promote deduplication.
// monthlySpend does not affect ranking; it is accepted so callers can pass
// the same inputs to CalculatePotentialSavings.
func GenerateRecommendations(stats []models.CallStat, monthlySpend float64) []models.Recommendation {
	recs := Catalog()

	if len(stats) > 0 {
		sum := SummarizeCalls(stats)

		if sum.FailureRate > FailureRateThreshold {
			if i := slices.IndexFunc(recs, func(r models.Recommendation) bool {
				return r.Category == models.CategoryErrorHandling
			}); i >= 0 {
				recs[i].Priority = 0
				recs[i].EstimatedSavings = math.Min(maxErrorHandlingSavings, sum.FailureRate*100)
			}
		}

		if sum.AvgRetries > AvgRetriesThreshold {
			if i := slices.IndexFunc(recs, func(r models.Recommendation) bool {
				return r.Title == DeduplicationTitle
			}); i >= 0 {
				recs[i].Priority = 0
				recs[i].EstimatedSavings = math.Min(maxDedupSavings, sum.AvgRetries*20)
			}
		}
	}

	slices.SortStableFunc(recs, func(a, b models.Recommendation) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return recs
}

// CalculatePotentialSavings applies the summed savings percentages of the
// first three recommendations to monthlySpend. Percentages add rather than
// compound, so overlapping savings are not discounted.
func CalculatePotentialSavings(recs []models.Recommendation, monthlySpend float64) float64 {
	top := recs[:min(len(recs), potentialSavingsTop)]
	var pct float64
	for _, r := range top {
		pct += r.EstimatedSavings
	}
	return monthlySpend * pct / 100
}
