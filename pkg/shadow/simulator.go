// Package shadow models the hidden cost of running a workload: retries,
// network egress and cache misses on top of the direct unit cost.
package shadow

import (
	"fmt"

	"github.com/pario-ai/costscope/pkg/models"
)

// DefaultScenario is used when a scenario key is not in the catalog.
const DefaultScenario = "normal"

// DaysPerMonth is the horizon used for monthly projections.
const DaysPerMonth = 30

var scenarios = []models.ScenarioProfile{
	{Key: "normal", Name: "Normal Operations", ErrorRate: 0.01, RetryMultiplier: 1.1, NetworkCostPercentage: 5, CacheMissRate: 20},
	{Key: "peak", Name: "Peak Load", ErrorRate: 0.05, RetryMultiplier: 1.3, NetworkCostPercentage: 15, CacheMissRate: 40},
	{Key: "failure", Name: "Service Degradation", ErrorRate: 0.15, RetryMultiplier: 2.0, NetworkCostPercentage: 25, CacheMissRate: 60},
	{Key: "degraded", Name: "Partial Degradation", ErrorRate: 0.08, RetryMultiplier: 1.5, NetworkCostPercentage: 12, CacheMissRate: 35},
}

// Scenarios returns the scenario catalog in declaration order.
func Scenarios() []models.ScenarioProfile {
	out := make([]models.ScenarioProfile, len(scenarios))
	copy(out, scenarios)
	return out
}

// Lookup returns the scenario for key, falling back to DefaultScenario.
// The boolean reports whether key was found.
func Lookup(key string) (models.ScenarioProfile, bool) {
	for _, s := range scenarios {
		if s.Key == key {
			return s, true
		}
	}
	return scenarios[0], false
}

// ComputeShadowCost inflates directUnitCost for requestCount units of work
// under the named scenario. Unknown scenarios use DefaultScenario.
//
// The egress and cache-miss components are already scaled by requestCount and
// are scaled again when summed into TotalShadowCost. Monthly projections built
// on this figure depend on that, so it is kept.
func ComputeShadowCost(directUnitCost float64, scenario string, requestCount int64) models.ShadowCostResult {
	s, _ := Lookup(scenario)
	n := float64(requestCount)

	retryFactor := 1 + s.ErrorRate*(s.RetryMultiplier-1)
	retryCost := directUnitCost * (retryFactor - 1) * n
	egressCost := directUnitCost * (s.NetworkCostPercentage / 100) * n
	cacheMissCost := directUnitCost * (s.CacheMissRate / 100) * n

	total := (directUnitCost*retryFactor + egressCost + cacheMissCost) * n
	base := directUnitCost * n
	savings := total - base

	return models.ShadowCostResult{
		DirectCost:         base,
		EstimatedRetryCost: retryCost,
		EgressCost:         egressCost,
		CacheMissCost:      cacheMissCost,
		TotalShadowCost:    total,
		Savings:            savings,
		Description:        fmt.Sprintf("%s scenario: %.1f%% hidden costs", s.Name, savings/base*100),
	}
}

// SimulateAllScenarios runs ComputeShadowCost for every catalog scenario, in
// catalog order.
func SimulateAllScenarios(directUnitCost float64, requestCount int64) []models.ScenarioOutcome {
	out := make([]models.ScenarioOutcome, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, models.ScenarioOutcome{
			Scenario: s.Key,
			Result:   ComputeShadowCost(directUnitCost, s.Key, requestCount),
		})
	}
	return out
}

// EstimateMonthlyImpact projects a daily unit cost across DaysPerMonth days.
func EstimateMonthlyImpact(dailyUnitCost float64, scenario string) models.MonthlyImpact {
	r := ComputeShadowCost(dailyUnitCost, scenario, DaysPerMonth)
	return models.MonthlyImpact{
		Estimated:      dailyUnitCost * DaysPerMonth,
		WithShadow:     r.TotalShadowCost,
		AdditionalCost: r.Savings,
	}
}
