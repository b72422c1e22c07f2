package budget

import (
	"sort"
	"strings"
	"time"

	"github.com/pario-ai/costscope/pkg/models"
)

// Chargeback categories used when calls are not grouped by feature.
const (
	CategoryPremium  = "Premium Models"
	CategoryStandard = "Standard Models"
)

// GenerateChargebackReport attributes the cost of calls to team. Each call
// contributes its cost plus network cost. With byFeature, calls are grouped by
// their first feature tag; untagged calls and all calls otherwise are grouped
// into premium ("pro" models) and standard models.
func GenerateChargebackReport(team string, calls []models.APICallRecord, byFeature bool) models.ChargebackReport {
	byCategory := make(map[string]float64)
	var total float64

	for _, c := range calls {
		cost := c.Cost + c.NetworkCost
		total += cost

		var category string
		switch {
		case byFeature && len(c.FeatureTags) > 0:
			category = c.FeatureTags[0]
		case strings.Contains(c.Model, "pro"):
			category = CategoryPremium
		default:
			category = CategoryStandard
		}
		byCategory[category] += cost
	}

	lines := make([]models.ChargebackLine, 0, len(byCategory))
	for category, cost := range byCategory {
		var pct float64
		if total != 0 {
			pct = cost / total * 100
		}
		lines = append(lines, models.ChargebackLine{Category: category, Cost: cost, Percentage: pct})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Cost != lines[j].Cost {
			return lines[i].Cost > lines[j].Cost
		}
		return lines[i].Category < lines[j].Category
	})

	return models.ChargebackReport{
		TeamName:     team,
		Period:       CurrentPeriod(time.Now()),
		TotalCost:    total,
		Breakdown:    lines,
		DailyAverage: total / 30,
	}
}
