package mcp

import (
	"fmt"
	"strings"

	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/pricing"
)

// formatEstimate formats a single-model cost breakdown.
func formatEstimate(m models.ModelInfo, usage models.UsageProfile, b models.CostBreakdown) string {
	var s strings.Builder
	fmt.Fprintf(&s, "Cost estimate for %s (%s)\n", m.Name, m.ID)
	fmt.Fprintf(&s, "  Requests:     %d\n", usage.RequestCount)
	fmt.Fprintf(&s, "  Input:        %s\n", pricing.FormatCurrency(b.InputCost))
	fmt.Fprintf(&s, "  Output:       %s\n", pricing.FormatCurrency(b.OutputCost))
	if b.ImageGenerationCost != 0 {
		fmt.Fprintf(&s, "  Images:       %s\n", pricing.FormatCurrency(b.ImageGenerationCost))
	}
	if b.StorageCost != 0 {
		fmt.Fprintf(&s, "  Storage:      %s\n", pricing.FormatCurrency(b.StorageCost))
	}
	fmt.Fprintf(&s, "  Total:        %s\n", pricing.FormatCurrency(b.TotalCost))
	return s.String()
}

// formatComparison formats costs across models as a text table.
func formatComparison(costs []models.ModelCost) string {
	if len(costs) == 0 {
		return "No models found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %14s %14s %14s\n", "Model", "Input", "Output", "Total")
	b.WriteString(strings.Repeat("-", 85) + "\n")
	for _, c := range costs {
		fmt.Fprintf(&b, "%-40s %14s %14s %14s\n",
			c.Model.ID,
			pricing.FormatCurrency(c.Breakdown.InputCost),
			pricing.FormatCurrency(c.Breakdown.OutputCost),
			pricing.FormatCurrency(c.Breakdown.TotalCost))
	}
	return b.String()
}

// formatScenarios formats shadow cost outcomes as a text table.
func formatScenarios(outcomes []models.ScenarioOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %12s %12s %12s %12s %12s %12s\n",
		"Scenario", "Direct", "Retry", "Egress", "Cache Miss", "Total", "Hidden")
	b.WriteString(strings.Repeat("-", 90) + "\n")
	for _, o := range outcomes {
		r := o.Result
		fmt.Fprintf(&b, "%-10s %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f\n",
			o.Scenario, r.DirectCost, r.EstimatedRetryCost, r.EgressCost, r.CacheMissCost, r.TotalShadowCost, r.Savings)
	}
	for _, o := range outcomes {
		b.WriteString(o.Result.Description + "\n")
	}
	return b.String()
}

// formatMonthlyImpact formats a 30-day projection.
func formatMonthlyImpact(scenario string, m models.MonthlyImpact) string {
	return fmt.Sprintf("Monthly impact (%s)\n"+
		"  Estimated:   $%.2f\n"+
		"  With shadow: $%.2f\n"+
		"  Additional:  $%.2f\n",
		scenario, m.Estimated, m.WithShadow, m.AdditionalCost)
}

// formatRecommendations formats ranked recommendations with the call summary they were ranked against.
func formatRecommendations(sum models.CallSummary, recs []models.Recommendation, monthlySpend, savings float64) string {
	var b strings.Builder
	if sum.Count > 0 {
		fmt.Fprintf(&b, "Calls: %d  failure rate: %.1f%%  avg retries: %.2f  avg latency: %.0fms\n\n",
			sum.Count, sum.FailureRate*100, sum.AvgRetries, sum.AvgLatencyMs)
	}
	fmt.Fprintf(&b, "%-3s %-36s %-20s %8s %-8s\n", "P", "Recommendation", "Category", "Savings", "Effort")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "%-3d %-36s %-20s %7.0f%% %-8s\n",
			r.Priority, r.Title, r.Category, r.EstimatedSavings, r.Difficulty)
	}
	if monthlySpend > 0 {
		fmt.Fprintf(&b, "\nPotential monthly savings: $%.2f of $%.2f\n", savings, monthlySpend)
	}
	return b.String()
}

// formatBudgetStatus formats budget statuses as a text table.
func formatBudgetStatus(statuses []models.BudgetStatus) string {
	if len(statuses) == 0 {
		return "No budget allocations found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-8s %12s %12s %12s %7s %-8s\n",
		"Team", "Period", "Budget", "Spent", "Remaining", "Usage%", "Level")
	b.WriteString(strings.Repeat("-", 87) + "\n")
	for _, s := range statuses {
		a := s.Allocation
		fmt.Fprintf(&b, "%-20s %-8s %12.2f %12.2f %12.2f %6.1f%% %-8s\n",
			a.TeamName, a.Period, a.MonthlyBudget, a.Spent, s.RemainingBudget, s.PercentageUsed, s.AlertLevel)
	}
	return b.String()
}

// formatForecast formats a budget forecast.
func formatForecast(a models.BudgetAllocation, days float64, f models.BudgetForecast) string {
	verdict := "within budget"
	if f.WillExceed {
		verdict = "will exceed budget"
	}
	return fmt.Sprintf("Forecast for %s (%s)\n"+
		"  Budget:          $%.2f\n"+
		"  Spent:           $%.2f\n"+
		"  Days remaining:  %.0f\n"+
		"  Projected total: $%.2f\n"+
		"  Surplus:         $%.2f\n"+
		"  Outlook:         %s\n",
		a.TeamName, a.Period, a.MonthlyBudget, a.Spent, days, f.ProjectedTotal, f.ProjectedExcessOrSurplus, verdict)
}

// formatModels formats the model catalog as a text table.
func formatModels(all []models.ModelInfo) string {
	if len(all) == 0 {
		return "No models found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %-10s %10s %10s %10s %8s\n",
		"Model", "Type", "Input/M", "Output/M", "Cached/M", "Custom")
	b.WriteString(strings.Repeat("-", 93) + "\n")
	for _, m := range all {
		cached := "-"
		if p := m.Pricing.CachedInputPricePerMillion; p != nil {
			cached = fmt.Sprintf("%.4f", *p)
		}
		custom := ""
		if m.Custom {
			custom = "yes"
		}
		fmt.Fprintf(&b, "%-40s %-10s %10.4f %10.4f %10s %8s\n",
			m.ID, m.Type, m.Pricing.InputPricePerMillion, m.Pricing.OutputPricePerMillion, cached, custom)
	}
	return b.String()
}
