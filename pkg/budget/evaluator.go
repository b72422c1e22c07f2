// Package budget classifies team spend against monthly allocations and
// persists allocations between runs.
package budget

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pario-ai/costscope/pkg/models"
)

// DefaultAlertThreshold is the percentage of budget used that triggers a warning.
const DefaultAlertThreshold = 80

// PeriodLayout is the time layout of an allocation period.
const PeriodLayout = "2006-01"

// CurrentPeriod returns the UTC month containing t as YYYY-MM.
func CurrentPeriod(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// MonthStart returns midnight UTC on the first day of t's UTC month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysLeftInMonth counts the days after t's UTC date up to the end of its month.
func DaysLeftInMonth(t time.Time) float64 {
	t = t.UTC()
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return float64(last.Day() - t.Day())
}

// CreateAllocation returns a new allocation with nothing spent. An empty
// period means the current UTC month.
func CreateAllocation(team string, monthlyBudget float64, period string) models.BudgetAllocation {
	if period == "" {
		period = CurrentPeriod(time.Now())
	}
	return models.BudgetAllocation{
		ID:            uuid.NewString(),
		TeamName:      team,
		MonthlyBudget: monthlyBudget,
		Period:        period,
		Alerts:        []string{},
	}
}

// ClassifyBudgetStatus reports how much of the allocation is used. A zero
// MonthlyBudget is not guarded: the percentage becomes NaN or ±Inf.
func ClassifyBudgetStatus(a models.BudgetAllocation, alertThreshold float64) models.BudgetStatus {
	pct := a.Spent / a.MonthlyBudget * 100
	remaining := a.MonthlyBudget - a.Spent
	over := remaining < 0

	level := models.AlertOK
	switch {
	case over:
		level = models.AlertCritical
	case pct >= alertThreshold:
		level = models.AlertWarning
	}

	return models.BudgetStatus{
		Allocation:      a,
		PercentageUsed:  pct,
		RemainingBudget: remaining,
		IsOverBudget:    over,
		AlertLevel:      level,
	}
}

// ForecastBudgetStatus projects spend linearly over the remaining days.
// A positive ProjectedExcessOrSurplus is a surplus.
func ForecastBudgetStatus(a models.BudgetAllocation, dailySpendRate, daysRemaining float64) models.BudgetForecast {
	projected := a.Spent + dailySpendRate*daysRemaining
	return models.BudgetForecast{
		ProjectedTotal:           projected,
		WillExceed:               projected > a.MonthlyBudget,
		ProjectedExcessOrSurplus: a.MonthlyBudget - projected,
	}
}

// RecordSpend returns a copy of a with cost added. When the new spend reaches
// the warning or critical level, an alert message is appended to the copy's
// alerts and returned; otherwise the returned alert is empty.
func RecordSpend(a models.BudgetAllocation, cost, alertThreshold float64) (models.BudgetAllocation, string) {
	next := a
	next.Spent = a.Spent + cost
	next.Alerts = append([]string(nil), a.Alerts...)

	status := ClassifyBudgetStatus(next, alertThreshold)
	var alert string
	switch status.AlertLevel {
	case models.AlertWarning:
		alert = fmt.Sprintf("Budget alert: %.1f%% used", status.PercentageUsed)
	case models.AlertCritical:
		alert = fmt.Sprintf("CRITICAL: Budget exceeded by $%.2f", math.Abs(status.RemainingBudget))
	}
	if alert != "" {
		next.Alerts = append(next.Alerts, alert)
	}
	return next, alert
}

// ErrNoWeight is returned by AllocateToTeams when the team weights sum to zero.
var ErrNoWeight = errors.New("team weights must sum to more than zero")

// AllocateToTeams splits total across teams proportionally to their weights.
func AllocateToTeams(total float64, weights map[string]float64, period string) (map[string]models.BudgetAllocation, error) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if !(sum > 0) {
		return nil, ErrNoWeight
	}
	out := make(map[string]models.BudgetAllocation, len(weights))
	for team, w := range weights {
		out[team] = CreateAllocation(team, total*w/sum, period)
	}
	return out, nil
}

// GenerateAlerts returns one alert per allocation at warning or critical
// level, ordered by team name.
func GenerateAlerts(allocations []models.BudgetAllocation, alertThreshold float64) []models.BudgetAlert {
	var alerts []models.BudgetAlert
	for _, a := range allocations {
		status := ClassifyBudgetStatus(a, alertThreshold)
		switch status.AlertLevel {
		case models.AlertCritical:
			alerts = append(alerts, models.BudgetAlert{
				Team:     a.TeamName,
				Message:  fmt.Sprintf("Budget exceeded by $%.2f", math.Abs(status.RemainingBudget)),
				Severity: models.AlertCritical,
			})
		case models.AlertWarning:
			alerts = append(alerts, models.BudgetAlert{
				Team:     a.TeamName,
				Message:  fmt.Sprintf("%.1f%% of budget used", status.PercentageUsed),
				Severity: models.AlertWarning,
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Team < alerts[j].Team })
	return alerts
}
