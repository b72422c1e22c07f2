package models

// AlertLevel is the health of a budget.
type AlertLevel string

const (
	AlertOK       AlertLevel = "ok"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// BudgetAllocation is a team's monthly spend limit.
type BudgetAllocation struct {
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	TeamName      string   `json:"team_name" yaml:"team_name"`
	MonthlyBudget float64  `json:"monthly_budget" yaml:"monthly_budget"`
	Spent         float64  `json:"spent" yaml:"spent"`
	Period        string   `json:"period" yaml:"period"` // YYYY-MM
	Alerts        []string `json:"alerts" yaml:"alerts"`
}

// BudgetStatus shows current spend against an allocation.
type BudgetStatus struct {
	Allocation      BudgetAllocation `json:"allocation"`
	PercentageUsed  float64          `json:"percentage_used"`
	RemainingBudget float64          `json:"remaining_budget"`
	IsOverBudget    bool             `json:"is_over_budget"`
	AlertLevel      AlertLevel       `json:"alert_level"`
}

// BudgetForecast is a linear spend projection to the end of the period.
type BudgetForecast struct {
	ProjectedTotal           float64 `json:"projected_total"`
	WillExceed               bool    `json:"will_exceed"`
	ProjectedExcessOrSurplus float64 `json:"projected_excess_or_surplus"`
}

// BudgetAlert is a team-level budget notification.
type BudgetAlert struct {
	Team     string     `json:"team"`
	Message  string     `json:"message"`
	Severity AlertLevel `json:"severity"`
}

// ChargebackLine is one category of a chargeback report.
type ChargebackLine struct {
	Category   string  `json:"category"`
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

// ChargebackReport attributes API spend to a team.
type ChargebackReport struct {
	TeamName     string           `json:"team_name"`
	Period       string           `json:"period"`
	TotalCost    float64          `json:"total_cost"`
	Breakdown    []ChargebackLine `json:"breakdown"`
	DailyAverage float64          `json:"daily_average"`
}
