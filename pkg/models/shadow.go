package models

// ScenarioProfile describes operating conditions that inflate direct cost.
// NetworkCostPercentage and CacheMissRate are percentages (5 means 5%).
type ScenarioProfile struct {
	Key                   string  `json:"key"`
	Name                  string  `json:"name"`
	ErrorRate             float64 `json:"error_rate"`
	RetryMultiplier       float64 `json:"retry_multiplier"`
	NetworkCostPercentage float64 `json:"network_cost_percentage"`
	CacheMissRate         float64 `json:"cache_miss_rate"`
}

// ShadowCostResult is the inflated cost of a workload under a scenario.
type ShadowCostResult struct {
	DirectCost         float64 `json:"direct_cost"`
	EstimatedRetryCost float64 `json:"estimated_retry_cost"`
	EgressCost         float64 `json:"egress_cost"`
	CacheMissCost      float64 `json:"cache_miss_cost"`
	TotalShadowCost    float64 `json:"total_shadow_cost"`
	Savings            float64 `json:"savings"`
	Description        string  `json:"description"`
}

// ScenarioOutcome is a shadow cost result keyed by scenario.
type ScenarioOutcome struct {
	Scenario string           `json:"scenario"`
	Result   ShadowCostResult `json:"result"`
}

// MonthlyImpact projects a daily cost over a 30-day month.
type MonthlyImpact struct {
	Estimated      float64 `json:"estimated"`
	WithShadow     float64 `json:"with_shadow"`
	AdditionalCost float64 `json:"additional_cost"`
}
