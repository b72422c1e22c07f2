package models

import "time"

// APICallRecord is a completed call to the generative API.
type APICallRecord struct {
	ID           string    `json:"id"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	Cost         float64   `json:"cost"`
	Success      bool      `json:"success"`
	RetryCount   int       `json:"retry_count"`
	NetworkCost  float64   `json:"network_cost"`
	LatencyMs    int64     `json:"latency_ms"`
	FeatureTags  []string  `json:"feature_tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Stat returns the subset of the record the recommendation ranker consumes.
func (r APICallRecord) Stat() CallStat {
	return CallStat{LatencyMs: r.LatencyMs, Success: r.Success, RetryCount: r.RetryCount}
}

// CallStat is an observed call outcome.
type CallStat struct {
	LatencyMs  int64 `json:"latency_ms"`
	Success    bool  `json:"success"`
	RetryCount int   `json:"retry_count"`
}

// CallSummary aggregates a set of CallStats.
type CallSummary struct {
	Count        int     `json:"count"`
	FailureRate  float64 `json:"failure_rate"`
	AvgRetries   float64 `json:"avg_retries"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// ModelUsageSummary aggregates recorded calls per model.
type ModelUsageSummary struct {
	Model        string  `json:"model"`
	RequestCount int     `json:"request_count"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
	NetworkCost  float64 `json:"network_cost"`
	Failures     int     `json:"failures"`
}
