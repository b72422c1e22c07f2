package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pario-ai/costscope/pkg/advisor"
	"github.com/pario-ai/costscope/pkg/budget"
	"github.com/pario-ai/costscope/pkg/catalog"
	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/pricing"
	"github.com/pario-ai/costscope/pkg/shadow"
)

// Tool argument structs. Their tags drive the input schemas published by tools/list.

type usageArgs struct {
	Model             string  `json:"model,omitempty" jsonschema_description:"Model ID from costscope_models"`
	InputUnits        int64   `json:"input_units,omitempty" jsonschema_description:"Input tokens per request"`
	OutputUnits       int64   `json:"output_units,omitempty" jsonschema_description:"Output tokens per request"`
	Words             int64   `json:"words,omitempty" jsonschema_description:"Input word count, used when input_units is omitted"`
	AudioMinutes      float64 `json:"audio_minutes,omitempty" jsonschema_description:"Audio input minutes per request"`
	VideoMinutes      float64 `json:"video_minutes,omitempty" jsonschema_description:"Video input minutes per request"`
	GeneratedImages   int64   `json:"generated_images,omitempty" jsonschema_description:"Images generated per request"`
	RequestCount      *int64  `json:"request_count,omitempty" jsonschema:"minimum=1" jsonschema_description:"Number of requests (default 1)"`
	CachingEnabled    bool    `json:"caching_enabled,omitempty" jsonschema_description:"Bill input at the cached rate when the model has one"`
	CacheStorageHours float64 `json:"cache_storage_hours,omitempty" jsonschema_description:"Hours the cached context is stored"`
}

// profile converts the arguments to a usage profile. Word counts fill in
// missing input units and a missing request count means one request. An
// explicit request count below one or a negative quantity is rejected.
func (a usageArgs) profile() (models.UsageProfile, error) {
	if a.Words < 0 {
		return models.UsageProfile{}, fmt.Errorf("%w: words must not be negative, got %d", models.ErrInvalidUsage, a.Words)
	}
	u := models.UsageProfile{
		InputUnits:        a.InputUnits,
		OutputUnits:       a.OutputUnits,
		AudioMinutes:      a.AudioMinutes,
		VideoMinutes:      a.VideoMinutes,
		GeneratedImages:   a.GeneratedImages,
		RequestCount:      1,
		CachingEnabled:    a.CachingEnabled,
		CacheStorageHours: a.CacheStorageHours,
	}
	if u.InputUnits == 0 && a.Words > 0 {
		u.InputUnits = pricing.EstimateUnitsFromWordCount(a.Words)
	}
	if a.RequestCount != nil {
		u.RequestCount = *a.RequestCount
	}
	if err := u.Validate(); err != nil {
		return models.UsageProfile{}, err
	}
	return u, nil
}

type shadowArgs struct {
	usageArgs
	DirectUnitCost float64 `json:"direct_unit_cost,omitempty" jsonschema_description:"Direct cost of one request; computed from model and usage when omitted"`
	Scenario       string  `json:"scenario,omitempty" jsonschema:"enum=normal,enum=peak,enum=failure,enum=degraded" jsonschema_description:"Operating scenario (default from config)"`
	All            bool    `json:"all,omitempty" jsonschema_description:"Simulate every scenario"`
	Monthly        bool    `json:"monthly,omitempty" jsonschema_description:"Treat the cost as daily and project a 30-day month"`
}

type recommendArgs struct {
	MonthlySpend float64 `json:"monthly_spend,omitempty" jsonschema_description:"Current monthly spend in USD"`
	Since        string  `json:"since,omitempty" jsonschema_description:"Start date in YYYY-MM-DD format (optional, defaults to start of month)"`
}

type budgetStatusArgs struct {
	Period string `json:"period,omitempty" jsonschema_description:"Period in YYYY-MM format (optional, defaults to the current month)"`
}

type budgetForecastArgs struct {
	Team           string   `json:"team" jsonschema:"required" jsonschema_description:"Team name"`
	Period         string   `json:"period,omitempty" jsonschema_description:"Period in YYYY-MM format (optional)"`
	DailySpendRate float64  `json:"daily_spend_rate" jsonschema:"required" jsonschema_description:"Expected spend per day in USD"`
	DaysRemaining  *float64 `json:"days_remaining,omitempty" jsonschema_description:"Days left in the period (optional, defaults to the rest of the current month)"`
}

type modelsArgs struct{}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"costscope_estimate":        handleEstimate,
	"costscope_shadow":          handleShadow,
	"costscope_recommend":       handleRecommend,
	"costscope_budget_status":   handleBudgetStatus,
	"costscope_budget_forecast": handleBudgetForecast,
	"costscope_models":          handleModels,
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	mustTool("costscope_estimate",
		"Estimate the cost of a usage profile for one model, or compare all models when model is omitted.",
		usageArgs{}),
	mustTool("costscope_shadow",
		"Simulate hidden costs (retries, egress, cache misses) of a per-request cost under an operating scenario.",
		shadowArgs{}),
	mustTool("costscope_recommend",
		"Rank cost optimization recommendations using recorded call statistics.",
		recommendArgs{}),
	mustTool("costscope_budget_status",
		"Show budget status (spend vs allocation) for every team in a period.",
		budgetStatusArgs{}),
	mustTool("costscope_budget_forecast",
		"Project a team's spend to the end of the period at a daily spend rate.",
		budgetForecastArgs{}),
	mustTool("costscope_models",
		"List known models and their prices per million units.",
		modelsArgs{}),
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

// decodeArgs unmarshals tool arguments into v. Absent arguments leave v at its
// zero value; mistyped or unknown fields are an error.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

func invalidArgs(err error) ToolCallResult {
	return errorResult("invalid arguments: " + err.Error())
}

func lookupModel(ctx context.Context, s *Server, id string) (models.ModelInfo, *ToolCallResult) {
	m, err := s.catalog.Lookup(ctx, id)
	if errors.Is(err, catalog.ErrModelNotFound) {
		r := errorResult("Unknown model: " + id)
		return m, &r
	}
	if err != nil {
		r := errorResult("Error looking up model: " + err.Error())
		return m, &r
	}
	return m, nil
}

func handleEstimate(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args usageArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return invalidArgs(err)
	}
	usage, err := args.profile()
	if err != nil {
		return invalidArgs(err)
	}

	if args.Model == "" {
		all, err := s.catalog.List(ctx)
		if err != nil {
			return errorResult("Error listing models: " + err.Error())
		}
		return textResult(formatComparison(pricing.CompareModels(all, usage)))
	}

	m, errRes := lookupModel(ctx, s, args.Model)
	if errRes != nil {
		return *errRes
	}
	return textResult(formatEstimate(m, usage, pricing.ComputeCost(m.Pricing, usage)))
}

func handleShadow(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args shadowArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return invalidArgs(err)
	}
	name := args.Scenario
	if name == "" {
		name = s.scenario
	}
	sc, ok := shadow.Lookup(name)
	if !ok {
		return invalidArgs(fmt.Errorf("unknown scenario %q (use normal, peak, failure or degraded)", name))
	}
	usage, err := args.profile()
	if err != nil {
		return invalidArgs(err)
	}
	if args.DirectUnitCost < 0 {
		return invalidArgs(fmt.Errorf("direct_unit_cost must not be negative, got %v", args.DirectUnitCost))
	}

	unitCost := args.DirectUnitCost
	if args.Model != "" {
		m, errRes := lookupModel(ctx, s, args.Model)
		if errRes != nil {
			return *errRes
		}
		single := usage
		single.RequestCount = 1
		unitCost = pricing.ComputeCost(m.Pricing, single).TotalCost
	}

	switch {
	case args.Monthly:
		return textResult(formatMonthlyImpact(sc.Key, shadow.EstimateMonthlyImpact(unitCost, sc.Key)))
	case args.All:
		return textResult(formatScenarios(shadow.SimulateAllScenarios(unitCost, usage.RequestCount)))
	default:
		r := shadow.ComputeShadowCost(unitCost, sc.Key, usage.RequestCount)
		return textResult(formatScenarios([]models.ScenarioOutcome{{Scenario: sc.Key, Result: r}}))
	}
}

func handleRecommend(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args recommendArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return invalidArgs(err)
	}

	var stats []models.CallStat
	if s.calls != nil {
		since := budget.MonthStart(time.Now())
		if args.Since != "" {
			t, err := time.Parse("2006-01-02", args.Since)
			if err != nil {
				return errorResult("Invalid since date (use YYYY-MM-DD): " + err.Error())
			}
			since = t
		}
		var err error
		stats, err = s.calls.Stats(ctx, since)
		if err != nil {
			return errorResult("Error fetching call stats: " + err.Error())
		}
	}

	recs := advisor.GenerateRecommendations(stats, args.MonthlySpend)
	savings := advisor.CalculatePotentialSavings(recs, args.MonthlySpend)
	return textResult(formatRecommendations(advisor.SummarizeCalls(stats), recs, args.MonthlySpend, savings))
}

func handleBudgetStatus(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.budgets == nil {
		return textResult("Budget tracking is not configured.")
	}
	var args budgetStatusArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return invalidArgs(err)
	}
	period := args.Period
	if period == "" {
		period = budget.CurrentPeriod(time.Now())
	}
	statuses, err := s.budgets.Status(ctx, period, s.alertThreshold)
	if err != nil {
		return errorResult("Error fetching budget status: " + err.Error())
	}
	return textResult(formatBudgetStatus(statuses))
}

func handleBudgetForecast(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.budgets == nil {
		return textResult("Budget tracking is not configured.")
	}
	var args budgetForecastArgs
	if err := decodeArgs(rawArgs, &args); err != nil {
		return invalidArgs(err)
	}
	if args.Team == "" {
		return errorResult("team is required")
	}
	period := args.Period
	if period == "" {
		period = budget.CurrentPeriod(time.Now())
	}

	a, err := s.budgets.FindByTeam(ctx, args.Team, period)
	if errors.Is(err, budget.ErrAllocationNotFound) {
		return errorResult("No budget allocation for team " + args.Team + " in " + period)
	}
	if err != nil {
		return errorResult("Error fetching allocation: " + err.Error())
	}

	days := budget.DaysLeftInMonth(time.Now())
	if args.DaysRemaining != nil {
		if *args.DaysRemaining < 0 {
			return invalidArgs(fmt.Errorf("days_remaining must not be negative, got %v", *args.DaysRemaining))
		}
		days = *args.DaysRemaining
	}
	f := budget.ForecastBudgetStatus(a, args.DailySpendRate, days)
	return textResult(formatForecast(a, days, f))
}

func handleModels(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	all, err := s.catalog.List(ctx)
	if err != nil {
		return errorResult("Error listing models: " + err.Error())
	}
	return textResult(formatModels(all))
}
