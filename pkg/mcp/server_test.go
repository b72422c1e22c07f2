package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pario-ai/costscope/pkg/budget"
	"github.com/pario-ai/costscope/pkg/catalog"
	"github.com/pario-ai/costscope/pkg/models"
)

// fakeCatalog implements ModelCatalog for testing.
type fakeCatalog struct {
	models []models.ModelInfo
}

func (f *fakeCatalog) List(_ context.Context) ([]models.ModelInfo, error) { return f.models, nil }
func (f *fakeCatalog) Lookup(_ context.Context, id string) (models.ModelInfo, error) {
	for _, m := range f.models {
		if m.ID == id {
			return m, nil
		}
	}
	return models.ModelInfo{}, catalog.ErrModelNotFound
}

// fakeBudgets implements BudgetStore for testing.
type fakeBudgets struct {
	allocs []models.BudgetAllocation
}

func (f *fakeBudgets) Status(_ context.Context, period string, threshold float64) ([]models.BudgetStatus, error) {
	var out []models.BudgetStatus
	for _, a := range f.allocs {
		if a.Period == period {
			out = append(out, budget.ClassifyBudgetStatus(a, threshold))
		}
	}
	return out, nil
}

func (f *fakeBudgets) FindByTeam(_ context.Context, team, period string) (models.BudgetAllocation, error) {
	for _, a := range f.allocs {
		if a.TeamName == team && a.Period == period {
			return a, nil
		}
	}
	return models.BudgetAllocation{}, budget.ErrAllocationNotFound
}

// fakeTracker implements tracker.Tracker for testing.
type fakeTracker struct {
	stats []models.CallStat
}

func (f *fakeTracker) Record(_ context.Context, rec models.APICallRecord) (models.APICallRecord, error) {
	return rec, nil
}
func (f *fakeTracker) Query(_ context.Context, _ time.Time, _ string) ([]models.APICallRecord, error) {
	return nil, nil
}
func (f *fakeTracker) Stats(_ context.Context, _ time.Time) ([]models.CallStat, error) {
	return f.stats, nil
}
func (f *fakeTracker) Summary(_ context.Context, _ time.Time) ([]models.ModelUsageSummary, error) {
	return nil, nil
}
func (f *fakeTracker) Close() error { return nil }

func testCatalog() *fakeCatalog {
	return &fakeCatalog{models: []models.ModelInfo{
		{ID: "big", Name: "Big Model", Type: models.ModelText, Pricing: models.PriceSheet{
			InputPricePerMillion: 2, OutputPricePerMillion: 10, CachedInputPricePerMillion: models.Price(0.5),
		}},
		{ID: "small", Name: "Small Model", Type: models.ModelText, Pricing: models.PriceSheet{
			InputPricePerMillion: 0.1, OutputPricePerMillion: 0.4,
		}},
	}}
}

func newTestServer(budgets BudgetStore, calls *fakeTracker) *Server {
	if calls == nil {
		return New(testCatalog(), budgets, nil, Options{}, "test")
	}
	return New(testCatalog(), budgets, calls, Options{}, "test")
}

func sendAndReceive(t *testing.T, srv *Server, req Request) Response {
	t.Helper()
	line, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	line = append(line, '\n')

	var out bytes.Buffer
	if err := srv.Run(context.Background(), bytes.NewReader(line), &out); err != nil {
		t.Fatal(err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, out.String())
	}
	return resp
}

func callTool(t *testing.T, srv *Server, name, args string) ToolCallResult {
	t.Helper()
	params, _ := json.Marshal(ToolCallParams{Name: name, Arguments: json.RawMessage(args)})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "tools/call",
		Params:  params,
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	json.Unmarshal(data, &result)
	if len(result.Content) == 0 {
		t.Fatal("expected content")
	}
	return result
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(nil, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result InitializeResult
	json.Unmarshal(data, &result)

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocol version = %s, want 2024-11-05", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "costscope" {
		t.Errorf("server name = %s, want costscope", result.ServerInfo.Name)
	}
}

func TestToolsList(t *testing.T) {
	srv := newTestServer(nil, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/list",
	})

	data, _ := json.Marshal(resp.Result)
	var result ToolsListResult
	json.Unmarshal(data, &result)

	if len(result.Tools) != len(toolHandlers) {
		t.Errorf("got %d tools, want %d", len(result.Tools), len(toolHandlers))
	}
	for _, tool := range result.Tools {
		if _, ok := toolHandlers[tool.Name]; !ok {
			t.Errorf("tool %s has no handler", tool.Name)
		}
	}
}

func TestToolCallEstimate(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_estimate",
		`{"model":"big","input_units":1000000,"output_units":100000,"request_count":2}`)

	text := result.Content[0].Text
	// 2 * (2.00 + 1.00)
	if !strings.Contains(text, "Total:        $6.0000") {
		t.Errorf("unexpected estimate: %s", text)
	}
}

func TestToolCallEstimateCompare(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_estimate", `{"words":1000,"output_units":500}`)

	text := result.Content[0].Text
	if !strings.Contains(text, "big") || !strings.Contains(text, "small") {
		t.Errorf("expected both models, got: %s", text)
	}
}

func TestToolCallEstimateUnknownModel(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_estimate", `{"model":"nope"}`)
	if !result.IsError {
		t.Error("expected isError=true for unknown model")
	}
}

func TestToolCallEstimateRejectsMistypedArgs(t *testing.T) {
	srv := newTestServer(nil, nil)
	for _, args := range []string{
		`{"model":"big","input_units":1000000,"output_units":100000,"request_count":"2"}`,
		`{"model":"big","input_units":"lots"}`,
		`{"model":"big","request_cnt":2}`,
	} {
		result := callTool(t, srv, "costscope_estimate", args)
		if !result.IsError {
			t.Errorf("%s: expected isError=true, got %s", args, result.Content[0].Text)
			continue
		}
		if !strings.HasPrefix(result.Content[0].Text, "invalid arguments") {
			t.Errorf("%s: unexpected message %q", args, result.Content[0].Text)
		}
	}
}

func TestToolCallEstimateRejectsInvalidUsage(t *testing.T) {
	srv := newTestServer(nil, nil)
	for _, args := range []string{
		`{"model":"big","input_units":1000000,"request_count":-3}`,
		`{"model":"big","input_units":1000000,"request_count":0}`,
		`{"model":"big","input_units":-1}`,
		`{"words":-10}`,
		`{"model":"big","audio_minutes":-1}`,
		`{"generated_images":-2}`,
	} {
		result := callTool(t, srv, "costscope_estimate", args)
		if !result.IsError {
			t.Errorf("%s: expected isError=true, got %s", args, result.Content[0].Text)
		}
	}
}

func TestToolCallEstimateDefaultsToOneRequest(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_estimate", `{"model":"big","input_units":1000000,"output_units":100000}`)
	if result.IsError || !strings.Contains(result.Content[0].Text, "Total:        $3.0000") {
		t.Errorf("unexpected estimate: %s", result.Content[0].Text)
	}
}

func TestToolCallShadowScenario(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_shadow", `{"direct_unit_cost":1,"scenario":"peak"}`)
	text := result.Content[0].Text
	if !strings.Contains(text, "\npeak ") || strings.Contains(text, "normal") {
		t.Errorf("expected a peak row only, got: %s", text)
	}

	result = callTool(t, srv, "costscope_shadow", `{"direct_unit_cost":1,"scenario":"bogus"}`)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "bogus") {
		t.Errorf("expected unknown scenario error, got: %s", result.Content[0].Text)
	}
}

func TestToolCallShadowRejectsInvalidUsage(t *testing.T) {
	srv := newTestServer(nil, nil)
	for _, args := range []string{
		`{"direct_unit_cost":1,"request_count":0}`,
		`{"direct_unit_cost":1,"request_count":-5,"all":true}`,
		`{"direct_unit_cost":-1}`,
		`{"direct_unit_cost":"1"}`,
	} {
		result := callTool(t, srv, "costscope_shadow", args)
		if !result.IsError {
			t.Errorf("%s: expected isError=true, got %s", args, result.Content[0].Text)
		}
	}
}

func TestToolCallShadowAll(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_shadow", `{"direct_unit_cost":1,"request_count":10,"all":true}`)

	text := result.Content[0].Text
	for _, s := range []string{"normal", "peak", "failure", "degraded"} {
		if !strings.Contains(text, s) {
			t.Errorf("expected scenario %s in output: %s", s, text)
		}
	}
}

func TestToolCallShadowMonthly(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_shadow", `{"direct_unit_cost":10,"monthly":true}`)
	if !strings.Contains(result.Content[0].Text, "Estimated:   $300.00") {
		t.Errorf("unexpected monthly impact: %s", result.Content[0].Text)
	}
}

func TestToolCallRecommendPromotesErrorHandling(t *testing.T) {
	calls := &fakeTracker{stats: []models.CallStat{
		{Success: false}, {Success: true}, {Success: true}, {Success: true},
	}}
	srv := newTestServer(nil, calls)
	result := callTool(t, srv, "costscope_recommend", `{"monthly_spend":1000}`)

	text := result.Content[0].Text
	lines := strings.Split(text, "\n")
	var first string
	for i, l := range lines {
		if strings.HasPrefix(l, "---") && i+1 < len(lines) {
			first = lines[i+1]
			break
		}
	}
	if !strings.Contains(first, "Circuit Breaker") {
		t.Errorf("expected circuit breaker first, got %q", first)
	}
	if !strings.Contains(text, "Potential monthly savings") {
		t.Errorf("expected savings line: %s", text)
	}
}

func TestToolCallBudgetNotConfigured(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_budget_status", `{}`)
	if !strings.Contains(result.Content[0].Text, "not configured") {
		t.Errorf("expected 'not configured', got: %s", result.Content[0].Text)
	}
}

func TestToolCallBudgetStatus(t *testing.T) {
	b := &fakeBudgets{allocs: []models.BudgetAllocation{
		{TeamName: "ml", MonthlyBudget: 100, Spent: 120, Period: "2026-10"},
	}}
	srv := newTestServer(b, nil)
	result := callTool(t, srv, "costscope_budget_status", `{"period":"2026-10"}`)

	text := result.Content[0].Text
	if !strings.Contains(text, "ml") || !strings.Contains(text, "critical") {
		t.Errorf("unexpected status output: %s", text)
	}
}

func TestToolCallBudgetForecast(t *testing.T) {
	b := &fakeBudgets{allocs: []models.BudgetAllocation{
		{TeamName: "ml", MonthlyBudget: 1000, Spent: 500, Period: "2026-10"},
	}}
	srv := newTestServer(b, nil)
	result := callTool(t, srv, "costscope_budget_forecast",
		`{"team":"ml","period":"2026-10","daily_spend_rate":50,"days_remaining":10}`)

	text := result.Content[0].Text
	if !strings.Contains(text, "Projected total: $1000.00") || !strings.Contains(text, "within budget") {
		t.Errorf("unexpected forecast: %s", text)
	}
}

func TestToolCallBudgetStatusThreshold(t *testing.T) {
	b := &fakeBudgets{allocs: []models.BudgetAllocation{
		{TeamName: "ml", MonthlyBudget: 100, Spent: 10, Period: "2026-10"},
	}}

	result := callTool(t, newTestServer(b, nil), "costscope_budget_status", `{"period":"2026-10"}`)
	if !strings.Contains(result.Content[0].Text, "ok") {
		t.Errorf("expected ok at the default threshold, got: %s", result.Content[0].Text)
	}

	zero := 0.0
	srv := New(testCatalog(), b, nil, Options{AlertThreshold: &zero}, "test")
	result = callTool(t, srv, "costscope_budget_status", `{"period":"2026-10"}`)
	if !strings.Contains(result.Content[0].Text, "warning") {
		t.Errorf("expected warning at threshold 0, got: %s", result.Content[0].Text)
	}
}

func TestToolCallBudgetForecastRejectsNegativeDays(t *testing.T) {
	b := &fakeBudgets{allocs: []models.BudgetAllocation{
		{TeamName: "ml", MonthlyBudget: 1000, Spent: 500, Period: "2026-10"},
	}}
	result := callTool(t, newTestServer(b, nil), "costscope_budget_forecast",
		`{"team":"ml","period":"2026-10","daily_spend_rate":50,"days_remaining":-1}`)
	if !result.IsError {
		t.Errorf("expected isError=true, got %s", result.Content[0].Text)
	}
}

func TestToolCallBudgetForecastUnknownTeam(t *testing.T) {
	srv := newTestServer(&fakeBudgets{}, nil)
	result := callTool(t, srv, "costscope_budget_forecast", `{"team":"ghost","daily_spend_rate":1}`)
	if !result.IsError {
		t.Error("expected isError=true for unknown team")
	}
}

func TestToolCallModels(t *testing.T) {
	srv := newTestServer(nil, nil)
	result := callTool(t, srv, "costscope_models", `{}`)
	if !strings.Contains(result.Content[0].Text, "0.5000") {
		t.Errorf("expected cached price in output: %s", result.Content[0].Text)
	}
}

func TestNotificationNoResponse(t *testing.T) {
	srv := newTestServer(nil, nil)

	line, _ := json.Marshal(Request{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})
	line = append(line, '\n')

	var out bytes.Buffer
	_ = srv.Run(context.Background(), bytes.NewReader(line), &out)

	if out.Len() != 0 {
		t.Errorf("expected no output for notification, got: %s", out.String())
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(nil, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`9`),
		Method:  "unknown/method",
	})

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != CodeMethodNotFound {
		t.Errorf("error code = %d, want %d", resp.Error.Code, CodeMethodNotFound)
	}
}

func TestInvalidRequest(t *testing.T) {
	srv := newTestServer(nil, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "1.0",
		ID:      json.RawMessage(`3`),
		Method:  "tools/list",
	})
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Errorf("error = %v, want code %d", resp.Error, CodeInvalidRequest)
	}
}

func TestToolPanicIsInternalError(t *testing.T) {
	toolHandlers["costscope_broken"] = func(context.Context, *Server, json.RawMessage) ToolCallResult {
		panic("boom")
	}
	t.Cleanup(func() { delete(toolHandlers, "costscope_broken") })

	params, _ := json.Marshal(ToolCallParams{Name: "costscope_broken"})
	resp := sendAndReceive(t, newTestServer(nil, nil), Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`4`),
		Method:  "tools/call",
		Params:  params,
	})
	if resp.Error == nil || resp.Error.Code != CodeInternalError {
		t.Errorf("error = %v, want code %d", resp.Error, CodeInternalError)
	}
}

func TestToolSchemas(t *testing.T) {
	var forecast, shadowTool ToolDefinition
	for _, tool := range allTools {
		switch tool.Name {
		case "costscope_budget_forecast":
			forecast = tool
		case "costscope_shadow":
			shadowTool = tool
		}
	}

	fs := forecast.InputSchema
	if fs.Type != "object" {
		t.Errorf("type = %s, want object", fs.Type)
	}
	if len(fs.Required) != 2 || fs.Required[0] != "team" || fs.Required[1] != "daily_spend_rate" {
		t.Errorf("required = %v, want [team daily_spend_rate]", fs.Required)
	}

	ss := shadowTool.InputSchema
	for _, prop := range []string{"model", "input_units", "direct_unit_cost", "scenario"} {
		if _, ok := ss.Properties[prop]; !ok {
			t.Errorf("shadow schema missing property %s", prop)
		}
	}
	if len(ss.Required) != 0 {
		t.Errorf("shadow schema should have no required fields, got %v", ss.Required)
	}
}
