package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/pario-ai/costscope/pkg/budget"
	"github.com/pario-ai/costscope/pkg/models"
	"github.com/pario-ai/costscope/pkg/shadow"
	"github.com/pario-ai/costscope/pkg/tracker"
)

// ModelCatalog resolves models without coupling to a concrete registry.
type ModelCatalog interface {
	List(ctx context.Context) ([]models.ModelInfo, error)
	Lookup(ctx context.Context, id string) (models.ModelInfo, error)
}

// BudgetStore provides budget allocations without coupling to a concrete store.
type BudgetStore interface {
	Status(ctx context.Context, period string, alertThreshold float64) ([]models.BudgetStatus, error)
	FindByTeam(ctx context.Context, team, period string) (models.BudgetAllocation, error)
}

// Options tunes tool defaults. A nil AlertThreshold means
// budget.DefaultAlertThreshold; an empty DefaultScenario means
// shadow.DefaultScenario.
type Options struct {
	AlertThreshold  *float64
	DefaultScenario string
	Logger          *slog.Logger
}

// Server is a minimal MCP server that communicates over stdio using JSON-RPC 2.0.
type Server struct {
	catalog        ModelCatalog
	budgets        BudgetStore
	calls          tracker.Tracker
	alertThreshold float64
	scenario       string
	logger         *slog.Logger
	version        string
}

// New creates a new MCP Server. budgets and calls may be nil.
func New(catalog ModelCatalog, budgets BudgetStore, calls tracker.Tracker, opts Options, version string) *Server {
	threshold := float64(budget.DefaultAlertThreshold)
	if opts.AlertThreshold != nil {
		threshold = *opts.AlertThreshold
	}
	scenario := opts.DefaultScenario
	if scenario == "" {
		scenario = shadow.DefaultScenario
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog:        catalog,
		budgets:        budgets,
		calls:          calls,
		alertThreshold: threshold,
		scenario:       scenario,
		logger:         logger.With("component", "mcp"),
		version:        version,
	}
}

// Run reads JSON-RPC requests from r line-by-line and writes responses to w.
// It blocks until r is closed or ctx is cancelled.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(w, *errorResponse(nil, CodeParseError, "parse error"))
			continue
		}

		resp := s.dispatch(ctx, &req)
		if resp == nil {
			// notification, no response
			continue
		}
		s.writeResponse(w, *resp)
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != jsonrpcVersion || req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "invalid request")
	}
	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      ServerInfo{Name: "costscope", Version: s.version},
			Capabilities:    map[string]any{"tools": map[string]any{}},
		})
	case "notifications/initialized":
		return nil // notification, no response
	case "tools/list":
		return resultResponse(req.ID, ToolsListResult{Tools: allTools})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) (resp *Response) {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "invalid params")
	}

	handler, ok := toolHandlers[params.Name]
	if !ok {
		return resultResponse(req.ID, errorResult(fmt.Sprintf("unknown tool: %s", params.Name)))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool panicked", "tool", params.Name, "panic", r)
			resp = errorResponse(req.ID, CodeInternalError, fmt.Sprintf("internal error in %s", params.Name))
		}
	}()

	s.logger.Debug("tool call", "tool", params.Name)
	return resultResponse(req.ID, handler(ctx, s, params.Arguments))
}

func (s *Server) writeResponse(w io.Writer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "err", err)
		return
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write response", "err", err)
	}
}
