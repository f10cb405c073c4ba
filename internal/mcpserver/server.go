// Package mcpserver exposes match analysis as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/metrics"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/passes"
	"github.com/pable/go-sb-networks/internal/report"
)

// Store is the subset of storage the tools need.
type Store interface {
	InsertAnalysis(res *analysis.Result) error
	LatestAnalysis(matchID int64) (*model.AnalysisSummary, error)
	LoadResult(runID string) (*analysis.Result, error)
}

// Deps carries everything the tool handlers use.
type Deps struct {
	Source     analysis.EventSource
	Store      Store
	Thresholds passes.Thresholds
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Server wraps the MCP server and its tools.
type Server struct {
	mcp  *mcp.Server
	deps Deps
}

type AnalyzeMatchArgs struct {
	MatchID int64 `json:"match_id" jsonschema:"StatsBomb match id (required)"`
	Force   bool  `json:"force,omitempty" jsonschema:"Re-run even when a stored analysis exists"`
}

type GetAnalysisArgs struct {
	MatchID int64 `json:"match_id" jsonschema:"StatsBomb match id (required)"`
}

var errNoAnalysis = errors.New("no stored analysis")

// New creates the server and registers its tools.
func New(version string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		mcp:  mcp.NewServer(&mcp.Implementation{Name: "sbnet", Version: version}, nil),
		deps: deps,
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_match",
		Description: "Build pass, duel and shot-proximity networks for a match and return them with the optimal attacker/defender matching",
	}, s.analyzeMatch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_analysis",
		Description: "Return the most recent stored analysis of a match",
	}, s.getAnalysis)

	return s
}

// MCPServer returns the underlying server, for custom transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) analyzeMatch(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeMatchArgs) (*mcp.CallToolResult, any, error) {
	if args.MatchID <= 0 {
		return toolError(fmt.Errorf("match_id is required")), nil, nil
	}
	if !args.Force {
		res, err := s.latest(args.MatchID)
		if err == nil {
			return toolJSON(res)
		}
		if !errors.Is(err, errNoAnalysis) {
			return toolError(err), nil, nil
		}
	}

	res, err := analysis.Analyze(ctx, s.deps.Source, args.MatchID, s.deps.Thresholds,
		analysis.WithLogger(s.deps.Logger), analysis.WithMetrics(s.deps.Metrics))
	if err != nil {
		s.deps.Logger.Error("analysis failed", "match_id", args.MatchID, "error", err)
		return toolError(err), nil, nil
	}
	if err := s.deps.Store.InsertAnalysis(res); err != nil {
		return toolError(fmt.Errorf("store analysis: %w", err)), nil, nil
	}
	return toolJSON(res)
}

func (s *Server) getAnalysis(ctx context.Context, req *mcp.CallToolRequest, args GetAnalysisArgs) (*mcp.CallToolResult, any, error) {
	if args.MatchID <= 0 {
		return toolError(fmt.Errorf("match_id is required")), nil, nil
	}
	res, err := s.latest(args.MatchID)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(res)
}

func (s *Server) latest(matchID int64) (*analysis.Result, error) {
	sum, err := s.deps.Store.LatestAnalysis(matchID)
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	if sum == nil {
		return nil, fmt.Errorf("%w for match %d", errNoAnalysis, matchID)
	}
	res, err := s.deps.Store.LoadResult(sum.RunID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", sum.RunID, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w for match %d", errNoAnalysis, matchID)
	}
	return res, nil
}

func toolJSON(res *analysis.Result) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(report.NewView(res))
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
