// Package mcpserver exposes idea validation as MCP tools over stdio.
//
// Each tool is a struct holding its dependencies, with Definition returning
// the schema and Handle serving calls. Tool failures are returned as error
// results, never as protocol errors.
package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/store"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

// Version is set at build time via ldflags.
var Version = "dev"

type Validator interface {
	Validate(ctx context.Context, in idea.Input, opts validation.Options) (validation.Result, error)
}

// History is the read side of the validation store.
type History interface {
	List(ctx context.Context, f store.Filter) ([]store.Record, error)
	Get(ctx context.Context, runID string) (idea.Input, validation.Result, error)
}

type Deps struct {
	Validator Validator
	Pivots    *pivot.Engine
	// History may be nil; validation_history then reports it is disabled.
	History History
	Logger  *zap.Logger
}

func New(d Deps) *server.MCPServer {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Pivots == nil {
		d.Pivots = pivot.NewEngine()
	}
	s := server.NewMCPServer(
		"idea-validator",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	validate := NewValidateTool(d.Validator, d.Logger)
	s.AddTool(validate.Definition(), validate.Handle)

	pivots := NewPivotsTool(d.Pivots)
	s.AddTool(pivots.Definition(), pivots.Handle)

	history := NewHistoryTool(d.History)
	s.AddTool(history.Definition(), history.Handle)

	return s
}

// Serve blocks on the stdio transport until stdin closes.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = "Validate business ideas. Call validate_idea with the idea text " +
	"and any known signals to get a GO / REVIEW / NO-GO verdict with scores and risks. " +
	"For weak ideas call suggest_pivots with the overall score. " +
	"validation_history lists earlier runs."

// splitList parses a comma separated argument.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
