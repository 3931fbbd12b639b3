package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/consensus"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/report"
	"github.com/joelkehle/ideavalidation/internal/store"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

// ValidateTool handles validate_idea.
type ValidateTool struct {
	v   Validator
	log *zap.Logger
}

func NewValidateTool(v Validator, log *zap.Logger) *ValidateTool {
	return &ValidateTool{v: v, log: log}
}

func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_idea",
		mcp.WithDescription("Score a business idea and return a GO / REVIEW / NO-GO verdict with dimension scores, risks and highlights."),
		mcp.WithString("idea",
			mcp.Required(),
			mcp.Description("Free-text description of the business idea"),
		),
		mcp.WithString("target_customer",
			mcp.Description("Who buys the product"),
		),
		mcp.WithString("value_proposition",
			mcp.Description("Why they would buy it"),
		),
		mcp.WithString("signals",
			mcp.Description(`Optional JSON object of structured signals, e.g. {"price_usd": 49, "cac_usd": 120, "ltv_usd": 900, "has_prototype": true}`),
		),
		mcp.WithString("format",
			mcp.Description("markdown (default) or json"),
		),
	)
}

func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("idea", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'idea' is required"), nil
	}
	var in idea.Input
	if raw := req.GetString("signals", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid signals JSON: %v", err)), nil
		}
	}
	in.IdeaText = text
	if s := req.GetString("target_customer", ""); s != "" {
		in.TargetCustomer = s
	}
	if s := req.GetString("value_proposition", ""); s != "" {
		in.ValueProposition = s
	}
	if t.v == nil {
		return mcp.NewToolResultError("validator not configured"), nil
	}

	res, err := t.v.Validate(ctx, in, validation.Options{})
	if err != nil {
		var cv *consensus.ConsistencyViolation
		if errors.As(err, &cv) {
			t.log.Error("consensus weights misconfigured", zap.Error(err))
		}
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}

	if req.GetString("format", "markdown") == "json" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(report.Markdown(res)), nil
}

// PivotsTool handles suggest_pivots.
type PivotsTool struct {
	engine *pivot.Engine
}

func NewPivotsTool(e *pivot.Engine) *PivotsTool {
	return &PivotsTool{engine: e}
}

func (t *PivotsTool) Definition() mcp.Tool {
	return mcp.NewTool("suggest_pivots",
		mcp.WithDescription("Suggest up to four adjacent business concepts that score meaningfully higher than the current idea."),
		mcp.WithString("idea",
			mcp.Required(),
			mcp.Description("Free-text description of the business idea"),
		),
		mcp.WithNumber("current_score",
			mcp.Required(),
			mcp.Description("Current overall score, 0-100"),
		),
		mcp.WithString("business_model",
			mcp.Description("Override the detected business model, e.g. saas_b2b, marketplace, physical_product"),
		),
		mcp.WithString("skills",
			mcp.Description("Comma separated founder skills used to rank options"),
		),
		mcp.WithString("interests",
			mcp.Description("Comma separated founder interests"),
		),
	)
}

func (t *PivotsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("idea", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'idea' is required"), nil
	}
	score := req.GetFloat("current_score", -1)
	if score < 0 || score > 100 {
		return mcp.NewToolResultError("'current_score' must be between 0 and 100"), nil
	}
	r := pivot.Request{
		IdeaText:              text,
		CurrentScore:          score,
		BusinessModelOverride: req.GetString("business_model", ""),
	}
	skills := splitList(req.GetString("skills", ""))
	interests := splitList(req.GetString("interests", ""))
	if len(skills) > 0 || len(interests) > 0 {
		r.UserProfile = &pivot.UserProfile{Skills: skills, Interests: interests}
	}
	return mcp.NewToolResultText(report.PivotsMarkdown(t.engine.Suggest(r))), nil
}

// HistoryTool handles validation_history.
type HistoryTool struct {
	h History
}

func NewHistoryTool(h History) *HistoryTool {
	return &HistoryTool{h: h}
}

func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("validation_history",
		mcp.WithDescription("List recent validation runs, or show the full report of one run."),
		mcp.WithString("run_id",
			mcp.Description("Show the report for this run instead of listing"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by verdict: GO, REVIEW or NO-GO"),
		),
		mcp.WithString("business_model",
			mcp.Description("Filter by detected business model"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}

func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.h == nil {
		return mcp.NewToolResultError("validation history is disabled"), nil
	}
	if id := req.GetString("run_id", ""); id != "" {
		_, res, err := t.h.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no run with id %s", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load run: %v", err)), nil
		}
		return mcp.NewToolResultText(report.Markdown(res)), nil
	}

	recs, err := t.h.List(ctx, store.Filter{
		Status:        strings.ToUpper(req.GetString("status", "")),
		BusinessModel: req.GetString("business_model", ""),
		Limit:         intArg(req, "limit", store.DefaultListLimit),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list runs: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("No validation runs recorded."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d runs:\n\n", len(recs))
	for _, r := range recs {
		fmt.Fprintf(&b, "- `%s` %s **%s** %d/100 %s: %s\n", r.RunID, r.CreatedAt, r.Status, r.Overall, r.BusinessModel, truncate(r.IdeaText, 80))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
