package validation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/lexical"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

// MinAcceptableOverall is the overall score a recovery tier must reach
// before its result is used.
const MinAcceptableOverall = 30

const (
	ruleReviewScore = 50
	ruleNoGoScore   = 25
)

type tierFunc func(ctx context.Context, in idea.Input) (Result, error)

type tier struct {
	name Tier
	run  tierFunc
}

// Fallback runs the recovery tiers in order until one produces an
// acceptable result. The last tier always does.
type Fallback struct {
	tiers  []tier
	log    *zap.Logger
	tracer trace.Tracer
}

func newFallback(log *zap.Logger, tracer trace.Tracer, tiers []tier) *Fallback {
	return &Fallback{tiers: tiers, log: log, tracer: tracer}
}

func (o *Orchestrator) defaultTiers() []tier {
	return []tier{
		{TierFeatureGroup, func(ctx context.Context, in idea.Input) (Result, error) {
			return o.execute(ctx, in.Minimal(), pass{caps: true})
		}},
		{TierSimplifiedModel, func(ctx context.Context, in idea.Input) (Result, error) {
			return o.execute(ctx, in, pass{strategy: genericStrategy{}, internalMarket: true, baseWeights: true, caps: true})
		}},
		{TierRuleBased, func(_ context.Context, in idea.Input) (Result, error) {
			return ruleBased(in), nil
		}},
	}
}

// Recover never fails. cause is the error that sent the call here.
func (f *Fallback) Recover(ctx context.Context, in idea.Input, cause error) Result {
	ctx, span := f.tracer.Start(ctx, "fallback")
	defer span.End()

	meta := &FallbackMeta{Error: errString(cause)}
	for i, t := range f.tiers {
		last := i == len(f.tiers)-1
		res, err := f.try(ctx, t, in)
		attempt := TierAttempt{Tier: t.name, Overall: res.Scores.Overall, Error: errString(err)}
		if err == nil && (last || acceptable(res)) {
			attempt.Accepted = true
			meta.Tier = t.name
			meta.Attempts = append(meta.Attempts, attempt)
			res.Meta.Fallback = meta
			span.SetAttributes(attribute.String("tier", string(t.name)))
			f.log.Warn("fallback tier accepted", zap.String("tier", string(t.name)),
				zap.Int("overall", res.Scores.Overall), zap.Int("attempts", len(meta.Attempts)))
			return res
		}
		meta.Attempts = append(meta.Attempts, attempt)
		f.log.Warn("fallback tier rejected", zap.String("tier", string(t.name)),
			zap.Int("overall", res.Scores.Overall), zap.Error(err))
	}
	res := ruleBased(in)
	meta.Tier = TierRuleBased
	res.Meta.Fallback = meta
	return res
}

func (f *Fallback) try(ctx context.Context, t tier, in idea.Input) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("tier %s panicked: %v", t.name, r)
		}
	}()
	return t.run(ctx, in)
}

// acceptable accepts a result that scored at least MinAcceptableOverall or
// carries no dimension scores at all.
func acceptable(res Result) bool {
	return len(res.Scores.Dimensions) == 0 || res.Scores.Overall >= MinAcceptableOverall
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var (
	ruleNegative = lexical.MustCompile(
		lexical.Lit("no customers", 1, "no customers identified"),
		lexical.Lit("nobody", 1, "no demand described"),
		lexical.Lit("no one wants", 1, "no demand described"),
		lexical.Lit("get rich quick", 1, "speculative get-rich-quick framing"),
		lexical.Lit("pyramid", 1, "pyramid scheme"),
	)
	rulePositive = lexical.MustCompile(
		lexical.Lit("problem", 1, ""), lexical.Lit("pain", 1, ""), lexical.Lit("customers", 1, ""),
		lexical.Lit("pay", 1, ""), lexical.Lit("revenue", 1, ""), lexical.Lit("subscription", 1, ""),
		lexical.Lit("sell", 1, ""), lexical.Lit("market", 1, ""), lexical.Lit("save", 1, ""),
		lexical.Re(`\$\d`, 1, ""),
	)
)

// ruleBased is keyword rules with fixed scores. It is total over all
// inputs, including the empty string.
func ruleBased(in idea.Input) Result {
	text := in.Text()
	status, overall := scoring.StatusNoGo, ruleNoGoScore
	reason := "Too little usable signal to validate; recovered with keyword rules."
	var risks []string

	prohibited, illegal := lexical.Prohibited().Matches(text)
	negative, hasNegative := ruleNegative.Matches(text)
	positive, _ := rulePositive.Score(text)
	switch {
	case illegal:
		risks = append(risks, "Prohibited activity: "+prohibited.Reason)
	case hasNegative:
		risks = append(risks, "Keyword rules flagged: "+negative.Reason)
	case positive >= 2:
		status, overall = scoring.StatusReview, ruleReviewScore
		reason = "Detailed analysis failed; keyword rules found enough commercial signal to warrant review."
	}
	risks = append(risks, "Verdict produced by keyword rules after the full analysis failed; re-run for a complete assessment")

	dims := make(map[scoring.Dimension]float64, len(scoring.BaseDimensions))
	for _, d := range scoring.BaseDimensions {
		dims[d] = float64(overall) / 10
	}
	return Result{
		Status:       status,
		Scores:       scoring.ComputedScores{Dimensions: dims, Overall: overall},
		Highlights:   []string{},
		Risks:        risks,
		TargetMarket: in.TargetCustomer,
		ValueProp:    valueProp(in),
		Meta: Meta{
			Strategy:   string(TierRuleBased),
			Reasoning:  reason,
			Thresholds: scoring.DefaultThresholds,
		},
	}
}
