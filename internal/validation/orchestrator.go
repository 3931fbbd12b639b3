package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/archetype"
	"github.com/joelkehle/ideavalidation/internal/composite"
	"github.com/joelkehle/ideavalidation/internal/consensus"
	"github.com/joelkehle/ideavalidation/internal/dna"
	"github.com/joelkehle/ideavalidation/internal/falsepositive"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/scoring"
)

const tracerName = "github.com/joelkehle/ideavalidation/internal/validation"

// Consensus provider names.
const (
	ProviderScoring        = "scoring"
	ProviderMarket         = "market"
	ProviderClassification = "classification"
)

var DefaultConsensusWeights = map[string]float64{
	ProviderScoring:        0.6,
	ProviderMarket:         0.25,
	ProviderClassification: 0.15,
}

var defaultCalibrations = map[string]consensus.Calibration{
	ProviderScoring:        {Min: 0, Max: 100, Reliability: 0.9},
	ProviderMarket:         {Min: 0, Max: 10, Reliability: 0.7},
	ProviderClassification: {Min: 0, Max: 1, Reliability: 0.6},
}

// Recorder persists finished results. Errors are logged and never fail a
// validation.
type Recorder interface {
	Record(ctx context.Context, in idea.Input, res Result) error
}

// Config is read once by NewOrchestrator.
type Config struct {
	Gatherer *market.Gatherer
	Pivots   *pivot.Engine
	Recorder Recorder
	Logger   *zap.Logger
	Tracer   trace.Tracer

	CompositeDetector bool
	Consensus         bool
	FalsePositive     bool

	ConsensusWeights map[string]float64
	Calibrations     map[string]consensus.Calibration

	// Strategies overrides the strategy registered for a business model.
	Strategies map[archetype.Type]Strategy
}

type Orchestrator struct {
	gatherer   *market.Gatherer
	internal   *market.Gatherer
	pivots     *pivot.Engine
	recorder   Recorder
	log        *zap.Logger
	tracer     trace.Tracer
	composite  *composite.Detector
	strategies map[archetype.Type]Strategy
	generic    Strategy
	fallback   *Fallback

	consensusOn     bool
	falsePositiveOn bool
	weights         map[string]float64
	consensus       *consensus.Engine

	newID func() string
	now   func() time.Time
}

func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	o := &Orchestrator{
		gatherer:        cfg.Gatherer,
		pivots:          cfg.Pivots,
		recorder:        cfg.Recorder,
		log:             cfg.Logger,
		tracer:          cfg.Tracer,
		strategies:      defaultStrategies(),
		generic:         genericStrategy{},
		consensusOn:     cfg.Consensus,
		falsePositiveOn: cfg.FalsePositive,
		newID:           uuid.NewString,
		now:             time.Now,
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	o.internal = market.NewGatherer(market.GathererConfig{Logger: o.log})
	if o.gatherer == nil {
		o.gatherer = o.internal
	}
	if cfg.CompositeDetector {
		o.composite = composite.New()
	}
	for t, s := range cfg.Strategies {
		if s == nil {
			return nil, fmt.Errorf("strategy for %s is nil", t)
		}
		o.strategies[t] = s
	}

	o.weights = DefaultConsensusWeights
	if len(cfg.ConsensusWeights) > 0 {
		o.weights = make(map[string]float64, len(cfg.ConsensusWeights))
		for k, v := range cfg.ConsensusWeights {
			if _, ok := defaultCalibrations[k]; !ok {
				return nil, fmt.Errorf("unknown consensus provider %q", k)
			}
			o.weights[k] = v
		}
	}
	cals := make(map[string]consensus.Calibration, len(defaultCalibrations))
	for k, v := range defaultCalibrations {
		cals[k] = v
	}
	for k, v := range cfg.Calibrations {
		if _, ok := defaultCalibrations[k]; !ok {
			return nil, fmt.Errorf("unknown consensus provider %q", k)
		}
		if v.Max <= v.Min {
			return nil, fmt.Errorf("calibration %s: max %v must exceed min %v", k, v.Max, v.Min)
		}
		cals[k] = v
	}
	o.consensus = consensus.New(cals)
	o.fallback = newFallback(o.log, o.tracer, o.defaultTiers())
	return o, nil
}

// Validate runs the pipeline for one idea. The only error it returns is a
// *consensus.ConsistencyViolation from a misconfigured consensus pass; every
// other failure is recovered into a degraded result.
func (o *Orchestrator) Validate(ctx context.Context, in idea.Input, opts Options) (Result, error) {
	runID := o.newID()
	started := o.now()
	ctx, span := o.tracer.Start(ctx, "validate", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()
	log := o.log.With(zap.String("run_id", runID))

	if r := []rune(in.IdeaText); len(r) > idea.MaxIdeaChars {
		in.IdeaText = string(r[:idea.MaxIdeaChars])
		log.Info("idea text truncated", zap.Int("max_chars", idea.MaxIdeaChars))
	}

	if ec := preRoute(in); ec != nil {
		log.Info("edge case routed", zap.String("kind", string(ec.Kind)))
		span.SetAttributes(attribute.String("edge_case", string(ec.Kind)))
		res := edgeResult(in, *ec)
		o.finish(ctx, log, in, &res, runID, started)
		return res, nil
	}

	res, err := o.execute(ctx, in, pass{caps: !opts.DisableCaps})
	if err != nil {
		log.Warn("primary strategy failed, entering fallback", zap.Error(err))
		span.RecordError(err)
		res = o.fallback.Recover(ctx, in, err)
	}

	if !opts.DisableClamp {
		consensus.Clamp(&res.Scores)
	}

	if o.consensusOn {
		out, err := o.consensusPass(res)
		if err != nil {
			var cv *consensus.ConsistencyViolation
			if errors.As(err, &cv) {
				span.SetStatus(codes.Error, err.Error())
				log.Error("consensus weights inconsistent", zap.Float64("sum", cv.Sum))
				return res, err
			}
			log.Warn("consensus pass skipped", zap.Error(err))
		} else {
			res.Meta.Consensus = &out
		}
	}

	if o.falsePositiveOn {
		rep := falsepositive.Analyze(falsepositive.Inputs{
			Input:    in,
			DNA:      res.Meta.DNA,
			Market:   res.Meta.Market,
			Scores:   res.Scores,
			Decision: decisionOf(res),
		})
		res.Meta.FalsePositive = &rep
	}

	if res.Meta.BusinessModel.PrimaryType != "" && res.Meta.BusinessModel.Confidence < archetype.MinConfidence {
		routeAmbiguous(&res)
		log.Info("edge case routed", zap.String("kind", string(EdgeAmbiguousModel)),
			zap.Float64("confidence", res.Meta.BusinessModel.Confidence))
	}

	o.attachPivots(in, &res)
	span.SetAttributes(attribute.String("status", string(res.Status)), attribute.Int("overall", res.Scores.Overall))
	o.finish(ctx, log, in, &res, runID, started)
	return res, nil
}

func (o *Orchestrator) finish(ctx context.Context, log *zap.Logger, in idea.Input, res *Result, runID string, started time.Time) {
	res.Meta.RunID = runID
	res.Meta.StartedAt = started
	res.Meta.Duration = o.now().Sub(started)
	log.Info("validation complete",
		zap.String("status", string(res.Status)),
		zap.Int("overall", res.Scores.Overall),
		zap.String("business_model", string(res.Meta.BusinessModel.PrimaryType)),
		zap.String("strategy", res.Meta.Strategy),
		zap.Duration("duration", res.Meta.Duration))
	if o.recorder == nil {
		return
	}
	if err := o.recorder.Record(ctx, in, *res); err != nil {
		log.Warn("recording validation failed", zap.Error(err))
	}
}

// pass selects how much of the pipeline one execution uses.
type pass struct {
	strategy       Strategy
	internalMarket bool
	baseWeights    bool
	caps           bool
}

func (o *Orchestrator) execute(ctx context.Context, in idea.Input, p pass) (res Result, err error) {
	name := "dispatch"
	defer func() {
		if r := recover(); r != nil {
			err = &StrategyError{Strategy: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	a := &Analysis{Input: in, Text: in.Text()}
	var hybrids []composite.Hybrid
	var uncertainty *composite.Uncertainty

	_, span := o.tracer.Start(ctx, "classify")
	a.DNA = dna.Classify(a.Text)
	if o.composite != nil {
		cr := o.composite.Analyze(a.Text)
		a.Class, hybrids, uncertainty = cr.Classification, cr.Hybrids, &cr.Uncertainty
	} else {
		a.Class = archetype.Detect(a.Text)
	}
	span.SetAttributes(attribute.String("business_model", string(a.Class.PrimaryType)), attribute.Float64("confidence", a.Class.Confidence))
	span.End()

	strategy := p.strategy
	if strategy == nil {
		strategy = o.strategyFor(a.Class.PrimaryType)
	}
	name = strategy.Name()

	mctx, span := o.tracer.Start(ctx, "market")
	g := o.gatherer
	if p.internalMarket {
		g = o.internal
	}
	a.Market = g.Gather(mctx, a.Text, a.DNA)
	span.SetAttributes(attribute.String("source", a.Market.Source))
	span.End()

	if p.baseWeights {
		a.Weights = scoring.BaseWeights()
	} else {
		a.Weights = scoring.Weights(a.DNA)
	}
	if err := strategy.Prepare(a); err != nil {
		return Result{}, &StrategyError{Strategy: name, Err: err}
	}

	_, span = o.tracer.Start(ctx, "score")
	a.Scores = scoring.Compute(in, a.DNA, a.Market, a.Weights, scoring.Options{EnforceCaps: p.caps})
	span.SetAttributes(attribute.Int("overall", a.Scores.Overall))
	span.End()

	_, span = o.tracer.Start(ctx, "decide")
	a.Decision = scoring.Decide(a.Scores, a.DNA, a.Market, in)
	strategy.Review(a)
	span.SetAttributes(attribute.String("status", string(a.Decision.Status)))
	span.End()

	res = a.result(name)
	res.Meta.Hybrids = hybrids
	res.Meta.Uncertainty = uncertainty
	return res, nil
}

func (o *Orchestrator) strategyFor(t archetype.Type) Strategy {
	if s, ok := o.strategies[t]; ok {
		return s
	}
	return o.generic
}

func (a *Analysis) result(strategy string) Result {
	return Result{
		Status:       a.Decision.Status,
		Scores:       a.Scores,
		Highlights:   a.Decision.Highlights,
		Risks:        a.Decision.Risks,
		TargetMarket: targetMarket(a.Input, a.DNA),
		ValueProp:    valueProp(a.Input),
		Meta: Meta{
			BusinessModel: a.Class,
			DNA:           a.DNA,
			Strategy:      strategy,
			Weighting:     scoring.DescribeStrategy(a.DNA, a.Weights),
			Market:        a.Market,
			Reasoning:     a.Decision.Reasoning,
			KillFlags:     a.Decision.KillFlags,
			Thresholds:    a.Decision.Thresholds,
		},
	}
}

func targetMarket(in idea.Input, d dna.BusinessDNA) string {
	if s := strings.TrimSpace(in.TargetCustomer); s != "" {
		return s
	}
	return fmt.Sprintf("%s %s customers in %s (%s scale)",
		strings.ToUpper(d.CustomerType), strings.ReplaceAll(d.SubIndustry, "_", " "), strings.ReplaceAll(d.Industry, "_", " "), d.Scale)
}

func valueProp(in idea.Input) string {
	if s := strings.TrimSpace(in.ValueProposition); s != "" {
		return s
	}
	s := strings.TrimSpace(in.IdeaText)
	if i := strings.IndexAny(s, ".!?\n"); i > 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > 160 {
		s = string(r[:157]) + "..."
	}
	return s
}

func decisionOf(res Result) scoring.Decision {
	return scoring.Decision{
		Status:     res.Status,
		Reasoning:  res.Meta.Reasoning,
		Risks:      res.Risks,
		Highlights: res.Highlights,
		KillFlags:  res.Meta.KillFlags,
		Thresholds: res.Meta.Thresholds,
	}
}

// consensusPass reconciles the overall score, the market-quality dimension
// and the classification confidence.
func (o *Orchestrator) consensusPass(res Result) (consensus.Outcome, error) {
	mq, ok := res.Scores.Get(scoring.MarketQuality)
	if !ok {
		mq = idea.Neutral()
	}
	results := []consensus.ProviderResult{
		{Provider: ProviderScoring, Score: float64(res.Scores.Overall)},
		{Provider: ProviderMarket, Score: mq},
		{Provider: ProviderClassification, Score: res.Meta.BusinessModel.Confidence},
	}
	return o.consensus.EnsureConsistency(results, o.weights)
}

func (o *Orchestrator) attachPivots(in idea.Input, res *Result) {
	if o.pivots == nil || res.Status == scoring.StatusGo || res.Meta.BusinessModel.PrimaryType == "" {
		return
	}
	current := float64(res.Scores.Overall)
	scores := o.pivots.Recommend(in.IdeaText, current, res.Meta.BusinessModel, nil)
	res.Pivots = pivot.Snapshots(scores)
	res.Meta.Issues = pivot.ValidateCompatibility(res.Meta.BusinessModel, scores, current)
}
