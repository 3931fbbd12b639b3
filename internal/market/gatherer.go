package market

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/dna"
)

const DefaultTimeout = 8500 * time.Millisecond

type GathererConfig struct {
	Provider Provider
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Gatherer is safe for concurrent use; the provider is fixed at
// construction.
type Gatherer struct {
	provider Provider
	timeout  time.Duration
	log      *zap.Logger
	lookup   func(industry string) Intelligence
}

func NewGatherer(cfg GathererConfig) *Gatherer {
	g := &Gatherer{
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		log:      cfg.Logger,
		lookup:   ForIndustry,
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	return g
}

// HasProvider reports whether an external provider was configured.
func (g *Gatherer) HasProvider() bool { return g != nil && g.provider != nil }

// Gather never fails: provider problems fall back to the internal dataset
// and any panic yields the generic fallback dataset.
func (g *Gatherer) Gather(ctx context.Context, text string, d dna.BusinessDNA) (mi Intelligence) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("market gather panicked", zap.Any("panic", r), zap.String("industry", d.Industry))
			mi = Fallback()
		}
	}()

	mi = g.lookup(d.Industry)
	if g.provider != nil {
		req := Request{
			IdeaText:      text,
			Industry:      d.Industry,
			SubIndustry:   d.SubIndustry,
			BusinessModel: d.BusinessModel,
			CustomerType:  d.CustomerType,
			Scale:         d.Scale,
		}
		if res, err := g.research(ctx, req); err != nil {
			g.log.Warn("market provider unavailable, using internal dataset",
				zap.Error(err), zap.String("industry", d.Industry), zap.Duration("timeout", g.timeout))
		} else {
			mi = res
		}
	}
	return applyDensity(mi, text, d)
}

type researchResult struct {
	mi  Intelligence
	err error
}

func (g *Gatherer) research(ctx context.Context, req Request) (Intelligence, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ch := make(chan researchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- researchResult{err: &ProviderError{Provider: providerName(g.provider), Err: fmt.Errorf("panic: %v", r)}}
			}
		}()
		mi, err := g.provider.Research(ctx, req)
		ch <- researchResult{mi: mi, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return Intelligence{}, res.err
		}
		if err := res.mi.Validate(); err != nil {
			return Intelligence{}, &ProviderError{Provider: providerName(g.provider), Err: err}
		}
		mi := res.mi.clone()
		mi.Source = SourceProvider
		return mi, nil
	case <-ctx.Done():
		return Intelligence{}, &ProviderError{Provider: providerName(g.provider), Err: ctx.Err()}
	}
}

func providerName(p Provider) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}
