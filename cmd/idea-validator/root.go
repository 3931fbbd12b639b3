package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joelkehle/ideavalidation/internal/config"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/logging"
	"github.com/joelkehle/ideavalidation/internal/market"
	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/store"
	"github.com/joelkehle/ideavalidation/internal/tracing"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	shutdown tracing.Shutdown

	configPath string
	logLevel   string
	dbPath     string
	noHistory  bool

	history *store.SQLiteStore
}

// newRootCmd returns the command tree and the app whose close must run after
// Execute, including when a subcommand fails.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "idea-validator",
		Short:         "Validate business ideas with explainable GO / REVIEW / NO-GO verdicts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (env IDEAVAL_* overrides)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite history path (default from store.path)")
	root.PersistentFlags().BoolVar(&a.noHistory, "no-history", false, "do not open or write the history database")

	root.AddCommand(
		newValidateCmd(a),
		newBatchCmd(a),
		newPivotsCmd(a),
		newHistoryCmd(a),
		newMCPCmd(a),
	)
	return root, a
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.dbPath != "" {
		cfg.Store.Path = a.dbPath
	}
	a.cfg = cfg

	a.log, err = logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.shutdown, err = tracing.Setup(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}
	return nil
}

func (a *app) close() error {
	var firstErr error
	if a.history != nil {
		firstErr = a.history.Close()
		a.history = nil
	}
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil && a.log != nil {
			a.log.Warn("tracing shutdown failed", zap.Error(err))
		}
		a.shutdown = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return firstErr
}

// openHistory returns nil when history is disabled.
func (a *app) openHistory() (*store.SQLiteStore, error) {
	if a.noHistory {
		return nil, nil
	}
	if a.history != nil {
		return a.history, nil
	}
	s, err := store.NewSQLiteStore(a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", a.cfg.Store.Path, err)
	}
	a.history = s
	return s, nil
}

func (a *app) gatherer() *market.Gatherer {
	gc := market.GathererConfig{Timeout: a.cfg.Market.Timeout, Logger: a.log}
	if a.cfg.Research.Enabled {
		p, err := market.NewAnthropicProviderFromEnv(a.cfg.Research.Model)
		if err != nil {
			a.log.Warn("market research disabled", zap.Error(err))
		} else {
			gc.Provider = p
			a.log.Debug("market research enabled", zap.String("provider", p.Name()))
		}
	}
	return market.NewGatherer(gc)
}

func (a *app) orchestrator() (*validation.Orchestrator, error) {
	vc := validation.Config{
		Gatherer:          a.gatherer(),
		Pivots:            pivot.NewEngine(),
		Logger:            a.log,
		CompositeDetector: a.cfg.Features.CompositeDetector,
		Consensus:         a.cfg.Features.Consensus,
		FalsePositive:     a.cfg.Features.FalsePositive,
		ConsensusWeights:  a.cfg.Consensus.Weights,
	}
	h, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	if h != nil {
		vc.Recorder = h
	}
	return validation.NewOrchestrator(vc)
}

// prepare applies configured defaults the caller left unset.
func (a *app) prepare(in idea.Input) idea.Input {
	if in.MarketDataWeight == nil && a.cfg.Market.DataWeight > 0 {
		in.MarketDataWeight = idea.Float(a.cfg.Market.DataWeight)
	}
	return in
}
