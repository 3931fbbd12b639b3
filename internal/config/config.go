// Package config loads idea-validator settings from an optional YAML file
// and IDEAVAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joelkehle/ideavalidation/internal/logging"
	"github.com/joelkehle/ideavalidation/internal/market"
)

const EnvPrefix = "IDEAVAL"

const (
	DefaultStorePath        = "idea-validator.db"
	DefaultServiceName      = "idea-validator"
	DefaultBatchConcurrency = 4
)

type Config struct {
	Log       logging.Config  `mapstructure:"log"`
	Market    MarketConfig    `mapstructure:"market"`
	Research  ResearchConfig  `mapstructure:"research"`
	Features  FeaturesConfig  `mapstructure:"features"`
	Consensus ConsensusConfig `mapstructure:"consensus"`
	Store     StoreConfig     `mapstructure:"store"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

type MarketConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	// DataWeight applies to inputs that do not set market_data_weight.
	// Zero leaves the input untouched.
	DataWeight float64 `mapstructure:"data_weight"`
}

// ResearchConfig controls the external market research provider. The API
// key itself is only read from ANTHROPIC_API_KEY.
type ResearchConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

type FeaturesConfig struct {
	CompositeDetector bool `mapstructure:"composite_detector"`
	Consensus         bool `mapstructure:"consensus"`
	FalsePositive     bool `mapstructure:"false_positive"`
}

type ConsensusConfig struct {
	Weights map[string]float64 `mapstructure:"weights"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv can see it during
// Unmarshal, even when no file mentions it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("market.timeout", market.DefaultTimeout)
	v.SetDefault("market.data_weight", 0.0)
	v.SetDefault("research.enabled", false)
	v.SetDefault("research.model", market.DefaultResearchModel)
	v.SetDefault("features.composite_detector", true)
	v.SetDefault("features.consensus", true)
	v.SetDefault("features.false_positive", true)
	v.SetDefault("store.path", DefaultStorePath)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", DefaultServiceName)
	v.SetDefault("batch.concurrency", DefaultBatchConcurrency)
}

// Load reads path (when non-empty) and overlays the environment.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values left by a sparse file.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Market.Timeout <= 0 {
		cfg.Market.Timeout = market.DefaultTimeout
	}
	if cfg.Research.Model == "" {
		cfg.Research.Model = market.DefaultResearchModel
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultServiceName
	}
	if cfg.Batch.Concurrency <= 0 {
		cfg.Batch.Concurrency = DefaultBatchConcurrency
	}
}

var errConfig = errors.New("config: invalid")

func Validate(cfg *Config) error {
	if cfg.Market.DataWeight < 0 || cfg.Market.DataWeight > 1 {
		return fmt.Errorf("%w: market.data_weight %.2f outside [0,1]", errConfig, cfg.Market.DataWeight)
	}
	if cfg.Batch.Concurrency > 64 {
		return fmt.Errorf("%w: batch.concurrency %d exceeds 64", errConfig, cfg.Batch.Concurrency)
	}
	if len(cfg.Consensus.Weights) > 0 {
		sum := 0.0
		for k, w := range cfg.Consensus.Weights {
			if w < 0 {
				return fmt.Errorf("%w: consensus weight %s is negative", errConfig, k)
			}
			sum += w
		}
		if math.Abs(sum-1) > 1e-6 {
			return fmt.Errorf("%w: consensus weights sum to %.3f, want 1", errConfig, sum)
		}
	}
	return nil
}

// IsInvalid reports whether err came from Validate.
func IsInvalid(err error) bool { return errors.Is(err, errConfig) }
