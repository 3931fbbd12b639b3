package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/ideavalidation/internal/market"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, market.DefaultTimeout, cfg.Market.Timeout)
	assert.Equal(t, market.DefaultResearchModel, cfg.Research.Model)
	assert.False(t, cfg.Research.Enabled)
	assert.True(t, cfg.Features.CompositeDetector)
	assert.True(t, cfg.Features.Consensus)
	assert.True(t, cfg.Features.FalsePositive)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultServiceName, cfg.Tracing.ServiceName)
	assert.Equal(t, DefaultBatchConcurrency, cfg.Batch.Concurrency)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
market:
  timeout: 3s
  data_weight: 0.4
features:
  consensus: false
consensus:
  weights:
    scoring: 0.5
    market: 0.3
    classification: 0.2
store:
  path: /tmp/history.db
`)
	t.Setenv("IDEAVAL_BATCH_CONCURRENCY", "8")
	t.Setenv("IDEAVAL_RESEARCH_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.Market.Timeout)
	assert.Equal(t, 0.4, cfg.Market.DataWeight)
	assert.False(t, cfg.Features.Consensus)
	assert.True(t, cfg.Features.FalsePositive)
	assert.Equal(t, 0.3, cfg.Consensus.Weights["market"])
	assert.Equal(t, "/tmp/history.db", cfg.Store.Path)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.True(t, cfg.Research.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		bad  bool
	}{
		{"defaults", func(*Config) {}, false},
		{"data weight above one", func(c *Config) { c.Market.DataWeight = 1.5 }, true},
		{"negative data weight", func(c *Config) { c.Market.DataWeight = -0.1 }, true},
		{"too much concurrency", func(c *Config) { c.Batch.Concurrency = 100 }, true},
		{"weights off by a lot", func(c *Config) { c.Consensus.Weights = map[string]float64{"scoring": 0.5, "market": 0.2} }, true},
		{"negative weight", func(c *Config) { c.Consensus.Weights = map[string]float64{"scoring": 1.2, "market": -0.2} }, true},
		{"weights sum to one", func(c *Config) { c.Consensus.Weights = map[string]float64{"scoring": 0.7, "market": 0.3} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			ApplyDefaults(cfg)
			tt.mut(cfg)
			err := Validate(cfg)
			if tt.bad {
				require.Error(t, err)
				assert.True(t, IsInvalid(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeFile(t, "market:\n  data_weight: 2\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}
