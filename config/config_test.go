package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, BatchPolicy, cfg.Runner.Policy)
	assert.Equal(t, DefaultBatchSize, cfg.Runner.BatchSize)
	assert.Equal(t, DefaultBatchDelay, cfg.Runner.BatchDelay)
	assert.Equal(t, DefaultBatchSize, cfg.Runner.WindowLimit)
	assert.Equal(t, DefaultWindowDelay, cfg.Runner.WindowDelay)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.GracePeriod)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Runner: RunnerConfig{
		Policy:     WindowPolicy,
		BatchSize:  12,
		BatchDelay: time.Second,
	}}
	cfg.ApplyDefaults()

	assert.Equal(t, WindowPolicy, cfg.Runner.Policy)
	assert.Equal(t, 12, cfg.Runner.BatchSize)
	assert.Equal(t, time.Second, cfg.Runner.BatchDelay)
	assert.Equal(t, 12, cfg.Runner.WindowLimit, "window limit falls back to the batch size")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Runner: RunnerConfig{Policy: BatchPolicy},
		Scorer: ScorerConfig{RequestURL: "http://localhost:8080/v1/chat/completions"},
		Writer: WriterConfig{Sinks: []SinkConfig{{Backend: BackendFile, Dir: "out"}}},
	}
	require.NoError(t, valid.Validate())

	badPolicy := valid
	badPolicy.Runner.Policy = "adaptive"
	assert.ErrorContains(t, badPolicy.Validate(), "unknown runner policy")

	noURL := valid
	noURL.Scorer.RequestURL = ""
	assert.ErrorContains(t, noURL.Validate(), "request_url")

	badSink := valid
	badSink.Writer.Sinks = []SinkConfig{{Backend: "s3"}}
	assert.ErrorContains(t, badSink.Validate(), "unknown sink backend")
}

func TestLoadFromYAML(t *testing.T) {
	raw := `
source:
  host: ch.internal
  port: "9000"
  database: qa
  table: records
  select_retries: 2
scorer:
  request_url: http://provider.internal/v1/chat/completions
  model: scorer-large
  temperature: 0.2
runner:
  policy: window
  batch_size: 5
  window_limit: 8
  circuit_breaker:
    enabled: true
    consecutive_failure: 5
writer:
  sinks:
    - backend: clickhouse
      host: ch.internal
      port: "9000"
      database: qa
      outcome_table: outcomes
      summary_table: summaries
    - backend: file
      dir: reports
log:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadFromYAML(path)
	require.NoError(t, err)

	assert.Equal(t, "ch.internal", cfg.Source.Host)
	assert.Equal(t, 2, cfg.Source.SelectRetries)
	assert.Equal(t, "scorer-large", cfg.Scorer.Model)
	assert.Equal(t, 0.2, cfg.Scorer.Temperature)
	assert.Equal(t, WindowPolicy, cfg.Runner.Policy)
	assert.Equal(t, 8, cfg.Runner.WindowLimit)
	assert.True(t, cfg.Runner.CircuitBreaker.Enabled)
	assert.Equal(t, uint32(5), cfg.Runner.CircuitBreaker.ConsecutiveFailure)
	require.Len(t, cfg.Writer.Sinks, 2)
	assert.Equal(t, BackendClickhouse, cfg.Writer.Sinks[0].Backend)
	assert.Equal(t, "reports", cfg.Writer.Sinks[1].Dir)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
}
