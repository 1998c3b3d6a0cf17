// Package config provides a way to configure the application.
package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type RunPolicy string

const (
	// BatchPolicy processes records in fixed-size groups with a full
	// barrier and a pacing delay between groups.
	BatchPolicy RunPolicy = "batch"
	// WindowPolicy keeps a bounded in-flight set and drains it whenever
	// the limit is reached, with a shorter pacing delay between drains.
	WindowPolicy RunPolicy = "window"
)

const (
	DefaultBatchSize   = 5
	DefaultBatchDelay  = 2000 * time.Millisecond
	DefaultWindowDelay = 500 * time.Millisecond
)

type Config struct {
	// Settings related to the source - the component that retrieves records from the database
	Source SourceConfig `yaml:"source" env:", prefix=SOURCE_"`
	// Configuration of interaction between the runner and the scoring model provider
	Scorer ScorerConfig `yaml:"scorer" env:", prefix=SCORER_"`
	// Settings related to the runner - the component that drives batches of scoring calls
	Runner RunnerConfig `yaml:"runner" env:", prefix=RUNNER_"`
	// Settings related to the writer - the component that persists the final report
	Writer WriterConfig `yaml:"writer" env:", prefix=WRITER_"`
	// Logger configuration
	Log LogConfig `yaml:"log" env:", prefix=LOG_"`
	// Graceful shutdown logic configuration
	Shutdown ShutdownConfig `yaml:"shutdown" env:", prefix=SHUTDOWN_"`
}

type DatabaseCredentials struct {
	Username string `yaml:"username" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
}

type SourceConfig struct {
	Host     string `yaml:"host"     env:"HOST"`
	Port     string `yaml:"port"     env:"PORT"`
	Database string `yaml:"database" env:"DB"`
	Table    string `yaml:"table"    env:"TABLE"`
	// Should be set with env vars
	Credentials DatabaseCredentials `yaml:"credentials" env:", prefix="`
	// Number of additional attempts to select the record set
	SelectRetries int `yaml:"select_retries" env:"SELECT_RETRIES"`
}

type ScorerConfig struct {
	RequestURL string `yaml:"request_url" env:"REQUEST_URL"`
	Model      string `yaml:"model"       env:"MODEL"`
	APIKey     string `yaml:"api_key"     env:"API_KEY"`
	// Zero disables the per-call timeout
	Timeout     time.Duration `yaml:"timeout"     env:"TIMEOUT"`
	Temperature float64       `yaml:"temperature" env:"TEMPERATURE"`
}

type CircuitBreakerConfig struct {
	Enabled                 bool          `yaml:"enabled"                    env:"ENABLE"`
	MaxRequests             uint32        `yaml:"max_requests"               env:"MAX_REQUESTS"`
	ConsecutiveFailure      uint32        `yaml:"consecutive_failure"        env:"CONSECUTIVE_FAILURE"`
	TotalFailurePerInterval uint32        `yaml:"total_failure_per_interval" env:"TOTAL_FAILURE_PER_INTERVAL"`
	Interval                time.Duration `yaml:"interval"                   env:"INTERVAL"`
	Timeout                 time.Duration `yaml:"timeout"                    env:"TIMEOUT"`
}

type RunnerConfig struct {
	Policy     RunPolicy     `yaml:"policy"      env:"POLICY"`
	BatchSize  int           `yaml:"batch_size"  env:"BATCH_SIZE"`
	BatchDelay time.Duration `yaml:"batch_delay" env:"BATCH_DELAY"`

	// Sliding-window policy specific configuration
	WindowLimit int           `yaml:"window_limit" env:"WINDOW_LIMIT"`
	WindowDelay time.Duration `yaml:"window_delay" env:"WINDOW_DELAY"`

	// Circuit breaker can be configured to prevent the runner from
	// hammering the provider after a streak of failed scoring calls.
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker" env:", prefix=CB_"`
}

const (
	BackendClickhouse string = "clickhouse"
	BackendFile       string = "file"
)

type SinkConfig struct {
	Backend string `yaml:"backend" env:"BACKEND"`

	// ClickHouse backend settings
	Host         string              `yaml:"host"          env:"HOST"`
	Port         string              `yaml:"port"          env:"PORT"`
	Database     string              `yaml:"database"      env:"DB"`
	Credentials  DatabaseCredentials `yaml:"credentials"   env:", prefix="`
	OutcomeTable string              `yaml:"outcome_table" env:"OUTCOME_TABLE"`
	SummaryTable string              `yaml:"summary_table" env:"SUMMARY_TABLE"`

	// File backend settings
	Dir string `yaml:"dir" env:"DIR"`
}

type WriterConfig struct {
	Sinks []SinkConfig `yaml:"sinks"`
}

type LogConfig struct {
	Level      zapcore.Level `yaml:"level"       env:"LEVEL"`
	Encoding   string        `yaml:"encoding"    env:"ENCODING"`
	OutputPath string        `yaml:"output_path" env:"OUTPUT_PATH"`
}

type ShutdownConfig struct {
	GracePeriod time.Duration `yaml:"grace_period" env:"GRACE_PERIOD"`
}

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	_ = godotenv.Load() // load the user-defined `.env` file
}

func Load() (*Config, error) {
	flag.Parse()
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		return nil, errors.New("config path is empty")
	}

	cfg, err := LoadFromYAML(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration from %s: %w", configPath, err)
	}

	// Environment variables override the file values
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("processing environment overrides: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) ApplyDefaults() {
	if cfg.Runner.Policy == "" {
		cfg.Runner.Policy = BatchPolicy
	}
	if cfg.Runner.BatchSize <= 0 {
		cfg.Runner.BatchSize = DefaultBatchSize
	}
	if cfg.Runner.BatchDelay <= 0 {
		cfg.Runner.BatchDelay = DefaultBatchDelay
	}
	if cfg.Runner.WindowLimit <= 0 {
		cfg.Runner.WindowLimit = cfg.Runner.BatchSize
	}
	if cfg.Runner.WindowDelay <= 0 {
		cfg.Runner.WindowDelay = DefaultWindowDelay
	}
	if cfg.Source.SelectRetries < 0 {
		cfg.Source.SelectRetries = 0
	}
	if cfg.Shutdown.GracePeriod <= 0 {
		cfg.Shutdown.GracePeriod = 10 * time.Second
	}
}

func (cfg *Config) Validate() error {
	switch cfg.Runner.Policy {
	case BatchPolicy, WindowPolicy:
	default:
		return fmt.Errorf("unknown runner policy %q", cfg.Runner.Policy)
	}
	if cfg.Scorer.RequestURL == "" {
		return errors.New("scorer request_url is required")
	}
	for i, sink := range cfg.Writer.Sinks {
		switch sink.Backend {
		case BackendClickhouse, BackendFile:
		default:
			return fmt.Errorf("unknown sink backend %q at index %d", sink.Backend, i)
		}
	}
	return nil
}
