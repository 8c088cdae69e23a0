// Package config holds rowbridge's configuration: where to read Arrow data
// from, how to scan it, where rows go, and the ambient logging, metrics and
// tracing settings.
//
// Configuration is layered. Defaults come from Default, a YAML file loaded
// with Load overrides them (with ${VAR_NAME} substitution), and finally
// ROWBRIDGE_* environment variables and command-line flags are applied
// through viper with ApplyOverrides.
//
//	cfg := config.Default()
//	if err := config.Load("rowbridge.yaml", cfg); err != nil {
//		log.Fatal(err)
//	}
//	config.ApplyOverrides(cfg, config.NewViper())
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
package config

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/rowbridge/pkg/compression"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// Config is the complete configuration of one rowbridge run.
type Config struct {
	Source  SourceConfig  `yaml:"source" json:"source"`
	Scan    ScanConfig    `yaml:"scan" json:"scan"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
}

// SourceConfig locates the Arrow input.
type SourceConfig struct {
	// Location is a local path, "-" for stdin, s3://bucket/key or gs://bucket/object
	Location string `yaml:"location" json:"location"`
	// Format is "stream" or "file"; empty detects it from the data
	Format string `yaml:"format" json:"format"`
	// Compression overrides the algorithm detected from the extension
	Compression string `yaml:"compression" json:"compression"`
	// Region is the S3 region; empty uses the AWS default chain
	Region string `yaml:"region" json:"region"`
	// Endpoint overrides the S3 or GCS endpoint, e.g. for MinIO or an emulator
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// CredentialsFile is a GCS service account key file
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

// ScanConfig controls the row scan.
type ScanConfig struct {
	// Limit stops the scan after this many rows (0 = unlimited)
	Limit int64 `yaml:"limit" json:"limit"`
	// Columns projects the output onto these fields, matched ignoring case
	Columns []string `yaml:"columns" json:"columns"`
	// CheckInterval is the number of rows between cancellation checks
	CheckInterval int `yaml:"check_interval" json:"check_interval"`
}

// OutputConfig controls where and how rows are written.
type OutputConfig struct {
	Format      string `yaml:"format" json:"format"` // json or text
	Path        string `yaml:"path" json:"path"`     // empty means stdout
	Compression string `yaml:"compression" json:"compression"`
}

// LoggingConfig configures the global zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Encoding    string `yaml:"encoding" json:"encoding"`
	Development bool   `yaml:"development" json:"development"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// TracingConfig configures the stdout trace exporter.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	SamplingRate float64 `yaml:"sampling_rate" json:"sampling_rate"`
	PrettyPrint  bool    `yaml:"pretty_print" json:"pretty_print"`
}

// Default returns a configuration that scans stdin to JSON lines.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Location: "-",
		},
		Scan: ScanConfig{
			CheckInterval: 1024,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Tracing: TracingConfig{
			SamplingRate: 1.0,
		},
	}
}

// Validate checks the configuration for values the scan cannot run with.
func (c *Config) Validate() error {
	if c.Source.Location == "" {
		return invalid("source.location", "is required")
	}
	switch strings.ToLower(c.Source.Format) {
	case "", "stream", "file":
	default:
		return invalid("source.format", "must be stream or file")
	}
	if _, err := compression.Parse(c.Source.Compression); err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "invalid source.compression")
	}
	if c.Scan.Limit < 0 {
		return invalid("scan.limit", "cannot be negative")
	}
	if c.Scan.CheckInterval <= 0 {
		return invalid("scan.check_interval", "must be positive")
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "text":
	default:
		return invalid("output.format", "must be json or text")
	}
	if _, err := compression.Parse(c.Output.Compression); err != nil {
		return rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "invalid output.compression")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", "must be debug, info, warn or error")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return invalid("metrics.addr", "is required when metrics are enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return invalid("tracing.sampling_rate", "must be between 0 and 1")
	}
	return nil
}

func invalid(key, problem string) error {
	return rowerrors.New(rowerrors.ErrorTypeConfig, key+" "+problem).WithDetail("key", key)
}
