package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ROWBRIDGE_SCAN_LIMIT.
const EnvPrefix = "ROWBRIDGE"

// Keys that can be overridden from the environment or bound to flags.
const (
	KeySourceLocation    = "source.location"
	KeySourceFormat      = "source.format"
	KeySourceCompression = "source.compression"
	KeySourceRegion      = "source.region"
	KeySourceEndpoint    = "source.endpoint"
	KeyScanLimit         = "scan.limit"
	KeyScanColumns       = "scan.columns"
	KeyOutputFormat      = "output.format"
	KeyOutputPath        = "output.path"
	KeyOutputCompression = "output.compression"
	KeyLogLevel          = "logging.level"
	KeyLogEncoding       = "logging.encoding"
	KeyMetricsEnabled    = "metrics.enabled"
	KeyMetricsAddr       = "metrics.addr"
	KeyTracingEnabled    = "tracing.enabled"
)

// NewViper returns a viper instance reading ROWBRIDGE_* environment variables,
// with dots in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key explicitly set in v (by environment,
// changed flag or Set) over cfg.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	setString(v, KeySourceLocation, &cfg.Source.Location)
	setString(v, KeySourceFormat, &cfg.Source.Format)
	setString(v, KeySourceCompression, &cfg.Source.Compression)
	setString(v, KeySourceRegion, &cfg.Source.Region)
	setString(v, KeySourceEndpoint, &cfg.Source.Endpoint)
	if v.IsSet(KeyScanLimit) {
		cfg.Scan.Limit = v.GetInt64(KeyScanLimit)
	}
	if v.IsSet(KeyScanColumns) {
		cfg.Scan.Columns = stringList(v.Get(KeyScanColumns))
	}
	setString(v, KeyOutputFormat, &cfg.Output.Format)
	setString(v, KeyOutputPath, &cfg.Output.Path)
	setString(v, KeyOutputCompression, &cfg.Output.Compression)
	setString(v, KeyLogLevel, &cfg.Logging.Level)
	setString(v, KeyLogEncoding, &cfg.Logging.Encoding)
	if v.IsSet(KeyMetricsEnabled) {
		cfg.Metrics.Enabled = v.GetBool(KeyMetricsEnabled)
	}
	setString(v, KeyMetricsAddr, &cfg.Metrics.Addr)
	if v.IsSet(KeyTracingEnabled) {
		cfg.Tracing.Enabled = v.GetBool(KeyTracingEnabled)
	}
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

// stringList accepts both a slice (flags, YAML) and a comma-separated string
// (environment).
func stringList(raw interface{}) []string {
	var parts []string
	switch val := raw.(type) {
	case []string:
		parts = val
	case []interface{}:
		for _, p := range val {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
	case string:
		parts = strings.Split(val, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
