package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rowbridge/internal/scan"
	"github.com/ajitpratap0/rowbridge/internal/sink"
	"github.com/ajitpratap0/rowbridge/internal/source"
	"github.com/ajitpratap0/rowbridge/pkg/compression"
	"github.com/ajitpratap0/rowbridge/pkg/config"
	"github.com/ajitpratap0/rowbridge/pkg/logger"
	"github.com/ajitpratap0/rowbridge/pkg/metrics"
	"github.com/ajitpratap0/rowbridge/pkg/observability"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// flagKeys binds scan flags to configuration keys. Only flags given on the
// command line override the config file.
var flagKeys = map[string]string{
	"source":             config.KeySourceLocation,
	"input-format":       config.KeySourceFormat,
	"compression":        config.KeySourceCompression,
	"region":             config.KeySourceRegion,
	"endpoint":           config.KeySourceEndpoint,
	"limit":              config.KeyScanLimit,
	"columns":            config.KeyScanColumns,
	"format":             config.KeyOutputFormat,
	"output":             config.KeyOutputPath,
	"output-compression": config.KeyOutputCompression,
	"log-level":          config.KeyLogLevel,
	"metrics":            config.KeyMetricsEnabled,
	"metrics-addr":       config.KeyMetricsAddr,
	"trace":              config.KeyTracingEnabled,
}

func newScanCmd() *cobra.Command {
	var configFile, cpuProfile, memProfile string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Materialize every row of an Arrow input",
		Long: `Scan an Arrow IPC stream or file row by row and write the rows as JSON lines
or tab-separated text.

The source may be a local path, "-" for stdin, s3://bucket/key or gs://bucket/object.
Compressed inputs (.zst, .lz4, .sz, .s2, .gz) are decoded on the fly.
Every flag can also be set with a ROWBRIDGE_* environment variable, e.g.
ROWBRIDGE_SCAN_LIMIT=100.

Example:
  rowbridge scan --source s3://lake/events.arrow.zst --columns id,name --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			for name, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "failed to bind flag "+name)
				}
			}
			cfg, err := loadConfig(configFile, v)
			if err != nil {
				return err
			}

			stopProfiles, err := startProfiles(cpuProfile, memProfile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := runScan(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				_ = stopProfiles()
				return err
			}
			return stopProfiles()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "Path to a YAML configuration file")
	f.StringP("source", "s", "-", "Input location: path, -, s3://bucket/key or gs://bucket/object")
	f.String("input-format", "", "Arrow IPC format (stream or file); detected when empty")
	f.String("compression", "", "Input compression; detected from the extension when empty")
	f.String("region", "", "S3 region")
	f.String("endpoint", "", "S3 or GCS endpoint override")
	f.Int64P("limit", "n", 0, "Stop after this many rows (0 = all)")
	f.StringSlice("columns", nil, "Comma-separated columns to output, matched ignoring case")
	f.StringP("format", "f", "json", "Output format (json or text)")
	f.StringP("output", "o", "", "Output path (default stdout)")
	f.String("output-compression", "", "Output compression; detected from the output extension when empty")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.Bool("metrics", false, "Serve Prometheus metrics during the scan")
	f.String("metrics-addr", ":9090", "Metrics listen address")
	f.Bool("trace", false, "Export scan spans to stderr")
	f.StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile of the scan to this file")
	f.StringVar(&memProfile, "memprofile", "", "Write a heap profile after the scan to this file")

	return cmd
}

// loadConfig layers defaults, the optional config file and overrides from v.
func loadConfig(path string, v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
	}
	config.ApplyOverrides(cfg, v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runScan runs one configured scan, writing rows to stdout unless an output
// path is set.
func runScan(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.Logging.Development,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx = context.WithValue(ctx, logger.ScanIDKey, uuid.NewString())
	ctx = context.WithValue(ctx, logger.SourceKey, cfg.Source.Location)
	log := logger.WithContext(ctx).With(zap.String("component", "rowbridge-cli"))

	collector := metrics.NewCollector(cfg.Source.Location)
	if cfg.Metrics.Enabled {
		stopMetrics := serveMetrics(cfg.Metrics.Addr, collector, log)
		defer stopMetrics()
	}

	if cfg.Tracing.Enabled {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.SamplingRate = cfg.Tracing.SamplingRate
		tc.PrettyPrint = cfg.Tracing.PrettyPrint
		tc.Writer = stderr
		if _, err := observability.Init(tc); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := observability.Shutdown(shutdownCtx); err != nil {
				log.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rows, err := sink.New(cfg.Output.Format, out)
	if err != nil {
		return err
	}

	opener := source.NewOpener(cfg.Source)
	opener.Stdin = stdin
	defer opener.Close()

	src, err := opener.Open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	format := cfg.Source.Format
	if format == "" {
		if format, err = src.Format(); err != nil {
			return err
		}
	}

	scanner := scan.New(cfg.Scan,
		scan.WithLogger(log),
		scan.WithMetrics(collector),
		scan.WithTracer(observability.NewScanTracer(src.Location.String())),
	)

	var values []any
	write := func(row *scan.Row) error {
		values = row.Values(values)
		return rows.WriteRow(row.Fields, values)
	}

	log.Info("starting scan", zap.String("format", format), zap.String("compression", string(src.Compression)))

	var stats scan.Stats
	if format == source.FormatFile {
		ra, size, rerr := src.ReaderAt()
		if rerr != nil {
			return rerr
		}
		stats, err = scanner.RunFile(ctx, ra, size, write)
	} else {
		stats, err = scanner.Run(ctx, src.Reader(), write)
	}
	if err != nil {
		return err
	}
	if err := rows.Flush(); err != nil {
		return err
	}

	log.Info("scan completed successfully",
		zap.Int("batches", stats.Batches),
		zap.Int64("rows", stats.Rows),
		zap.Duration("duration", stats.Duration))
	return nil
}

// openOutput returns the row destination, compressed if configured. The
// returned close function flushes the encoder and closes the file.
func openOutput(cfg config.OutputConfig, stdout io.Writer) (io.Writer, func() error, error) {
	algo := compression.DetectFromPath(cfg.Path)
	if cfg.Compression != "" {
		var err error
		if algo, err = compression.Parse(cfg.Compression); err != nil {
			return nil, nil, err
		}
	}

	w := stdout
	var file *os.File
	if cfg.Path != "" {
		f, err := os.Create(cfg.Path)
		if err != nil {
			return nil, nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to create output").
				WithDetail("path", cfg.Path)
		}
		file, w = f, f
	}

	enc, err := compression.NewWriter(algo, w)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, err
	}

	closeFn := func() error {
		var result *multierror.Error
		if err := enc.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		if file != nil {
			if err := file.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
		if err := result.ErrorOrNil(); err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to close output")
		}
		return nil
	}
	return enc, closeFn, nil
}

// serveMetrics serves the collector on addr until the returned function is called.
func serveMetrics(addr string, c *metrics.Collector, log *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
