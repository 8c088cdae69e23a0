// Package observability provides tracing for rowbridge scans
package observability

import (
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	stringpool "github.com/ajitpratap0/rowbridge/pkg/strings"
)

// instrumentationName names the tracer used by the scan driver.
const instrumentationName = "github.com/ajitpratap0/rowbridge"

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	Writer         io.Writer // Exported spans; stderr when nil
	PrettyPrint    bool
	BatchTimeout   time.Duration
}

// DefaultTracingConfig returns a configuration that samples every scan.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "rowbridge",
		ServiceVersion: "dev",
		Environment:    getEnv("ENVIRONMENT", "development"),
		SamplingRate:   1.0,
		BatchTimeout:   5 * time.Second,
	}
}

// NewTracerProvider builds a provider that exports spans as JSON through the
// stdout exporter.
func NewTracerProvider(config TracingConfig) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "failed to create resource")
	}

	w := config.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if config.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "failed to create stdout exporter")
	}

	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	), nil
}

// Init installs a stdout-exporting provider as the global tracer provider.
func Init(config TracingConfig) (*sdktrace.TracerProvider, error) {
	tp, err := NewTracerProvider(config)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// Shutdown flushes and stops the global provider if Init installed one.
func Shutdown(ctx context.Context) error {
	if tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		if err := tp.Shutdown(ctx); err != nil {
			return rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "failed to shutdown tracer")
		}
	}
	return nil
}

// ScanTracer opens spans for scans over one source. With no provider
// installed the global no-op tracer is used and spans cost nothing.
type ScanTracer struct {
	source string
	tracer trace.Tracer
}

// NewScanTracer traces through the global provider.
func NewScanTracer(source string) *ScanTracer {
	return NewScanTracerWithProvider(otel.GetTracerProvider(), source)
}

// NewScanTracerWithProvider traces through tp.
func NewScanTracerWithProvider(tp trace.TracerProvider, source string) *ScanTracer {
	return &ScanTracer{source: source, tracer: tp.Tracer(instrumentationName)}
}

// StartScan opens the span covering a whole scan.
func (st *ScanTracer) StartScan(ctx context.Context, format string) (context.Context, *Span) {
	ctx, span := st.tracer.Start(ctx, "rowbridge.scan",
		trace.WithAttributes(
			attribute.String("scan.source", st.source),
			attribute.String("scan.format", format),
		),
	)
	return ctx, &Span{span: span, startTime: time.Now()}
}

// Span wraps an OpenTelemetry span with the scan's conventions.
type Span struct {
	span       trace.Span
	startTime  time.Time
	attributes []attribute.KeyValue
}

// SetAttribute queues an attribute; attributes are flushed on End.
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, stringpool.ValueToString(v))
	}

	s.attributes = append(s.attributes, attr)
}

// RecordBatch adds a "batch" event with the batch index and row count.
func (s *Span) RecordBatch(index int, rows int64) {
	s.span.AddEvent("batch", trace.WithAttributes(
		attribute.Int("batch.index", index),
		attribute.Int64("batch.rows", rows),
	))
}

// End records err, if any, as the span status and ends the span.
func (s *Span) End(err error) {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.SetAttributes(attribute.Int64("scan.duration_ms", time.Since(s.startTime).Milliseconds()))
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// getEnv gets environment variable with default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
