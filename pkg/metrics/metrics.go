// Package metrics tracks scan throughput and failures for rowbridge using
// Prometheus metrics.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("events.arrow")
//	timer := metrics.NewTimer()
//	err := container.Populate(cols, row)
//	collector.ObservePopulate(timer.Stop())
//	if err != nil {
//	    collector.RecordError(err)
//	}
//
// Each collector owns its registry, so several scans in one process (or in
// tests) never collide on metric registration. Handler serves the registry in
// the Prometheus text format.
package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// Collector records the metrics of scans over one source.
type Collector struct {
	source           string
	registry         *prometheus.Registry
	rowsMaterialized *prometheus.CounterVec   // Rows copied into a container
	batchesRead      *prometheus.CounterVec   // Record batches decoded
	errors           *prometheus.CounterVec   // Failures by error type
	populateLatency  *prometheus.HistogramVec // Per-row populate latency
	throughput       *prometheus.GaugeVec     // Rows per second of the last window
	startTime        time.Time
}

// NewCollector creates a collector whose metrics are labelled with source.
func NewCollector(source string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		source:   source,
		registry: reg,
		rowsMaterialized: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowbridge_rows_materialized_total",
				Help: "Total number of rows populated into a row container",
			},
			[]string{"source"},
		),
		batchesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowbridge_batches_read_total",
				Help: "Total number of record batches read",
			},
			[]string{"source"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowbridge_errors_total",
				Help: "Total number of scan errors by error type",
			},
			[]string{"source", "type"},
		),
		populateLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "rowbridge_populate_latency_nanoseconds",
				Help: "Row populate latency in nanoseconds",
				Buckets: []float64{
					100,    // 100ns - Scalar rows
					1000,   // 1μs - Wide rows
					10000,  // 10μs - Large text values
					100000, // 100μs
					1e6,    // 1ms
				},
			},
			[]string{"source"},
		),
		throughput: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rowbridge_throughput_rows_per_second",
				Help: "Rows per second over the last reporting window",
			},
			[]string{"source"},
		),
		startTime: time.Now(),
	}
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

func (c *Collector) RecordRows(n int) {
	c.rowsMaterialized.WithLabelValues(c.source).Add(float64(n))
}

func (c *Collector) RecordBatch() {
	c.batchesRead.WithLabelValues(c.source).Inc()
}

// RecordError counts err under its structured error type, or "internal"
// for errors that carry none.
func (c *Collector) RecordError(err error) {
	if err == nil {
		return
	}
	errType := string(rowerrors.ErrorTypeInternal)
	var rerr *rowerrors.Error
	if errors.As(err, &rerr) {
		errType = string(rerr.Type)
	}
	c.errors.WithLabelValues(c.source, errType).Inc()
}

func (c *Collector) ObservePopulate(d time.Duration) {
	c.populateLatency.WithLabelValues(c.source).Observe(float64(d.Nanoseconds()))
}

// Timer measures the duration of one operation.
type Timer struct {
	start time.Time
}

// NewTimer starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker turns row counts into a rows-per-second gauge.
// Safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64     // Rows since last reset
	lastReset time.Time // Time of last reset
	collector *Collector
}

// NewThroughputTracker creates a tracker reporting into c.
func NewThroughputTracker(c *Collector) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		collector: c,
	}
}

// Increment adds n to the row count.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset computes rows per second since the last reset, publishes it to
// the gauge and starts a new window.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()

	t.collector.throughput.WithLabelValues(t.collector.source).Set(throughput)

	return throughput
}
