// Package scan drives a row-at-a-time scan over an Arrow IPC input: one read
// container per scan, one set of column accessors per batch, one Populate per
// row.
package scan

import (
	"context"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rowbridge/pkg/config"
	"github.com/ajitpratap0/rowbridge/pkg/inspector"
	"github.com/ajitpratap0/rowbridge/pkg/logger"
	"github.com/ajitpratap0/rowbridge/pkg/metrics"
	"github.com/ajitpratap0/rowbridge/pkg/observability"
	"github.com/ajitpratap0/rowbridge/pkg/rowcell"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
	"github.com/ajitpratap0/rowbridge/pkg/types"
)

const defaultCheckInterval = 1024

// Row is the view handed to a RowFunc. The container, and every cell in it,
// is reused for the next row.
type Row struct {
	// Index is the zero-based position of the row across all batches
	Index     int64
	Container *rowcell.ReadContainer
	Inspector *inspector.StructInspector
	// Fields are the projected fields, in output order
	Fields []*inspector.StructField
}

// Values appends the projected field values to dst[:0]. Null fields are nil.
func (r *Row) Values(dst []any) []any {
	dst = dst[:0]
	for _, f := range r.Fields {
		dst = append(dst, r.Inspector.FieldValue(r.Container, f))
	}
	return dst
}

// RowFunc consumes one row. A non-nil error stops the scan and is returned
// from Run unchanged.
type RowFunc func(row *Row) error

// Stats summarizes a finished scan.
type Stats struct {
	Batches  int
	Rows     int64
	Duration time.Duration
}

// Scanner runs scans. It is single-goroutine: one scan at a time.
type Scanner struct {
	cfg       config.ScanConfig
	logger    *zap.Logger
	metrics   *metrics.Collector
	tracer    *observability.ScanTracer
	allocator memory.Allocator
}

// Option configures a Scanner.
type Option func(*Scanner)

func WithLogger(l *zap.Logger) Option { return func(s *Scanner) { s.logger = l } }
func WithMetrics(c *metrics.Collector) Option { return func(s *Scanner) { s.metrics = c } }
func WithTracer(t *observability.ScanTracer) Option { return func(s *Scanner) { s.tracer = t } }
func WithAllocator(a memory.Allocator) Option { return func(s *Scanner) { s.allocator = a } }

// New creates a scanner. Without options it logs through the global logger,
// records into a private collector and traces through the global provider.
func New(cfg config.ScanConfig, opts ...Option) *Scanner {
	s := &Scanner{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector("scan")
	}
	if s.tracer == nil {
		s.tracer = observability.NewScanTracer("scan")
	}
	if s.allocator == nil {
		s.allocator = memory.NewGoAllocator()
	}
	if s.cfg.CheckInterval <= 0 {
		s.cfg.CheckInterval = defaultCheckInterval
	}
	return s
}

// Run scans an Arrow IPC stream.
func (s *Scanner) Run(ctx context.Context, r io.Reader, fn RowFunc) (Stats, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(s.allocator))
	if err != nil {
		return Stats{}, s.fail(rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to read Arrow stream schema"))
	}
	defer rdr.Release()

	next := func() (arrow.Record, error) {
		if rdr.Next() {
			return rdr.Record(), nil
		}
		return nil, rdr.Err()
	}
	return s.scan(ctx, rdr.Schema(), "stream", next, fn)
}

// RunFile scans an Arrow IPC file of the given size.
func (s *Scanner) RunFile(ctx context.Context, ra io.ReaderAt, size int64, fn RowFunc) (Stats, error) {
	fr, err := ipc.NewFileReader(io.NewSectionReader(ra, 0, size), ipc.WithAllocator(s.allocator))
	if err != nil {
		return Stats{}, s.fail(rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to read Arrow file footer"))
	}
	defer fr.Close()

	i := 0
	next := func() (arrow.Record, error) {
		if i >= fr.NumRecords() {
			return nil, nil
		}
		rec, err := fr.Record(i)
		i++
		return rec, err
	}
	return s.scan(ctx, fr.Schema(), "file", next, fn)
}

func (s *Scanner) fail(err error) error {
	s.metrics.RecordError(err)
	return err
}

func (s *Scanner) scan(ctx context.Context, schema *arrow.Schema, format string, next func() (arrow.Record, error), fn RowFunc) (Stats, error) {
	start := time.Now()
	ctx, span := s.tracer.StartScan(ctx, format)
	log := s.logger.With(zap.String("format", format))

	stats, err := s.scanRecords(ctx, log, span, schema, next, fn)
	stats.Duration = time.Since(start)

	span.SetAttribute("scan.rows", stats.Rows)
	span.SetAttribute("scan.batches", stats.Batches)
	span.End(err)

	if err != nil {
		s.metrics.RecordError(err)
		log.Error("scan failed", zap.Error(err), zap.Int64("rows", stats.Rows), zap.Int("batches", stats.Batches))
		return stats, err
	}
	log.Info("scan finished",
		zap.Int64("rows", stats.Rows),
		zap.Int("batches", stats.Batches),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Scanner) scanRecords(ctx context.Context, log *zap.Logger, span *observability.Span, schema *arrow.Schema,
	next func() (arrow.Record, error), fn RowFunc) (Stats, error) {
	var stats Stats

	desc, err := types.FromArrowSchema(schema)
	if err != nil {
		return stats, err
	}
	insp, err := inspector.NewStructInspector(desc)
	if err != nil {
		return stats, err
	}
	container, err := rowcell.NewReadContainerFromArrow(schema)
	if err != nil {
		return stats, err
	}
	fields, err := project(insp, s.cfg.Columns)
	if err != nil {
		return stats, err
	}
	log.Debug("scan started", zap.Stringer("schema", desc), zap.Int("projected", len(fields)))

	row := &Row{Container: container, Inspector: insp, Fields: fields}
	check := int64(s.cfg.CheckInterval)
	throughput := metrics.NewThroughputTracker(s.metrics)

	for {
		if err := ctx.Err(); err != nil {
			return stats, rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "scan cancelled")
		}
		if s.cfg.Limit > 0 && stats.Rows >= s.cfg.Limit {
			return stats, nil
		}

		rec, err := next()
		if err != nil {
			return stats, rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to read record batch").
				WithDetail("batch", stats.Batches)
		}
		if rec == nil {
			return stats, nil
		}

		cols, err := rowcell.AccessorsFor(rec)
		if err != nil {
			return stats, err
		}
		n := rec.NumRows()
		s.metrics.RecordBatch()
		span.RecordBatch(stats.Batches, n)
		log.Debug("batch", zap.Int("batch", stats.Batches), zap.Int64("rows", n))
		stats.Batches++

		var populated int64
		for i := int64(0); i < n; i++ {
			if s.cfg.Limit > 0 && stats.Rows >= s.cfg.Limit {
				break
			}
			if i > 0 && i%check == 0 {
				if err := ctx.Err(); err != nil {
					s.metrics.RecordRows(int(populated))
					return stats, rowerrors.Wrap(err, rowerrors.ErrorTypeInternal, "scan cancelled")
				}
			}

			timer := metrics.NewTimer()
			err := container.Populate(cols, int(i))
			s.metrics.ObservePopulate(timer.Stop())
			if err != nil {
				s.metrics.RecordRows(int(populated))
				return stats, rowerrors.Wrap(err, rowerrors.ErrorTypeData, "failed to populate row").
					WithDetail("row", stats.Rows)
			}
			populated++

			row.Index = stats.Rows
			if err := fn(row); err != nil {
				s.metrics.RecordRows(int(populated))
				return stats, err
			}
			stats.Rows++
		}
		s.metrics.RecordRows(int(populated))
		throughput.Increment(populated)
		throughput.GetAndReset()
	}
}

// project resolves the requested columns, ignoring case. No columns selects
// every field in declared order.
func project(insp *inspector.StructInspector, columns []string) ([]*inspector.StructField, error) {
	if len(columns) == 0 {
		return insp.Fields(), nil
	}
	fields := make([]*inspector.StructField, 0, len(columns))
	for _, name := range columns {
		f, ok := insp.FieldByName(name)
		if !ok {
			return nil, rowerrors.New(rowerrors.ErrorTypeNotFound, "no such column: "+name).
				WithDetail("column", name).
				WithDetail("schema", insp.TypeName())
		}
		fields = append(fields, f)
	}
	return fields, nil
}
