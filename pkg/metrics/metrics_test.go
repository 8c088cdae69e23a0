package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("test.arrow")

	c.RecordBatch()
	c.RecordBatch()
	c.RecordRows(10)
	c.RecordRows(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.batchesRead.WithLabelValues("test.arrow")))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.rowsMaterialized.WithLabelValues("test.arrow")))
}

func TestCollector_RecordError(t *testing.T) {
	c := NewCollector("src")

	c.RecordError(rowerrors.New(rowerrors.ErrorTypeTypeMismatch, "bad value"))
	c.RecordError(rowerrors.Wrap(rowerrors.New(rowerrors.ErrorTypeValidation, "inner"), rowerrors.ErrorTypeData, "outer"))
	c.RecordError(assert.AnError)
	c.RecordError(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("src", "type_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("src", "data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("src", "internal")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("a")
	b := NewCollector("a")
	a.RecordRows(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(a.rowsMaterialized.WithLabelValues("a")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rowsMaterialized.WithLabelValues("a")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("served")
	c.RecordRows(7)
	c.ObservePopulate(250 * time.Nanosecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rowbridge_rows_materialized_total{source="served"} 7`))
	assert.Contains(t, body, "rowbridge_populate_latency_nanoseconds_bucket")
}

func TestThroughputTracker(t *testing.T) {
	c := NewCollector("tp")
	tracker := NewThroughputTracker(c)
	tracker.Increment(100)
	time.Sleep(10 * time.Millisecond)

	rate := tracker.GetAndReset()
	assert.Greater(t, rate, 0.0)
	assert.Equal(t, rate, testutil.ToFloat64(c.throughput.WithLabelValues("tp")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
}
