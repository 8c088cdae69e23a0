// Package testutil provides test helpers for rowbridge: loggers, contexts and
// Arrow IPC fixtures.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/rowbridge/pkg/compression"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout that is
// cancelled when the test completes.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewRecord builds one record batch of schema with fill and releases it when
// the test completes.
func NewRecord(t *testing.T, schema *arrow.Schema, fill func(b *array.RecordBuilder)) arrow.Record {
	t.Helper()
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	fill(b)
	rec := b.NewRecord()
	t.Cleanup(rec.Release)
	return rec
}

// PeopleSchema is the fixture schema used across packages: a non-null id and a
// nullable name.
var PeopleSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// People returns a PeopleSchema batch with ids 1..len(names). Empty names are
// null.
func People(t *testing.T, names ...string) arrow.Record {
	t.Helper()
	return NewRecord(t, PeopleSchema, func(b *array.RecordBuilder) {
		for i, name := range names {
			b.Field(0).(*array.Int64Builder).Append(int64(i + 1))
			if name == "" {
				b.Field(1).AppendNull()
			} else {
				b.Field(1).(*array.StringBuilder).Append(name)
			}
		}
	})
}

// EncodeStream returns recs in the Arrow IPC stream format, compressed with algo.
func EncodeStream(t *testing.T, algo compression.Algorithm, recs ...arrow.Record) []byte {
	t.Helper()
	require.NotEmpty(t, recs)
	var buf bytes.Buffer
	enc, err := compression.NewWriter(algo, &buf)
	require.NoError(t, err)

	w := ipc.NewWriter(enc, ipc.WithSchema(recs[0].Schema()))
	for _, rec := range recs {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

// EncodeFile returns recs in the Arrow IPC file format.
func EncodeFile(t *testing.T, recs ...arrow.Record) []byte {
	t.Helper()
	require.NotEmpty(t, recs)
	var buf bytes.Buffer
	w, err := ipc.NewFileWriter(&buf, ipc.WithSchema(recs[0].Schema()))
	require.NoError(t, err)
	for _, rec := range recs {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// WriteTempFile writes data to name inside a per-test temporary directory and
// returns its path.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
