package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeConfig))
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Get()
	Set(zap.New(core))
	defer Set(prev)

	ctx := context.WithValue(context.Background(), ScanIDKey, "scan-1")
	ctx = context.WithValue(ctx, SourceKey, "s3://bucket/data.arrow")
	WithContext(ctx).Info("scan started")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "scan-1", fields["scan_id"])
	assert.Equal(t, "s3://bucket/data.arrow", fields["source"])
}
