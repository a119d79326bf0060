package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoggerIsNeverNil(t *testing.T) {
	// Package init installs a nop logger before Initialize is called
	require.NotNil(t, Logger)
	Logger.Infow("safe before Initialize")
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	assert.False(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityTrace))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(99))
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FieldsFromContext(ctx))

	ctx = WithRunID(ctx, "run-123")
	ctx = WithDialect(ctx, "tff")
	fields := FieldsFromContext(ctx)
	assert.Equal(t, []interface{}{FieldRunID, "run-123", FieldDialect, "tff"}, fields)
}

func TestLoggerFromContextFallsBackToGlobal(t *testing.T) {
	assert.Equal(t, Logger, LoggerFromContext(context.Background()))
	assert.NotNil(t, LoggerFromContext(WithRunID(context.Background(), "r")))
}

func TestMinimalEncoderFormat(t *testing.T) {
	enc := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 8, 25, 13, 4, 35, 0, time.UTC),
		LoggerName: "pipeline",
		Message:    "✿ Fan-out started",
	}
	fields := []zapcore.Field{
		{Key: FieldDialect, Type: zapcore.StringType, String: "fof"},
		{Key: FieldWorkers, Type: zapcore.Int64Type, Integer: 8},
	}

	buf, err := enc.EncodeEntry(entry, fields)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "pipeline")
	assert.Contains(t, out, "Fan-out started")
	assert.Contains(t, out, "fof")
	assert.Contains(t, out, "8")
	// INFO level marker is suppressed in minimal format
	assert.NotContains(t, out, "INFO")
}

func TestMinimalEncoderShowsWarnLevel(t *testing.T) {
	enc := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:   zapcore.WarnLevel,
		Time:    time.Now(),
		Message: "unresolved sort",
	}
	buf, err := enc.EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "WARN")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "pipeline", abbreviateName("pipeline"))
	assert.Equal(t, "t.tff", abbreviateName("trans.tff"))
}

func TestEmittedSkippedPairFormatting(t *testing.T) {
	fields := []zapcore.Field{
		{Key: FieldEmitted, Type: zapcore.Int64Type, Integer: 19},
		{Key: FieldSkipped, Type: zapcore.Int64Type, Integer: 2},
	}
	out := extractFieldValues(fields)
	assert.Contains(t, out, "19")
	assert.Contains(t, out, "emitted")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "skipped")
}
