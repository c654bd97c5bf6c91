package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_JSON(t *testing.T) {
	err := Initialize(true, VerbosityInfo)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestInitialize_Console(t *testing.T) {
	err := Initialize(false, VerbosityDebug)
	require.NoError(t, err)
	assert.False(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTraceID(ctx, "trace-1")
	ctx = WithComponent(ctx, "nodes")

	fields := FieldsFromContext(ctx)
	assert.Contains(t, fields, FieldRequestID)
	assert.Contains(t, fields, "req-1")
	assert.Contains(t, fields, FieldTraceID)
	assert.Contains(t, fields, "trace-1")
	assert.Contains(t, fields, FieldComponent)
	assert.Contains(t, fields, "nodes")
}

func TestFieldsFromContext_Empty(t *testing.T) {
	fields := FieldsFromContext(context.Background())
	assert.Empty(t, fields)
}

func TestLoggerFromContext_NoFields(t *testing.T) {
	require.NoError(t, Initialize(false, VerbosityUser))
	l := LoggerFromContext(context.Background())
	assert.Equal(t, Logger, l)
}

func TestComponentLogger(t *testing.T) {
	require.NoError(t, Initialize(false, VerbosityUser))
	l := ComponentLogger("nodes")
	assert.NotNil(t, l)
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, "warn", VerbosityToLevel(VerbosityUser).String())
	assert.Equal(t, "info", VerbosityToLevel(VerbosityInfo).String())
	assert.Equal(t, "debug", VerbosityToLevel(VerbosityDebug).String())
	assert.Equal(t, "debug", VerbosityToLevel(VerbosityTrace).String())
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.False(t, ShouldOutput(VerbosityUser, OutputSQLQueries))
	assert.True(t, ShouldOutput(VerbosityAll, OutputSQLQueries))
}

func TestShouldShowTiming_SlowAlwaysShown(t *testing.T) {
	assert.True(t, ShouldShowTiming(VerbosityUser, SlowThresholdMS+1))
	assert.False(t, ShouldShowTiming(VerbosityUser, 1))
	assert.True(t, ShouldShowTiming(VerbosityDebug, 1))
}
