package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level LogLevel) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level.zapLevel())
	return &Logger{sugar: zap.New(core).Sugar(), level: level}, logs
}

func TestNewLoggerNeverNil(t *testing.T) {
	assert.NotNil(t, NewLogger(nil))
	assert.NotNil(t, NewLogger(&Config{Level: LevelDebug, Development: true}))
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, logs := newObservedLogger(LevelWarn)
	logger.Debug("ignored")
	logger.Info("ignored too")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	messages := []string{logs.All()[0].Message, logs.All()[1].Message}
	assert.Contains(t, messages, "kept")
	assert.Contains(t, messages, "kept too")
}

func TestLoggerStructuredFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)
	logger.Info("processing call", "uid", uint64(7), "function", "add")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "processing call", entry.Message)
	fields := entry.ContextMap()
	assert.EqualValues(t, 7, fields["uid"])
	assert.Equal(t, "add", fields["function"])
}

func TestDefaultAndSetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	logger, logs := newObservedLogger(LevelDebug)
	SetDefault(logger)

	Info("via package function")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "via package function", logs.All()[0].Message)
}

func TestPrintfCompatibility(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)
	logger.Printf("value is %d", 42)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "value is 42", logs.All()[0].Message)
}
