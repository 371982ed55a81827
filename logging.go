package ipc

import "github.com/kesdev/go-ipc/internal/logging"

// Logger is the structured logger type accepted by WithLogger and
// WithClientLogger.
type Logger = logging.Logger

// LogLevel selects a Logger's minimum emitted level.
type LogLevel = logging.LogLevel

// LoggerConfig configures NewLogger.
type LoggerConfig = logging.Config

const (
	LevelDebug = logging.LevelDebug
	LevelInfo  = logging.LevelInfo
	LevelWarn  = logging.LevelWarn
	LevelError = logging.LevelError
)

// NewLogger creates a Logger with the given configuration. A nil config
// uses LevelInfo in production mode.
func NewLogger(config *LoggerConfig) *Logger {
	return logging.NewLogger(config)
}
