// Package logging builds the shared zap logger for the CLI. Logs go to
// stderr so they never interleave with the interactive quiz output.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the process logger. The level comes from NEETPREP_LOG_LEVEL
// ("debug", "info", "warn", "error"); unset or unknown values mean warn,
// which keeps the interactive session quiet unless something goes wrong.
func New() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		// Config above is static; Build only fails on bad output paths.
		return zap.NewNop()
	}
	return log
}

func levelFromEnv() zapcore.Level {
	switch strings.ToLower(os.Getenv("NEETPREP_LOG_LEVEL")) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
