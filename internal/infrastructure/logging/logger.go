// Package logging builds the CLI's zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BuildLogger maps the CLI's -v count to a console logger on stderr:
// 0 warns only, 1 adds info, 2 and above adds debug with caller info.
// User-facing output stays on stdout via fmt; this logger is diagnostics.
func BuildLogger(verbosity int) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case verbosity >= 2:
		level = zapcore.DebugLevel
	case verbosity == 1:
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = verbosity < 2
	cfg.DisableCaller = verbosity < 2

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
