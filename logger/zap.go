package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvVar overrides the level derived from the verbosity count.
// Valid values: "debug", "info", "warn", "error", "silent".
const LogLevelEnvVar = "CONFDOC_LOG_LEVEL"

// ZapLogger adapts a sugared zap logger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a console logger writing to stderr.
//
// Verbosity follows the CLI's -v count: 0 keeps warnings and errors, 1 adds
// info (added/removed flags, scanned packages), 2 or more adds debug (duplicate
// options, parse failures). LogLevelEnvVar wins over the count when set.
func NewZapLogger(name string, verbosity int) (*ZapLogger, error) {
	level := levelForVerbosity(verbosity)
	if env := strings.TrimSpace(os.Getenv(LogLevelEnvVar)); env != "" {
		if env == "silent" {
			return &ZapLogger{sugar: zap.NewNop().Sugar()}, nil
		}
		parsed, err := zapcore.ParseLevel(env)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", LogLevelEnvVar, env, err)
		}
		level = parsed
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = nil

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &ZapLogger{sugar: l.Named(name).Sugar()}, nil
}

// NewZapLoggerFrom wraps an existing zap logger, mostly useful in tests with
// zaptest/observer cores.
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

func levelForVerbosity(verbosity int) zapcore.Level {
	switch {
	case verbosity >= 2:
		return zapcore.DebugLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

func (z *ZapLogger) Debug(format string, args ...any) { z.sugar.Debugf(format, args...) }
func (z *ZapLogger) Info(format string, args ...any)  { z.sugar.Infof(format, args...) }
func (z *ZapLogger) Warn(format string, args ...any)  { z.sugar.Warnf(format, args...) }
func (z *ZapLogger) Error(format string, args ...any) { z.sugar.Errorf(format, args...) }

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() {
	_ = z.sugar.Sync()
}
