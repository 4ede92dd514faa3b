package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelForVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestZapLoggerFormatsMessages(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewZapLoggerFrom(zap.New(core))

	l.Debug("Duplicate option name %s", "debug")
	l.Info("Imported %s", "nova/api")
	l.Warn("Skipping %s: not a registered option", "gone")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "Imported nova/api", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "Skipping gone: not a registered option", entries[1].Message)
}

func TestNewZapLoggerLevelFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "silent")
	l, err := NewZapLogger("confdoc", 2)
	require.NoError(t, err)
	l.Error("dropped")
	l.Sync()

	t.Setenv(LogLevelEnvVar, "loud")
	_, err = NewZapLogger("confdoc", 0)
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))

	l := NewDefaultLogger("confdoc")
	assert.Same(t, l, OrNop(l))
}
