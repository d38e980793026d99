package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("creates logger with console format", func(t *testing.T) {
		cfg := &Config{Level: "debug", Format: "console", Output: "stdout"}

		logger, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("creates logger with json format", func(t *testing.T) {
		cfg := &Config{Level: "warn", Format: "json", Output: "stderr"}

		logger, err := New(cfg)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("defaults time format when empty", func(t *testing.T) {
		cfg := &Config{Level: "info", Format: "json", Output: "stdout"}

		logger, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})
}

func TestNewForEnvironment(t *testing.T) {
	devLogger, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, devLogger)

	prodLogger, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, prodLogger)
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"INFO", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, parseLevel(tc.input), "level %q", tc.input)
	}
}
