package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("creates console logger", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()

		logger.Info("test message")
	})

	t.Run("creates json logger", func(t *testing.T) {
		logger, err := New(ProductionConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()

		logger.Info("test message")
	})

	t.Run("writes to a file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Output = t.TempDir() + "/app.log"

		logger, err := New(cfg)
		require.NoError(t, err)
		defer logger.Sync()

		logger.Info("file message")
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "test", "production"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"ERROR":   zapcore.ErrorLevel,
		"unknown": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for input, want := range cases {
		assert.Equal(t, want, parseLevel(input), "level %q", input)
	}
}
