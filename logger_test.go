package logbook_test

import (
	"testing"

	"github.com/autom8ter/logbook"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		for level, expected := range map[string]zapcore.Level{
			"debug":   zapcore.DebugLevel,
			"info":    zapcore.InfoLevel,
			"warn":    zapcore.WarnLevel,
			"WARNING": zapcore.WarnLevel,
			"error":   zapcore.ErrorLevel,
			"":        zapcore.InfoLevel,
			"bogus":   zapcore.InfoLevel,
		} {
			logger, err := logbook.NewLogger(level, nil)
			assert.Nil(t, err)
			assert.True(t, logger.Core().Enabled(expected), level)
			if expected > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(expected-1), level)
			}
		}
	})
	t.Run("default fields", func(t *testing.T) {
		logger, err := logbook.NewLogger("info", map[string]any{"journal": "testing.db"})
		assert.Nil(t, err)
		assert.NotNil(t, logger)
	})
}
