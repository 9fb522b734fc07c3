package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	logg := NewLogger()
	assert.False(t, logg.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, logg.Desugar().Core().Enabled(zap.WarnLevel))

	t.Setenv("LOG_LEVEL", "")
	assert.True(t, NewLogger().Desugar().Core().Enabled(zap.DebugLevel), "development default is debug")

	t.Setenv("LOG_LEVEL", "loud")
	assert.True(t, NewLogger().Desugar().Core().Enabled(zap.DebugLevel), "unknown levels are ignored")
}
