package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/pokecsv/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		settings config.Logging
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{name: "json info", settings: config.Logging{Level: "info", Format: "json"}, enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "console debug", settings: config.Logging{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "warn", settings: config.Logging{Level: "warn"}, enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "default level", settings: config.Logging{}, enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.settings)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(config.Logging{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
