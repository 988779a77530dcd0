// Package logging builds the zap logger used by the server and the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/pokecsv/pkg/config"
)

// New returns a logger for the given settings. Format "console" gives the
// development encoder; anything else logs JSON.
func New(settings config.Logging) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if settings.Level != "" {
		if err := level.UnmarshalText([]byte(settings.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", settings.Level, err)
		}
	}

	var zc zap.Config
	if settings.Format == "console" {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
