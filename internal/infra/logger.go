// README: zap logger construction from config.
package infra

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ridecost/internal/config"
)

// NewLogger builds a JSON production logger, or a console logger in development.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
