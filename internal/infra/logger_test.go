package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"ridecost/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{name: "debug", cfg: config.LogConfig{Level: "debug"}, want: zapcore.DebugLevel},
		{name: "development warn", cfg: config.LogConfig{Level: "warn", Development: true}, want: zapcore.WarnLevel},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "chatty"}, want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.want-1))
			}
		})
	}
}
