package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug json", Config{Level: "debug", Format: "json"}, zapcore.DebugLevel, zapcore.InvalidLevel},
		{"warn console", Config{Level: "warn", Format: "console", Development: true}, zapcore.WarnLevel, zapcore.InfoLevel},
		{"unknown level falls back to info", Config{Level: "chatty"}, zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			assert.NotNil(t, log)
			assert.True(t, log.Core().Enabled(tt.enabled))
			if tt.muted != zapcore.InvalidLevel {
				assert.False(t, log.Core().Enabled(tt.muted))
			}
		})
	}
}
