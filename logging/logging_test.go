package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		name  string
		level string
		debug bool
		want  zapcore.Level
	}{
		{"default", "", false, zapcore.InfoLevel},
		{"warn", "warn", false, zapcore.WarnLevel},
		{"debug_flag_wins", "error", true, zapcore.DebugLevel},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, err := New(c.level, c.debug)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(c.want))
			if c.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(c.want-1))
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
