package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

// TestSetLevel verifies that SetLevel updates the zap atomic level.
func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })
	cases := []struct {
		in       string
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.in)
		assert.Equal(t, c.expected, zapLevel.Level(), c.in)
	}
}

func TestEnabled(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })
	SetLevel(LevelInfo)
	assert.False(t, Enabled(LevelDebug))
	assert.True(t, Enabled("warn"))
	assert.False(t, Enabled("bogus"))
	SetLevel(LevelDebug)
	assert.True(t, Enabled(LevelDebug))
}

// TestDebugfForwardsToDefault swaps Default for a recording stub.
func TestDebugfForwardsToDefault(t *testing.T) {
	stub := &stubLogger{}
	old := Default
	Default = stub
	t.Cleanup(func() { Default = old })

	Debugf("restart %d", 1)
	Debugf("batch of %d pairs", 3)

	assert.Equal(t, []string{"restart %d", "batch of %d pairs"}, stub.formats)
}

type stubLogger struct{ formats []string }

func (s *stubLogger) Debugf(format string, _ ...any) { s.formats = append(s.formats, format) }
