package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arcana/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format}, "arena")
		require.NoError(t, err, "format %q should be valid", format)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"}, "arena")
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml"}, "arena")
	assert.Error(t, err)
}

func TestNewLogger_UnnamedComponent(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

// Property: the configured level is exactly the lowest enabled level.
func TestPropertyLevelThreshold(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}
	rapid.Check(t, func(t *rapid.T) {
		i := rapid.IntRange(0, len(levels)-1).Draw(t, "level")
		logger, err := NewLogger(config.LoggingConfig{Level: levels[i], Format: "json"}, "arena")
		if err != nil {
			t.Fatalf("level %q rejected: %v", levels[i], err)
		}
		want, _ := zapcore.ParseLevel(levels[i])
		if !logger.Core().Enabled(want) {
			t.Fatalf("level %s not enabled", want)
		}
		if want > zapcore.DebugLevel && logger.Core().Enabled(want-1) {
			t.Fatalf("level below %s enabled", want)
		}
	})
}
