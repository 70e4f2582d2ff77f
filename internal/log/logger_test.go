package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametracker/gametracker/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  level,
		Format: format,
		Output: NewOutput(&buf),
	})
	return logger, &buf
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.Debug("debug message")
	assert.Empty(t, buf.String(), "debug should be filtered at info level")

	logger.Info("info message")
	assert.Contains(t, buf.String(), "info message")

	logger.Warn("warn message")
	assert.Contains(t, buf.String(), "warn message")

	logger.Error("error message")
	assert.Contains(t, buf.String(), "error message")
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestLoggerWith(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	logger.With("component", "gateway").Info("request sent")

	out := buf.String()
	assert.Contains(t, out, "component=gateway")
	assert.Contains(t, out, "request sent")
}

func TestLoggerWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	trackerErr := errors.Wrap(errors.ErrCodeAuthRefreshFailed, "refresh failed", assert.AnError)
	logger.WithError(trackerErr).Error("session torn down")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "AUTH-004", entry["error_code"])
	assert.Equal(t, "refresh failed", entry["error"])
	assert.NotEmpty(t, entry["cause"])
}

func TestLoggerWithErrorPlain(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	logger.WithError(assert.AnError).Warn("logout call failed")
	assert.Contains(t, buf.String(), "logout call failed")
	assert.Contains(t, buf.String(), "error=")
}

func TestLoggerWithNilError(t *testing.T) {
	logger, _ := newBufferLogger(LevelDebug, FormatText)
	assert.Same(t, logger, logger.WithError(nil))
}

func TestLoggerEnabled(t *testing.T) {
	logger, _ := newBufferLogger(LevelWarn, FormatText)
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelError))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("console"))
	assert.Equal(t, FormatText, ParseFormat("bogus"))
}

func TestDefaultConfigWritesToStderr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelWarn, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.NotNil(t, cfg.Output.Writer())
}

func TestSetDefaultLogger(t *testing.T) {
	original := DefaultLogger()
	defer SetDefaultLogger(original)

	logger, buf := newBufferLogger(LevelDebug, FormatText)
	SetDefaultLogger(logger)

	DefaultLogger().Info("via global")
	assert.True(t, strings.Contains(buf.String(), "via global"))
}
