package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{" ERROR ", LevelError},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZeroLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LevelDebug, FormatJSON, buf)

	logger.Debug("loaded %d events", 3)
	logger.Error("failed: %s", "boom")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "loaded 3 events", lines[0]["message"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Contains(t, lines[1], "time")
}

func TestZeroLogger_FilterByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LevelWarn, FormatJSON, buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn message", lines[0]["message"])
}

func TestZeroLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LevelInfo, FormatJSON, buf)

	logger.WithField("path", "capture.json").
		WithFields(map[string]interface{}{"events": 12}).
		Info("loaded")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "capture.json", lines[0]["path"])
	assert.Equal(t, float64(12), lines[0]["events"])
}

func TestZeroLogger_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LevelInfo, FormatText, buf)

	logger.WithField("mode", "inverted").Info("rebuilt tree")

	output := buf.String()
	assert.Contains(t, output, "INF")
	assert.Contains(t, output, "rebuilt tree")
	assert.Contains(t, output, "mode=inverted")
}

func TestNullLogger(t *testing.T) {
	logger := &NullLogger{}

	logger.Debug("x")
	logger.Info("x")
	logger.Warn("x")
	logger.Error("x")
	assert.Same(t, logger, logger.WithField("k", "v"))
	assert.Same(t, logger, logger.WithFields(nil))
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	custom := &NullLogger{}
	SetGlobalLogger(custom)
	assert.Same(t, custom, GetGlobalLogger())
}
