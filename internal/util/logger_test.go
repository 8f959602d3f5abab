package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	entries []LogEntry
	closed  bool
}

func (m *memoryOutput) Write(entry LogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryOutput) Close() error {
	m.closed = true
	return nil
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.in))
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "warn"})
	require.NoError(t, err)
	out := &memoryOutput{}
	logger.AddOutput(out)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown", F("subject", "Math"))
	logger.Errorf("failed %d", 3)

	require.Len(t, out.entries, 2)
	assert.Equal(t, "WARN", out.entries[0].Level)
	assert.Equal(t, "Math", out.entries[0].Fields["subject"])
	assert.Equal(t, "failed 3", out.entries[1].Message)
	assert.Nil(t, out.entries[1].Fields)
}

func TestLoggerWithFields(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	out := &memoryOutput{}
	logger.AddOutput(out)

	child := logger.With(F("component", "store"))
	child.Debug("read", F("rows", 4))

	require.Len(t, out.entries, 1)
	assert.Equal(t, "store", out.entries[0].Fields["component"])
	assert.Equal(t, 4, out.entries[0].Fields["rows"])

	require.NoError(t, logger.Close())
	assert.True(t, out.closed)
	logger.Info("dropped after close")
	assert.Len(t, out.entries, 1)
}

func TestFormatEntryText(t *testing.T) {
	entry := LogEntry{
		Level:   "INFO",
		Message: "loaded",
		Fields:  map[string]interface{}{"z": 1, "a": "x"},
	}
	line, err := formatEntry(entry, FormatText)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(line, "[INFO] loaded a=x z=1"), line)
}

func TestFormatEntryJSON(t *testing.T) {
	entry := LogEntry{Level: "ERROR", Message: "boom", Fields: map[string]interface{}{"k": "v"}}
	line, err := formatEntry(entry, FormatJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "boom", decoded["message"])
	assert.Equal(t, "ERROR", decoded["level"])
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf, FormatText)
	require.NoError(t, out.Write(LogEntry{Level: "DEBUG", Message: "hello"}))
	assert.Contains(t, buf.String(), "[DEBUG] hello\n")
}

func TestFileOutputCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewLogger(LoggerConfig{Level: "info", Format: FormatJSON, File: path})
	require.NoError(t, err)

	logger.Info("started", F("fps", 60))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"started"`)
}

func TestGlobalLogger(t *testing.T) {
	t.Cleanup(func() { _ = CloseLogger() })

	// no logger installed: helpers are no-ops
	require.NoError(t, CloseLogger())
	LogInfo("nobody hears this")

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitLogger(LoggerConfig{Level: "debug", File: path}))
	LogDebugf("frame %d", 7)
	LogWarn("slow", F("ms", 40))
	require.NoError(t, CloseLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] frame 7")
	assert.Contains(t, string(data), "[WARN] slow ms=40")
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, FormatText, ParseLogFormat("yaml"))
}
