package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/evmscan/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected config.LogLevel
	}{
		{"off lowercase", "off", config.LogLevelOff},
		{"off uppercase", "OFF", config.LogLevelOff},
		{"none", "none", config.LogLevelOff},
		{"error", "error", config.LogLevelError},
		{"info", "info", config.LogLevelInfo},
		{"info mixed case", "Info", config.LogLevelInfo},
		{"debug", "DEBUG", config.LogLevelDebug},
		{"with whitespace", "  debug  ", config.LogLevelDebug},
		{"empty returns error", "", config.LogLevelError},
		{"unknown value", "warn", config.LogLevelError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, config.ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "off", config.LogLevelOff.String())
	assert.Equal(t, "error", config.LogLevelError.String())
	assert.Equal(t, "info", config.LogLevelInfo.String())
	assert.Equal(t, "debug", config.LogLevelDebug.String())
	assert.Equal(t, "error", config.LogLevel(99).String())
}

func TestNewLogger_EmptyPath(t *testing.T) {
	t.Parallel()
	logger, err := config.NewLogger(config.LogLevelDebug, "")
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	// No sink configured; must not panic.
	logger.Debug("test message")
	logger.Info("test info")
	logger.Error("test error")
}

func TestNewLogger_CreatesDirectory(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "subdir", "deep", "scan.log")

	logger, err := config.NewLogger(config.LogLevelDebug, logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	info, err := os.Stat(filepath.Dir(logPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, logPath, logger.FilePath())
}

func TestNewLogger_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := config.NewLogger(config.LogLevelDebug, "/proc/nonexistent/scan.log")
	assert.Error(t, err)
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    config.LogLevel
		contains []string
		excludes []string
	}{
		{config.LogLevelError, []string{"[ERROR] e"}, []string{"[INFO]", "[DEBUG]"}},
		{config.LogLevelInfo, []string{"[ERROR] e", "[INFO] i"}, []string{"[DEBUG]"}},
		{config.LogLevelDebug, []string{"[ERROR] e", "[INFO] i", "[DEBUG] d"}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()
			logPath := filepath.Join(t.TempDir(), "scan.log")
			logger, err := config.NewLogger(tt.level, logPath)
			require.NoError(t, err)
			defer func() { _ = logger.Close() }()

			logger.Error("e")
			logger.Info("i")
			logger.Debug("d")

			content := readLogFile(t, logPath)
			for _, s := range tt.contains {
				assert.Contains(t, content, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, content, s)
			}
		})
	}
}

func TestLogger_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := config.NewLogger(config.LogLevelInfo, "")
	require.NoError(t, err)
	logger.SetConsole(&buf)

	logger.Info("checked %d chains", 12)
	logger.Debug("hidden")

	assert.Equal(t, "[INFO] checked 12 chains\n", buf.String())

	logger.SetConsole(nil)
	logger.Info("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestLogger_LevelOff_NoFile(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "scan.log")

	logger, err := config.NewLogger(config.LogLevelOff, logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	logger.Error("error")

	_, err = os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "scan.log")

	logger, err := config.NewLogger(config.LogLevelDebug, logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Debug("message %d", n)
			logger.Info("info %d", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(readLogFile(t, logPath)), "\n")
	assert.Len(t, lines, 20)
}

func TestLogger_FileLinesAreTimestamped(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "scan.log")

	logger, err := config.NewLogger(config.LogLevelInfo, logPath)
	require.NoError(t, err)

	var console bytes.Buffer
	logger.SetConsole(&console)
	logger.Error("probe failed on %s", "BNB Smart Chain")
	require.NoError(t, logger.Close())

	line := strings.TrimSpace(readLogFile(t, logPath))
	stamp, rest, ok := strings.Cut(line, " [")
	require.True(t, ok, line)

	_, err = time.Parse("2006-01-02 15:04:05.000", stamp)
	require.NoError(t, err)
	assert.Equal(t, "ERROR] probe failed on BNB Smart Chain", rest)
	assert.Equal(t, "[ERROR] probe failed on BNB Smart Chain\n", console.String())

	// After Close only the console keeps receiving lines.
	logger.Info("still here")
	assert.Contains(t, console.String(), "[INFO] still here")
	assert.NotContains(t, readLogFile(t, logPath), "still here")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()
	logger := config.NullLogger()

	assert.Equal(t, config.LogLevelOff, logger.Level())
	logger.Error("test error")
	assert.NoError(t, logger.Close())

	logger.SetLevel(config.LogLevelDebug)
	assert.Equal(t, config.LogLevelDebug, logger.Level())
}

// readLogFile reads a log file written by a test.
// #nosec G304 -- test helper with controlled paths from t.TempDir()
func readLogFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
