package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants, from quietest to noisiest.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// logTimeLayout stamps file lines.
const logTimeLayout = "2006-01-02 15:04:05.000"

//nolint:gochecknoglobals // static lookup table
var levelNames = [...]string{
	LogLevelOff:   "off",
	LogLevelError: "error",
	LogLevelInfo:  "info",
	LogLevelDebug: "debug",
}

// parseLevel maps a level name to a LogLevel and reports whether it is known.
// "none" is accepted as an alias for off.
func parseLevel(s string) (LogLevel, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "none" {
		return LogLevelOff, true
	}
	for level, n := range levelNames {
		if n == name {
			return LogLevel(level), true
		}
	}
	return LogLevelError, false
}

// ParseLogLevel parses a log level string. Unknown values map to error.
func ParseLogLevel(s string) LogLevel {
	level, _ := parseLevel(s)
	return level
}

// String returns the level name. Out-of-range levels print as "error".
func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return levelNames[LogLevelError]
	}
	return levelNames[l]
}

// Logger writes leveled lines to an optional log file and an optional
// console writer. File lines carry a timestamp; console lines do not.
// Callers must never pass mnemonics or passphrases.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	path    string
	file    *os.File
	console io.Writer
}

// NewLogger creates a logger at level. A non-empty filePath is opened for
// append, creating parent directories; nothing is opened when level is off.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	l := &Logger{level: level, path: filePath}
	if level == LogLevelOff || filePath == "" {
		return l, nil
	}

	l.path = ExpandHome(filePath)
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // G304: operator-configured log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l.file = f
	return l, nil
}

// NullLogger returns a logger that discards everything until SetLevel and
// SetConsole give it somewhere to write.
func NullLogger() *Logger {
	return &Logger{level: LogLevelOff}
}

// SetConsole mirrors log lines to w. Pass nil to stop.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	l.console = w
	l.mu.Unlock()
}

// SetLevel changes the log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// FilePath returns the resolved log file path, if any.
func (l *Logger) FilePath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Close closes the log file. The logger keeps writing to the console.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Debug logs per-probe detail.
func (l *Logger) Debug(format string, args ...any) { l.log(LogLevelDebug, format, args...) }

// Info logs progress.
func (l *Logger) Info(format string, args ...any) { l.log(LogLevelInfo, format, args...) }

// Error logs failures.
func (l *Logger) Error(format string, args ...any) { l.log(LogLevelError, format, args...) }

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level || (l.file == nil && l.console == nil) {
		return
	}

	line := "[" + strings.ToUpper(level.String()) + "] " + fmt.Sprintf(format, args...) + "\n"
	if l.file != nil {
		_, _ = io.WriteString(l.file, time.Now().Format(logTimeLayout)+" "+line)
	}
	if l.console != nil {
		_, _ = io.WriteString(l.console, line)
	}
}
