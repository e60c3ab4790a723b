package app

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a level name. Unknown names give LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// sink is the output shared by a logger and the loggers derived from it.
type sink struct {
	mu     sync.Mutex
	level  LogLevel
	output io.Writer
	now    func() time.Time
}

// Logger writes leveled log lines with key=value fields.
type Logger struct {
	sink   *sink
	prefix string
	fields map[string]any
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level LogLevel
	// Output defaults to os.Stderr.
	Output io.Writer
	Prefix string
}

// NewLogger creates a logger.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &sink{level: cfg.Level, output: cfg.Output, now: time.Now},
		prefix: cfg.Prefix,
	}
}

// NullLogger returns a logger that discards everything.
func NullLogger() *Logger {
	return NewLogger(LoggerConfig{Level: LogLevelError + 1, Output: io.Discard})
}

// OpenLogFile opens path for appending. An empty path discards the log,
// since the terminal belongs to the editor.
func OpenLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, NewOperationError("open log", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// WithField returns a logger that adds key=value to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a logger that adds fields to every line.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, prefix: l.prefix, fields: merged}
}

// WithComponent returns a logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum level for this logger and every logger
// derived from the same root.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the minimum level.
func (l *Logger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// SetOutput changes where lines are written.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LogLevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LogLevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LogLevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LogLevelError, msg, args...) }

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var sb strings.Builder
	sb.WriteString(s.now().Format("2006-01-02T15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	if l.prefix != "" {
		sb.WriteString(l.prefix)
		sb.WriteString(": ")
	}
	sb.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, l.fields[k])
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')

	_, _ = io.WriteString(s.output, sb.String())
}
