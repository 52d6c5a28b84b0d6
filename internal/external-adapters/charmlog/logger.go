// Package charmlog implements the domain Logger on top of charmbracelet/log.
package charmlog

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ochairo/nativecheck/internal/domain/interfaces"
)

// Logger writes leveled, structured diagnostics
type Logger struct {
	logger *log.Logger
}

// New creates a logger writing to w at the named level. Unknown levels fall back to info.
func New(w io.Writer, level string) *Logger {
	return &Logger{
		logger: log.NewWithOptions(w, log.Options{
			Prefix: "nativecheck",
			Level:  ParseLevel(level),
		}),
	}
}

// ParseLevel maps a configuration level name to a log level
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.logger.Debug(msg, keyvals(fields)...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.logger.Info(msg, keyvals(fields)...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.logger.Warn(msg, keyvals(fields)...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.logger.Error(msg, keyvals(fields)...)
}

func keyvals(fields []interfaces.Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
