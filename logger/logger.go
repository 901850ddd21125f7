package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Logger defines a minimal logging contract compatible with go-logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger allows attaching structured fields to a logger.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// BasicLogger writes key=value lines to a writer.
type BasicLogger struct {
	Writer io.Writer
	fields map[string]any
	mu     sync.Mutex
}

var defaultLogger Logger = NewBasicLogger()

// Default returns a usable logger when none is provided.
func Default() Logger {
	return defaultLogger
}

// NewBasicLogger constructs a BasicLogger that logs to stdout.
func NewBasicLogger() *BasicLogger {
	return &BasicLogger{Writer: os.Stdout}
}

// WithFields implements FieldsLogger.
func (l *BasicLogger) WithFields(fields map[string]any) Logger {
	if l == nil {
		return &BasicLogger{Writer: os.Stdout, fields: cloneFields(fields)}
	}
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &BasicLogger{Writer: l.Writer, fields: merged}
}

// WithContext implements Logger.
func (l *BasicLogger) WithContext(context.Context) Logger { return l }

// Trace implements Logger.
func (l *BasicLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args) }

// Debug implements Logger.
func (l *BasicLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args) }

// Info implements Logger.
func (l *BasicLogger) Info(msg string, args ...any) { l.log("INFO", msg, args) }

// Warn implements Logger.
func (l *BasicLogger) Warn(msg string, args ...any) { l.log("WARN", msg, args) }

// Error implements Logger.
func (l *BasicLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args) }

// Fatal implements Logger.
func (l *BasicLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args) }

func (l *BasicLogger) log(level, msg string, args []any) {
	if l == nil {
		return
	}
	out := l.Writer
	if out == nil {
		out = os.Stdout
	}

	var line strings.Builder
	line.WriteByte('[')
	line.WriteString(level)
	line.WriteString("] ")
	line.WriteString(msg)
	writePairs(&line, sortedFieldArgs(l.fields))
	writePairs(&line, args)
	line.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(out, line.String())
}

func writePairs(line *strings.Builder, args []any) {
	for i := 0; i < len(args); i += 2 {
		line.WriteByte(' ')
		fmt.Fprintf(line, "%v", args[i])
		line.WriteByte('=')
		if i+1 < len(args) {
			fmt.Fprintf(line, "%v", args[i+1])
		}
	}
}

func sortedFieldArgs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return out
}

var _ Logger = (*BasicLogger)(nil)
var _ FieldsLogger = (*BasicLogger)(nil)
