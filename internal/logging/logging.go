package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	debugEnabled atomic.Bool

	mu     sync.RWMutex
	logger = newLogger(os.Stderr, "buildpcbs")
)

func newLogger(out io.Writer, app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", app).Logger()
}

// Init replaces the process logger, tagging entries with app and writing to
// out. It is intended to run once during startup before any goroutine logs.
func Init(app string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	l := newLogger(out, app)
	mu.Lock()
	logger = l
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// EnableDebug turns on verbose debug logging for the application lifecycle.
func EnableDebug() {
	debugEnabled.Store(true)
	Debugf("debug logging enabled")
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// Debugf emits a formatted debug log message when debugging is enabled.
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	l := current()
	l.Debug().Msgf(format, args...)
}

// Infof emits an informational message.
func Infof(format string, args ...interface{}) {
	l := current()
	l.Info().Msgf(format, args...)
}

// Warnf emits a warning.
func Warnf(format string, args ...interface{}) {
	l := current()
	l.Warn().Msgf(format, args...)
}

// Errorf emits an error-level message. It does not terminate the process.
func Errorf(format string, args ...interface{}) {
	l := current()
	l.Error().Msgf(format, args...)
}

// MaskIdentifier obscures sensitive identifiers leaving only the last four characters visible.
func MaskIdentifier(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(trimmed)-4) + trimmed[len(trimmed)-4:]
}
