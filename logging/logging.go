// Package logging wraps zerolog in the shape the teacher's own
// pkg/logger exposes (a Level enum, a package-level default instance,
// Default()/SetDefault(), and package-level convenience functions), so
// call sites read the same way while the engine core itself stays
// silent: only cmd/ and internal/httpserver log (SPEC_FULL.md's
// ambient-stack rule that the projection core never logs).
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's level type under the teacher's own naming.
type Level = zerolog.Level

// Log levels, aliased from zerolog so callers never import it directly.
const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
	LevelNone  = zerolog.Disabled
)

// Logger wraps a zerolog.Logger with the pkg/logger call shape:
// Debug/Info/Warn/Error taking a format string, rather than zerolog's
// own chained event builder.
type Logger struct {
	zl zerolog.Logger
}

var defaultLogger = New(os.Stderr, LevelInfo)

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// New creates a logger writing structured JSON lines to output at the
// given level, tagged with the engine's component name.
func New(output io.Writer, level Level) *Logger {
	zl := zerolog.New(output).With().Timestamp().Str("component", "sqlonfhir").Logger().Level(level)
	return &Logger{zl: zl}
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.zl = l.zl.Level(level)
}

// SetOutput replaces the logger's output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.zl = l.zl.Output(w)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs an error, attaching err as a structured field when
// non-nil rather than interpolating it into the message text.
func (l *Logger) Error(err error, format string, args ...any) {
	l.zl.Error().Err(err).Msgf(format, args...)
}

// WithView returns a child logger tagged with a ViewDefinition name,
// for batch drivers that project many resources through one view.
func (l *Logger) WithView(viewName string) *Logger {
	return &Logger{zl: l.zl.With().Str("view", viewName).Logger()}
}

// Debug logs a debug message using the default logger.
func Debug(format string, args ...any) { defaultLogger.Debug(format, args...) }

// Info logs an info message using the default logger.
func Info(format string, args ...any) { defaultLogger.Info(format, args...) }

// Warn logs a warning message using the default logger.
func Warn(format string, args ...any) { defaultLogger.Warn(format, args...) }

// Error logs an error using the default logger.
func Error(err error, format string, args ...any) { defaultLogger.Error(err, format, args...) }

// SetLevel sets the level of the default logger.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

// Disable silences the default logger entirely.
func Disable() { defaultLogger.SetLevel(LevelNone) }
