// Package log is the structured logger shared by all filesaver packages.
package log

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"filesaver/internal/errors"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured logging key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log lines
type Logger struct {
	entry *logrus.Entry
}

// Option configures a Logger
type Option func(*logrus.Logger)

// WithOutput directs log output to w
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithJSON switches the logger to JSON lines
func WithJSON() Option {
	return func(l *logrus.Logger) {
		l.SetFormatter(jsonFormatter())
	}
}

// NewLogger creates a logger writing text lines to stderr unless overridden
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(textFormatter())
	// Debug lines are filtered by the package-level switch instead of the
	// logrus level so SetDebug affects loggers that were created earlier.
	base.SetLevel(logrus.DebugLevel)
	for _, opt := range opts {
		opt(base)
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	}
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	}
}

// With returns a child logger carrying fields
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data)}
}

// Info logs at info level
func (l *Logger) Info(msg string) { l.entry.Info(msg) }

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }

// Warn logs at warn level
func (l *Logger) Warn(msg string) { l.entry.Warn(msg) }

// Warnf logs a formatted message at warn level
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }

// Error logs at error level
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Debug logs at debug level when debugging is enabled
func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.entry.Debug(msg)
	}
}

// Debugf logs a formatted message at debug level when debugging is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// IsDebug reports whether debug output is enabled
func IsDebug() bool {
	return isDebug.Load()
}

// SetOutput redirects the package logger
func SetOutput(w io.Writer) {
	logger.entry.Logger.SetOutput(w)
}

// SetJSON switches the package logger between JSON and text output
func SetJSON(enabled bool) {
	if enabled {
		logger.entry.Logger.SetFormatter(jsonFormatter())
		return
	}
	logger.entry.Logger.SetFormatter(textFormatter())
}

// Configure replaces the package logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package logger
func Default() *Logger {
	return logger
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with err and its typed details
// (kind, path, param) attached as fields
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// WithError returns a child logger carrying err and its typed details
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{F("error", err.Error())}

	var fileErr *errors.FileError
	var batchErr *errors.BatchError
	var configErr *errors.ConfigError
	switch {
	case errors.As(err, &batchErr):
		fields = append(fields, F("error_kind", batchErr.Kind().String()), F("path", batchErr.Path()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", fileErr.Kind().String()), F("path", fileErr.Path()))
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", configErr.Kind().String()), F("param", configErr.Param()))
	}
	return fields
}

func Info(msg string) { logger.Info(msg) }

func Infof(format string, args ...interface{}) { logger.Infof(format, args...) }

func Warn(msg string) { logger.Warn(msg) }

func Warnf(format string, args ...interface{}) { logger.Warnf(format, args...) }

func Error(msg string) { logger.Error(msg) }

func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }

func Debug(msg string) { logger.Debug(msg) }

func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
