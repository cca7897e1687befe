// Package log is the application's logging sink. It wraps logrus so callers
// get levelled, structured output with a small API, and so the sink can be
// created once at startup and handed to the components that need it.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"logviewer/internal/errors"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out   io.Writer
	path  string
	json  bool
	level logrus.Level
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithFile appends log lines to the file at path, creating it if needed.
func WithFile(path string) Option {
	return func(o *options) { o.path = path }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithLevel sets the minimum level ("debug", "info", "warn", "error").
// Unknown names leave the default (info) in place.
func WithLevel(name string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(name); err == nil {
			o.level = lvl
		}
	}
}

// Logger is a structured logger backed by logrus.
type Logger struct {
	base  *logrus.Logger
	file  *os.File
	debug bool
}

// NewLogger creates a logger. Without options it writes text to stdout.
// If a file option cannot be opened the logger falls back to stderr and
// records the failure as its first line.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout, level: logrus.InfoLevel}
	for _, opt := range opts {
		opt(o)
	}

	l := &Logger{base: logrus.New(), debug: o.level >= logrus.DebugLevel}
	// Debug lines are gated by Logger.debug and SetDebug, so logrus
	// itself lets everything through.
	l.base.SetLevel(logrus.DebugLevel)
	if o.json {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
			},
		})
	} else {
		l.base.SetFormatter(&textFormatter{})
	}

	out := o.out
	var openErr error
	if o.path != "" {
		f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			openErr = err
			out = os.Stderr
		} else {
			l.file = f
			out = f
		}
	}
	l.base.SetOutput(out)

	if openErr != nil {
		l.With(F("path", o.path), F("error", openErr)).Warn("could not open log file")
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package-level logger.
func Default() *Logger {
	return logger
}

// SetDebug enables debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) debugEnabled() bool {
	return l.debug || isDebug.Load()
}

func (l *Logger) entry() *Entry {
	return &Entry{l: l, e: logrus.NewEntry(l.base)}
}

// With returns an entry carrying the given fields.
func (l *Logger) With(fields ...Field) *Entry {
	return l.entry().With(fields...)
}

// WithContext is accepted for call sites that carry a context; no values
// are extracted from it yet.
func (l *Logger) WithContext(ctx context.Context) *Entry {
	return l.entry()
}

func (l *Logger) Info(msg string)                          { l.entry().Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry().Infof(format, args...) }
func (l *Logger) Warn(msg string)                          { l.entry().Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry().Warnf(format, args...) }
func (l *Logger) Error(msg string)                         { l.entry().Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry().Errorf(format, args...) }
func (l *Logger) Debug(msg string)                         { l.entry().Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry().Debugf(format, args...) }

// Entry is a log line under construction.
type Entry struct {
	l *Logger
	e *logrus.Entry
}

// With adds fields to the entry.
func (e *Entry) With(fields ...Field) *Entry {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Entry{l: e.l, e: e.e.WithFields(data)}
}

func (e *Entry) Info(msg string)                          { e.e.Info(msg) }
func (e *Entry) Infof(format string, args ...interface{})  { e.e.Infof(format, args...) }
func (e *Entry) Warn(msg string)                          { e.e.Warn(msg) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.e.Warnf(format, args...) }
func (e *Entry) Error(msg string)                         { e.e.Error(msg) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }

// Debug logs only when debug output is enabled.
func (e *Entry) Debug(msg string) {
	if e.l.debugEnabled() {
		e.e.Debug(msg)
	}
}

// Debugf logs a formatted message only when debug output is enabled.
func (e *Entry) Debugf(format string, args ...interface{}) {
	if e.l.debugEnabled() {
		e.e.Debugf(format, args...)
	}
}

// LogWithFields returns an entry on the package logger.
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError returns an entry describing err, including its kind and the
// path or parameter carried by application errors.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	return logger.With(ErrorFields(err)...)
}

// ErrorFields extracts structured fields from an application error.
func ErrorFields(err error) []Field {
	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}
	var fe *errors.FileError
	if errors.As(err, &fe) && fe.Path() != "" {
		fields = append(fields, F("path", fe.Path()))
	}
	var ce *errors.ConfigError
	if errors.As(err, &ce) && ce.Param() != "" {
		fields = append(fields, F("param", ce.Param()))
	}
	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		fields = append(fields, F("issues", len(ve.Issues())))
	}
	return fields
}

// LogError logs err with a message at error level.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Debug(msg)
		return
	}
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// textFormatter renders "[time] LEVEL: message key=value ..." with keys
// sorted so lines are stable.
type textFormatter struct{}

func (textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := strings.ToUpper(entry.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	fmt.Fprintf(&b, "[%s] %s: %s", entry.Time.Format(timestampFormat), level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
