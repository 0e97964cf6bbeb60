// Package logger provides structured logging for the platform, backed by
// logrus. Services receive a *Logger tagged with their component name.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls logger construction.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // json or text
	Output    io.Writer
	Component string
}

// Logger wraps a logrus entry so call sites carry structured fields.
type Logger struct {
	entry *logrus.Entry
}

// New constructs a logger from the given config.
func New(cfg Config) *Logger {
	l := logrus.New()

	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stdout)
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	entry := logrus.NewEntry(l)
	if cfg.Component != "" {
		entry = entry.WithField("component", cfg.Component)
	}
	return &Logger{entry: entry}
}

// NewDefault returns an info-level text logger tagged with the component name.
func NewDefault(component string) *Logger {
	return New(Config{Level: "info", Component: component})
}

// WithField returns a logger with the field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a logger with all fields attached.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *Logger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *Logger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *Logger) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
