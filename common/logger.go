package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the gate's observability sink. It has an info and an error
// channel and drops everything when verbose logging is off. Nothing it does
// affects control flow.
type Logger struct {
	logrus.FieldLogger
	verbose bool
}

// NullLogger returns a logrus logger that discards its output.
func NullLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewLogger wraps logger. A nil logger falls back to the logrus standard
// logger.
func NewLogger(logger logrus.FieldLogger, verbose bool) *Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Logger{
		FieldLogger: logger,
		verbose:     verbose,
	}
}

// Verbose reports whether log entries are emitted at all.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

// Infof logs to the info channel.
func (l *Logger) Infof(category string, msg string, args ...interface{}) {
	l.logf(logrus.InfoLevel, category, msg, args...)
}

// Errorf logs to the error channel.
func (l *Logger) Errorf(category string, msg string, args ...interface{}) {
	l.logf(logrus.ErrorLevel, category, msg, args...)
}

func (l *Logger) logf(level logrus.Level, category string, msg string, args ...interface{}) {
	if !l.Verbose() {
		return
	}
	l.FieldLogger.WithField("category", category).Logf(level, msg, args...)
}
