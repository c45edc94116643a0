package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the component-tagged logger every package takes.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Warnf(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Warnf(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// LogrusLogger tags every entry with a "component" field.
type LogrusLogger struct {
	l *logrus.Logger
}

func NewLogrusLogger(l *logrus.Logger) LogrusLogger { return LogrusLogger{l: l} }

func (l LogrusLogger) Infof(component string, format string, args ...interface{}) {
	l.l.WithField("component", component).Infof(format, args...)
}

func (l LogrusLogger) Warnf(component string, format string, args ...interface{}) {
	l.l.WithField("component", component).Warnf(format, args...)
}

func (l LogrusLogger) Errorf(component string, format string, args ...interface{}) {
	l.l.WithField("component", component).Errorf(format, args...)
}

// Logrus exposes the underlying logger for callers that want fields.
func (l LogrusLogger) Logrus() *logrus.Logger { return l.l }

// New builds a logrus logger writing to w (stderr when nil).
// format is "text" or "json"; level is any logrus level name.
func New(w io.Writer, level, format string) (LogrusLogger, error) {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return LogrusLogger{}, fmt.Errorf("unknown log format %q", format)
	}

	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return LogrusLogger{}, err
	}
	l.SetLevel(parsed)
	return NewLogrusLogger(l), nil
}
