package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the logger handed to every component.
type Logger = logrus.FieldLogger

// Fields represents structured logging fields
type Fields = logrus.Fields

// ParseLevel maps a config level name to a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// New creates a logger writing to stderr. format is "json" or "text".
func New(level, format string) *logrus.Logger {
	return NewWithOutput(os.Stderr, level, format)
}

func NewWithOutput(w io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(ParseLevel(level))
	return logger
}

// Component tags every entry with the subsystem that produced it.
func Component(l Logger, name string) Logger {
	if l == nil {
		l = Discard()
	}
	return l.WithField("component", name)
}

// Discard returns a logger that drops everything; used as the nil default.
func Discard() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
