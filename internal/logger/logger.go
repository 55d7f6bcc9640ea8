package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger that carries the service name on every entry.
type Logger struct {
	*logrus.Logger
	service string
}

// New returns a JSON logger writing to stdout at the given level
// ("debug", "info", "warn" or "error"; anything else means info).
func New(service, level string) *Logger {
	return NewWithOutput(service, level, os.Stdout)
}

func NewWithOutput(service, level string, out io.Writer) *Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return &Logger{Logger: log, service: service}
}

// Entry returns an entry pre-populated with the service field.
func (l *Logger) Entry() *logrus.Entry {
	return l.WithField("service", l.service)
}

func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.Entry().WithField("request_id", requestID)
}

func (l *Logger) WithUserID(userID uint) *logrus.Entry {
	return l.Entry().WithField("user_id", userID)
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return NewWithOutput("test", "error", io.Discard)
}
