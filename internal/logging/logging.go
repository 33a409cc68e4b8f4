// Package logging configures the logrus logger shared by the application.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with component helpers.
type Logger struct {
	*logrus.Logger
}

// New creates a logger at level ("debug", "info", ...) using the "json" or
// "text" formatter. Unknown levels fall back to info.
func New(level, format string) *Logger {
	return NewWithOutput(level, format, os.Stderr)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(level, format string, out io.Writer) *Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(out)

	return &Logger{Logger: log}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	return NewWithOutput("panic", "text", io.Discard)
}

// WithComponent returns an entry tagged with the component name.
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// WithPatient returns an entry tagged with a patient id.
func (l *Logger) WithPatient(patientID uint) *logrus.Entry {
	return l.Logger.WithField("patient_id", patientID)
}
