package app

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging shape shared by every package: a component name plus
// a printf-style message.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// FileLogger writes one JSON line per message with time, level and
// component fields.
type FileLogger struct{ z zerolog.Logger }

func NewFileLogger(w io.Writer) FileLogger {
	return FileLogger{z: zerolog.New(w).With().Timestamp().Logger()}
}

func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.z.Info().Str("component", component).Msgf(format, args...)
}

func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.z.Error().Str("component", component).Msgf(format, args...)
}
