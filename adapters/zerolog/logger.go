// Package zerologadapter bridges session's printf-style logger to zerolog.
package zerologadapter

import (
	"github.com/rs/zerolog"

	"github.com/mybookconnect/go-session"
)

// Logger implements session.Logger on top of a zerolog.Logger.
type Logger struct {
	log zerolog.Logger
}

// New wraps the given zerolog logger.
func New(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Debug(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

var _ session.Logger = (*Logger)(nil)
