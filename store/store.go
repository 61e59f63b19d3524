// Package store provides durable TokenStore implementations: a JSON file, a
// SQLite database, and Redis. All of them follow the same rule the session
// contract sets: durable storage is read at most once per process, the
// in-memory copy is authoritative afterwards, and write failures are
// tolerated silently (surfacing only through debug logs).
package store

import (
	"github.com/mybookconnect/go-session"
)

// Option configures a store at construction time.
type Option func(*options)

type options struct {
	logger session.Logger
}

// WithLogger sets the logger used to report tolerated storage failures.
func WithLogger(logger session.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: nopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
