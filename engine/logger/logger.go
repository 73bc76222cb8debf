// Package logger holds the process-wide structured logger shared by every engine package.
// By default nothing is logged; the command installs a real handler with SetLogger.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger replaces the shared logger. Passing nil restores the silent default.
// Safe for concurrent use with Logger.
//
// Parameters:
//   - l: the logger to install, or nil to disable logging
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the shared logger. Safe for concurrent use.
//
// Returns:
//   - *slog.Logger: the currently installed logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// With returns the shared logger tagged with a component attribute.
//
// Parameters:
//   - component: the name of the package or subsystem emitting the records
//
// Returns:
//   - *slog.Logger: a child logger carrying component=<component>
func With(component string) *slog.Logger {
	return Logger().With("component", component)
}
