package core

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by every package of the engine.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels in use:
//   - [slog.LevelDebug]: per-flush batching statistics, shader cache misses
//   - [slog.LevelInfo]: lifecycle events (context created, model loaded)
//   - [slog.LevelWarn]: non-fatal asset problems (skipped glTF images)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
