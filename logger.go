// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vroverlay

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/vroverlay/gpu"
	"github.com/gogpu/vroverlay/internal/convert"
	"github.com/gogpu/vroverlay/internal/session"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for vroverlay and all its sub-packages.
// By default, vroverlay produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silent logging.
//
// Log levels used by vroverlay:
//   - [slog.LevelDebug]: pipeline state, channel-order probe, missing optional interfaces
//   - [slog.LevelInfo]: session init and shutdown, GPU device opened
//   - [slog.LevelWarn]: GPU fallback, resource release problems
//   - [slog.LevelError]: invariant violations
//
// Example:
//
//	vroverlay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	gpu.SetLogger(l)
	convert.SetLogger(l)
	session.SetLogger(l)
}

// Logger returns the current logger used by vroverlay.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func slogger() *slog.Logger { return loggerPtr.Load() }
