// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
)

// WithContext returns a logger that carries the given context key/value pairs
// and delegates to the root logger at call time. Unlike Root().With, which
// captures the root logger once, the returned logger follows later
// SetDefault calls. That makes it safe to assign to package level variables
// during init, before main has installed the real handler.
func WithContext(ctx ...interface{}) Logger {
	return &contextLogger{ctx: ctx}
}

type contextLogger struct {
	ctx []interface{}
}

func (c *contextLogger) merge(ctx []interface{}) []interface{} {
	merged := make([]interface{}, 0, len(c.ctx)+len(ctx))
	merged = append(merged, c.ctx...)
	return append(merged, ctx...)
}

func (c *contextLogger) With(ctx ...interface{}) Logger {
	return &contextLogger{ctx: c.merge(ctx)}
}

func (c *contextLogger) New(ctx ...interface{}) Logger {
	return c.With(ctx...)
}

func (c *contextLogger) Log(level slog.Level, msg string, ctx ...interface{}) {
	Root().Write(level, msg, c.merge(ctx)...)
}

func (c *contextLogger) Trace(msg string, ctx ...interface{}) {
	Root().Write(LevelTrace, msg, c.merge(ctx)...)
}

func (c *contextLogger) Debug(msg string, ctx ...interface{}) {
	Root().Write(slog.LevelDebug, msg, c.merge(ctx)...)
}

func (c *contextLogger) Info(msg string, ctx ...interface{}) {
	Root().Write(slog.LevelInfo, msg, c.merge(ctx)...)
}

func (c *contextLogger) Warn(msg string, ctx ...interface{}) {
	Root().Write(slog.LevelWarn, msg, c.merge(ctx)...)
}

func (c *contextLogger) Error(msg string, ctx ...interface{}) {
	Root().Write(slog.LevelError, msg, c.merge(ctx)...)
}

func (c *contextLogger) Crit(msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, msg, c.merge(ctx)...)
	os.Exit(1)
}

func (c *contextLogger) Write(level slog.Level, msg string, attrs ...interface{}) {
	Root().Write(level, msg, c.merge(attrs)...)
}

func (c *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (c *contextLogger) Handler() slog.Handler {
	return Root().Handler()
}
