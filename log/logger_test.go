// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func levelVar(lvl slog.Level) *slog.LevelVar {
	var v slog.LevelVar
	v.Set(lvl)
	return &v
}

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandlerWithLevel(&buf, levelVar(LevelTrace), false))

	l.Info("vault opened", "owner", "0xabc", "amount", 1000000)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "INFO "), "unexpected level prefix: %q", out)
	assert.Contains(t, out, "vault opened")
	assert.Contains(t, out, "owner=0xabc")
	assert.Contains(t, out, "amount=1,000,000")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTerminalHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandlerWithLevel(&buf, levelVar(slog.LevelWarn), false))

	l.Debug("quiet")
	l.Info("quiet too")
	assert.Zero(t, buf.Len())

	l.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandlerWithLevel(&buf, levelVar(LevelTrace), false))

	sub := l.With("pkg", "vault")
	sub.Info("staked")

	assert.Contains(t, buf.String(), "pkg=vault")
}

func TestWithContextFollowsDefault(t *testing.T) {
	defer SetDefault(Root())

	l := WithContext("pkg", "ledger")

	var buf bytes.Buffer
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(&buf, levelVar(LevelTrace), false)))
	l.Info("first", "seq", 1)
	assert.Contains(t, buf.String(), "pkg=ledger")
	assert.Contains(t, buf.String(), "first")

	// swapping the default reroutes the already-created context logger
	var buf2 bytes.Buffer
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(&buf2, levelVar(LevelTrace), false)))
	l.Info("second", "seq", 2)
	assert.NotContains(t, buf.String(), "second")
	assert.Contains(t, buf2.String(), "second")
	assert.Contains(t, buf2.String(), "pkg=ledger")
}

func TestFromLegacyLevel(t *testing.T) {
	tests := []struct {
		lvl      int
		expected slog.Level
	}{
		{0, LevelCrit},
		{1, slog.LevelError},
		{2, slog.LevelWarn},
		{3, slog.LevelInfo},
		{4, slog.LevelDebug},
		{5, LevelTrace},
		{9, LevelTrace},
		{-1, LevelCrit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FromLegacyLevel(tt.lvl))
	}
}
