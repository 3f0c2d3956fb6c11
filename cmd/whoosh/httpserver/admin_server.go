// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"

	"github.com/whoosh-bridge/whoosh/api/admin"
)

// StartAdminServer exposes the admin API, currently the log verbosity
// endpoint, on its own listener.
func StartAdminServer(addr string, logLevel *slog.LevelVar) (string, func(), error) {
	return startServer("admin", addr, "/admin", admin.New(logLevel))
}
