// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin assembles the operator-only endpoints of a node.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/whoosh-bridge/whoosh/api/admin/loglevel"
)

func New(logLevel *slog.LevelVar) http.HandlerFunc {
	router := mux.NewRouter()

	loglevel.New(logLevel).Mount(router, "/admin/loglevel")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
