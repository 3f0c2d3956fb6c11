// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/whoosh-bridge/whoosh/metrics"
)

// StartMetricsServer exposes the Prometheus exposition endpoint. The metrics
// backend must be initialized first, or the handler serves nothing.
func StartMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	return startServer("metrics", addr, "/metrics", handlers.CompressHandler(router))
}
