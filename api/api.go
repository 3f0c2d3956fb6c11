// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the REST and websocket interface of a node.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/whoosh-bridge/whoosh/api/accounts"
	"github.com/whoosh-bridge/whoosh/api/doc"
	"github.com/whoosh-bridge/whoosh/api/health"
	"github.com/whoosh-bridge/whoosh/api/messages"
	"github.com/whoosh-bridge/whoosh/api/subscriptions"
	"github.com/whoosh-bridge/whoosh/api/vault"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	MessagesLimit   uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New assembles the handler serving the public API address. The returned
// close func shuts down the subscription websockets.
func New(ledger *ledger.Ledger, journal *bridgedb.BridgeDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	// to serve the open api docs
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)

	// redirect to the open api spec
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/whoosh.yaml", http.StatusTemporaryRedirect)
		})

	vault.New(ledger).
		Mount(router, "/vault")
	accounts.New(ledger).
		Mount(router, "/accounts")
	messages.New(journal, opts.MessagesLimit).
		Mount(router, "/messages")
	health.New(ledger, journal).
		Mount(router, "/health")
	subs := subscriptions.New(ledger, journal, uint32(opts.MessagesLimit))
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	// hijacked websocket conns outlive the http server, close them here
	return handler.ServeHTTP, subs.Close
}
