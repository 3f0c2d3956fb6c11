// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/whoosh-bridge/whoosh/api/restutil"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
)

type API struct {
	health *health
}

func New(ledger *ledger.Ledger, db *bridgedb.BridgeDB) *API {
	return &API{health: newHealth(ledger, db)}
}

func (h *API) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status, err := h.health.status()
	if err != nil {
		return err
	}

	// load balancers key off the status code, the body is informational
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	return restutil.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(restutil.WrapHandlerFunc(h.handleGetHealth))
}
