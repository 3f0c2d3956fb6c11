// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts exposes account balances and request sequences.
package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/api/restutil"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Account is an account's balance and next request sequence in json format.
type Account struct {
	Balance  *math.HexOrDecimal256 `json:"balance"`
	Sequence math.HexOrDecimal64   `json:"sequence"`
}

type Accounts struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Accounts {
	return &Accounts{ledger}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	hexAddr := mux.Vars(req)["address"]
	addr, err := whoosh.ParseAddress(hexAddr)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.ledger.Account(*addr)
	if err != nil {
		return err
	}
	balance := math.HexOrDecimal256(*acc.Balance)
	return restutil.WriteJSON(w, &Account{
		Balance:  &balance,
		Sequence: math.HexOrDecimal64(acc.Sequence),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAccount))
}
