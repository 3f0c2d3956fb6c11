// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault exposes the vault state and the signed operation endpoints.
package vault

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/api/restutil"
	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

type Vault struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Vault {
	return &Vault{ledger}
}

func (v *Vault) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	summary, err := v.ledger.Summary()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertSummary(summary))
}

func (v *Vault) handleGetClaim(w http.ResponseWriter, req *http.Request) error {
	hexAddr := mux.Vars(req)["address"]
	addr, err := whoosh.ParseAddress(hexAddr)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	staked, err := v.ledger.StakedAmount(*addr)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertClaim(*addr, staked))
}

// executeRequest decodes the raw payload, checks it carries the operation
// the endpoint is for and runs it through the ledger.
func (v *Vault) executeRequest(w http.ResponseWriter, req *http.Request, kind tx.Kind) error {
	var raw *types.RawRequest
	if err := restutil.ParseJSON(req.Body, &raw); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	request, err := raw.Decode()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "raw"))
	}
	if request.Kind() != kind {
		return restutil.BadRequest(fmt.Errorf("raw: request kind is %v, endpoint expects %v", request.Kind(), kind))
	}
	receipt, err := v.ledger.Execute(request)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, types.ConvertReceipt(receipt))
}

func (v *Vault) handleStake(w http.ResponseWriter, req *http.Request) error {
	return v.executeRequest(w, req, tx.KindStake)
}

func (v *Vault) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	return v.executeRequest(w, req, tx.KindUnstake)
}

func (v *Vault) handleBridgeTransfer(w http.ResponseWriter, req *http.Request) error {
	return v.executeRequest(w, req, tx.KindBridgeTransfer)
}

func (v *Vault) handleOwnerWithdraw(w http.ResponseWriter, req *http.Request) error {
	return v.executeRequest(w, req, tx.KindOwnerWithdraw)
}

func (v *Vault) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vault").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetSummary))
	sub.Path("/claims/{address}").
		Methods(http.MethodGet).
		Name("GET /vault/claims/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetClaim))
	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /vault/stake").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleStake))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /vault/unstake").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleUnstake))
	sub.Path("/bridge-transfer").
		Methods(http.MethodPost).
		Name("POST /vault/bridge-transfer").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleBridgeTransfer))
	sub.Path("/owner-withdraw").
		Methods(http.MethodPost).
		Name("POST /vault/owner-withdraw").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleOwnerWithdraw))
}
