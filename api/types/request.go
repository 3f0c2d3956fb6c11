// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// RawRequest is an RLP encoded signed request in json format.
type RawRequest struct {
	Raw string `json:"raw"`
}

// Decode decodes the hex encoded payload into a signed request.
func (r *RawRequest) Decode() (*tx.Request, error) {
	data, err := hexutil.Decode(r.Raw)
	if err != nil {
		return nil, err
	}
	var req tx.Request
	if err := rlp.DecodeBytes(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Receipt is the outcome of a committed request in json format.
type Receipt struct {
	ID      whoosh.Bytes32 `json:"id"`
	Version uint32         `json:"version"`
	Kind    string         `json:"kind"`
	Sender  whoosh.Address `json:"sender"`
	Message *Message       `json:"message"`
}

// ConvertReceipt converts a commit receipt into a json format receipt.
func ConvertReceipt(receipt *ledger.Receipt) *Receipt {
	r := &Receipt{
		ID:      receipt.ID,
		Version: receipt.Version,
		Kind:    receipt.Kind.String(),
		Sender:  receipt.Sender,
	}
	if receipt.Message != nil {
		r.Message = ConvertMessage(receipt.Message)
	}
	return r
}
