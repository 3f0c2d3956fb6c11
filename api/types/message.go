// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types defines the JSON shapes shared by the REST API and its
// clients, with converters from the internal representations.
package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Message is a journaled bridge message in json format.
type Message struct {
	Sequence    math.HexOrDecimal64   `json:"sequence"`
	Version     uint32                `json:"version"`
	Time        uint64                `json:"time"`
	RequestID   whoosh.Bytes32        `json:"requestID"`
	Source      whoosh.Address        `json:"source"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Fee         *math.HexOrDecimal256 `json:"fee"`
	DestAccount string                `json:"destAccount"`
	DestChain   uint16                `json:"destChain"`
}

// ConvertMessage converts a journal row into a json format message.
func ConvertMessage(msg *bridgedb.Message) *Message {
	amount := math.HexOrDecimal256(*msg.Amount)
	fee := math.HexOrDecimal256(*msg.Fee)
	return &Message{
		Sequence:    math.HexOrDecimal64(uint64(msg.Sequence)),
		Version:     msg.Sequence.Version(),
		Time:        msg.Time,
		RequestID:   msg.RequestID,
		Source:      msg.Source,
		Amount:      &amount,
		Fee:         &fee,
		DestAccount: hexutil.Encode(msg.DestAccount),
		DestChain:   msg.DestChain,
	}
}
