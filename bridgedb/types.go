// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridgedb

import (
	"math/big"

	"github.com/whoosh-bridge/whoosh/vault"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Message is a journaled bridge message row.
type Message struct {
	Sequence    Sequence
	Time        uint64
	RequestID   whoosh.Bytes32
	Source      whoosh.Address
	Amount      *big.Int
	Fee         *big.Int
	DestAccount []byte
	DestChain   uint16
}

// NewMessage converts an emitted vault.Message to a journal row.
func NewMessage(seq Sequence, time uint64, requestID whoosh.Bytes32, msg *vault.Message) *Message {
	return &Message{
		Sequence:    seq,
		Time:        time,
		RequestID:   requestID,
		Source:      msg.SourceAccount,
		Amount:      msg.SourceAmount,
		Fee:         msg.Fee,
		DestAccount: msg.DestAccount,
		DestChain:   msg.DestChain,
	}
}

func bytesToAmount(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

type RangeType string

const (
	Version RangeType = "version"
	Time    RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds a filter by commit version or by unix time, depending on Unit.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// MessageCriteria matches rows by source account and/or destination chain.
// Criteria in a set are OR-ed, fields within one criteria are AND-ed.
type MessageCriteria struct {
	Source    *whoosh.Address
	DestChain *uint16
}

// MessageFilter filters journaled messages.
type MessageFilter struct {
	RequestID   *whoosh.Bytes32
	CriteriaSet []*MessageCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
