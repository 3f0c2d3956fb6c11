// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

// StakeArgs is the payload of a stake request.
type StakeArgs struct {
	Amount *big.Int
}

// UnstakeArgs is the payload of an unstake request.
type UnstakeArgs struct {
	Amount *big.Int
}

// BridgeTransferArgs is the payload of a bridge transfer request. DestAccount
// is the raw account identifier on the destination chain and is carried
// opaque.
type BridgeTransferArgs struct {
	Amount      *big.Int
	DestAccount []byte
	DestChain   uint16
}

// OwnerWithdrawArgs is the payload of an owner withdrawal request.
type OwnerWithdrawArgs struct {
	Dest   whoosh.Address
	Amount *big.Int
}
