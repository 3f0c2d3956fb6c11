// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Message is the record emitted by a bridge transfer, the sole signal an
// off-chain relay consumes. DestAccount is opaque: the destination chain's
// account encoding is not interpreted here.
type Message struct {
	SourceAccount whoosh.Address
	SourceAmount  *big.Int
	Fee           *big.Int
	DestAccount   []byte
	DestChain     uint16
}
