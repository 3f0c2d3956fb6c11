// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whoosh

import "math/big"

// Constants of the vault protocol. Amounts are denominated in the vault
// token's smallest unit.
const (
	// MinTransferAmountUint is the exclusive lower bound of a bridge
	// transfer's source amount. Transfers must exceed it strictly.
	MinTransferAmountUint uint64 = 50_000

	// MinServiceFeeUint is the floor of the bridge service fee.
	MinServiceFeeUint uint64 = 5_000

	// ServiceFeeDivisorUint divides the source amount to obtain the
	// proportional part of the service fee.
	ServiceFeeDivisorUint uint64 = 10

	// MaxRequestExpiration bounds how far in the future (unit: second)
	// a signed request may remain valid.
	MaxRequestExpiration uint64 = 3600
)

// Big-number forms of the protocol constants, for balance arithmetic.
var (
	MinTransferAmount = new(big.Int).SetUint64(MinTransferAmountUint)
	MinServiceFee     = new(big.Int).SetUint64(MinServiceFeeUint)
	ServiceFeeDivisor = new(big.Int).SetUint64(ServiceFeeDivisorUint)
)

// VaultAddress is the well-known address whose native balance is the
// vault's pooled fund. It is derived from a name, so no key pair maps
// to it.
var VaultAddress = BytesToAddress(Blake2b([]byte("whoosh-vault")).Bytes())
