// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Summary is the vault state in json format.
type Summary struct {
	Version           uint32                `json:"version"`
	VaultAddress      whoosh.Address        `json:"vaultAddress"`
	Initialized       bool                  `json:"initialized"`
	Owner             whoosh.Address        `json:"owner"`
	TotalStaked       *math.HexOrDecimal256 `json:"totalStaked"`
	PoolBalance       *math.HexOrDecimal256 `json:"poolBalance"`
	MinTransferAmount *math.HexOrDecimal256 `json:"minTransferAmount"`
	MinServiceFee     *math.HexOrDecimal256 `json:"minServiceFee"`
}

// Claim is an account's staked claim in json format. Amount may be zero,
// claim entries survive full unstaking.
type Claim struct {
	Address whoosh.Address        `json:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

func convertSummary(summary *ledger.Summary) *Summary {
	return &Summary{
		Version:           summary.Version,
		VaultAddress:      summary.VaultAddress,
		Initialized:       summary.Initialized,
		Owner:             summary.Owner,
		TotalStaked:       convertAmount(summary.TotalStaked),
		PoolBalance:       convertAmount(summary.PoolBalance),
		MinTransferAmount: convertAmount(summary.MinTransferAmount),
		MinServiceFee:     convertAmount(summary.MinServiceFee),
	}
}

func convertClaim(addr whoosh.Address, amount *big.Int) *Claim {
	return &Claim{
		Address: addr,
		Amount:  convertAmount(amount),
	}
}

func convertAmount(x *big.Int) *math.HexOrDecimal256 {
	if x == nil {
		return nil
	}
	v := math.HexOrDecimal256(*x)
	return &v
}
