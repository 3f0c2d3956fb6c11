// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/whoosh-bridge/whoosh/vault"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Allocation seeds an account balance when a fresh database is bootstrapped.
type Allocation struct {
	Address whoosh.Address
	Balance *big.Int
}

// Config collects the operator-supplied ledger settings.
type Config struct {
	// ChainTag distinguishes this deployment. Signed requests carry it and
	// requests tagged for other deployments are refused.
	ChainTag byte

	// Owner is granted vault ownership when a fresh database is
	// bootstrapped. Reopening an existing database keeps the stored owner.
	Owner whoosh.Address

	// Params overrides the protocol parameters. Nil fields fall back to
	// the defaults.
	Params vault.Params

	// Allocations seed balances on a fresh database, typically dev
	// accounts.
	Allocations []Allocation

	// Now supplies the ledger clock in unix seconds. Wall clock when nil.
	Now func() uint64
}
