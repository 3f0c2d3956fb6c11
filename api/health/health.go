// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health reports whether the node is able to serve requests.
package health

import (
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
)

type Status struct {
	Healthy        bool   `json:"healthy"`
	Initialized    bool   `json:"initialized"`
	HeadVersion    uint32 `json:"headVersion"`
	JournalVersion uint32 `json:"journalVersion"`
}

type health struct {
	ledger *ledger.Ledger
	db     *bridgedb.BridgeDB
}

func newHealth(ledger *ledger.Ledger, db *bridgedb.BridgeDB) *health {
	return &health{
		ledger: ledger,
		db:     db,
	}
}

// status reports healthy when the vault is initialized and the bridge
// journal does not run ahead of the committed state.
func (h *health) status() (*Status, error) {
	summary, err := h.ledger.Summary()
	if err != nil {
		return nil, err
	}
	newest, err := h.db.Newest()
	if err != nil {
		return nil, err
	}

	healthy := summary.Initialized && newest.Version() <= summary.Version

	return &Status{
		Healthy:        healthy,
		Initialized:    summary.Initialized,
		HeadVersion:    summary.Version,
		JournalVersion: newest.Version(),
	}, nil
}
