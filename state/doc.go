// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger accounts and their storage cells.
// It follows the flow as below:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ staging ] -> [ kv batch ]
//	          |
//	  [ account cache ]
//	          |
//	   [ kv store / snapshot ]
//
// Accounts are flat records keyed by address. Storage cells are raw RLP
// values keyed by address plus cell key, and they outlive their account:
// a cell written once stays addressable even after the account's balance
// drains to zero.
package state
