// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/whoosh-bridge/whoosh/api/restutil"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/vault"
)

// convertError maps engine refusals onto http statuses. Anything
// unclassified passes through and surfaces as 500.
func convertError(err error) error {
	if code, ok := vault.AbortCode(err); ok {
		switch code {
		case vault.CodeVaultNotFound, vault.CodeNoStakeRecord:
			return restutil.NotFound(err)
		case vault.CodeInvalidAmount, vault.CodeTransferAmountTooLow:
			return restutil.BadRequest(err)
		}
		return restutil.Forbidden(err)
	}
	if ledger.IsBadRequest(err) {
		return restutil.BadRequest(err)
	}
	if ledger.IsRejected(err) {
		return restutil.Forbidden(err)
	}
	return err
}
