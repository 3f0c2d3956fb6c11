// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"errors"
	"fmt"
)

// Code classifies why a vault operation was refused.
type Code int

const (
	// CodeVaultNotFound is raised by any operation against an
	// uninitialized vault.
	CodeVaultNotFound Code = iota + 1

	// CodeInsufficientVaultBalance is raised when an extraction asks for
	// more than the pooled balance holds.
	CodeInsufficientVaultBalance

	// CodeInvalidAmount is raised for zero or negative amounts, and for
	// unstake requests exceeding the caller's claim.
	CodeInvalidAmount

	// CodeNoStakeRecord is raised when the account has no claim entry.
	CodeNoStakeRecord

	// CodeTransferAmountTooLow is raised when a bridge transfer does not
	// strictly exceed the minimum transfer amount.
	CodeTransferAmountTooLow

	// CodeNotVaultOwner is raised when the owner gated withdrawal is
	// invoked by anyone but the stored owner.
	CodeNotVaultOwner

	// CodeInsufficientCallerFunds is raised when the caller's balance
	// cannot cover the requested deposit.
	CodeInsufficientCallerFunds
)

func (c Code) String() string {
	switch c {
	case CodeVaultNotFound:
		return "vault not found"
	case CodeInsufficientVaultBalance:
		return "insufficient vault balance"
	case CodeInvalidAmount:
		return "invalid amount"
	case CodeNoStakeRecord:
		return "no stake record"
	case CodeTransferAmountTooLow:
		return "transfer amount too low"
	case CodeNotVaultOwner:
		return "not vault owner"
	case CodeInsufficientCallerFunds:
		return "insufficient caller funds"
	}
	return fmt.Sprintf("abort code %d", int(c))
}

// Abort is the typed refusal of a vault operation. Every abort is raised
// before the operation writes anything, so a caller observing an abort
// observes unchanged state.
type Abort struct {
	Code   Code
	Detail string
}

func (a *Abort) Error() string {
	if a.Detail == "" {
		return a.Code.String()
	}
	return a.Code.String() + ": " + a.Detail
}

func newAbort(code Code, format string, args ...interface{}) *Abort {
	return &Abort{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// IsAbort returns whether err is an abort with the given code.
func IsAbort(err error, code Code) bool {
	var a *Abort
	return errors.As(err, &a) && a.Code == code
}

// AbortCode extracts the abort code from err.
func AbortCode(err error) (Code, bool) {
	var a *Abort
	if errors.As(err, &a) {
		return a.Code, true
	}
	return 0, false
}
