// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "errors"

// IsBadRequest reports whether err marks a request that can never commit,
// no matter how the state moves.
func IsBadRequest(err error) bool {
	return errors.As(err, &badRequestError{})
}

// IsRejected reports whether err marks a request refused against the current
// head. Such a request may become committable after the state moves.
func IsRejected(err error) bool {
	return errors.As(err, &rejectedError{})
}

type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return "bad request: " + e.msg
}

type rejectedError struct {
	msg string
}

func (e rejectedError) Error() string {
	return "request rejected: " + e.msg
}
