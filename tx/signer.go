// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// MustSign signs a request using the provided private key.
// It panics if the signing process fails, returning a signed request upon success.
func MustSign(req *Request, pk *ecdsa.PrivateKey) *Request {
	signed, err := Sign(req, pk)
	if err != nil {
		panic(err)
	}
	return signed
}

// Sign signs a request using the provided private key.
// It returns the signed request or an error if the signing process fails.
func Sign(req *Request, pk *ecdsa.PrivateKey) (*Request, error) {
	sig, err := crypto.Sign(req.SigningHash().Bytes(), pk)
	if err != nil {
		return nil, fmt.Errorf("unable to sign request: %w", err)
	}

	return req.WithSignature(sig), nil
}
