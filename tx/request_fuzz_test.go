// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/test/datagen"
)

func FuzzRequestMarshalling(f *testing.F) {
	f.Fuzz(func(t *testing.T, b []byte, ui8 uint8, ui16 uint16, ui64 uint64) {
		newReq := randomRequest(b, ui8, ui16, ui64)
		enc, err := rlp.EncodeToBytes(newReq)
		if err != nil {
			t.Errorf("EncodeToBytes: %v", err)
		}
		decReq := new(Request)
		err = rlp.DecodeBytes(enc, decReq)
		if err != nil {
			t.Errorf("DecodeBytes: %v", err)
		}
		if err := checkRequestsEquality(newReq, decReq); err != nil {
			t.Errorf("Request expected to be the same but: %v", err)
		}
	})
}

func randomRequest(b []byte, ui8 uint8, ui16 uint16, ui64 uint64) *Request {
	kind := Kind(ui8%4 + 1)
	tag := datagen.RandBytes(1)[0]
	req, _ := NewBuilder(kind).
		ChainTag(tag).
		Args(&BridgeTransferArgs{
			Amount:      new(big.Int).SetUint64(ui64),
			DestAccount: b,
			DestChain:   ui16,
		}).
		Sequence(ui64).
		Expiration(uint64(ui16)).
		Build()

	priv, _ := crypto.HexToECDSA("99f0500549792796c14fed62011a51081dc5b5e68fe8bd8a13b86be829c4fd36")
	return MustSign(req, priv)
}

func checkRequestsEquality(expected, actual *Request) error {
	if expected.ID() != actual.ID() {
		return fmt.Errorf("ID: expected %v, got %v", expected.ID(), actual.ID())
	}
	if expected.SigningHash() != actual.SigningHash() {
		return fmt.Errorf("SigningHash: expected %v, got %v", expected.SigningHash(), actual.SigningHash())
	}
	expectedSender, err := expected.Sender()
	if err != nil {
		return fmt.Errorf("Sender: %w", err)
	}
	actualSender, err := actual.Sender()
	if err != nil {
		return fmt.Errorf("Sender: %w", err)
	}
	if expectedSender != actualSender {
		return fmt.Errorf("Sender: expected %v, got %v", expectedSender, actualSender)
	}
	return nil
}

func FuzzRequestDecoding(f *testing.F) {
	f.Fuzz(func(t *testing.T, input []byte) {
		var req Request
		_ = rlp.DecodeBytes(input, &req)
	})
}
