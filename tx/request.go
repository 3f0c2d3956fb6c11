// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tx defines the signed request envelope carrying vault operations.
//
// A request binds one operation (kind + RLP argument payload) to a chain tag,
// the sender's account sequence and an expiration time, and is authenticated
// by a 65-byte recoverable secp256k1 signature over the request's signing
// hash. The sender address is always recovered from the signature, never
// taken from the payload.
package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/secp256k1"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Kind enumerates the vault operations a request can carry.
type Kind uint8

const (
	KindStake Kind = iota + 1
	KindUnstake
	KindBridgeTransfer
	KindOwnerWithdraw
)

func (k Kind) String() string {
	switch k {
	case KindStake:
		return "stake"
	case KindUnstake:
		return "unstake"
	case KindBridgeTransfer:
		return "bridge-transfer"
	case KindOwnerWithdraw:
		return "owner-withdraw"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Request is an immutable signed operation envelope.
type Request struct {
	body body

	cache struct {
		signingHash atomic.Value
		sender      atomic.Value
		id          atomic.Value
	}
}

// body describes details of a request.
type body struct {
	ChainTag   byte
	Kind       Kind
	Args       []byte
	Sequence   uint64
	Expiration uint64
	Signature  []byte
}

// ChainTag returns the chain tag separating deployments.
func (r *Request) ChainTag() byte {
	return r.body.ChainTag
}

// Kind returns the operation kind.
func (r *Request) Kind() Kind {
	return r.body.Kind
}

// Args returns a copy of the RLP argument payload.
func (r *Request) Args() []byte {
	return append([]byte(nil), r.body.Args...)
}

// DecodeArgs decodes the argument payload into v, which should be a pointer
// to the args struct matching the request kind.
func (r *Request) DecodeArgs(v interface{}) error {
	return rlp.DecodeBytes(r.body.Args, v)
}

// Sequence returns the sender account sequence this request consumes.
func (r *Request) Sequence() uint64 {
	return r.body.Sequence
}

// Expiration returns the unix second after which the request is stale.
func (r *Request) Expiration() uint64 {
	return r.body.Expiration
}

// Expired checks whether the request expired at the given unix second.
func (r *Request) Expired(now uint64) bool {
	return r.body.Expiration <= now
}

// Signature returns a copy of the signature.
func (r *Request) Signature() []byte {
	return append([]byte(nil), r.body.Signature...)
}

// WithSignature creates a new request with signature set.
func (r *Request) WithSignature(sig []byte) *Request {
	newReq := Request{
		body: r.body,
	}
	newReq.body.Signature = append([]byte(nil), sig...)
	return &newReq
}

// SigningHash returns the hash the sender signs. It covers everything but
// the signature.
func (r *Request) SigningHash() (hash whoosh.Bytes32) {
	if cached := r.cache.signingHash.Load(); cached != nil {
		return cached.(whoosh.Bytes32)
	}
	defer func() { r.cache.signingHash.Store(hash) }()

	return whoosh.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []interface{}{
			r.body.ChainTag,
			r.body.Kind,
			r.body.Args,
			r.body.Sequence,
			r.body.Expiration,
		})
	})
}

// ID returns the request identifier, unique per signed envelope. It is the
// hash of the full encoding, signature included.
func (r *Request) ID() (id whoosh.Bytes32) {
	if cached := r.cache.id.Load(); cached != nil {
		return cached.(whoosh.Bytes32)
	}
	defer func() { r.cache.id.Store(id) }()

	return whoosh.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, r)
	})
}

// Sender extracts the sender address from the signature.
func (r *Request) Sender() (sender whoosh.Address, err error) {
	if cached := r.cache.sender.Load(); cached != nil {
		return cached.(whoosh.Address), nil
	}
	defer func() {
		if err == nil {
			r.cache.sender.Store(sender)
		}
	}()

	if len(r.body.Signature) != 65 {
		return whoosh.Address{}, secp256k1.ErrInvalidSignatureLen
	}
	pub, err := crypto.SigToPub(r.SigningHash().Bytes(), r.body.Signature)
	if err != nil {
		return whoosh.Address{}, err
	}
	return whoosh.AddressFromPubKey(pub), nil
}

// EncodeRLP implements rlp.Encoder.
func (r *Request) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &r.body)
}

// DecodeRLP implements rlp.Decoder.
func (r *Request) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*r = Request{
		body: body,
	}
	return nil
}

func (r *Request) String() string {
	sender := "N/A"
	if s, err := r.Sender(); err == nil {
		sender = s.String()
	}
	return fmt.Sprintf(`Request(%v)
	Sender:     %v
	ChainTag:   %v
	Kind:       %v
	Sequence:   %v
	Expiration: %v`,
		r.ID(), sender, r.body.ChainTag, r.body.Kind, r.body.Sequence, r.body.Expiration)
}
