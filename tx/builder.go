// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Builder to make it easy to build a request.
type Builder struct {
	body body
	err  error
}

// NewBuilder creates a builder for a request of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{body: body{Kind: kind}}
}

// ChainTag sets the chain tag.
func (b *Builder) ChainTag(tag byte) *Builder {
	b.body.ChainTag = tag
	return b
}

// Args sets the argument payload, RLP-encoding v.
func (b *Builder) Args(v interface{}) *Builder {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		b.err = errors.Wrap(err, "encode request args")
		return b
	}
	b.body.Args = data
	return b
}

// Sequence sets the sender account sequence.
func (b *Builder) Sequence(seq uint64) *Builder {
	b.body.Sequence = seq
	return b
}

// Expiration sets the expiration unix second.
func (b *Builder) Expiration(exp uint64) *Builder {
	b.body.Expiration = exp
	return b
}

// Build builds the request object.
func (b *Builder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	req := Request{body: b.body}
	return &req, nil
}
