// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package table provides typed storage cells over the ledger state, similar
// to the keyed table and value resources of a contract runtime. Slots of a
// Table entry are derived by hashing the key with the table's base position,
// so distinct tables under one namespace never collide.
package table

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

type Key interface {
	Bytes() []byte
}

// Table is a persistent key/value mapping. There is no delete operation:
// entries, once written, stay in storage even when set to a zero value. The
// Contains check therefore distinguishes "never written" from "written zero".
type Table[K Key, V any] struct {
	context *Context
	basePos whoosh.Bytes32
}

func NewTable[K Key, V any](context *Context, pos whoosh.Bytes32) *Table[K, V] {
	return &Table[K, V]{context: context, basePos: pos}
}

func (t *Table[K, V]) slot(key K) whoosh.Bytes32 {
	return whoosh.Blake2b(key.Bytes(), t.basePos.Bytes())
}

// Get returns the value for the key, or the zero value of V if the key was
// never written.
func (t *Table[K, V]) Get(key K) (value V, err error) {
	err = t.context.state.DecodeStorage(t.context.address, t.slot(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Contains returns whether the key has ever been written.
func (t *Table[K, V]) Contains(key K) (contains bool, err error) {
	err = t.context.state.DecodeStorage(t.context.address, t.slot(key), func(raw []byte) error {
		contains = len(raw) > 0
		return nil
	})
	return
}

// Set writes the value for the key. Zero values still occupy the slot; RLP
// encodes them to at least one byte, which keeps the entry and Contains true.
func (t *Table[K, V]) Set(key K, value V) error {
	return t.context.state.EncodeStorage(t.context.address, t.slot(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
