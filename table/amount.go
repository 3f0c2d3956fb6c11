// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

// AmountCell is a wrapper for storage and retrieval of a non-negative amount.
// The value is stored as a big-endian 32-byte word; amounts exceeding 256 bits
// are truncated to fit.
type AmountCell struct {
	context *Context
	pos     whoosh.Bytes32
}

func NewAmountCell(context *Context, pos whoosh.Bytes32) *AmountCell {
	return &AmountCell{context: context, pos: pos}
}

func (a *AmountCell) Get() (*big.Int, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (a *AmountCell) Set(value *big.Int) {
	storage := whoosh.BytesToBytes32(value.Bytes())
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}

func (a *AmountCell) Add(value *big.Int) error {
	storage, err := a.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	a.Set(storage)
	return nil
}

// Sub subtracts value from the cell. The stored amount is unsigned, so a
// subtraction below zero is refused and the cell is left untouched.
func (a *AmountCell) Sub(value *big.Int) error {
	storage, err := a.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errors.Errorf("amount cell underflow: have %v, sub %v", storage, value)
	}
	storage.Sub(storage, value)
	a.Set(storage)
	return nil
}
