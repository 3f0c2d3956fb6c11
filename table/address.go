// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// AddressCell is a wrapper for storage and retrieval of an address.
type AddressCell struct {
	context *Context
	pos     whoosh.Bytes32
}

func NewAddressCell(context *Context, pos whoosh.Bytes32) *AddressCell {
	return &AddressCell{context: context, pos: pos}
}

func (a *AddressCell) Get() (whoosh.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return whoosh.Address{}, err
	}
	return whoosh.BytesToAddress(storage.Bytes()), nil
}

func (a *AddressCell) Set(addr *whoosh.Address) {
	var storage whoosh.Bytes32
	if addr != nil {
		storage = whoosh.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
