// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// FlagCell is a wrapper for storage and retrieval of a boolean flag.
// An unwritten slot reads as false.
type FlagCell struct {
	context *Context
	pos     whoosh.Bytes32
}

func NewFlagCell(context *Context, pos whoosh.Bytes32) *FlagCell {
	return &FlagCell{context: context, pos: pos}
}

func (f *FlagCell) Get() (bool, error) {
	storage, err := f.context.state.GetStorage(f.context.address, f.pos)
	if err != nil {
		return false, err
	}
	return !storage.IsZero(), nil
}

func (f *FlagCell) Set(value bool) {
	var storage whoosh.Bytes32
	if value {
		storage[31] = 1
	}
	f.context.state.SetStorage(f.context.address, f.pos, storage)
}
