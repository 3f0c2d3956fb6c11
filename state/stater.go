// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/whoosh-bridge/whoosh/kv"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Stater is the state creator.
type Stater struct {
	store kv.Store
}

// NewStater create a new stater.
func NewStater(store kv.Store) *Stater {
	return &Stater{store}
}

// NewState create a new state object over the live store.
func (s *Stater) NewState() *State {
	return New(s.store)
}

// NewSnapshotState create a read-only state pinned to the current store
// content. The returned release func must be called when done with it.
func (s *Stater) NewSnapshotState() (*State, func()) {
	snap := s.store.Snapshot()
	return NewAtSnapshot(snap), snap.Release
}

// ScanAccounts walks all account records in address order, calling cb for
// each until the walk ends or cb returns an error. Records are read straight
// from the store, bypassing the state cache.
func (s *Stater) ScanAccounts(cb func(addr whoosh.Address, acc *Account) error) error {
	iter := s.store.Iterate(kv.Range(*util.BytesPrefix([]byte(accountSpace))))
	defer iter.Release()

	for iter.Next() {
		addr := whoosh.BytesToAddress(iter.Key()[len(accountSpace):])
		var acc Account
		if err := rlp.DecodeBytes(iter.Value(), &acc); err != nil {
			return errors.Wrapf(err, "decode account %v", addr)
		}
		if err := cb(addr, &acc); err != nil {
			return err
		}
	}
	return iter.Error()
}
