// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/kv"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// cachedAccount to cache an account and its touched storage.
type cachedAccount struct {
	data    Account
	getter  kv.Getter
	storage map[whoosh.Bytes32]rlp.RawValue
}

func newCachedAccount(getter kv.Getter, a *Account) *cachedAccount {
	return &cachedAccount{data: *a, getter: getter}
}

// GetStorage returns storage value for given key.
func (c *cachedAccount) GetStorage(addr whoosh.Address, key whoosh.Bytes32) (rlp.RawValue, error) {
	if v, ok := c.storage[key]; ok {
		return v, nil
	}
	v, err := loadStorage(c.getter, storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	if c.storage == nil {
		c.storage = make(map[whoosh.Bytes32]rlp.RawValue)
	}
	c.storage[key] = v
	return v, nil
}
