// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/whoosh-bridge/whoosh/kv"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Account is the ledger representation of an account.
// RLP encoded objects are stored in the account space of the kv store.
type Account struct {
	Balance  *big.Int
	Sequence uint64
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and zero sequence.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && a.Sequence == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

// loadAccount load an account object by address.
// It returns an empty account if no account found at the address.
func loadAccount(getter kv.Getter, addr whoosh.Address) (*Account, error) {
	data, err := getter.Get(addr[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save account into the putter.
// If the account is empty, the account record gets deleted.
func saveAccount(putter kv.Putter, addr whoosh.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr[:])
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr[:], data)
}

// loadStorage load storage data for given key.
func loadStorage(getter kv.Getter, key storageKey) (rlp.RawValue, error) {
	data, err := getter.Get(key.raw())
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// saveStorage save the storage data for the given key.
// If data is zero length, the record gets deleted.
func saveStorage(putter kv.Putter, key storageKey, data rlp.RawValue) error {
	if len(data) == 0 {
		return putter.Delete(key.raw())
	}
	return putter.Put(key.raw(), data)
}
