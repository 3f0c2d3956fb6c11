// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/kv"
	"github.com/whoosh-bridge/whoosh/stackedmap"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

const (
	accountSpace = kv.Bucket("a") // the key space of account records
	storageSpace = kv.Bucket("s") // the key space of storage cells
)

var errReadOnly = errors.New("read-only state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// State manages the ledger world state. It journals all changes so that an
// operation either stages completely or reverts completely.
type State struct {
	getter kv.Getter
	bulker func() kv.Bulk
	cache  map[whoosh.Address]*cachedAccount
	sm     *stackedmap.StackedMap // keeps revisions of account state
}

// New create a state object over the given store.
func New(store kv.Store) *State {
	return newState(store, store.Bulk)
}

// NewAtSnapshot create a read-only state over a store snapshot.
// Staging changes of such a state will fail.
func NewAtSnapshot(snap kv.Snapshot) *State {
	return newState(snap, nil)
}

func newState(getter kv.Getter, bulker func() kv.Bulk) *State {
	state := State{
		getter: getter,
		bulker: bulker,
		cache:  make(map[whoosh.Address]*cachedAccount),
	}
	state.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		return state.cacheGetter(key)
	})
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key interface{}) (value interface{}, exist bool, err error) {
	switch k := key.(type) {
	case whoosh.Address: // get account
		obj, err := s.getCachedAccount(k)
		if err != nil {
			return nil, false, err
		}
		return &obj.data, true, nil
	case storageKey: // get storage
		obj, err := s.getCachedAccount(k.addr)
		if err != nil {
			return nil, false, err
		}
		v, err := obj.GetStorage(k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) getCachedAccount(addr whoosh.Address) (*cachedAccount, error) {
	if co, ok := s.cache[addr]; ok {
		metricAccountLookups().AddWithLabel(1, map[string]string{"type": "hit"})
		return co, nil
	}
	metricAccountLookups().AddWithLabel(1, map[string]string{"type": "miss"})
	a, err := loadAccount(accountSpace.NewGetter(s.getter), addr)
	if err != nil {
		return nil, err
	}
	co := newCachedAccount(storageSpace.NewGetter(s.getter), a)
	s.cache[addr] = co
	return co, nil
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr whoosh.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// getAccountCopy get a copy of account by address.
func (s *State) getAccountCopy(addr whoosh.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr whoosh.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr whoosh.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return acc.Balance, nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr whoosh.Address, balance *big.Int) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
	return nil
}

// GetSequence returns the request sequence number of the given address.
func (s *State) GetSequence(addr whoosh.Address) (uint64, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return 0, &Error{err}
	}
	return acc.Sequence, nil
}

// SetSequence set the request sequence number for the given address.
func (s *State) SetSequence(addr whoosh.Address, seq uint64) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Sequence = seq
	s.updateAccount(addr, &cpy)
	return nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr whoosh.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr whoosh.Address, key whoosh.Bytes32) (whoosh.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return whoosh.Bytes32{}, &Error{err}
	}
	if len(raw) == 0 {
		return whoosh.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return whoosh.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return whoosh.Blake2b(raw), nil
	}
	return whoosh.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr whoosh.Address, key, value whoosh.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr whoosh.Address, key whoosh.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr whoosh.Address, key whoosh.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr whoosh.Address, key whoosh.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr whoosh.Address, key whoosh.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return &Error{err}
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit all changes atomically.
func (s *State) Stage() (*Stage, error) {
	if s.bulker == nil {
		return nil, &Error{errReadOnly}
	}

	type changed struct {
		data    Account
		storage map[whoosh.Bytes32]rlp.RawValue
	}

	changes := make(map[whoosh.Address]*changed)

	// get or create changed account
	getChanged := func(addr whoosh.Address) (*changed, error) {
		if obj, ok := changes[addr]; ok {
			return obj, nil
		}
		co, err := s.getCachedAccount(addr)
		if err != nil {
			return nil, &Error{err}
		}
		c := &changed{data: co.data}
		changes[addr] = c
		return c, nil
	}

	var jerr error
	// traverse journal to build changes
	s.sm.Journal(func(k, v interface{}) bool {
		var c *changed
		switch key := k.(type) {
		case whoosh.Address:
			if c, jerr = getChanged(key); jerr != nil {
				return false
			}
			c.data = *(v.(*Account))
		case storageKey:
			if c, jerr = getChanged(key.addr); jerr != nil {
				return false
			}
			if c.storage == nil {
				c.storage = make(map[whoosh.Bytes32]rlp.RawValue)
			}
			c.storage[key.key] = v.(rlp.RawValue)
		}
		return true
	})
	if jerr != nil {
		return nil, &Error{jerr}
	}

	return &Stage{
		commit: func() error {
			bulk := s.bulker()
			accPutter := accountSpace.NewPutter(bulk)
			storagePutter := storageSpace.NewPutter(bulk)
			for addr, c := range changes {
				if err := saveAccount(accPutter, addr, &c.data); err != nil {
					return err
				}
				// storage cells outlive empty accounts, so they are
				// always written out
				for k, v := range c.storage {
					if err := saveStorage(storagePutter, storageKey{addr, k}, v); err != nil {
						return err
					}
				}
			}
			return bulk.Write()
		},
	}, nil
}

type storageKey struct {
	addr whoosh.Address
	key  whoosh.Bytes32
}

func (k storageKey) raw() []byte {
	return append(k.addr.Bytes(), k.key[:]...)
}
