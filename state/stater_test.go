// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whoosh-bridge/whoosh/lvldb"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

func TestStater(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	stater := NewStater(db)
	assert.NotNil(t, stater.NewState())
}

func TestStaterSnapshotIsolation(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	stater := NewStater(db)
	addr := whoosh.BytesToAddress([]byte("acc1"))

	st := stater.NewState()
	assert.Nil(t, st.SetBalance(addr, big.NewInt(1)))
	stage, _ := st.Stage()
	assert.Nil(t, stage.Commit())

	snapState, release := stater.NewSnapshotState()
	defer release()

	// the snapshot must not observe later writes
	st = stater.NewState()
	assert.Nil(t, st.SetBalance(addr, big.NewInt(2)))
	stage, _ = st.Stage()
	assert.Nil(t, stage.Commit())

	assert.Equal(t, M(snapState.GetBalance(addr)), []interface{}{big.NewInt(1), nil})
	assert.Equal(t, M(stater.NewState().GetBalance(addr)), []interface{}{big.NewInt(2), nil})
}

func TestStaterScanAccounts(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	stater := NewStater(db)

	acc1 := whoosh.BytesToAddress([]byte{0x1})
	acc2 := whoosh.BytesToAddress([]byte{0x2})
	acc3 := whoosh.BytesToAddress([]byte{0x3})

	st := stater.NewState()
	assert.Nil(t, st.SetBalance(acc1, big.NewInt(10)))
	assert.Nil(t, st.SetBalance(acc2, big.NewInt(20)))
	// a storage-only account leaves no account record behind
	st.SetStorage(acc3, whoosh.BytesToBytes32([]byte("key")), whoosh.BytesToBytes32([]byte("val")))
	stage, _ := st.Stage()
	assert.Nil(t, stage.Commit())

	var (
		addrs []whoosh.Address
		total = new(big.Int)
	)
	err := stater.ScanAccounts(func(addr whoosh.Address, acc *Account) error {
		addrs = append(addrs, addr)
		total.Add(total, acc.Balance)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []whoosh.Address{acc1, acc2}, addrs)
	assert.Equal(t, big.NewInt(30), total)

	wantErr := errors.New("stop")
	err = stater.ScanAccounts(func(whoosh.Address, *Account) error { return wantErr })
	assert.Equal(t, wantErr, err)

	// a record that does not decode stops the scan
	assert.Nil(t, db.Put(append([]byte(accountSpace), acc3[:]...), []byte{0x1}))
	err = stater.ScanAccounts(func(whoosh.Address, *Account) error { return nil })
	assert.ErrorContains(t, err, "decode account")
}
