// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoosh-bridge/whoosh/api/accounts"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/lvldb"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

const (
	testChainTag = byte(0x42)
	testTime     = uint64(10_000)
)

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Ledger, *ecdsa.PrivateKey, whoosh.Address) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	journal, err := bridgedb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		journal.Close()
	})

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := whoosh.AddressFromPubKey(&key.PublicKey)

	led, err := ledger.New(store, journal, ledger.Config{
		ChainTag: testChainTag,
		Owner:    addr,
		Allocations: []ledger.Allocation{
			{Address: addr, Balance: big.NewInt(1_000_000)},
		},
		Now: func() uint64 { return testTime },
	})
	require.NoError(t, err)

	router := mux.NewRouter()
	accounts.New(led).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts, led, key, addr
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	return body, res.StatusCode
}

func TestGetAccount(t *testing.T) {
	ts, led, key, addr := newTestServer(t)

	res, status := httpGet(t, ts.URL+"/accounts/"+addr.String())
	require.Equal(t, http.StatusOK, status)
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(res, &acc))
	assert.Equal(t, uint64(1_000_000), (*big.Int)(acc.Balance).Uint64())
	assert.Zero(t, uint64(acc.Sequence))

	req, err := tx.NewBuilder(tx.KindStake).
		ChainTag(testChainTag).
		Sequence(0).
		Expiration(testTime + 600).
		Args(&tx.StakeArgs{Amount: big.NewInt(700)}).
		Build()
	require.NoError(t, err)
	_, err = led.Execute(tx.MustSign(req, key))
	require.NoError(t, err)

	res, status = httpGet(t, ts.URL+"/accounts/"+addr.String())
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(res, &acc))
	assert.Equal(t, uint64(999_300), (*big.Int)(acc.Balance).Uint64())
	assert.Equal(t, uint64(1), uint64(acc.Sequence))

	// untouched accounts read as empty, not as errors
	res, status = httpGet(t, ts.URL+"/accounts/"+whoosh.BytesToAddress([]byte("stranger")).String())
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(res, &acc))
	assert.Zero(t, (*big.Int)(acc.Balance).Sign())

	_, status = httpGet(t, ts.URL+"/accounts/xyz")
	assert.Equal(t, http.StatusBadRequest, status)
}
