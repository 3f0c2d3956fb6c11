// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"crypto/ecdsa"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func newTestLedger(t *testing.T) (*ledger.Ledger, *bridgedb.BridgeDB, *ecdsa.PrivateKey) {
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
	owner := whoosh.AddressFromPubKey(&key.PublicKey)

	led, err := ledger.New(store, journal, ledger.Config{
		ChainTag: testChainTag,
		Owner:    owner,
		Allocations: []ledger.Allocation{
			{Address: owner, Balance: big.NewInt(10_000_000)},
		},
		Now: func() uint64 { return testTime },
	})
	require.NoError(t, err)
	return led, journal, key
}

func bridgeTransfer(t *testing.T, led *ledger.Ledger, key *ecdsa.PrivateKey, seq uint64, amount int64) {
	req, err := tx.NewBuilder(tx.KindBridgeTransfer).
		ChainTag(testChainTag).
		Sequence(seq).
		Expiration(testTime + 600).
		Args(&tx.BridgeTransferArgs{
			Amount:      big.NewInt(amount),
			DestAccount: []byte{0xca, 0xfe},
			DestChain:   7,
		}).
		Build()
	require.NoError(t, err)
	_, err = led.Execute(tx.MustSign(req, key))
	require.NoError(t, err)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}

func TestAPIServer(t *testing.T) {
	led, journal, key := newTestLedger(t)
	bridgeTransfer(t, led, key, 0, 60_000)

	handler, closeAPI := New(led, journal, Options{
		AllowedOrigins: "*",
		MessagesLimit:  10,
	})
	t.Cleanup(closeAPI)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	body, code := httpGet(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"healthy":true`)

	body, code = httpGet(t, ts.URL+"/vault")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"initialized":true`)

	body, code = httpGet(t, ts.URL+"/doc/whoosh.yaml")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "openapi:")

	// the root redirects to the openapi doc
	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "/doc/whoosh.yaml", res.Request.URL.Path)

	// the journaled message is visible through the assembled stack
	res, err = http.Post(ts.URL+"/messages", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	body, err = io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `"version":2`)
}
