// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package messages_test

import (
	"bytes"
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

	"github.com/whoosh-bridge/whoosh/api/messages"
	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/lvldb"
	"github.com/whoosh-bridge/whoosh/tx"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

const (
	testChainTag = byte(0x42)
	testTime     = uint64(10_000)
	testLimit    = uint64(10)
)

type fixture struct {
	*httptest.Server
	led      *ledger.Ledger
	aliceKey *ecdsa.PrivateKey
	bobKey   *ecdsa.PrivateKey
	alice    whoosh.Address
	bob      whoosh.Address
	receipts []*ledger.Receipt
}

func newFixture(t *testing.T, limit uint64) *fixture {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	journal, err := bridgedb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		journal.Close()
	})

	aliceKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	bobKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	alice := whoosh.AddressFromPubKey(&aliceKey.PublicKey)
	bob := whoosh.AddressFromPubKey(&bobKey.PublicKey)

	led, err := ledger.New(store, journal, ledger.Config{
		ChainTag: testChainTag,
		Owner:    alice,
		Allocations: []ledger.Allocation{
			{Address: alice, Balance: big.NewInt(1_000_000)},
			{Address: bob, Balance: big.NewInt(1_000_000)},
		},
		Now: func() uint64 { return testTime },
	})
	require.NoError(t, err)

	router := mux.NewRouter()
	messages.New(journal, limit).Mount(router, "/messages")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &fixture{ts, led, aliceKey, bobKey, alice, bob, nil}
}

func (f *fixture) transfer(t *testing.T, key *ecdsa.PrivateKey, seq uint64, amount int64, destChain uint16) {
	req, err := tx.NewBuilder(tx.KindBridgeTransfer).
		ChainTag(testChainTag).
		Sequence(seq).
		Expiration(testTime + 600).
		Args(&tx.BridgeTransferArgs{
			Amount:      big.NewInt(amount),
			DestAccount: []byte{0xca, 0xfe},
			DestChain:   destChain,
		}).
		Build()
	require.NoError(t, err)
	receipt, err := f.led.Execute(tx.MustSign(req, key))
	require.NoError(t, err)
	f.receipts = append(f.receipts, receipt)
}

// seeds three messages: alice to chain 1, bob to chain 2, alice to chain 2
func seededFixture(t *testing.T, limit uint64) *fixture {
	f := newFixture(t, limit)
	f.transfer(t, f.aliceKey, 0, 60_000, 1)
	f.transfer(t, f.bobKey, 0, 70_000, 2)
	f.transfer(t, f.aliceKey, 1, 80_000, 2)
	return f
}

func (f *fixture) filter(t *testing.T, body []byte) ([]*types.Message, []byte, int) {
	res, err := http.Post(f.URL+"/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, raw, res.StatusCode
	}
	var msgs []*types.Message
	require.NoError(t, json.Unmarshal(raw, &msgs))
	return msgs, raw, res.StatusCode
}

func marshalFilter(t *testing.T, filter *types.MessageFilter) []byte {
	body, err := json.Marshal(filter)
	require.NoError(t, err)
	return body
}

func amount(msg *types.Message) uint64 {
	return (*big.Int)(msg.Amount).Uint64()
}

func TestFilterAll(t *testing.T) {
	f := seededFixture(t, testLimit)

	msgs, _, status := f.filter(t, []byte("{}"))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 3)
	assert.Equal(t, uint32(2), msgs[0].Version)
	assert.Equal(t, uint32(3), msgs[1].Version)
	assert.Equal(t, uint32(4), msgs[2].Version)
	assert.Equal(t, uint64(60_000), amount(msgs[0]))
	assert.Equal(t, uint64(6_000), (*big.Int)(msgs[0].Fee).Uint64())
	assert.Equal(t, testTime, msgs[0].Time)
}

func TestFilterCriteria(t *testing.T) {
	f := seededFixture(t, testLimit)

	msgs, _, status := f.filter(t, marshalFilter(t, &types.MessageFilter{
		CriteriaSet: []*types.MessageCriteria{{Source: &f.alice}},
	}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint64(60_000), amount(msgs[0]))
	assert.Equal(t, uint64(80_000), amount(msgs[1]))

	// fields within one criteria are AND-ed
	chainTwo := uint16(2)
	msgs, _, status = f.filter(t, marshalFilter(t, &types.MessageFilter{
		CriteriaSet: []*types.MessageCriteria{{Source: &f.alice, DestChain: &chainTwo}},
	}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint64(80_000), amount(msgs[0]))

	// criteria in a set are OR-ed
	chainOne := uint16(1)
	msgs, _, status = f.filter(t, marshalFilter(t, &types.MessageFilter{
		CriteriaSet: []*types.MessageCriteria{{Source: &f.bob}, {DestChain: &chainOne}},
	}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint64(60_000), amount(msgs[0]))
	assert.Equal(t, uint64(70_000), amount(msgs[1]))
}

func TestFilterByRequestID(t *testing.T) {
	f := seededFixture(t, testLimit)

	id := f.receipts[1].ID
	msgs, _, status := f.filter(t, marshalFilter(t, &types.MessageFilter{RequestID: &id}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 1)
	assert.Equal(t, id, msgs[0].RequestID)
	assert.Equal(t, f.bob, msgs[0].Source)
}

func TestFilterRangeAndOrder(t *testing.T) {
	f := seededFixture(t, testLimit)

	from, to := uint64(3), uint64(4)
	msgs, _, status := f.filter(t, marshalFilter(t, &types.MessageFilter{
		Range: &types.Range{Unit: types.VersionRangeType, From: &from, To: &to},
	}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint32(3), msgs[0].Version)

	future := testTime + 1
	msgs, _, status = f.filter(t, marshalFilter(t, &types.MessageFilter{
		Range: &types.Range{Unit: types.TimeRangeType, From: &future},
	}))
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, msgs)

	msgs, _, status = f.filter(t, marshalFilter(t, &types.MessageFilter{Order: bridgedb.DESC}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 3)
	assert.Equal(t, uint32(4), msgs[0].Version)
}

func TestFilterPagination(t *testing.T) {
	f := seededFixture(t, testLimit)

	one := uint64(1)
	msgs, _, status := f.filter(t, marshalFilter(t, &types.MessageFilter{
		Options: &types.Options{Offset: 1, Limit: &one},
	}))
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint32(3), msgs[0].Version)
}

func TestFilterLimits(t *testing.T) {
	f := seededFixture(t, 2)

	_, raw, status := f.filter(t, []byte("{}"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(raw), "please use pagination")

	over := uint64(100)
	_, raw, status = f.filter(t, marshalFilter(t, &types.MessageFilter{
		Options: &types.Options{Limit: &over},
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "options.limit exceeds")
}

func TestFilterInvalid(t *testing.T) {
	f := seededFixture(t, testLimit)

	_, raw, status := f.filter(t, []byte(`{"criteriaSet":[null]}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "null not allowed")

	_, raw, status = f.filter(t, marshalFilter(t, &types.MessageFilter{Order: "up"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "order")

	_, raw, status = f.filter(t, []byte(`{"range":{"unit":"steps"}}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "Range.Unit")

	from, to := uint64(5), uint64(3)
	_, raw, status = f.filter(t, marshalFilter(t, &types.MessageFilter{
		Range: &types.Range{Unit: types.VersionRangeType, From: &from, To: &to},
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "Range.To")

	_, raw, status = f.filter(t, []byte(`{"unknown":1}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "body")
}
