// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridgedb_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/test/datagen"
	"github.com/whoosh-bridge/whoosh/vault"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

var (
	sourceA = whoosh.BytesToAddress([]byte("source-a"))
	sourceB = whoosh.BytesToAddress([]byte("source-b"))
)

func newTestDB(t *testing.T) *bridgedb.BridgeDB {
	db, err := bridgedb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedMessages journals one message per version 1..n: odd versions from
// sourceA to chain 1, even versions from sourceB to chain 2.
func seedMessages(t *testing.T, db *bridgedb.BridgeDB, n int) []whoosh.Bytes32 {
	w := db.NewWriter()
	ids := make([]whoosh.Bytes32, 0, n)
	for v := 1; v <= n; v++ {
		source, chain := sourceA, uint16(1)
		if v%2 == 0 {
			source, chain = sourceB, 2
		}
		id := datagen.RandomHash()
		ids = append(ids, id)
		require.NoError(t, w.Write(uint32(v), uint64(1000+v*10), id, &vault.Message{
			SourceAccount: source,
			SourceAmount:  big.NewInt(int64(60_000 + v)),
			Fee:           big.NewInt(6_000),
			DestAccount:   []byte{0xde, byte(v)},
			DestChain:     chain,
		}))
	}
	require.NoError(t, w.Commit())
	return ids
}

func TestWriteAndFilterAll(t *testing.T) {
	db := newTestDB(t)
	ids := seedMessages(t, db, 10)

	msgs, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, msgs, 10)

	first := msgs[0]
	assert.Equal(t, bridgedb.NewSequence(1, 0), first.Sequence)
	assert.Equal(t, uint32(1), first.Sequence.Version())
	assert.Equal(t, uint64(1010), first.Time)
	assert.Equal(t, ids[0], first.RequestID)
	assert.Equal(t, sourceA, first.Source)
	assert.Equal(t, big.NewInt(60_001), first.Amount)
	assert.Equal(t, big.NewInt(6_000), first.Fee)
	assert.Equal(t, []byte{0xde, 1}, first.DestAccount)
	assert.Equal(t, uint16(1), first.DestChain)

	last := msgs[9]
	assert.Equal(t, bridgedb.NewSequence(10, 0), last.Sequence)
	assert.Equal(t, sourceB, last.Source)
	assert.Equal(t, uint16(2), last.DestChain)
}

func TestFilterRange(t *testing.T) {
	db := newTestDB(t)
	seedMessages(t, db, 10)
	ctx := context.Background()

	msgs, err := db.Filter(ctx, &bridgedb.MessageFilter{
		Range: &bridgedb.Range{Unit: bridgedb.Version, From: 3, To: 5},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, uint32(3), msgs[0].Sequence.Version())
	assert.Equal(t, uint32(5), msgs[2].Sequence.Version())

	msgs, err = db.Filter(ctx, &bridgedb.MessageFilter{
		Range: &bridgedb.Range{Unit: bridgedb.Time, From: 1020, To: 1040},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, uint64(1020), msgs[0].Time)

	msgs, err = db.Filter(ctx, &bridgedb.MessageFilter{
		Range: &bridgedb.Range{Unit: bridgedb.Version, From: 1, To: 10},
		Order: bridgedb.DESC,
		Options: &bridgedb.Options{
			Offset: 1,
			Limit:  2,
		},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint32(9), msgs[0].Sequence.Version())
	assert.Equal(t, uint32(8), msgs[1].Sequence.Version())
}

func TestFilterCriteria(t *testing.T) {
	db := newTestDB(t)
	ids := seedMessages(t, db, 10)
	ctx := context.Background()

	msgs, err := db.Filter(ctx, &bridgedb.MessageFilter{
		CriteriaSet: []*bridgedb.MessageCriteria{{Source: &sourceA}},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	for _, msg := range msgs {
		assert.Equal(t, sourceA, msg.Source)
	}

	chain := uint16(2)
	msgs, err = db.Filter(ctx, &bridgedb.MessageFilter{
		CriteriaSet: []*bridgedb.MessageCriteria{{DestChain: &chain}},
	})
	require.NoError(t, err)
	require.Len(t, msgs, 5)

	// both fields within one criteria are AND-ed: sourceA never sends to
	// chain 2
	msgs, err = db.Filter(ctx, &bridgedb.MessageFilter{
		CriteriaSet: []*bridgedb.MessageCriteria{{Source: &sourceA, DestChain: &chain}},
	})
	require.NoError(t, err)
	assert.Len(t, msgs, 0)

	// two criteria are OR-ed
	msgs, err = db.Filter(ctx, &bridgedb.MessageFilter{
		CriteriaSet: []*bridgedb.MessageCriteria{
			{Source: &sourceA},
			{DestChain: &chain},
		},
	})
	require.NoError(t, err)
	assert.Len(t, msgs, 10)

	msgs, err = db.Filter(ctx, &bridgedb.MessageFilter{RequestID: &ids[3]})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, ids[3], msgs[0].RequestID)
}

func TestNewestAndMessagesAfter(t *testing.T) {
	db := newTestDB(t)

	newest, err := db.Newest()
	require.NoError(t, err)
	assert.Equal(t, bridgedb.Sequence(0), newest)

	seedMessages(t, db, 10)

	newest, err = db.Newest()
	require.NoError(t, err)
	assert.Equal(t, bridgedb.NewSequence(10, 0), newest)

	msgs, err := db.MessagesAfter(context.Background(), bridgedb.NewSequence(7, 0), 100)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, uint32(8), msgs[0].Sequence.Version())

	msgs, err = db.MessagesAfter(context.Background(), bridgedb.NewSequence(7, 0), 2)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestWriterRollback(t *testing.T) {
	db := newTestDB(t)
	seedMessages(t, db, 3)

	w := db.NewWriter()
	require.NoError(t, w.Write(4, 4000, datagen.RandomHash(), &vault.Message{
		SourceAccount: sourceA,
		SourceAmount:  big.NewInt(70_000),
		Fee:           big.NewInt(7_000),
		DestAccount:   []byte{1},
		DestChain:     1,
	}))
	assert.Equal(t, 1, w.UncommittedCount())
	require.NoError(t, w.Rollback())
	assert.Equal(t, 0, w.UncommittedCount())

	msgs, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestWriterTruncate(t *testing.T) {
	db := newTestDB(t)
	seedMessages(t, db, 10)

	w := db.NewWriter()
	require.NoError(t, w.Truncate(6))
	require.NoError(t, w.Commit())

	msgs, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, msgs, 5)

	newest, err := db.Newest()
	require.NoError(t, err)
	assert.Equal(t, bridgedb.NewSequence(5, 0), newest)
}

func TestMultipleMessagesPerVersion(t *testing.T) {
	db := newTestDB(t)

	w := db.NewWriter()
	id := datagen.RandomHash()
	msg := &vault.Message{
		SourceAccount: sourceA,
		SourceAmount:  big.NewInt(60_000),
		Fee:           big.NewInt(6_000),
		DestAccount:   []byte{1},
		DestChain:     1,
	}
	require.NoError(t, w.Write(1, 1000, id, msg, msg))
	require.NoError(t, w.Commit())

	msgs, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, bridgedb.NewSequence(1, 0), msgs[0].Sequence)
	assert.Equal(t, bridgedb.NewSequence(1, 1), msgs[1].Sequence)
	assert.Equal(t, uint32(1), msgs[1].Sequence.Index())
}
