// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"

	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/bridgedb"
)

// messageReader walks the journal from a position, marshaling rows through
// the shared cache.
type messageReader struct {
	db    *bridgedb.BridgeDB
	cache *messageCache
	pos   bridgedb.Sequence
	limit uint32
}

func newMessageReader(db *bridgedb.BridgeDB, cache *messageCache, pos bridgedb.Sequence, limit uint32) *messageReader {
	return &messageReader{
		db:    db,
		cache: cache,
		pos:   pos,
		limit: limit,
	}
}

// Read returns the messages journaled after the reader's position and
// advances it. The second return value indicates whether more messages may
// be pending.
func (r *messageReader) Read(ctx context.Context) ([][]byte, bool, error) {
	msgs, err := r.db.MessagesAfter(ctx, r.pos, r.limit)
	if err != nil {
		return nil, false, err
	}
	result := make([][]byte, 0, len(msgs))
	for _, msg := range msgs {
		data, _, err := r.cache.GetOrAdd(msg.Sequence, func() ([]byte, error) {
			return json.Marshal(types.ConvertMessage(msg))
		})
		if err != nil {
			return nil, false, err
		}
		result = append(result, data)
	}
	if len(msgs) > 0 {
		r.pos = msgs[len(msgs)-1].Sequence
	}
	return result, uint32(len(msgs)) == r.limit, nil
}
