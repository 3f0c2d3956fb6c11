// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bridgedb journals emitted bridge messages in sqlite, one row per
// message, ordered by a (commit version, index) sequence. It is derived
// data: rows are only appended after the owning state commit succeeded, and
// the verify subcommand can re-check and truncate it against the ledger.
package bridgedb

import (
	"context"
	"database/sql"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

// BridgeDB is the sqlite-backed message journal.
type BridgeDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmts         *stmtCache
}

// New creates or opens the journal at the given path.
func New(path string) (bridgeDB *BridgeDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if bridgeDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(messageTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &BridgeDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmts:         newStmtCache(db),
	}, nil
}

// NewMem creates a journal in ram.
func NewMem() (*BridgeDB, error) {
	db, err := New(":memory:")
	if err != nil {
		return nil, err
	}
	// a second pool connection would open a second, empty in-memory database
	db.db.SetMaxOpenConns(1)
	return db, nil
}

// Close closes the journal.
func (db *BridgeDB) Close() error {
	db.stmts.Clear()
	return db.db.Close()
}

// Path returns the database path.
func (db *BridgeDB) Path() string {
	return db.path
}

// Newest returns the sequence of the newest journaled message, or 0 when the
// journal is empty.
func (db *BridgeDB) Newest() (Sequence, error) {
	stmt, err := db.stmts.Prepare("SELECT MAX(seq) FROM message")
	if err != nil {
		return 0, err
	}

	var seq sql.NullInt64
	if err := stmt.QueryRow().Scan(&seq); err != nil {
		return 0, err
	}
	return Sequence(seq.Int64), nil
}

// MessagesAfter returns up to limit messages with a sequence strictly after
// pos, ascending. It backs feed replay.
func (db *BridgeDB) MessagesAfter(ctx context.Context, pos Sequence, limit uint32) ([]*Message, error) {
	return db.queryMessages(ctx,
		"SELECT * FROM message WHERE seq > ? ORDER BY seq ASC LIMIT ?",
		int64(pos), limit)
}

// Filter queries journaled messages matching the given filter. A nil filter
// selects everything.
func (db *BridgeDB) Filter(ctx context.Context, filter *MessageFilter) ([]*Message, error) {
	if filter == nil {
		return db.queryMessages(ctx, "SELECT * FROM message")
	}
	metricsHandleMessagesFilter(filter)

	var args []interface{}
	stmt := "SELECT * FROM message WHERE 1"
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			args = append(args, filter.Range.From)
			stmt += " AND ts >= ? "
			if filter.Range.To >= filter.Range.From {
				args = append(args, filter.Range.To)
				stmt += " AND ts <= ? "
			}
		} else {
			args = append(args, int64(NewSequence(clampVersion(filter.Range.From), 0)))
			stmt += " AND seq >= ? "
			if filter.Range.To >= filter.Range.From {
				args = append(args, int64(NewSequence(clampVersion(filter.Range.To), math.MaxInt32)))
				stmt += " AND seq <= ? "
			}
		}
	}
	if filter.RequestID != nil {
		args = append(args, filter.RequestID.Bytes())
		stmt += " AND requestID = ? "
	}
	length := len(filter.CriteriaSet)
	if length > 0 {
		for i, criteria := range filter.CriteriaSet {
			if i == 0 {
				stmt += " AND (( 1 "
			} else {
				stmt += " OR ( 1 "
			}
			if criteria.Source != nil {
				args = append(args, criteria.Source.Bytes())
				stmt += " AND source = ? "
			}
			if criteria.DestChain != nil {
				args = append(args, *criteria.DestChain)
				stmt += " AND destChain = ? "
			}
			if i == length-1 {
				stmt += " )) "
			} else {
				stmt += " ) "
			}
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryMessages(ctx, stmt, args...)
}

func (db *BridgeDB) queryMessages(ctx context.Context, query string, args ...interface{}) ([]*Message, error) {
	stmt, err := db.stmts.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         int64
			ts          uint64
			requestID   []byte
			source      []byte
			amount      []byte
			fee         []byte
			destAccount []byte
			destChain   uint16
		)
		if err := rows.Scan(
			&seq,
			&ts,
			&requestID,
			&source,
			&amount,
			&fee,
			&destAccount,
			&destChain,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, &Message{
			Sequence:    Sequence(seq),
			Time:        ts,
			RequestID:   whoosh.BytesToBytes32(requestID),
			Source:      whoosh.BytesToAddress(source),
			Amount:      bytesToAmount(amount),
			Fee:         bytesToAmount(fee),
			DestAccount: destAccount,
			DestChain:   destChain,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

func clampVersion(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
