// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridgedb

import (
	"database/sql"

	"github.com/whoosh-bridge/whoosh/vault"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Writer appends journal rows transactionally. It is not safe for
// concurrent use; the ledger drives one writer from its commit section.
type Writer struct {
	db          *sql.DB
	tx          *sql.Tx
	uncommitted int

	version uint32
	index   uint32
}

// NewWriter creates a journal writer.
func (db *BridgeDB) NewWriter() *Writer {
	return &Writer{db: db.db}
}

// Write journals the messages emitted by the commit at the given version.
// Rows stay invisible until Commit.
func (w *Writer) Write(version uint32, time uint64, requestID whoosh.Bytes32, msgs ...*vault.Message) error {
	if w.tx == nil {
		tx, err := w.db.Begin()
		if err != nil {
			return err
		}
		w.tx = tx
	}
	if w.version != version {
		w.version = version
		w.index = 0
	}

	for _, msg := range msgs {
		row := NewMessage(NewSequence(version, w.index), time, requestID, msg)
		if _, err := w.tx.Exec(
			"INSERT OR REPLACE INTO message(seq, ts, requestID, source, amount, fee, destAccount, destChain) VALUES (?, ?, ?, ?, ?, ?, ?, ?);",
			int64(row.Sequence),
			row.Time,
			row.RequestID.Bytes(),
			row.Source.Bytes(),
			row.Amount.Bytes(),
			row.Fee.Bytes(),
			row.DestAccount,
			row.DestChain,
		); err != nil {
			return err
		}
		w.index++
		w.uncommitted++
	}
	return nil
}

// Truncate deletes journaled rows at or after the given version, for
// re-journaling after a verify found divergence.
func (w *Writer) Truncate(version uint32) error {
	if w.tx == nil {
		tx, err := w.db.Begin()
		if err != nil {
			return err
		}
		w.tx = tx
	}
	if _, err := w.tx.Exec("DELETE FROM message WHERE seq >= ?;", int64(NewSequence(version, 0))); err != nil {
		return err
	}
	if w.version >= version {
		w.version = 0
		w.index = 0
	}
	return nil
}

// Commit commits accumulated rows.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	if err := w.tx.Commit(); err != nil {
		return err
	}
	w.tx = nil
	w.uncommitted = 0
	return nil
}

// Rollback drops all uncommitted rows.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	if err := w.tx.Rollback(); err != nil {
		return err
	}
	w.tx = nil
	w.uncommitted = 0
	return nil
}

// UncommittedCount returns the count of written but uncommitted rows.
func (w *Writer) UncommittedCount() int {
	return w.uncommitted
}
