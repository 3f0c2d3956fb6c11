// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridgedb

import (
	"database/sql"
	"sync"
)

// stmtCache reuses prepared sql statements across filter calls. Filter
// query shapes repeat, so preparing once per shape pays off.
type stmtCache struct {
	db    *sql.DB
	mu    sync.RWMutex
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.mu.RLock()
	stmt, ok := sc.stmts[query]
	sc.mu.RUnlock()
	if ok {
		return stmt, nil
	}

	prepared, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if stmt, ok := sc.stmts[query]; ok {
		// lost the race, keep the statement prepared first
		prepared.Close()
		return stmt, nil
	}
	sc.stmts[query] = prepared
	return prepared, nil
}

func (sc *stmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for query, stmt := range sc.stmts {
		_ = stmt.Close()
		delete(sc.stmts, query)
	}
}
