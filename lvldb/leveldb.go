// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb wraps goleveldb into the kv.Store interface. It backs the
// ledger state with either an on-disk or an in-memory instance.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/whoosh-bridge/whoosh/kv"
)

var _ kv.StoreCloser = (*LevelDB)(nil)

// Options tune the cache sizes of a new instance. Zero values fall back to
// small defaults suited for tests.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
	scanOpt  = opt.ReadOptions{DontFillCache: true}
)

// autoFlushThreshold is the dumped batch size beyond which an auto-flush
// bulk writes out eagerly.
const autoFlushThreshold = 32 * 1024

// LevelDB bridges a goleveldb instance into the kv interfaces.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database directory at path, creating it when absent.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return openLevelDB(stg, opts.CacheSize, opts.OpenFilesCacheCapacity)
}

// NewMem creates an in-memory instance.
func NewMem() (*LevelDB, error) {
	return openLevelDB(storage.NewMemStorage(), 0, 0)
}

func openLevelDB(stg storage.Storage, cacheSize, openFilesCacheCapacity int) (*LevelDB, error) {
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(openFilesCacheCapacity, 16),
		BlockCacheCapacity:     max(cacheSize, 16) / 2 * opt.MiB,
		WriteBuffer:            max(cacheSize, 16) / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db}, nil
}

// IsNotFound checks if the error returned by Get marks a missing key.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get reads the value of key. A missing key is an error checkable with
// IsNotFound.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

// Has reports whether key exists.
func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

// Put stores val under key.
func (ldb *LevelDB) Put(key, val []byte) error {
	return ldb.db.Put(key, val, &writeOpt)
}

// Delete removes key and its value.
func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Snapshot takes a read-only snapshot of the current db state.
func (ldb *LevelDB) Snapshot() kv.Snapshot {
	s, err := ldb.db.GetSnapshot()
	return &snapshot{s, err}
}

// Bulk creates a bulk putter. Writes are buffered and atomic unless
// auto-flush is enabled.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: ldb.db}
}

// Iterate creates an iterator over the given key range.
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{
		Start: r.Start,
		Limit: r.Limit,
	}, &scanOpt)
}

// Close shuts the db down. Later operations all fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

type snapshot struct {
	s   *leveldb.Snapshot
	err error
}

func (sn *snapshot) Get(key []byte) ([]byte, error) {
	if sn.err != nil {
		return nil, sn.err
	}
	return sn.s.Get(key, &readOpt)
}

func (sn *snapshot) Has(key []byte) (bool, error) {
	if sn.err != nil {
		return false, sn.err
	}
	return sn.s.Has(key, &readOpt)
}

func (sn *snapshot) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (sn *snapshot) Release() {
	if sn.err == nil {
		sn.s.Release()
	}
}

type bulk struct {
	db        *leveldb.DB
	batch     leveldb.Batch
	autoFlush bool
}

func (b *bulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return b.flushIfNeeded()
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return b.flushIfNeeded()
}

func (b *bulk) EnableAutoFlush() {
	b.autoFlush = true
}

func (b *bulk) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	if err := b.db.Write(&b.batch, &writeOpt); err != nil {
		return err
	}
	b.batch.Reset()
	return nil
}

func (b *bulk) flushIfNeeded() error {
	if b.autoFlush && len(b.batch.Dump()) >= autoFlushThreshold {
		return b.Write()
	}
	return nil
}
