// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "sync"

// Bucket prefixes a key space inside a kv store. The account and storage
// spaces of the state layer are buckets over one engine.
type Bucket string

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	k := grabKey(g.b, key)
	defer keyPool.Put(k)
	return g.src.Get(k.buf)
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	k := grabKey(g.b, key)
	defer keyPool.Put(k)
	return g.src.Has(k.buf)
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error {
	k := grabKey(p.b, key)
	defer keyPool.Put(k)
	return p.src.Put(k.buf, val)
}

func (p *bucketPutter) Delete(key []byte) error {
	k := grabKey(p.b, key)
	defer keyPool.Put(k)
	return p.src.Delete(k.buf)
}

// prefixedKey recycles the prefix concatenation scratch space across calls.
type prefixedKey struct {
	buf []byte
}

var keyPool = sync.Pool{
	New: func() interface{} {
		return &prefixedKey{}
	},
}

func grabKey(b Bucket, key []byte) *prefixedKey {
	k := keyPool.Get().(*prefixedKey)
	k.buf = append(append(k.buf[:0], b...), key...)
	return k
}
