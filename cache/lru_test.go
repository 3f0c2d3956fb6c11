// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)

	c, err := NewLRU(2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	assert.Equal(t, 2, c.Len())

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// adding a third entry evicts the least recently used ("b")
	c.Add("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok)

	c.Remove("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU(4)
	require.NoError(t, err)

	var loads int
	loader := func(key interface{}) (interface{}, error) {
		loads++
		return key.(int) * 10, nil
	}

	v, err := c.GetOrLoad(7, loader)
	require.NoError(t, err)
	assert.Equal(t, 70, v)
	assert.Equal(t, 1, loads)

	// second get is served from cache
	v, err = c.GetOrLoad(7, loader)
	require.NoError(t, err)
	assert.Equal(t, 70, v)
	assert.Equal(t, 1, loads)

	// loader errors pass through and nothing is cached
	_, err = c.GetOrLoad(8, func(interface{}) (interface{}, error) {
		return nil, errors.New("load failed")
	})
	assert.EqualError(t, err, "load failed")
	_, ok := c.Get(8)
	assert.False(t, ok)
}

func TestLRUStats(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Get("a")
	c.Get("nope")

	changed, hit, miss := c.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	changed, _, _ = c.Stats()
	assert.False(t, changed)
}
