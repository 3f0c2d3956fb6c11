// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridgedb

import "math"

// Sequence orders journal rows totally: the commit version in the high bits,
// the in-commit message index in the low 31. It doubles as the feed position
// handed to subscribers.
type Sequence int64

// NewSequence packs version and index. index must fit in 31 bits.
func NewSequence(version uint32, index uint32) Sequence {
	if (index & math.MaxInt32) != index {
		panic("index too large")
	}
	return (Sequence(version) << 31) | Sequence(index)
}

// Version returns the commit version part.
func (s Sequence) Version() uint32 {
	return uint32(s >> 31)
}

// Index returns the in-commit index part.
func (s Sequence) Index() uint32 {
	return uint32(s & math.MaxInt32)
}
