// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.Intn(n) //#nosec G404
}

// RandAmount returns a random positive amount in [1, 1e12].
func RandAmount() *big.Int {
	return new(big.Int).SetUint64(uint64(mathrand.Int63n(1e12)) + 1) //#nosec G404
}
