// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import "crypto/rand"

func RandBytes(n int) []byte {
	b := make([]byte, n)

	rand.Read(b)
	return b
}
