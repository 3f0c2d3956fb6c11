// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whoosh

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0x000000000000000000000000000000000000000000000000000000000000da7a", false},
		{"000000000000000000000000000000000000000000000000000000000000da7a", false},
		{"0xda7a", true},
		{"0y000000000000000000000000000000000000000000000000000000000000da7a", true},
		{"0x00000000000000000000000000000000000000000000000000000000000000zz", true},
	}

	for _, tt := range tests {
		_, err := ParseAddress(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
		} else {
			assert.NoError(t, err, tt.input)
		}
	}

	addr := MustParseAddress("0x000000000000000000000000000000000000000000000000000000000000da7a")
	assert.Equal(t, "0x000000000000000000000000000000000000000000000000000000000000da7a", addr.String())
}

func TestBytesToAddress(t *testing.T) {
	short := BytesToAddress([]byte{0x1})
	assert.Equal(t, MustParseAddress("0x0000000000000000000000000000000000000000000000000000000000000001"), short)

	long := make([]byte, 40)
	long[39] = 0x7f
	assert.Equal(t, byte(0x7f), BytesToAddress(long)[31])

	assert.True(t, Address{}.IsZero())
	assert.False(t, short.IsZero())
}

func TestAddressMarshalUnmarshal(t *testing.T) {
	addr := BytesToAddress([]byte("owner"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestAddressFromPubKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := AddressFromPubKey(&key.PublicKey)
	assert.False(t, addr.IsZero())

	// derivation is deterministic
	assert.Equal(t, addr, AddressFromPubKey(&key.PublicKey))

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, addr, AddressFromPubKey(&other.PublicKey))
}
