// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whoosh

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes32MarshalUnmarshal(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var unmarshaledValue Bytes32

	err := unmarshaledValue.UnmarshalJSON([]byte(originalHex))
	assert.NoError(t, err)

	err = json.Unmarshal([]byte(originalHex), &unmarshaledValue)
	assert.NoError(t, err)

	directMarshallJson, err := unmarshaledValue.MarshalJSON()
	assert.NoError(t, err, "Marshaling should not produce an error")
	assert.Equal(t, originalHex, string(directMarshallJson))

	marshalVal, err := json.Marshal(unmarshaledValue)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalVal))

	marshalPtr, err := json.Marshal(&unmarshaledValue)
	assert.NoError(t, err, "Marshaling should not produce an error")
	assert.Equal(t, originalHex, string(marshalPtr))
}

func TestParseBytes32(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0x00000000000000000000000000000000000000000000000000006d6173746572", false},
		{"00000000000000000000000000000000000000000000000000006d6173746572", false},
		{"0X00000000000000000000000000000000000000000000000000006d6173746572", false},
		{"0x6d6173746572", true},
		{"zz000000000000000000000000000000000000000000000000006d6173746572", true},
	}

	for _, tt := range tests {
		_, err := ParseBytes32(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
		} else {
			assert.NoError(t, err, tt.input)
		}
	}
}

func TestBytesToBytes32(t *testing.T) {
	var want Bytes32
	want[31] = 0x1

	short := BytesToBytes32([]byte{0x1})
	assert.Equal(t, want, short)

	long := make([]byte, 40)
	long[39] = 0x7f
	assert.Equal(t, byte(0x7f), BytesToBytes32(long)[31])

	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, short.IsZero())
}
