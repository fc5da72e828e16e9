// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeLength(t *testing.T) {
	cases := []int{0, 1, 127, 128, 129, 255, 256, 65535, 65536, 1 << 20}
	for _, n := range cases {
		enc := encodeLength(n)
		got, consumed, err := decodeLength(enc)
		require.NoError(t, err)
		assert.Equal(t, n, got)
		assert.Equal(t, len(enc), consumed)
	}
}

func TestDecodeLengthShortForm(t *testing.T) {
	got, consumed, err := decodeLength([]byte{0x05})
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Equal(t, 1, consumed)
}

func TestDecodeLengthLongForm(t *testing.T) {
	got, consumed, err := decodeLength([]byte{0x82, 0x01, 0x2c})
	require.NoError(t, err)
	assert.Equal(t, 300, got)
	assert.Equal(t, 3, consumed)
}

func TestEncodeDecodeInteger(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, -32768, 32767, 1 << 30, -(1 << 30)}
	for _, v := range cases {
		enc := encodeInteger(v)
		assert.Equal(t, v, decodeInteger(enc), "value %d", v)
	}
}

func TestEncodeDecodeOID(t *testing.T) {
	cases := []string{
		"1.2.840.113556.1.4.319",
		"2.16.840.1.113730.3.4.2",
		"1.3.6.1.4.1.1466.20037",
		"0.0",
	}
	for _, oid := range cases {
		enc, err := encodeOID(oid)
		require.NoError(t, err)
		assert.Equal(t, oid, decodeOID(enc))
	}
}

func TestEncodeOIDRejectsMalformed(t *testing.T) {
	_, err := encodeOID("not-an-oid")
	assert.Error(t, err)
}
