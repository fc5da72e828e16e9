// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilterEquality(t *testing.T) {
	pkt, err := CompileFilter("(cn=Bob)")
	require.NoError(t, err)
	assert.EqualValues(t, FilterEqualityMatch, pkt.Tag)
	require.Len(t, pkt.Children, 2)
	assert.Equal(t, "cn", pString(pkt.Children[0]))
	assert.Equal(t, "Bob", pString(pkt.Children[1]))
}

func TestCompileFilterPresent(t *testing.T) {
	pkt, err := CompileFilter("(objectClass=*)")
	require.NoError(t, err)
	assert.EqualValues(t, FilterPresent, pkt.Tag)
	assert.Equal(t, "objectClass", pString(pkt))
}

func TestCompileFilterAndOrNot(t *testing.T) {
	pkt, err := CompileFilter("(&(cn=Bob)(|(sn=Smith)(!(mail=*))))")
	require.NoError(t, err)
	assert.EqualValues(t, FilterAnd, pkt.Tag)
	require.Len(t, pkt.Children, 2)
	assert.EqualValues(t, FilterEqualityMatch, pkt.Children[0].Tag)
	assert.EqualValues(t, FilterOr, pkt.Children[1].Tag)
	or := pkt.Children[1]
	require.Len(t, or.Children, 2)
	assert.EqualValues(t, FilterEqualityMatch, or.Children[0].Tag)
	assert.EqualValues(t, FilterNot, or.Children[1].Tag)
}

func TestCompileFilterSubstring(t *testing.T) {
	pkt, err := CompileFilter("(cn=Bo*ob*y)")
	require.NoError(t, err)
	assert.EqualValues(t, FilterSubstrings, pkt.Tag)
	require.Len(t, pkt.Children, 2)
	assert.Equal(t, "cn", pString(pkt.Children[0]))
	subs := pkt.Children[1].Children
	require.Len(t, subs, 3)
	assert.EqualValues(t, filterSubstringInitial, subs[0].Tag)
	assert.Equal(t, "Bo", pString(subs[0]))
	assert.EqualValues(t, filterSubstringAny, subs[1].Tag)
	assert.Equal(t, "ob", pString(subs[1]))
	assert.EqualValues(t, filterSubstringFinal, subs[2].Tag)
	assert.Equal(t, "y", pString(subs[2]))
}

func TestCompileFilterExtensible(t *testing.T) {
	pkt, err := CompileFilter("(cn:caseExactMatch:=Bob)")
	require.NoError(t, err)
	assert.EqualValues(t, FilterExtensibleMatch, pkt.Tag)
	var sawRule, sawType, sawValue bool
	for _, child := range pkt.Children {
		switch child.Tag {
		case 1:
			sawRule = true
			assert.Equal(t, "caseExactMatch", pString(child))
		case 2:
			sawType = true
			assert.Equal(t, "cn", pString(child))
		case 3:
			sawValue = true
			assert.Equal(t, "Bob", pString(child))
		}
	}
	assert.True(t, sawRule)
	assert.True(t, sawType)
	assert.True(t, sawValue)
}

func TestCompileFilterEmptyIsNull(t *testing.T) {
	pkt, err := CompileFilter("")
	require.NoError(t, err)
	assert.EqualValues(t, TagNull, pkt.Tag)
}

func TestCompileFilterRejectsMalformed(t *testing.T) {
	_, err := CompileFilter("(cn=Bob")
	assert.Error(t, err)
}

func TestEscapeFilterValueRoundTrip(t *testing.T) {
	raw := "a(b)c\\d*e"
	escaped := EscapeFilterValue(raw)
	unescaped, err := unescapeFilterValue(escaped)
	require.NoError(t, err)
	assert.Equal(t, raw, unescaped)
}
