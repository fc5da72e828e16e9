// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAttributeDetectsBinary(t *testing.T) {
	a := NewAttribute("objectGUID;binary")
	assert.True(t, a.IsBinary)
	b := NewAttribute("cn")
	assert.False(t, b.IsBinary)
}

func TestReadableValuesBinary(t *testing.T) {
	a := NewAttribute("objectGUID;binary")
	raw := []byte{0x01, 0x02, 0x03, 0xff}
	a.AddValue(raw)
	got := a.ReadableValues()
	assert.Equal(t, []string{base64.StdEncoding.EncodeToString(raw)}, got)
}

func TestReadableValuesEscapesControlBytes(t *testing.T) {
	a := NewAttribute("description")
	a.AddValue([]byte("hello\x01world"))
	assert.Equal(t, []string{`hello\01world`}, a.ReadableValues())
}

func TestReadableValuesKeepsTrailingNUL(t *testing.T) {
	a := NewAttribute("sambaNTPassword")
	a.AddValue([]byte("abc\x00"))
	assert.Equal(t, "abc\x00", a.ReadableValues()[0])
}

func TestAttributeListGetCaseInsensitive(t *testing.T) {
	var list AttributeList
	list.Add(&Attribute{Name: "objectClass", Values: [][]byte{[]byte("top")}})
	got := list.Get("OBJECTCLASS")
	assert.NotNil(t, got)
	assert.Equal(t, "top", list.GetValue("objectclass"))
}

func TestAttributeListGetMissing(t *testing.T) {
	var list AttributeList
	assert.Nil(t, list.Get("missing"))
	assert.Equal(t, "", list.GetValue("missing"))
	assert.Nil(t, list.GetValues("missing"))
}
