// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"net"
	"testing"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClientPipe wires a Client to one end of an in-memory net.Pipe,
// returning the other end for a test to play the server role on.
func newTestClientPipe() (*Client, net.Conn) {
	clientConn, serverConn := net.Pipe()
	c := NewClient()
	c.tr = &transport{conn: clientConn}
	c.host = "ldap.example.com"
	return c, serverConn
}

func ldapResultPacket(seq int64, appTag ber.Tag, desc string, resultCode int) *ber.Packet {
	envelope := newEnvelope(seq)
	op := ber.Encode(ClassApplication, TypeConstructed, appTag, nil, desc)
	op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagEnumerated, int64(resultCode), "resultCode"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "", "matchedDN"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "", "diagnosticMessage"))
	envelope.AppendChild(op)
	return envelope
}

func searchResultEntryPacket(seq int64, dn string, attrs map[string][]string) *ber.Packet {
	envelope := newEnvelope(seq)
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationSearchResultEntry, nil, "Search Result Entry")
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, dn, "objectName"))
	attrsPkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "attributes")
	for name, values := range attrs {
		attrPkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "attribute")
		attrPkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, name, "type"))
		valsPkt := ber.Encode(ClassUniversal, TypeConstructed, TagSet, nil, "vals")
		for _, v := range values {
			valsPkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, v, "val"))
		}
		attrPkt.AppendChild(valsPkt)
		attrsPkt.AppendChild(attrPkt)
	}
	op.AppendChild(attrsPkt)
	envelope.AppendChild(op)
	return envelope
}

func TestClientBindSuccess(t *testing.T) {
	c, serverConn := newTestClientPipe()
	defer serverConn.Close()

	go func() {
		req, err := ber.ReadPacket(serverConn)
		if err != nil {
			return
		}
		seq := pInt64(req.Children[0])
		resp := ldapResultPacket(seq, ApplicationBindResponse, "Bind Response", LDAPResultSuccess)
		serverConn.Write(resp.Bytes())
	}()

	err := c.Bind("cn=admin,dc=example,dc=com", "secret")
	require.NoError(t, err)
	assert.True(t, c.bound)
}

func TestClientBindInvalidCredentials(t *testing.T) {
	c, serverConn := newTestClientPipe()
	defer serverConn.Close()

	go func() {
		req, err := ber.ReadPacket(serverConn)
		if err != nil {
			return
		}
		seq := pInt64(req.Children[0])
		resp := ldapResultPacket(seq, ApplicationBindResponse, "Bind Response", LDAPResultInvalidCredentials)
		serverConn.Write(resp.Bytes())
	}()

	err := c.Bind("cn=admin,dc=example,dc=com", "wrong")
	require.Error(t, err)
	assert.False(t, c.bound)
	var ldapErr *Error
	require.ErrorAs(t, err, &ldapErr)
	assert.Equal(t, LDAPResultInvalidCredentials, ldapErr.ResultCode)
}

func TestClientSearchSingleEntry(t *testing.T) {
	c, serverConn := newTestClientPipe()
	defer serverConn.Close()

	go func() {
		req, err := ber.ReadPacket(serverConn)
		if err != nil {
			return
		}
		seq := pInt64(req.Children[0])
		entry := searchResultEntryPacket(seq, "cn=Bob,dc=example,dc=com", map[string][]string{
			"cn": {"Bob"},
		})
		serverConn.Write(entry.Bytes())
		done := ldapResultPacket(seq, ApplicationSearchResultDone, "Search Result Done", LDAPResultSuccess)
		serverConn.Write(done.Bytes())
	}()

	results, err := c.Search("dc=example,dc=com", "(cn=Bob)", []string{"cn"})
	require.NoError(t, err)
	require.Equal(t, 1, results.Len())
	assert.Equal(t, "cn=Bob,dc=example,dc=com", results.Entries[0].DN)
	assert.Equal(t, "Bob", results.Entries[0].Attributes.GetValue("cn"))
}

func TestClientCompareFalseIsNotAnError(t *testing.T) {
	c, serverConn := newTestClientPipe()
	defer serverConn.Close()

	go func() {
		req, err := ber.ReadPacket(serverConn)
		if err != nil {
			return
		}
		seq := pInt64(req.Children[0])
		resp := ldapResultPacket(seq, ApplicationCompareResponse, "Compare Response", LDAPResultCompareFalse)
		serverConn.Write(resp.Bytes())
	}()

	match, err := c.Compare("cn=Bob,dc=example,dc=com", "cn", "Alice")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestClientConnectedIgnoresArgument(t *testing.T) {
	c, serverConn := newTestClientPipe()
	defer serverConn.Close()
	c.bound = true
	assert.True(t, c.Connected(true))
	assert.True(t, c.Connected(false))
}
